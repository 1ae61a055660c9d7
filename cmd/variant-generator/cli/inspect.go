package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"variant-generator/internal/variant"
)

func newInspectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Dump the parsed model, registry and derived structs of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, opts, args[0])
		},
	}
}

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runInspect(cmd *cobra.Command, opts *options, path string) error {
	p, err := newPipeline(opts.cfg, "")
	if err != nil {
		return err
	}

	res, err := p.plan([]string{path})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, pl := range res.Plans {
		registry := &variant.File{Version: "1"}

		for _, it := range pl.Items {
			fmt.Fprintf(out, "%s %s\n", pterm.LightCyan("struct"), it.Struct().Name)
			dumper.Fdump(out, it.Struct())

			registry.Types = append(registry.Types, variant.TypeEntry{
				Name:        it.Struct().Name,
				Assignments: it.Registry.Entries(),
			})

			variants := it.Variants()
			for i := range variants {
				s, err := p.generator.GenerateStruct(&variants[i])
				if err != nil {
					return err
				}

				fmt.Fprintf(out, "%s %s\n%s\n", pterm.LightGreen("variant"), variants[i].Variant, s)
			}
		}

		fmt.Fprintf(out, "%s\n%s", pterm.LightCyan("registry"), registry)
	}

	printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)

	return nil
}
