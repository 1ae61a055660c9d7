package cli

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"variant-generator/internal/gen"
)

type genOptions struct {
	*options
	pkgs   []string
	outDir string
}

func newGenCmd(opts *options) *cobra.Command {
	o := &genOptions{options: opts}

	cmd := &cobra.Command{
		Use:   "gen [files...]",
		Short: "Generate variant structs",
		Long: `Generate variant structs for every canonical struct in the given files.

If any struct fails the consistency check, all violations are printed and no
file is written.`,
		RunE: o.run,
	}

	cmd.Flags().StringSliceVar(&o.pkgs, "pkg", nil, "Package patterns to scan instead of files")
	cmd.Flags().StringVar(&o.outDir, "out", "", "Output directory (default: next to each source)")

	return cmd
}

func (o *genOptions) run(cmd *cobra.Command, args []string) error {
	files, err := inputFiles(args, o.pkgs, o.cfg.BuildTag)
	if err != nil {
		return err
	}

	p, err := newPipeline(o.cfg, o.outDir)
	if err != nil {
		return err
	}

	res, err := p.run(files)
	if res != nil {
		printDiagnostics(cmd.ErrOrStderr(), res.Diagnostics)
	}

	if err != nil {
		return err
	}

	if err := gen.WriteFiles(res.Files); err != nil {
		return err
	}

	for _, f := range res.Files {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", pterm.Green("wrote"), f.Path)
	}

	return nil
}
