package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"variant-generator/internal/gen"
)

// errStale is returned when generated files differ from what gen would write.
var errStale = errors.New("generated files are out of date")

type checkOptions struct {
	*options
	pkgs   []string
	outDir string
}

func newCheckCmd(opts *options) *cobra.Command {
	o := &checkOptions{options: opts}

	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Check that generated files are up to date",
		Long: `Generate in memory and compare with the files on disk.

Exits non-zero and prints a diff when a file is missing or stale.`,
		RunE: o.run,
	}

	cmd.Flags().StringSliceVar(&o.pkgs, "pkg", nil, "Package patterns to scan instead of files")
	cmd.Flags().StringVar(&o.outDir, "out", "", "Output directory used by gen")

	return cmd
}

func (o *checkOptions) run(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	stale := 0

	for _, f := range res.Files {
		diff, err := gen.Compare(f)
		if err != nil {
			return err
		}

		if diff == "" {
			fmt.Fprintf(out, "%s %s\n", pterm.Green("ok"), f.Path)
			continue
		}

		stale++

		fmt.Fprintf(out, "%s %s (-current +generated):\n%s\n", pterm.Red("stale"), f.Path, diff)
	}

	if stale > 0 {
		return errors.WithHint(
			errors.Wrapf(errStale, "%d file(s)", stale),
			"run variant-generator gen",
		)
	}

	return nil
}
