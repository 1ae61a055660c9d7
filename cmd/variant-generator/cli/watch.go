package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"variant-generator/internal/gen"
	"variant-generator/internal/watch"
)

type watchOptions struct {
	*options
	pkgs   []string
	outDir string
}

func newWatchCmd(opts *options) *cobra.Command {
	o := &watchOptions{options: opts}

	cmd := &cobra.Command{
		Use:   "watch [files...]",
		Short: "Regenerate whenever a source file changes",
		RunE:  o.run,
	}

	cmd.Flags().StringSliceVar(&o.pkgs, "pkg", nil, "Package patterns to scan instead of files")
	cmd.Flags().StringVar(&o.outDir, "out", "", "Output directory (default: next to each source)")

	return cmd
}

func (o *watchOptions) run(cmd *cobra.Command, args []string) error {
	files, err := inputFiles(args, o.pkgs, o.cfg.BuildTag)
	if err != nil {
		return err
	}

	p, err := newPipeline(o.cfg, o.outDir)
	if err != nil {
		return err
	}

	regenerate := func(_ context.Context, paths []string) error {
		res, err := p.run(paths)
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

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if err := regenerate(ctx, files); err != nil {
		pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(err.Error())
	}

	w, err := watch.New(files, watch.DefaultDebounce)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %d file(s), press Ctrl+C to stop\n", pterm.LightCyan("watching"), len(files))

	return w.Run(ctx, regenerate)
}
