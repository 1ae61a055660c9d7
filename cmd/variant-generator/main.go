// Package main provides the CLI entrypoint for variant-generator.
//
// variant-generator derives struct variants (create, update, show, ...) from
// one annotated canonical struct:
//   - Reads canonical structs marked with a //variant:generate directive
//   - Applies hide, optional and show field annotations per variant
//   - Reports every inconsistency between annotations and registered variants
//   - Writes formatted Go files next to the sources
package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"variant-generator/cmd/variant-generator/cli"
	"variant-generator/internal/logger"
)

func main() {
	err := cli.NewRootCmd().Execute()

	logger.Sync()

	if err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())

		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.WithWriter(os.Stderr).Println(hint)
		}

		os.Exit(1)
	}
}
