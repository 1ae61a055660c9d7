// Package cli implements the variant-generator commands.
package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"variant-generator/internal/config"
	"variant-generator/internal/logger"
)

// options is shared by all commands. It is filled in PersistentPreRunE.
type options struct {
	configPath string
	cfg        *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "variant-generator",
		Short: "Generate struct variants from annotated canonical structs",
		Long: `Generate struct variants from one annotated canonical struct.

Mark a struct with a directive listing its variants and annotate fields:

  //variant:generate create=CreateUser update=UpdateUser
  type User struct {
      ID   int    ` + "`variant:\"hide(create)\"`" + `
      Name string ` + "`variant:\"optional(update)\"`" + `
  }

Examples:
  variant-generator gen user.go          # Write user_variants.go
  variant-generator gen --pkg ./...      # Every file in the matched packages
  variant-generator check --pkg ./...    # Fail when generated files are stale
  variant-generator inspect user.go      # Dump the parsed model
  //go:generate variant-generator gen    # Uses $GOFILE`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: ./"+config.FileName+".{yaml,toml,json})")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.Bool("log-json", false, "Log as JSON")
	flags.String("registry", "", "YAML registry file with variant assignments")

	root.AddCommand(
		newGenCmd(opts),
		newCheckCmd(opts),
		newInspectCmd(opts),
		newWatchCmd(opts),
	)

	return root
}

func (o *options) load(cmd *cobra.Command) error {
	v := config.New()

	bindings := map[string]string{
		"log.level":     "log-level",
		"log.json":      "log-json",
		"registry_file": "registry",
	}

	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return errors.Wrapf(err, "binding flag --%s", flag)
		}
	}

	cfg, err := config.Load(v, o.configPath)
	if err != nil {
		return err
	}

	if err := logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	logger.Logger.Debugw("configuration loaded", "file", v.ConfigFileUsed(), "registry", cfg.RegistryFile)

	o.cfg = cfg

	return nil
}
