// Package config loads generator settings from .variantgen.{yaml,toml,json},
// VARIANTGEN_* environment variables and command-line flags.
package config

import (
	"go/token"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// FileName is the config file base name searched for in the working directory.
const FileName = ".variantgen"

// EnvPrefix prefixes environment overrides, e.g. VARIANTGEN_TAG_KEY.
const EnvPrefix = "VARIANTGEN"

// Config is the full generator configuration.
type Config struct {
	TagKey       string         `mapstructure:"tag_key"`
	Directive    string         `mapstructure:"directive"`
	BuildTag     string         `mapstructure:"build_tag"`
	OutputSuffix string         `mapstructure:"output_suffix"`
	RegistryFile string         `mapstructure:"registry_file"`
	Keywords     []string       `mapstructure:"keywords"`
	Optional     OptionalConfig `mapstructure:"optional"`
	Log          LogConfig      `mapstructure:"log"`
}

// OptionalConfig selects the wrapper used for optional fields. An empty Type
// means pointers.
type OptionalConfig struct {
	Type   string `mapstructure:"type"`   // e.g. "opt.Value", rendered as opt.Value[T]
	Import string `mapstructure:"import"` // import path providing Type's package
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tag_key", "variant")
	v.SetDefault("directive", "variant:generate")
	v.SetDefault("build_tag", "variantgen")
	v.SetDefault("output_suffix", "_variants.go")
	v.SetDefault("registry_file", "")
	v.SetDefault("keywords", []string{})
	v.SetDefault("optional.type", "")
	v.SetDefault("optional.import", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "warn")
}

// New returns a Viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	return v
}

// Load reads configuration into v and decodes it. With an empty path the
// working directory is searched for FileName and a missing file is not an
// error; an explicit path must exist.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "failed to read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if used := v.ConfigFileUsed(); used != "" && cfg.RegistryFile != "" && !filepath.IsAbs(cfg.RegistryFile) {
		cfg.RegistryFile = filepath.Join(filepath.Dir(used), cfg.RegistryFile)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration produced by defaults alone.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// Validate checks values that would otherwise produce broken output.
func (c *Config) Validate() error {
	if c.TagKey == "" || strings.ContainsAny(c.TagKey, " :\"`") {
		return errors.Newf("invalid tag_key %q", c.TagKey)
	}

	if c.Directive == "" || strings.ContainsAny(c.Directive, " \t") {
		return errors.Newf("invalid directive %q", c.Directive)
	}

	if c.BuildTag == "" {
		return errors.New("build_tag must not be empty")
	}

	if !strings.HasSuffix(c.OutputSuffix, ".go") || strings.HasSuffix(c.OutputSuffix, "_test.go") {
		return errors.WithHint(
			errors.Newf("invalid output_suffix %q", c.OutputSuffix),
			`use a suffix like "_variants.go"`,
		)
	}

	for _, k := range c.Keywords {
		if !token.IsIdentifier(k) {
			return errors.Newf("keyword %q is not an identifier", k)
		}
	}

	if c.Optional.Type != "" {
		qualifier, name, _ := strings.Cut(c.Optional.Type, ".")
		if !token.IsIdentifier(qualifier) || (name != "" && !token.IsIdentifier(name)) {
			return errors.Newf("invalid optional.type %q", c.Optional.Type)
		}

		if name != "" && c.Optional.Import == "" {
			return errors.WithHint(
				errors.Newf("optional.type %q is qualified but optional.import is empty", c.Optional.Type),
				"set optional.import to the package path providing the wrapper",
			)
		}
	} else if c.Optional.Import != "" {
		return errors.New("optional.import is set without optional.type")
	}

	return nil
}
