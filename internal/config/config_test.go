package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "variant", cfg.TagKey)
	assert.Equal(t, "variant:generate", cfg.Directive)
	assert.Equal(t, "variantgen", cfg.BuildTag)
	assert.Equal(t, "_variants.go", cfg.OutputSuffix)
	assert.Empty(t, cfg.Optional.Type)
	assert.Equal(t, "warn", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tag_key: dto
output_suffix: _dto.go
registry_file: variants.yaml
keywords: [create, update]
optional:
  type: opt.Value
  import: example.com/opt
log:
  level: debug
`), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.Equal(t, "dto", cfg.TagKey)
	assert.Equal(t, "_dto.go", cfg.OutputSuffix)
	assert.Equal(t, filepath.Join(dir, "variants.yaml"), cfg.RegistryFile)
	assert.Equal(t, []string{"create", "update"}, cfg.Keywords)
	assert.Equal(t, "opt.Value", cfg.Optional.Type)
	assert.Equal(t, "example.com/opt", cfg.Optional.Import)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "variant:generate", cfg.Directive, "unset keys keep defaults")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("VARIANTGEN_TAG_KEY", "shape")
	t.Setenv("VARIANTGEN_OPTIONAL_TYPE", "Maybe")

	dir := t.TempDir()
	path := filepath.Join(dir, "gen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tag_key: dto\n"), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)
	assert.Equal(t, "shape", cfg.TagKey)
	assert.Equal(t, "Maybe", cfg.Optional.Type)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoad_NoFileSearched(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "variant", cfg.TagKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{name: "tag key with colon", mutate: func(c *Config) { c.TagKey = "a:b" }, msg: "invalid tag_key"},
		{name: "empty directive", mutate: func(c *Config) { c.Directive = "" }, msg: "invalid directive"},
		{name: "empty build tag", mutate: func(c *Config) { c.BuildTag = "" }, msg: "build_tag"},
		{name: "suffix not go", mutate: func(c *Config) { c.OutputSuffix = "_variants.txt" }, msg: "output_suffix"},
		{name: "suffix test file", mutate: func(c *Config) { c.OutputSuffix = "_test.go" }, msg: "output_suffix"},
		{name: "bad keyword", mutate: func(c *Config) { c.Keywords = []string{"two words"} }, msg: "not an identifier"},
		{name: "bad optional type", mutate: func(c *Config) { c.Optional.Type = "opt.Value.X" }, msg: "invalid optional.type"},
		{name: "qualified without import", mutate: func(c *Config) { c.Optional.Type = "opt.Value" }, msg: "optional.import is empty"},
		{name: "import without type", mutate: func(c *Config) { c.Optional.Import = "example.com/opt" }, msg: "without optional.type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
