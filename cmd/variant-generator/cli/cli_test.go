package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const userSrc = `package models

//variant:generate create=CreateUser update=UpdateUser
type User struct {
	ID    int    ` + "`json:\"id\" variant:\"hide(create)\"`" + `
	Name  string ` + "`json:\"name\" variant:\"optional(update)\"`" + `
	Email string ` + "`json:\"email\"`" + `
}
`

func TestMain(m *testing.M) {
	pterm.DisableColor()
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestGen_WritesVariants(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", userSrc)

	stdout, _, err := execute(t, "gen", src)
	require.NoError(t, err)

	out := filepath.Join(dir, "user_variants.go")
	assert.Contains(t, stdout, out)

	content, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(content), "type CreateUser struct {")
	assert.Contains(t, string(content), "Name  *string `json:\"name\"`")
}

func TestGen_UsesGOFILE(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", userSrc)

	t.Setenv("GOFILE", src)

	_, _, err := execute(t, "gen")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "user_variants.go"))
}

func TestGen_WarningsDoNotBlock(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "team.go", `package models

//variant:generate update=UpdateTeam
type Team struct {
	Lead *string `+"`variant:\"optional(update)\"`"+`
}
`)

	_, stderr, err := execute(t, "gen", src)
	require.NoError(t, err)

	assert.Contains(t, stderr, "warning[nested_pointer]")
	assert.Contains(t, stderr, "Team.Lead")
	assert.NotContains(t, stderr, "violation(s)")

	content, err := os.ReadFile(filepath.Join(dir, "team_variants.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Lead **string")
}

func TestGen_NoInput(t *testing.T) {
	t.Setenv("GOFILE", "")

	_, _, err := execute(t, "gen")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input files")
}

func TestGen_ViolationsWriteNothing(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "user.go", userSrc)
	bad := writeFile(t, dir, "post.go", `package models

//variant:generate create=CreatePost
type Post struct {
	ID   int    `+"`variant:\"hide(archive)\"`"+`
	Body string `+"`variant:\"hide(create),optional(create)\"`"+`
}
`)

	_, stderr, err := execute(t, "gen", good, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errViolations))

	assert.Contains(t, stderr, "error[unknown_variant]")
	assert.Contains(t, stderr, "Post.ID")
	assert.Contains(t, stderr, "error[conflicting_rules]")
	assert.Contains(t, stderr, "2 violation(s)")

	assert.NoFileExists(t, filepath.Join(dir, "user_variants.go"))
	assert.NoFileExists(t, filepath.Join(dir, "post_variants.go"))
}

func TestGen_FatalAnnotation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", `package models

//variant:generate create=CreateUser
type User struct {
	ID int `+"`variant:\"skip(create)\"`"+`
}
`)

	_, _, err := execute(t, "gen", src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User.ID")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", userSrc)

	_, _, err := execute(t, "check", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStale), "missing output is stale")

	_, _, err = execute(t, "gen", src)
	require.NoError(t, err)

	stdout, _, err := execute(t, "check", src)
	require.NoError(t, err)
	assert.Contains(t, stdout, "ok")

	writeFile(t, dir, "user.go", userSrc+"\n//variant:generate show=UserView\ntype Profile struct{ Bio string }\n")

	stdout, _, err = execute(t, "check", src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errStale))
	assert.Contains(t, stdout, "UserView")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", userSrc)

	stdout, _, err := execute(t, "inspect", src)
	require.NoError(t, err)

	assert.Contains(t, stdout, "struct User")
	assert.Contains(t, stdout, `Name: (string) (len=5) "Email"`)
	assert.Contains(t, stdout, "variant update")
	assert.Contains(t, stdout, "type UpdateUser struct {")
	assert.Contains(t, stdout, "    create: CreateUser")
}

func TestGen_RegistryFileFromConfig(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", `package models

type User struct {
	ID   int    `+"`variant:\"hide(create)\"`"+`
	Name string
}
`)
	writeFile(t, dir, "variants.yaml", "version: \"1\"\ntypes:\n  User:\n    create: NewUser\n")
	cfg := writeFile(t, dir, "variantgen.yaml", "registry_file: variants.yaml\noutput_suffix: _gen.go\n")

	_, _, err := execute(t, "--config", cfg, "gen", src)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "user_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "type NewUser struct {\n\tName string\n}")
}

func TestGen_OutDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "generated")
	src := writeFile(t, dir, "user.go", userSrc)

	_, _, err := execute(t, "gen", "--out", out, src)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "user_variants.go"))
}

func TestGen_SkipsGeneratedFiles(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "user.go", userSrc)

	_, _, err := execute(t, "gen", src)
	require.NoError(t, err)

	stdout, _, err := execute(t, "gen", src, filepath.Join(dir, "user_variants.go"))
	require.NoError(t, err)
	assert.NotContains(t, stdout, "user_variants_variants.go")
}
