package diagnostic

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddAndErr(t *testing.T) {
	var d Diagnostics
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Err())

	d.Add(Diagnostic{Severity: SeverityWarning, Code: CodeNestedPointer, Message: "just a warning", Struct: "User"})
	assert.False(t, d.HasErrors())
	require.NoError(t, d.Err())
	assert.Len(t, d.Warnings, 1)

	d.Add(Diagnostic{Severity: SeverityError, Code: CodeUnknownVariant, Message: `variant "archive" is not registered`, Struct: "User", Field: "ID"})
	d.Add(Diagnostic{Severity: SeverityError, Code: CodeConflictingRules, Message: "hide and optional", Struct: "User", Field: "Name"})

	assert.True(t, d.HasErrors())
	err := d.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 violation(s)")
	assert.Contains(t, err.Error(), "User.ID: [unknown_variant]")
	assert.Contains(t, err.Error(), "User.Name: [conflicting_rules]")
	assert.Equal(t, []string{CodeUnknownVariant, CodeConflictingRules}, d.Codes())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{
		Severity:    SeverityError,
		Code:        CodeUnknownVariant,
		Message:     `unknown variant "creat"`,
		Struct:      "User",
		Field:       "ID",
		Pos:         token.Position{Filename: "user.go", Line: 7, Column: 2},
		Suggestions: []string{"create"},
	}

	assert.Equal(t, `user.go:7:2 User.ID: [unknown_variant] unknown variant "creat" (did you mean create?)`, d.String())
	assert.Equal(t, d.String(), d.Error())
}

func TestDiagnostics_MergeAndSort(t *testing.T) {
	a := &Diagnostics{}
	a.Add(Diagnostic{Severity: SeverityError, Code: "b", Pos: token.Position{Filename: "x.go", Line: 9}})

	b := &Diagnostics{}
	b.Add(Diagnostic{Severity: SeverityError, Code: "a", Pos: token.Position{Filename: "x.go", Line: 3}})
	b.Add(Diagnostic{Severity: SeverityWarning, Code: "w"})

	a.Merge(b)
	a.Merge(nil)
	a.Sort()

	require.Len(t, a.Errors, 2)
	assert.Equal(t, "a", a.Errors[0].Code)
	assert.Equal(t, "b", a.Errors[1].Code)
	assert.Len(t, a.Warnings, 1)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
