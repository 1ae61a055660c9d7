package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"variant-generator/internal/diagnostic"
)

// printDiagnostics writes one line per diagnostic, errors first.
func printDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	if diags == nil {
		return
	}

	diags.Sort()

	for _, d := range diags.Errors {
		printDiagnostic(w, d, pterm.Red)
	}

	for _, d := range diags.Warnings {
		printDiagnostic(w, d, pterm.Yellow)
	}

	if n := len(diags.Errors); n > 0 {
		fmt.Fprintf(w, "%s\n", pterm.Red(fmt.Sprintf("%d violation(s), nothing generated", n)))
	}
}

func printDiagnostic(w io.Writer, d diagnostic.Diagnostic, color func(a ...interface{}) string) {
	var subject []string

	if d.Pos.IsValid() {
		subject = append(subject, d.Pos.String())
	}

	name := d.Struct
	if d.Field != "" {
		name += "." + d.Field
	}

	if name != "" {
		subject = append(subject, name)
	}

	fmt.Fprintf(w, "%s %s %s\n",
		color(d.Severity.String()+"["+d.Code+"]"),
		pterm.Gray(strings.Join(subject, " ")),
		d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(w, "  %s %s\n", pterm.Green("did you mean:"), strings.Join(d.Suggestions, ", "))
	}
}
