package gen

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
)

// Compare returns a line diff between the file on disk and its freshly
// generated content, or "" when they match. A missing file diffs against
// empty content.
func Compare(file *GeneratedFile) (string, error) {
	current, err := os.ReadFile(file.Path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "reading %s", file.Path)
	}

	return cmp.Diff(lines(current), lines(file.Content)), nil
}

func lines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}

	return strings.Split(string(b), "\n")
}
