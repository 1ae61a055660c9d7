package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes unformatted code to a sidecar file next to the
// intended output. This is best-effort and should never make generation fail
// harder.
func writeDebugUnformatted(outPath string, content []byte) error {
	if outPath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(outPath), dirPerm); err != nil {
		return err
	}
	// Keep it a .go file so editors can syntax highlight, but avoid colliding with
	// real output.
	return os.WriteFile(UnformattedPath(outPath), content, filePerm)
}

// UnformattedPath returns the sidecar path used when outPath fails to format.
func UnformattedPath(outPath string) string {
	return strings.TrimSuffix(outPath, ".go") + ".unformatted.go"
}
