package gen

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"variant-generator/internal/logger"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files, creating their directories as
// needed. A stale unformatted sidecar from an earlier failed run is removed.
func WriteFiles(files []*GeneratedFile) error {
	for _, file := range files {
		if err := os.MkdirAll(filepath.Dir(file.Path), dirPerm); err != nil {
			return errors.Wrapf(err, "creating output directory for %s", file.Path)
		}

		if err := os.WriteFile(file.Path, file.Content, filePerm); err != nil {
			return errors.Wrapf(err, "writing file %s", file.Path)
		}

		if err := os.Remove(UnformattedPath(file.Path)); err != nil && !os.IsNotExist(err) {
			logger.Logger.Warnw("failed to remove unformatted sidecar", "path", file.Path, "error", err)
		}

		logger.Logger.Infow("wrote file", "file", file.Filename(), "dir", filepath.Dir(file.Path), "source", file.Source)
	}

	return nil
}
