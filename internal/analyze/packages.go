package analyze

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

// ListMode is what ListPackageFiles asks go/packages for: file lists only,
// no type checking, so template files that redeclare generated types load fine.
const ListMode = packages.NeedName | packages.NeedFiles

// ListPackageFiles resolves package patterns (e.g. "./models", "example.com/app/...")
// to Go file paths. buildTag is passed to the build so template files are included.
func ListPackageFiles(dir string, buildTag string, patterns ...string) ([]string, error) {
	cfg := &packages.Config{
		Mode: ListMode,
		Dir:  dir,
	}

	if buildTag != "" {
		cfg.BuildFlags = []string{"-tags=" + buildTag}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Newf("package errors: %v", errs)
	}

	var files []string
	for _, pkg := range pkgs {
		files = append(files, pkg.GoFiles...)
	}

	if len(files) == 0 {
		return nil, errors.Newf("no Go files matched %v", patterns)
	}

	return files, nil
}

// PackageNames returns the declared package name of each import path as seen
// from dir. Paths go/packages cannot resolve are left out.
func PackageNames(dir string, paths ...string) (map[string]string, error) {
	if len(paths) == 0 {
		return map[string]string{}, nil
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName, Dir: dir}, paths...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	names := make(map[string]string, len(pkgs))
	for _, pkg := range pkgs {
		if pkg.Name != "" && len(pkg.Errors) == 0 {
			names[pkg.PkgPath] = pkg.Name
		}
	}

	return names, nil
}
