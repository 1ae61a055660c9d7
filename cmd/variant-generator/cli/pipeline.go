package cli

import (
	"bytes"
	"os"

	"github.com/cockroachdb/errors"

	"variant-generator/internal/analyze"
	"variant-generator/internal/config"
	"variant-generator/internal/diagnostic"
	"variant-generator/internal/gen"
	"variant-generator/internal/plan"
	"variant-generator/internal/transform"
	"variant-generator/internal/variant"
)

// errViolations is returned after violations have been printed.
var errViolations = errors.New("consistency check failed")

// pipeline wires loading, resolution and generation for one configuration.
type pipeline struct {
	loader    *analyze.Loader
	resolve   plan.ResolutionConfig
	generator *gen.Generator
}

// result is the outcome of one run over a set of files.
type result struct {
	Plans       []*plan.Plan
	Files       []*gen.GeneratedFile
	Diagnostics *diagnostic.Diagnostics
}

func newPipeline(cfg *config.Config, outDir string) (*pipeline, error) {
	var registry *variant.File

	if cfg.RegistryFile != "" {
		f, err := variant.LoadFile(cfg.RegistryFile)
		if err != nil {
			return nil, err
		}

		registry = f
	}

	wrapper := transform.NewWrapper(cfg.Optional.Type, cfg.Optional.Import)

	loaderCfg := analyze.LoaderConfig{
		TagKey:    cfg.TagKey,
		Directive: cfg.Directive,
		BuildTag:  cfg.BuildTag,
	}

	if registry != nil {
		for _, t := range registry.Types {
			loaderCfg.Include = append(loaderCfg.Include, t.Name)
		}
	}

	return &pipeline{
		loader: analyze.NewLoader(loaderCfg),
		resolve: plan.ResolutionConfig{
			Registry: registry,
			Wrapper:  wrapper,
			Keywords: cfg.Keywords,
		},
		generator: gen.NewGenerator(gen.GeneratorConfig{
			OutputSuffix: cfg.OutputSuffix,
			OutputDir:    outDir,
			TagKey:       cfg.TagKey,
			Wrapper:      wrapper,
		}),
	}, nil
}

// plan loads and resolves paths. Generated files are skipped. Fatal errors
// stop the run; violations are collected across all files.
func (p *pipeline) plan(paths []string) (*result, error) {
	res := &result{Diagnostics: &diagnostic.Diagnostics{}}

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}

		if bytes.HasPrefix(src, []byte(gen.Header)) {
			continue
		}

		sf, err := p.loader.ParseSource(path, src)
		if err != nil {
			return nil, err
		}

		pl, err := plan.NewResolver(sf, p.resolve).Resolve()
		if err != nil {
			return nil, err
		}

		res.Plans = append(res.Plans, pl)
		res.Diagnostics.Merge(&pl.Diagnostics)
	}

	return res, nil
}

// run plans paths and, when every file is consistent, generates all outputs.
// Nothing is generated if any file has violations.
func (p *pipeline) run(paths []string) (*result, error) {
	res, err := p.plan(paths)
	if err != nil {
		return nil, err
	}

	if res.Diagnostics.HasErrors() {
		return res, errViolations
	}

	for _, pl := range res.Plans {
		file, err := p.generator.Generate(pl)
		if err != nil {
			return res, err
		}

		if file != nil {
			res.Files = append(res.Files, file)
		}
	}

	return res, nil
}

// inputFiles resolves the files a command works on: explicit arguments,
// then --pkg patterns, then $GOFILE as set by go generate.
func inputFiles(args, pkgs []string, buildTag string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	if len(pkgs) > 0 {
		return analyze.ListPackageFiles(".", buildTag, pkgs...)
	}

	if f := os.Getenv("GOFILE"); f != "" {
		return []string{f}, nil
	}

	return nil, errors.WithHint(
		errors.New("no input files"),
		"pass files, use --pkg, or run from a //go:generate directive",
	)
}
