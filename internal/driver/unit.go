// Package driver runs the HIR -> ownership -> lifetime -> verify ->
// codegen pipeline over one or many translation units, fanning out across
// a worker pool and consulting an on-disk cache keyed by each unit's AST
// content hash.
//
// Grounded on the teacher's internal/driver (DiagnoseDirWithOptions in
// parallel.go: list files, load each into a shared read-only FileSet,
// bound concurrency with errgroup.SetLimit, collect per-unit results into
// a pre-sized slice by index so output order is deterministic regardless
// of completion order; dcache.go: msgpack-encoded disk cache entries keyed
// by a content digest). Scaled from Surge's module/import-graph model
// (modules import each other, so ordering and a dependency DAG matter) to
// one independent AST document per translation unit, since a C
// compilation unit has no analogous cross-unit semantic dependency this
// pipeline needs to resolve before emitting it.
package driver

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"

	"csafe/internal/analyzer"
	"csafe/internal/cast"
	"csafe/internal/catalog"
	"csafe/internal/codegen"
	"csafe/internal/diag"
	"csafe/internal/hir"
	"csafe/internal/lifetime"
	"csafe/internal/ownership"
	"csafe/internal/source"
	"csafe/internal/verify"
)

// UnitResult is one translation unit's outcome.
type UnitResult struct {
	Path     string
	Output   string
	Bag      *diag.Bag
	FileSet  *source.FileSet   // nil on a cache hit; diagnostics weren't persisted either
	Manifest *codegen.Manifest // debug region manifest; nil on a cache hit
	Clean    bool              // true when verify found nothing worth a non-zero exit
	Err      error
	Cached   bool
	Content  [32]byte // sha256 of the input AST document, the cache key
}

// RunOptions configures one unit's (or a directory's) pipeline run.
type RunOptions struct {
	Catalog        *catalog.Catalog
	MaxDiagnostics int
	UseCache       bool
	Jobs           int
}

func (o RunOptions) catalog() *catalog.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return catalog.Default()
}

func (o RunOptions) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return 256
}

// RunFile decodes the cast.Document at path, runs it through the full
// pipeline, and returns the rendered target-language source plus the
// diagnostics collected along the way. Source content is read once; the
// same bytes double as the disk cache key.
func RunFile(ctx context.Context, path string, opts RunOptions) (*UnitResult, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	return runDocument(ctx, path, raw, opts)
}

func readFile(path string) ([]byte, error) {
	// #nosec G304 -- path is supplied by the caller (CLI argument or a
	// directory listing driver itself produced)
	return os.ReadFile(path)
}

func contentDigest(raw []byte) [32]byte {
	return sha256.Sum256(raw)
}

func runDocument(ctx context.Context, path string, raw []byte, opts RunOptions) (*UnitResult, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	tree, err := cast.DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("driver: %s: %w", path, err)
	}

	res, err := runTree(path, tree, opts)
	if err != nil {
		return nil, err
	}
	res.Content = contentDigest(raw)
	return res, nil
}

// runTree is runDocument's tree-already-decoded half, split out so tests
// can drive the pipeline from a hand-built cast.Tree (as the ownership/
// lifetime/verify packages' own tests do with cast.NewBuilder) without
// round-tripping through the JSON wire format.
func runTree(path string, tree *cast.Tree, opts RunOptions) (*UnitResult, error) {
	res := &UnitResult{Path: path}

	fileSet := source.NewFileSet()
	fileID := fileSet.AddVirtual(path, nil)
	file := fileSet.Get(fileID)

	bag := diag.NewBag(opts.maxDiagnostics())
	reporter := diag.BagReporter{Bag: bag}

	lowerer := hir.NewLowerer(tree, file, reporter)
	mod := lowerer.LowerModule()
	mod.Name = path

	cat := opts.catalog()
	results := analyzer.AnalyzeModule(mod)
	ownership.Run(mod, results, cat, reporter)
	lifetime.Run(mod, results, reporter)
	ver := verify.Run(mod, results, cat, reporter)

	out, manifest, err := codegen.Emit(mod, cat, ver, reporter)
	if err != nil {
		return nil, fmt.Errorf("driver: %s: emit: %w", path, err)
	}

	res.Output = out
	res.Bag = bag
	res.FileSet = fileSet
	res.Manifest = manifest
	res.Clean = ver == nil || ver.Clean()
	return res, nil
}
