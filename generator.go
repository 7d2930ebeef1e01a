package gslgen

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jward/gslgen/internal/emit"
	"github.com/jward/gslgen/internal/hdr"
	"github.com/jward/gslgen/internal/manual"
	"github.com/jward/gslgen/internal/patch"
	"github.com/jward/gslgen/internal/script"
	"github.com/jward/gslgen/internal/testgen"
	"github.com/jward/gslgen/templates"
)

const (
	metaHeadersHash = "headers_sha256"
	metaLastSync    = "last_sync"
)

// Generator drives the full pipeline over a function database: scan
// headers, emit module sources, splice manual documentation and
// conformance tests, and sync the database. The stages are independent
// entry points but order matters; Run sequences them correctly.
type Generator struct {
	db         *Database
	gslDir     string
	outDir     string
	manualPath string
	pkg        string
	tmplFS     fs.FS
	renderer   *emit.Renderer
	log        *zap.Logger

	// descriptors caches per-module scan results between stages so each
	// header is parsed once per run.
	descriptors map[string][]*hdr.Descriptor
	headersHash string
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithGSLDir sets the GSL source tree root.
func WithGSLDir(dir string) Option {
	return func(g *Generator) { g.gslDir = dir }
}

// WithOutDir sets the directory emitted sources are written to.
func WithOutDir(dir string) Option {
	return func(g *Generator) { g.outDir = dir }
}

// WithManualPath sets the reference-manual HTML file used for doc
// injection.
func WithManualPath(path string) Option {
	return func(g *Generator) { g.manualPath = path }
}

// WithPackageName sets the package clause of emitted sources.
func WithPackageName(pkg string) Option {
	return func(g *Generator) { g.pkg = pkg }
}

// WithTemplates overrides the embedded emission templates.
func WithTemplates(fsys fs.FS) Option {
	return func(g *Generator) { g.tmplFS = fsys }
}

// NewGenerator wraps an open database with pipeline state. The caller
// keeps ownership of the database; closing the Generator closes it.
func NewGenerator(db *Database, opts ...Option) (*Generator, error) {
	g := &Generator{
		db:          db,
		gslDir:      "gsl",
		outDir:      "sf",
		manualPath:  "specfunc.html",
		pkg:         "sf",
		tmplFS:      templates.FS,
		log:         zap.NewNop(),
		descriptors: make(map[string][]*hdr.Descriptor),
	}
	for _, opt := range opts {
		opt(g)
	}
	renderer, err := emit.NewRenderer(g.tmplFS)
	if err != nil {
		return nil, err
	}
	g.renderer = renderer
	return g, nil
}

// Close releases the underlying database.
func (g *Generator) Close() error {
	return g.db.Close()
}

// Database returns the wrapped function database.
func (g *Generator) Database() *Database {
	return g.db
}

// Run executes the whole pipeline in its fixed order and syncs the
// database at the end.
func (g *Generator) Run(ctx context.Context, modules []Module) error {
	if err := g.BuildDatabase(ctx, modules); err != nil {
		return err
	}
	if err := g.EmitModules(modules); err != nil {
		return err
	}
	if err := g.InjectDocs(modules); err != nil {
		return err
	}
	if err := g.InjectTests(modules); err != nil {
		return err
	}
	return g.Sync()
}

// BuildDatabase scans and decomposes every module header, then merges
// the descriptors into the database. A header that fails the
// decomposition contract aborts the run. Emission stages read the
// per-module descriptor cache this stage fills.
func (g *Generator) BuildDatabase(ctx context.Context, modules []Module) error {
	hash := sha256.New()
	var all []*hdr.Descriptor
	for _, m := range modules {
		src, err := os.ReadFile(m.HeaderPath(g.gslDir))
		if err != nil {
			return fmt.Errorf("read header for %s: %w", m.Name, err)
		}
		hash.Write([]byte(m.HeaderName()))
		hash.Write(src)

		descs, err := hdr.DecomposeHeader(ctx, src)
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		g.descriptors[m.Name] = descs
		all = append(all, descs...)
		g.log.Debug("scanned header",
			zap.String("module", m.Name),
			zap.Int("functions", len(descs)))
	}

	before := g.db.Len()
	g.db.Update(all)
	g.headersHash = hex.EncodeToString(hash.Sum(nil))
	g.log.Info("database updated",
		zap.Int("scanned", len(all)),
		zap.Int("new", g.db.Len()-before),
		zap.Int("total", g.db.Len()))
	return nil
}

// HashHeaders computes the combined digest of the module headers under
// gslDir, using the same scheme BuildDatabase records at sync. Lets the
// CLI report staleness without a full scan.
func HashHeaders(gslDir string, modules []Module) (string, error) {
	h := sha256.New()
	for _, m := range modules {
		src, err := os.ReadFile(m.HeaderPath(gslDir))
		if err != nil {
			return "", fmt.Errorf("read header for %s: %w", m.Name, err)
		}
		h.Write([]byte(m.HeaderName()))
		h.Write(src)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// EmitModules renders every module binding file, its test scaffold, and
// the shared support files into the output directory. Requires a prior
// BuildDatabase in the same run.
func (g *Generator) EmitModules(modules []Module) error {
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	support, err := g.renderer.Support(g.pkg)
	if err != nil {
		return err
	}
	if err := g.writeOut("support.go", support); err != nil {
		return err
	}
	testSupport, err := g.renderer.TestSupport(g.pkg)
	if err != nil {
		return err
	}
	if err := g.writeOut("support_test.go", testSupport); err != nil {
		return err
	}

	for _, m := range modules {
		descs, ok := g.descriptors[m.Name]
		if !ok {
			return fmt.Errorf("emit %s: module not scanned; build the database first", m.Name)
		}
		data := emit.BuildModuleData(g.pkg, m.HeaderName(), descs, g.db.GoName, g.excluded)
		contents, err := g.renderer.Module(data)
		if err != nil {
			return fmt.Errorf("emit %s: %w", m.Name, err)
		}
		if err := os.WriteFile(m.OutPath(g.outDir), []byte(contents), 0o644); err != nil {
			return fmt.Errorf("emit %s: %w", m.Name, err)
		}
		scaffold, err := g.renderer.TestScaffold(g.pkg, m.TestSourceName())
		if err != nil {
			return fmt.Errorf("emit %s: %w", m.Name, err)
		}
		if err := os.WriteFile(m.TestOutPath(g.outDir), []byte(scaffold), 0o644); err != nil {
			return fmt.Errorf("emit %s: %w", m.Name, err)
		}
		g.log.Info("emitted module",
			zap.String("module", m.Name),
			zap.Int("functions", len(data.EFuncs)+len(data.PlainFuncs)))
	}
	return nil
}

// InjectDocs splices reference-manual prose above each generated
// function of the output-struct family. A function with no manual entry
// is skipped; a missing or duplicated signature marker is fatal. This
// stage must run exactly once per freshly emitted module.
func (g *Generator) InjectDocs(modules []Module) error {
	f, err := os.Open(g.manualPath)
	if err != nil {
		return fmt.Errorf("open manual: %w", err)
	}
	docs, err := manual.Extract(f)
	f.Close()
	if err != nil {
		return err
	}
	g.log.Info("manual parsed", zap.Int("entries", len(docs)))

	for _, m := range modules {
		descs, ok := g.descriptors[m.Name]
		if !ok {
			return fmt.Errorf("inject docs %s: module not scanned; build the database first", m.Name)
		}
		raw, err := os.ReadFile(m.OutPath(g.outDir))
		if err != nil {
			return fmt.Errorf("inject docs %s: %w", m.Name, err)
		}
		contents := string(raw)

		injected := 0
		for _, d := range descs {
			if g.excluded(d.CName) || !hdr.OutputStructProfile(d) {
				continue
			}
			prose, ok := docs[hdr.CanonicalName(d.CName)]
			if !ok {
				g.log.Debug("no manual entry", zap.String("function", d.CName))
				continue
			}
			contents, err = patch.InjectDoc(contents, g.db.GoName(d.CName), prose)
			if err != nil {
				return fmt.Errorf("module %s: %w", m.Name, err)
			}
			injected++
		}
		if err := os.WriteFile(m.OutPath(g.outDir), []byte(contents), 0o644); err != nil {
			return fmt.Errorf("inject docs %s: %w", m.Name, err)
		}
		g.log.Info("injected docs",
			zap.String("module", m.Name),
			zap.Int("functions", injected))
	}
	return nil
}

// InjectTests extracts assertion records from each module's native test
// source and splices the rendered block after the test-section boundary
// of the emitted test file. Modules without a native test source are
// skipped. Safe to rerun: injection replaces the whole generated block.
func (g *Generator) InjectTests(modules []Module) error {
	for _, m := range modules {
		src, err := os.ReadFile(m.TestSourcePath(g.gslDir))
		if os.IsNotExist(err) {
			g.log.Debug("no native test source", zap.String("module", m.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("inject tests %s: %w", m.Name, err)
		}

		groups, err := testgen.Extract(string(src), g.db)
		if err != nil {
			return fmt.Errorf("inject tests %s: %w", m.Name, err)
		}
		block, err := g.renderer.TestBlock(groups)
		if err != nil {
			return fmt.Errorf("inject tests %s: %w", m.Name, err)
		}

		raw, err := os.ReadFile(m.TestOutPath(g.outDir))
		if err != nil {
			return fmt.Errorf("inject tests %s: %w", m.Name, err)
		}
		contents, err := patch.InjectTests(string(raw), block)
		if err != nil {
			return fmt.Errorf("module %s: %w", m.Name, err)
		}
		if err := os.WriteFile(m.TestOutPath(g.outDir), []byte(contents), 0o644); err != nil {
			return fmt.Errorf("inject tests %s: %w", m.Name, err)
		}

		cases := 0
		for _, grp := range groups {
			cases += len(grp.Records)
		}
		g.log.Info("injected tests",
			zap.String("module", m.Name),
			zap.Int("groups", len(groups)),
			zap.Int("cases", cases))
	}
	return nil
}

// Curate runs a Risor curation script against the database. Curated
// changes write through to the store immediately.
func (g *Generator) Curate(ctx context.Context, scriptPath string) error {
	return script.RunFile(ctx, scriptPath, g.db)
}

// Sync persists the in-memory database state and run bookkeeping.
func (g *Generator) Sync() error {
	if err := g.db.Sync(); err != nil {
		return err
	}
	if g.headersHash != "" {
		prev, err := g.db.Store().GetMetadata(metaHeadersHash)
		if err != nil {
			return err
		}
		if prev != "" && prev != g.headersHash {
			g.log.Info("header set changed since last sync")
		}
		if err := g.db.Store().SetMetadata(metaHeadersHash, g.headersHash); err != nil {
			return err
		}
	}
	if err := g.db.Store().SetMetadata(metaLastSync, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	g.log.Info("database synced", zap.Int("functions", g.db.Len()))
	return nil
}

func (g *Generator) excluded(cname string) bool {
	f := g.db.Lookup(cname)
	return f != nil && f.Excluded
}

func (g *Generator) writeOut(name, contents string) error {
	path := filepath.Join(g.outDir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
