package bundler

import (
	"path"

	"github.com/jzeiders/webbundler/pkg/cache"
)

// Reload is the force-rebuild policy: build everything, build nothing
// extra, or force-rebuild a specific set of inputs.
type Reload struct {
	all    bool
	inputs map[string]bool
}

// ReloadAll forces every node to rebuild regardless of mtimes.
func ReloadAll() Reload { return Reload{all: true} }

// ReloadNone is the default: rebuild decisions come entirely from mtime
// comparison and cache state.
func ReloadNone() Reload { return Reload{} }

// ReloadInputs forces rebuild only for the named inputs.
func ReloadInputs(inputs ...string) Reload {
	set := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		set[in] = true
	}
	return Reload{inputs: set}
}

// Forces reports whether input must rebuild under this policy.
func (r Reload) Forces(input string) bool {
	if r.all {
		return true
	}
	return r.inputs[input]
}

// Options configures a bundle/createGraph/createChunks/createBundles call.
// Every field mirrors the option key spec.md §6 documents.
type Options struct {
	ImportMap     map[string]string
	Sources       map[string][]byte
	Reload        Reload
	OutDirPath    string
	OutputMap     map[string]string
	Graph         Graph
	Chunks        []Chunk
	Bundles       map[string]*Bundle
	Optimize      bool
	Quiet         bool
	Concurrency   int
	CacheStore    *cache.Store
}

func (o Options) outDir() string {
	if o.OutDirPath != "" {
		return o.OutDirPath
	}
	return "dist"
}

// Context is the per-invocation state shared across all three stages and
// all plugins. It is constructed fresh at the start of each top-level
// bundle() call and is not safe for concurrent use by more than one
// pipeline run; within a run, bounded-concurrency graph expansion
// synchronizes its own access (see graphbuilder.go).
type Context struct {
	ImportMap  map[string]string
	OutputMap  map[string]string
	Reload     Reload
	Optimize   bool
	Quiet      bool

	OutDirPath   string
	DepsDirPath  string
	CacheDirPath string

	sources map[string]*Source
	cache   map[string][]byte

	Graph   Graph
	Chunks  []Chunk
	Bundles map[string]*Bundle

	logger Logger
	store  *cache.Store

	// bundler is a non-owning back-reference enabling plugins to reenter
	// the dispatcher (e.g. from a transformSource implementation). The
	// Bundler exclusively owns its plugin list; Context borrows a
	// reference whose lifetime never exceeds the owning run.
	bundler *Bundler
}

// newContext materializes a Context from Options, deriving the cache and
// deps directories the way spec.md §6 specifies unless the caller already
// set them via OutDirPath-derived defaults.
func newContext(b *Bundler, opts Options, logger Logger) *Context {
	outDir := opts.outDir()
	ctx := &Context{
		ImportMap:    opts.ImportMap,
		OutputMap:    opts.OutputMap,
		Reload:       opts.Reload,
		Optimize:     opts.Optimize,
		Quiet:        opts.Quiet,
		OutDirPath:   outDir,
		DepsDirPath:  path.Join(outDir, "deps"),
		CacheDirPath: path.Join(outDir, ".cache"),
		sources:      make(map[string]*Source),
		cache:        make(map[string][]byte),
		Graph:        opts.Graph,
		Bundles:      opts.Bundles,
		logger:       logger,
		bundler:      b,
	}
	if ctx.Graph == nil {
		ctx.Graph = make(Graph)
	}
	if ctx.Bundles == nil {
		ctx.Bundles = make(map[string]*Bundle)
	}
	if len(opts.Chunks) > 0 {
		ctx.Chunks = append([]Chunk(nil), opts.Chunks...)
	}
	for input, src := range opts.Sources {
		ctx.sources[input] = &Source{Text: src}
	}
	ctx.store = opts.CacheStore
	if ctx.store == nil {
		ctx.store = cache.NewStore(ctx.CacheDirPath, nil)
	}
	return ctx
}

// Bundler returns the owning Bundler, letting plugins reenter the
// dispatcher (e.g. to call TransformSource from within CreateAsset).
func (c *Context) Bundler() *Bundler { return c.bundler }

// Logger returns the run's logger.
func (c *Context) Logger() Logger { return c.logger }

// Store returns the run's build cache.
func (c *Context) Store() *cache.Store { return c.store }

// ResolveOutput applies Context.OutputMap, falling back to a
// deps-directory-relative default the way bundlers conventionally lay
// out derived artifacts (core treats the result as opaque per spec.md §6).
func (c *Context) ResolveOutput(input string) string {
	if out, ok := c.OutputMap[input]; ok {
		return out
	}
	return path.Join(c.DepsDirPath, path.Base(input))
}
