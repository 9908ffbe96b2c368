// Package bundler implements the plugin-driven build orchestrator's core:
// graph construction, chunking, and bundle emission over a shared,
// per-run Context, dispatched through an ordered plugin list.
package bundler

import (
	"context"
	"path"

	"github.com/jzeiders/webbundler/internal/fsutil"
	"github.com/jzeiders/webbundler/pkg/cache"
)

// Bundler owns an ordered, read-only-after-construction plugin list and
// wires the three pipeline stages together. It holds no per-run state;
// every bundle() call constructs a fresh Context.
type Bundler struct {
	plugins    []Plugin
	dispatcher *Dispatcher
	fs         fsutil.FS
	logger     Logger
}

// New constructs a Bundler over plugins, iterated in the given order for
// every dispatch decision. logger may be nil, defaulting to NewLogger.
func New(plugins []Plugin, logger Logger) *Bundler {
	if logger == nil {
		logger = NewLogger(false, false)
	}
	return &Bundler{
		plugins:    plugins,
		dispatcher: newDispatcher(plugins),
		fs:         fsutil.OS{},
		logger:     logger,
	}
}

// WithFS overrides the filesystem capability, primarily for tests.
func (b *Bundler) WithFS(fs fsutil.FS) *Bundler {
	b.fs = fs
	return b
}

// Dispatcher exposes the shared dispatcher so plugins can reenter it (for
// transformSource plugin-to-plugin composition).
func (b *Bundler) Dispatcher() *Dispatcher { return b.dispatcher }

func (b *Bundler) loggerFor(opts Options) Logger {
	if opts.Quiet {
		return NopLogger()
	}
	return b.logger
}

// Result bundles the output of a top-level bundle() call.
type Result struct {
	Cache   *cache.Store
	Graph   Graph
	Chunks  []Chunk
	Bundles map[string]*Bundle
}

// Bundle wires the three stages: build graph, build chunks, build
// bundles, sharing the build cache across stages via the same Options
// value (and, within it, the same *cache.Store pointer). Each stage's
// Context starts its source memo from Options.Sources only; sources read
// during one stage are not carried into the next.
func (b *Bundler) Bundle(ctx context.Context, inputs []string, opts Options) (*Result, error) {
	if opts.CacheStore == nil {
		opts.CacheStore = cache.NewStore(path.Join(opts.outDir(), ".cache"), nil)
	}

	graph, err := b.CreateGraph(ctx, inputs, opts)
	if err != nil {
		return nil, err
	}

	chunks, err := b.CreateChunks(ctx, inputs, graph, opts)
	if err != nil {
		return nil, err
	}

	bundles, err := b.CreateBundles(ctx, chunks, graph, opts)
	if err != nil {
		return nil, err
	}

	return &Result{Cache: opts.CacheStore, Graph: graph, Chunks: chunks, Bundles: bundles}, nil
}
