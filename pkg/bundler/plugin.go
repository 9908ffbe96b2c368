package bundler

import "context"

// Source is the materialized content of an input: either text or raw
// bytes, matching what a readSource/transformSource hook can produce.
type Source struct {
	Text []byte
	// IsBinary distinguishes an asset whose Text field holds raw bytes
	// (images, wasm) from one holding UTF-8 source text.
	IsBinary bool
}

// Plugin is the capability set an external collaborator may implement.
// Every hook is optional except Test; the dispatcher checks presence
// explicitly rather than relying on a prototype chain the way the
// original duck-typed source did.
type Plugin interface {
	// Name identifies the plugin for diagnostics and config wiring.
	Name() string

	// Test gates whether this plugin handles a given item in this run.
	Test(ctx context.Context, item Item, bctx *Context) bool
}

// SourceReader materializes raw bytes/text for an input.
type SourceReader interface {
	Plugin
	ReadSource(ctx context.Context, input string, bctx *Context) (*Source, error)
}

// SourceTransformer rewrites a Source ahead of asset creation. Every
// matching plugin is called with the same item (not the previous plugin's
// output) and the last non-nil result wins. Never invoked by the
// three core stages directly — it is reserved for plugin-to-plugin
// composition (spec.md §9 open question), so only plugins that choose to
// call bctx.Bundler().Dispatcher().TransformSource exercise it.
type SourceTransformer interface {
	Plugin
	TransformSource(ctx context.Context, bundleEntry string, item Item, bctx *Context) (*Source, error)
}

// AssetCreator parses an item's source and enumerates its dependencies.
type AssetCreator interface {
	Plugin
	CreateAsset(ctx context.Context, item Item, bctx *Context) (*Asset, error)
}

// ChunkCreator decides chunk membership for an item, optionally appending
// further entries to the shared worklist (e.g. an HTML chunk spawning a
// script sub-entry).
type ChunkCreator interface {
	Plugin
	CreateChunk(ctx context.Context, item Item, bctx *Context, chunkList *ChunkList) (*Chunk, error)
}

// BundleCreator produces the final byte payload for a chunk. Returning
// (nil, nil) means "already up to date."
type BundleCreator interface {
	Plugin
	CreateBundle(ctx context.Context, chunk *Chunk, bctx *Context) (*Bundle, error)
}

// BundleOptimizer post-processes a finished bundle. Chained: every
// matching plugin receives the previous plugin's output.
type BundleOptimizer interface {
	Plugin
	OptimizeBundle(ctx context.Context, output string, bundle *Bundle, bctx *Context) (*Bundle, error)
}

// ChunkList is the live, append-during-iteration worklist the chunker
// exposes to createChunk implementations, matching spec.md §4.3's
// requirement that plugins can push further entries as a side effect of
// visiting one chunk.
type ChunkList struct {
	items []Item
	seen  map[key]bool
}

func newChunkList(seed []Item) *ChunkList {
	cl := &ChunkList{seen: make(map[key]bool, len(seed))}
	for _, it := range seed {
		cl.items = append(cl.items, it)
		cl.seen[keyOf(it.Input(), it.Type)] = true
	}
	return cl
}

// Append adds an item to the worklist if its (input, type) pair hasn't
// already been queued.
func (cl *ChunkList) Append(it Item) {
	k := keyOf(it.Input(), it.Type)
	if cl.seen[k] {
		return
	}
	cl.seen[k] = true
	cl.items = append(cl.items, it)
}
