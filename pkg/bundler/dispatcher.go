package bundler

import (
	"context"
	"os"
)

// Dispatcher picks and invokes plugins for a given operation kind and
// (item, Context) pair. Plugins are iterated in the order supplied at
// Bundler construction; order is significant, earlier plugins win.
type Dispatcher struct {
	plugins []Plugin
}

func newDispatcher(plugins []Plugin) *Dispatcher {
	return &Dispatcher{plugins: plugins}
}

// ReadSource materializes raw bytes/text for input, consulting
// Context.sources first and writing the result back on success.
// FileNotFound is translated from an underlying not-found error; every
// other error is wrapped in a PluginError that keeps the original cause
// reachable through Unwrap.
func (d *Dispatcher) ReadSource(ctx context.Context, input string, bctx *Context) (*Source, error) {
	if cached, ok := bctx.sources[input]; ok {
		return cached, nil
	}

	for _, p := range d.plugins {
		reader, ok := p.(SourceReader)
		if !ok {
			continue
		}
		item := Item{History: []string{input}, Format: GetFormat(input)}
		if !p.Test(ctx, item, bctx) {
			continue
		}
		src, err := reader.ReadSource(ctx, input, bctx)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &FileNotFoundError{Input: input}
			}
			return nil, &PluginError{Plugin: p.Name(), Operation: "readSource", Err: err}
		}
		if src == nil {
			continue
		}
		bctx.sources[input] = src
		return src, nil
	}
	return nil, &NoPluginError{Operation: "readSource", Input: input}
}

// TransformSource calls every matching plugin in plugin-list order. Each
// plugin receives the same (bundleEntry, item), not the previous plugin's
// output; the last non-nil result is returned, and a plugin returning nil
// retains the prior value. It is never cached — spec.md §4.1 is explicit
// that it recomputes each time it's requested.
func (d *Dispatcher) TransformSource(ctx context.Context, bundleEntry string, item Item, bctx *Context) (*Source, error) {
	var current *Source
	for _, p := range d.plugins {
		transformer, ok := p.(SourceTransformer)
		if !ok {
			continue
		}
		if !p.Test(ctx, item, bctx) {
			continue
		}
		out, err := transformer.TransformSource(ctx, bundleEntry, item, bctx)
		if err != nil {
			return nil, &PluginError{Plugin: p.Name(), Operation: "transformSource", Err: err}
		}
		if out != nil {
			current = out
		}
	}
	return current, nil
}

// CreateAsset returns the first matching plugin's asset. NoPluginError
// if nothing claims the item.
func (d *Dispatcher) CreateAsset(ctx context.Context, item Item, bctx *Context) (*Asset, error) {
	for _, p := range d.plugins {
		creator, ok := p.(AssetCreator)
		if !ok {
			continue
		}
		if !p.Test(ctx, item, bctx) {
			continue
		}
		asset, err := creator.CreateAsset(ctx, item, bctx)
		if err != nil {
			return nil, &PluginError{Plugin: p.Name(), Operation: "createAsset", Err: err}
		}
		if asset == nil {
			continue
		}
		return asset, nil
	}
	return nil, &NoPluginError{Operation: "createAsset", Input: item.Input()}
}

// CreateChunk returns the first matching plugin's chunk.
func (d *Dispatcher) CreateChunk(ctx context.Context, item Item, bctx *Context, chunkList *ChunkList) (*Chunk, error) {
	for _, p := range d.plugins {
		creator, ok := p.(ChunkCreator)
		if !ok {
			continue
		}
		if !p.Test(ctx, item, bctx) {
			continue
		}
		chunk, err := creator.CreateChunk(ctx, item, bctx, chunkList)
		if err != nil {
			return nil, &PluginError{Plugin: p.Name(), Operation: "createChunk", Err: err}
		}
		if chunk == nil {
			continue
		}
		return chunk, nil
	}
	return nil, &NoPluginError{Operation: "createChunk", Input: item.Input()}
}

// CreateBundle returns the first matching plugin's bundle. A nil, nil
// result means the plugin determined the output is already fresh; the
// emitter treats that as "skip writing."
func (d *Dispatcher) CreateBundle(ctx context.Context, chunk *Chunk, bctx *Context) (*Bundle, bool, error) {
	for _, p := range d.plugins {
		creator, ok := p.(BundleCreator)
		if !ok {
			continue
		}
		if !p.Test(ctx, chunk.Item, bctx) {
			continue
		}
		bundle, err := creator.CreateBundle(ctx, chunk, bctx)
		if err != nil {
			return nil, false, &PluginError{Plugin: p.Name(), Operation: "createBundle", Err: err}
		}
		// This plugin claimed the chunk; bundle==nil here means "up to date."
		return bundle, true, nil
	}
	return nil, false, &NoPluginError{Operation: "createBundle", Input: chunk.Item.Input()}
}

// OptimizeBundle is a chained hook: every matching optimizer plugin's
// output feeds the next.
func (d *Dispatcher) OptimizeBundle(ctx context.Context, output string, bundle *Bundle, bctx *Context) (*Bundle, error) {
	current := bundle
	item := Item{History: []string{output}, Format: GetFormat(output)}
	for _, p := range d.plugins {
		optimizer, ok := p.(BundleOptimizer)
		if !ok {
			continue
		}
		if !p.Test(ctx, item, bctx) {
			continue
		}
		out, err := optimizer.OptimizeBundle(ctx, output, current, bctx)
		if err != nil {
			return nil, &PluginError{Plugin: p.Name(), Operation: "optimizeBundle", Err: err}
		}
		if out != nil {
			current = out
		}
	}
	return current, nil
}
