package bundler

import "context"

// CreateBundles dispatches createBundle for each chunk in order, then
// optionally chains optimizeBundle over the result. It does not write to
// disk; persistence is a caller concern.
func (b *Bundler) CreateBundles(ctx context.Context, chunks []Chunk, graph Graph, opts Options) (map[string]*Bundle, error) {
	opts.Graph = graph
	bctx := newContext(b, opts, b.loggerFor(opts))

	for i := range chunks {
		chunk := chunks[i]
		bundle, _, err := b.dispatcher.CreateBundle(ctx, &chunk, bctx)
		if err != nil {
			return nil, err
		}

		asset, ok := graph.Get(chunk.Item.Input(), chunk.Item.Type)
		if !ok {
			return nil, &NoPluginError{Operation: "createBundle", Input: chunk.Item.Input()}
		}
		output := asset.Output

		if bundle == nil {
			bctx.logger.Info("%s is up to date", output)
			continue
		}

		bctx.Bundles[output] = bundle

		if bctx.Optimize {
			optimized, err := b.dispatcher.OptimizeBundle(ctx, output, bundle, bctx)
			if err != nil {
				return nil, err
			}
			bctx.Bundles[output] = optimized
		}
	}

	return bctx.Bundles, nil
}
