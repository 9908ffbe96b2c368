package bundler

import "context"

// CreateChunks produces one or more chunks per entry, deduplicated by
// (input, type). The chunker seeds chunkList with one item per entry and
// iterates with live-append: plugins may push more entries as a side
// effect of visiting one (e.g. an HTML entry spawning a script chunk).
func (b *Bundler) CreateChunks(ctx context.Context, inputs []string, graph Graph, opts Options) ([]Chunk, error) {
	opts.Graph = graph
	bctx := newContext(b, opts, b.loggerFor(opts))

	seed := make([]Item, 0, len(inputs))
	for _, input := range inputs {
		seed = append(seed, NewEntryItem(input))
	}
	chunkList := newChunkList(seed)

	produced := make(map[key]bool)
	var chunks []Chunk

	for i := 0; i < len(chunkList.items); i++ {
		it := chunkList.items[i]
		k := keyOf(it.Input(), it.Type)
		if produced[k] {
			continue
		}

		chunk, err := b.dispatcher.CreateChunk(ctx, it, bctx, chunkList)
		if err != nil {
			return nil, err
		}
		produced[k] = true
		chunks = append(chunks, *chunk)
		bctx.logger.Debug("chunk %s (%s)", it.Input(), it.Type)
	}

	bctx.Chunks = chunks
	return chunks, nil
}
