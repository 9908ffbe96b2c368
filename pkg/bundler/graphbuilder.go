package bundler

import (
	"context"
	"sync"

	"github.com/jzeiders/webbundler/internal/fsutil"
)

// CreateGraph expands entry inputs into a complete Graph via breadth-first
// traversal, short-circuiting unchanged nodes via mtime comparison.
//
// Concurrency: when opts.Concurrency > 1, up to that many items are
// expanded in parallel. A pending-set (keyed on (input, type)) prevents
// duplicate createAsset calls on the same node; each item's history is
// captured by value before being handed to a worker, so dependency
// insertion order into a path remains deterministic per path even though
// different paths race; and cycle detection walks the item's own History
// slice rather than a shared set, so it observes the true ancestor chain
// regardless of interleaving. Concurrency <= 1 (the default) degrades to
// the fully sequential baseline spec.md §5 describes.
func (b *Bundler) CreateGraph(ctx context.Context, inputs []string, opts Options) (Graph, error) {
	bctx := newContext(b, opts, b.loggerFor(opts))

	// priorGraph is the caller-supplied graph from an earlier run, consulted
	// read-only for incremental reuse decisions (needsUpdate, "reuse the
	// prior asset"). graph is this run's own output accumulator, starting
	// empty regardless of what was passed in: spec.md §4.2(2a)'s "already
	// present in the output graph for this run" refers to entries this
	// traversal has itself produced, not ones merely carried over from a
	// previous call — conflating the two would make a forced reload of an
	// already-known node, or a stale node whose mtime changed, silently
	// skip reprocessing. priorGraph is never mutated after this point, so
	// reading it requires no lock even under concurrent expansion.
	priorGraph := bctx.Graph
	graph := make(Graph)
	bctx.Graph = graph

	seed := make([]Item, 0, len(inputs))
	for _, input := range inputs {
		seed = append(seed, NewEntryItem(input))
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu       sync.Mutex
		pending  = make(map[key]bool)
		wl       = seed
		wi       = 0
		wg       sync.WaitGroup
		firstErr error
	)

	// setErr and getErr are the only places firstErr is touched, so every
	// access goes through mu rather than a separate sync.Once — the main
	// loop's read at the top of the for-loop races with worker writes
	// otherwise.
	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	getErr := func() error {
		mu.Lock()
		defer mu.Unlock()
		return firstErr
	}

	sem := make(chan struct{}, concurrency)

	for {
		mu.Lock()
		if wi >= len(wl) {
			// In-flight workers may still append dependencies; wait for
			// them before deciding the worklist is exhausted.
			mu.Unlock()
			wg.Wait()
			mu.Lock()
			if wi >= len(wl) {
				mu.Unlock()
				break
			}
		}
		it := wl[wi]
		wi++
		mu.Unlock()

		if getErr() != nil {
			break
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(it Item) {
			defer wg.Done()
			defer func() { <-sem }()

			deps, cycleErr, err := b.expandOne(ctx, it, bctx, graph, priorGraph, &mu, pending)
			if err != nil {
				setErr(err)
				return
			}
			if cycleErr != nil {
				setErr(cycleErr)
				return
			}
			if len(deps) == 0 {
				return
			}
			mu.Lock()
			wl = append(wl, deps...)
			mu.Unlock()
		}(it)

		if concurrency == 1 {
			wg.Wait()
		}
	}
	wg.Wait()

	if err := getErr(); err != nil {
		return nil, err
	}
	return graph, nil
}

// expandOne processes a single item: resolves/reuses its asset, records it
// in the graph, and returns the new items its dependencies enqueue.
//
// graph is this run's output accumulator (read and written only under mu).
// priorGraph is the previous run's finished graph, if any, consulted
// read-only for incremental reuse decisions; it is never mutated during
// this run, so it is safe to read without holding mu.
func (b *Bundler) expandOne(
	ctx context.Context,
	it Item,
	bctx *Context,
	graph Graph,
	priorGraph Graph,
	mu *sync.Mutex,
	pending map[key]bool,
) (deps []Item, cycleErr *CircularDependencyError, err error) {
	input := it.Input()
	k := keyOf(input, it.Type)

	mu.Lock()
	if _, exists := graph.Get(input, it.Type); exists {
		mu.Unlock()
		return nil, nil, nil
	}
	if pending[k] {
		mu.Unlock()
		return nil, nil, nil
	}
	pending[k] = true
	mu.Unlock()

	needsUpdate, statErr := b.needsUpdate(ctx, it, bctx, priorGraph)
	if statErr != nil {
		return nil, nil, statErr
	}

	var asset *Asset
	if needsUpdate {
		asset, err = b.dispatcher.CreateAsset(ctx, it, bctx)
		if err != nil {
			return nil, nil, err
		}
	} else {
		prior, _ := priorGraph.Get(input, it.Type)
		asset = prior
	}

	mu.Lock()
	graph.Set(input, it.Type, asset)
	mu.Unlock()

	bctx.logger.Debug("asset %s (%s)", input, it.Type)

	// Order preserves the producing plugin's first-seen report order; the
	// nested Dependencies map would randomize it across runs.
	for _, edge := range asset.Order {
		if edge.Input == input {
			continue
		}
		if idx := indexOf(it.History, edge.Input); idx >= 0 {
			chain := make([]string, 0, idx+2)
			for i := idx; i >= 0; i-- {
				chain = append(chain, it.History[i])
			}
			chain = append(chain, edge.Input)
			return nil, &CircularDependencyError{Chain: chain}, nil
		}
		deps = append(deps, it.WithDependency(edge.Input, edge.Type, edge.Format))
	}
	return deps, nil, nil
}

func indexOf(history []string, input string) int {
	for i, h := range history {
		if h == input {
			return i
		}
	}
	return -1
}

// needsUpdate implements spec.md §4.2(b): reload policy, absent prior
// asset, or stale output all force a rebuild. A missing output file
// forces rebuild too; any other stat error is fatal. priorGraph is the
// previous run's graph (nil/empty on a first run), never this run's own
// in-progress output.
func (b *Bundler) needsUpdate(ctx context.Context, it Item, bctx *Context, priorGraph Graph) (bool, error) {
	input := it.Input()
	if bctx.Reload.Forces(input) {
		return true, nil
	}
	prior, ok := priorGraph.Get(input, it.Type)
	if !ok || prior == nil {
		return true, nil
	}

	srcTime, err := b.fs.Stat(prior.FilePath)
	if err != nil {
		if fsutil.IsNotExist(err) {
			return true, nil
		}
		return false, &StatError{Path: prior.FilePath, Err: err}
	}
	outTime, err := b.fs.Stat(prior.Output)
	if err != nil {
		if fsutil.IsNotExist(err) {
			return true, nil
		}
		return false, &StatError{Path: prior.Output, Err: err}
	}
	return srcTime.After(outTime), nil
}
