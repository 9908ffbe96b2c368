package bundler

import (
	"context"
	"io/fs"
	"sync"
	"time"
)

// fakeFS is an in-memory fsutil.FS used to make graph-builder tests
// hermetic, grounded on the teacher's httptest-stub approach in
// internal/loader/universal_test.go (substitute a fake for the real I/O
// capability rather than touching disk).
type fakeFS struct {
	mtimes map[string]time.Time
}

func newFakeFS() *fakeFS { return &fakeFS{mtimes: make(map[string]time.Time)} }

func (f *fakeFS) Stat(path string) (time.Time, error) {
	t, ok := f.mtimes[path]
	if !ok {
		return time.Time{}, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return t, nil
}

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
}

// fakePlugin is a minimal, fully in-memory plugin implementing createAsset
// (and optionally createChunk/createBundle) over a fixed dependency map,
// used to exercise the dispatcher and the three stages without any real
// format plugin.
type fakePlugin struct {
	name string
	deps map[string][]fakeDep // input -> its dependencies

	mu         sync.Mutex
	assetCalls map[string]int
}

type fakeDep struct {
	input string
	typ   DependencyType
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Test(ctx context.Context, item Item, bctx *Context) bool { return true }

func (p *fakePlugin) CreateAsset(ctx context.Context, item Item, bctx *Context) (*Asset, error) {
	p.mu.Lock()
	if p.assetCalls == nil {
		p.assetCalls = make(map[string]int)
	}
	p.assetCalls[item.Input()]++
	p.mu.Unlock()

	a := &Asset{
		Input:    item.Input(),
		FilePath: item.Input(),
		Output:   "dist/deps/" + item.Input() + ".out",
		Type:     item.Type,
		Format:   item.Format,
	}
	for _, d := range p.deps[item.Input()] {
		a.AddDependency(d.input, d.typ, GetFormat(d.input))
	}
	return a, nil
}

// CreateAssetCalls reports how many times CreateAsset was invoked for input.
func (p *fakePlugin) CreateAssetCalls(input string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.assetCalls[input]
}

func (p *fakePlugin) CreateChunk(ctx context.Context, item Item, bctx *Context, chunkList *ChunkList) (*Chunk, error) {
	asset, ok := bctx.Graph.Get(item.Input(), item.Type)
	if !ok {
		return &Chunk{Item: item}, nil
	}
	chunk := &Chunk{Item: item}
	for _, edge := range asset.Order {
		chunk.DependencyItems = append(chunk.DependencyItems, Item{History: []string{edge.Input}})
	}
	return chunk, nil
}

func (p *fakePlugin) CreateBundle(ctx context.Context, chunk *Chunk, bctx *Context) (*Bundle, error) {
	asset, ok := bctx.Graph.Get(chunk.Item.Input(), chunk.Item.Type)
	if !ok {
		return &Bundle{Output: chunk.Item.Input()}, nil
	}
	return &Bundle{Output: asset.Output, Content: []byte(asset.Input)}, nil
}

var (
	_ AssetCreator  = (*fakePlugin)(nil)
	_ ChunkCreator  = (*fakePlugin)(nil)
	_ BundleCreator = (*fakePlugin)(nil)
)
