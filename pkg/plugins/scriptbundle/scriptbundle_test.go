package scriptbundle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzeiders/webbundler/pkg/bundler"
	"github.com/jzeiders/webbundler/pkg/cache"
)

type fakeFS struct {
	files     map[string][]byte
	readCalls int
}

func (f *fakeFS) Stat(path string) (time.Time, error) { return time.Now(), nil }
func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	f.readCalls++
	return f.files[path], nil
}

func TestPlugin_Test_MatchesScriptFormatOnly(t *testing.T) {
	p := New(nil)
	bctx := &bundler.Context{}

	assert.True(t, p.Test(context.Background(), bundler.NewEntryItem("a.ts"), bctx))
	assert.True(t, p.Test(context.Background(), bundler.NewEntryItem("a.jsx"), bctx))
	assert.False(t, p.Test(context.Background(), bundler.NewEntryItem("a.css"), bctx))
}

func TestPlugin_CreateAsset_DiscoversImports(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"entry.ts": []byte(`
			import { helper } from "./helper";
			const x: number = 1;
			export default x;
		`),
	}}

	b := bundler.New([]bundler.Plugin{New(fs)}, bundler.NopLogger())

	graph, err := b.CreateGraph(context.Background(), []string{"entry.ts"}, bundler.Options{})
	require.NoError(t, err)

	asset, ok := graph.Get("entry.ts", bundler.Import)
	require.True(t, ok)
	assert.Equal(t, "entry.ts", asset.Input)

	deps, ok := asset.Dependencies[bundler.Import]
	require.True(t, ok)
	_, found := deps["./helper"]
	assert.True(t, found)
}

// TestPlugin_TransformSource_CacheHitSkipsRead covers spec.md §4.6: a
// second createAsset pass over the same input, sharing the same
// CacheStore, must not re-read the source from disk once the transform
// result is cached.
func TestPlugin_TransformSource_CacheHitSkipsRead(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"entry.ts": []byte(`const x: number = 1; export default x;`),
	}}

	b := bundler.New([]bundler.Plugin{New(fs)}, bundler.NopLogger())
	store := cache.NewStore(t.TempDir(), nil)

	_, err := b.CreateGraph(context.Background(), []string{"entry.ts"}, bundler.Options{
		Reload:     bundler.ReloadAll(),
		CacheStore: store,
	})
	require.NoError(t, err)
	require.Equal(t, 1, fs.readCalls)

	_, err = b.CreateGraph(context.Background(), []string{"entry.ts"}, bundler.Options{
		Reload:     bundler.ReloadAll(),
		CacheStore: store,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, fs.readCalls, "second pass should be served from cache without re-reading the source")
}
