package graphqlschema

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzeiders/webbundler/pkg/bundler"
)

type fakeFS struct {
	files map[string][]byte
}

func (f *fakeFS) Stat(path string) (time.Time, error) { return time.Now(), nil }
func (f *fakeFS) ReadFile(path string) ([]byte, error) { return f.files[path], nil }

func TestPlugin_Test_MatchesGraphQLExtensions(t *testing.T) {
	p := New(nil)
	bctx := &bundler.Context{}
	assert.True(t, p.Test(context.Background(), bundler.NewEntryItem("schema.graphql"), bctx))
	assert.True(t, p.Test(context.Background(), bundler.NewEntryItem("ops.gql"), bctx))
	assert.False(t, p.Test(context.Background(), bundler.NewEntryItem("index.ts"), bctx))
}

func TestPlugin_CreateAsset_FollowsImportPragma(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"ops.graphql": []byte(`
#import "./fragments.graphql"
query GetUser {
  user { id }
}
`),
		"fragments.graphql": []byte(`fragment UserFields on User { id name }`),
	}}

	b := bundler.New([]bundler.Plugin{New(fs)}, bundler.NopLogger())

	graph, err := b.CreateGraph(context.Background(), []string{"ops.graphql"}, bundler.Options{})
	require.NoError(t, err)

	asset, ok := graph.Get("ops.graphql", bundler.Import)
	require.True(t, ok)

	deps := asset.Dependencies[bundler.Import]
	require.NotNil(t, deps)
	_, found := deps["./fragments.graphql"]
	assert.True(t, found)

	_, ok = graph.Get("./fragments.graphql", bundler.Import)
	assert.True(t, ok)
}

func TestPlugin_CreateAsset_AttachesIntrospectionForSchemas(t *testing.T) {
	fs := &fakeFS{files: map[string][]byte{
		"schema.graphql": []byte(`
type Query {
  hello: String!
}
`),
	}}

	b := bundler.New([]bundler.Plugin{New(fs)}, bundler.NopLogger())

	graph, err := b.CreateGraph(context.Background(), []string{"schema.graphql"}, bundler.Options{})
	require.NoError(t, err)

	asset, ok := graph.Get("schema.graphql", bundler.Import)
	require.True(t, ok)
	assert.NotEmpty(t, asset.Content)
}
