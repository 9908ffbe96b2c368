package banner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jzeiders/webbundler/pkg/bundler"
)

func TestPlugin_OptimizeBundle_Prepend(t *testing.T) {
	p := New("/* generated */", PlacementPrepend)
	bundle := &bundler.Bundle{Output: "out.js", Content: []byte("console.log(1)")}

	out, err := p.OptimizeBundle(context.Background(), "out.js", bundle, nil)
	require.NoError(t, err)
	assert.Equal(t, "/* generated */\nconsole.log(1)", string(out.Content))
}

func TestPlugin_OptimizeBundle_Append(t *testing.T) {
	p := New("/* eof */", PlacementAppend)
	bundle := &bundler.Bundle{Output: "out.js", Content: []byte("console.log(1)")}

	out, err := p.OptimizeBundle(context.Background(), "out.js", bundle, nil)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)/* eof */\n", string(out.Content))
}

func TestPlugin_Test_RespectsFormatAllowlist(t *testing.T) {
	p := New("x", PlacementPrepend, bundler.Script)
	assert.True(t, p.Test(context.Background(), bundler.NewEntryItem("a.js"), nil))
	assert.False(t, p.Test(context.Background(), bundler.NewEntryItem("a.css"), nil))
}

func TestPlugin_OptimizeBundleChaining_RoundTripsOutputKey(t *testing.T) {
	first := New("A", PlacementPrepend)
	second := New("B", PlacementAppend)
	b := bundler.New([]bundler.Plugin{first, second}, bundler.NopLogger())

	bundle := &bundler.Bundle{Output: "out.js", Content: []byte("x")}
	out, err := b.Dispatcher().OptimizeBundle(context.Background(), "out.js", bundle, &bundler.Context{})
	require.NoError(t, err)
	assert.Equal(t, "out.js", out.Output)
	assert.Equal(t, "A\nxB\n", string(out.Content))
}
