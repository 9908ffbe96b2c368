package bundler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAsset_AddDependency_PreservesFirstSeenOrder covers spec.md §4.2/§5:
// "dependencies of an asset are enqueued in the order the producing plugin
// reports them." Asset.Dependencies is a nested map and iterating it
// directly would randomize that order across runs, so Order must capture
// the call sequence instead.
func TestAsset_AddDependency_PreservesFirstSeenOrder(t *testing.T) {
	a := &Asset{Input: "a.js"}
	a.AddDependency("c.js", Import, Script)
	a.AddDependency("b.js", Import, Script)
	a.AddDependency("d.js", DynamicImport, Script)

	require.Len(t, a.Order, 3)
	assert.Equal(t, "c.js", a.Order[0].Input)
	assert.Equal(t, "b.js", a.Order[1].Input)
	assert.Equal(t, "d.js", a.Order[2].Input)
}

func TestAsset_AddDependency_IgnoresSelfReference(t *testing.T) {
	a := &Asset{Input: "a.js"}
	a.AddDependency("a.js", Import, Script)
	assert.Empty(t, a.Order)
}

// TestAsset_AddDependency_RepeatedReportDoesNotReorder covers the
// maintainer's "later calls update the classification in place without
// reordering" requirement: re-reporting an already-seen dependency under a
// different format must not move its position in Order.
func TestAsset_AddDependency_RepeatedReportDoesNotReorder(t *testing.T) {
	a := &Asset{Input: "a.js"}
	a.AddDependency("b.js", Import, Script)
	a.AddDependency("c.js", Import, Script)
	a.AddDependency("b.js", Import, Json)

	require.Len(t, a.Order, 2)
	assert.Equal(t, "b.js", a.Order[0].Input)
	assert.Equal(t, "c.js", a.Order[1].Input)
	assert.Equal(t, Json, a.Dependencies[Import]["b.js"].Format)
}
