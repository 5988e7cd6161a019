package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddEdgesAcyclic(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdges("B", []string{"A"}))
	require.NoError(t, g.AddEdges("A", nil))

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestAddEdgesRejectsDirectCycle(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdges("A", []string{"B"}))

	err := g.AddEdges("B", []string{"A"})
	require.Error(t, err)

	var cycleErr *CircularDependencyError
	require.ErrorAs(t, err, &cycleErr)
	assert.Contains(t, cycleErr.Error(), "A")
	assert.Contains(t, cycleErr.Error(), "B")
}

func TestAddEdgesRejectsSelfCycle(t *testing.T) {
	g := New()
	err := g.AddEdges("A", []string{"A"})
	require.Error(t, err)
}

func TestTopologicalSortDiamond(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdges("D", []string{"B", "C"}))
	require.NoError(t, g.AddEdges("B", []string{"A"}))
	require.NoError(t, g.AddEdges("C", []string{"A"}))
	require.NoError(t, g.AddEdges("A", nil))

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order, 4)

	index := make(map[string]int, len(order))
	for i, id := range order {
		index[id] = i
	}
	assert.Less(t, index["A"], index["B"])
	assert.Less(t, index["A"], index["C"])
	assert.Less(t, index["B"], index["D"])
	assert.Less(t, index["C"], index["D"])
}

func TestClear(t *testing.T) {
	g := New()
	require.NoError(t, g.AddEdges("A", nil))
	g.Clear()

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Empty(t, order)
}
