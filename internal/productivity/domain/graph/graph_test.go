package graph_test

import (
	"testing"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/graph"
	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(pairs ...any) []graph.Node {
	var out []graph.Node
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, graph.Node{ID: pairs[i].(string), Dependencies: pairs[i+1].([]string)})
	}
	return out
}

func TestFindCycles_ThreeCycle(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"B"},
		"B", []string{"C"},
		"C", []string{"A"},
	))

	assert.Equal(t, [][]string{{"A", "B", "C"}}, g.FindCycles())
	assert.True(t, g.HasCycles())
}

func TestFindCycles_NoCycle(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"B", "C"},
		"B", []string{},
		"C", []string{},
	))

	assert.Empty(t, g.FindCycles())
	assert.False(t, g.HasCycles())
}

func TestFindCycles_Deterministic(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"B"},
		"B", []string{"A", "C"},
		"C", []string{"D"},
		"D", []string{"C"},
		"E", []string{"A"},
	))

	first := g.FindCycles()
	second := g.FindCycles()

	assert.Equal(t, first, second)
	assert.Equal(t, [][]string{{"A", "B"}, {"C", "D"}}, first)
}

func TestFindCycles_ExcludesNodesOutsideCycles(t *testing.T) {
	g := graph.New(nodes(
		"root", []string{"x"},
		"x", []string{"y"},
		"y", []string{"x"},
		"leaf", []string{"root"},
	))

	cycles := g.FindCycles()
	require.Len(t, cycles, 1)
	assert.ElementsMatch(t, []string{"x", "y"}, cycles[0])
}

func TestFindCycles_DanglingDependencies(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"ghost", "B"},
		"B", []string{"phantom"},
	))

	assert.NotPanics(t, func() { g.FindCycles() })
	assert.Empty(t, g.FindCycles())
	assert.Equal(t, []string{"B"}, g.Edges("A"))
	assert.Empty(t, g.Edges("B"))
}

func TestFindCycles_DanglingNeverReported(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"B", "ghost"},
		"B", []string{"A", "ghost"},
	))

	for _, cycle := range g.FindCycles() {
		assert.NotContains(t, cycle, "ghost")
	}
}

func TestFindCycles_TwoNodeCycleReportedOnce(t *testing.T) {
	g := graph.New(nodes(
		"a", []string{"b"},
		"b", []string{"a"},
	))

	assert.Equal(t, [][]string{{"a", "b"}}, g.FindCycles())
}

func TestFromTasks(t *testing.T) {
	a, _ := task.NewTask(task.Fields{ID: "a", Title: "A", Dependencies: []string{"b"}})
	b, _ := task.NewTask(task.Fields{ID: "b", Title: "B", Dependencies: []string{"a", "missing"}})

	g := graph.FromTasks([]*task.Task{a, b})

	assert.Equal(t, []string{"a", "b"}, g.Nodes())
	assert.Equal(t, [][]string{{"a", "b"}}, g.FindCycles())
	assert.Equal(t, []string{"a", "missing"}, b.Dependencies())
}

func TestDependents(t *testing.T) {
	g := graph.New(nodes(
		"1", []string{},
		"2", []string{"1"},
		"3", []string{"1", "2"},
	))

	assert.Equal(t, []string{"2", "3"}, g.Dependents("1"))
	assert.Equal(t, []string{"3"}, g.Dependents("2"))
	assert.Empty(t, g.Dependents("3"))
}

func TestTopologicalOrder(t *testing.T) {
	g := graph.New(nodes(
		"deploy", []string{"test", "build"},
		"test", []string{"build"},
		"build", []string{},
	))

	order, err := g.TopologicalOrder()

	require.NoError(t, err)
	assert.Equal(t, []string{"build", "test", "deploy"}, order)
}

func TestTopologicalOrder_Cycle(t *testing.T) {
	g := graph.New(nodes(
		"A", []string{"B"},
		"B", []string{"A"},
	))

	_, err := g.TopologicalOrder()

	assert.ErrorIs(t, err, graph.ErrCycle)
}
