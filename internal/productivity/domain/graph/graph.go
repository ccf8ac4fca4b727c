// Package graph analyzes the "is blocked by" relation between tasks.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/task"
)

// ErrCycle is returned when an ordering is requested for a cyclic graph.
var ErrCycle = errors.New("dependency cycle detected")

// Node is a vertex with its outgoing dependency references.
type Node struct {
	ID           string
	Dependencies []string
}

// Graph is an immutable directed graph with an edge from each task to every
// dependency that resolves to a known task. Dangling references are dropped.
type Graph struct {
	order   []string
	edges   map[string][]string
	reverse map[string][]string
}

// New builds a graph from nodes. Duplicate ids keep the first occurrence.
func New(nodes []Node) *Graph {
	g := &Graph{
		order:   make([]string, 0, len(nodes)),
		edges:   make(map[string][]string, len(nodes)),
		reverse: make(map[string][]string, len(nodes)),
	}

	deps := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if _, ok := deps[n.ID]; ok {
			continue
		}
		g.order = append(g.order, n.ID)
		deps[n.ID] = n.Dependencies
	}

	for _, id := range g.order {
		seen := make(map[string]struct{})
		out := []string{}
		for _, dep := range deps[id] {
			if dep == id {
				continue
			}
			if _, known := deps[dep]; !known {
				continue
			}
			if _, dup := seen[dep]; dup {
				continue
			}
			seen[dep] = struct{}{}
			out = append(out, dep)
			g.reverse[dep] = append(g.reverse[dep], id)
		}
		g.edges[id] = out
	}

	return g
}

// FromTasks builds a graph from domain tasks in their given order.
func FromTasks(tasks []*task.Task) *Graph {
	nodes := make([]Node, 0, len(tasks))
	for _, t := range tasks {
		nodes = append(nodes, Node{ID: t.ID(), Dependencies: t.Dependencies()})
	}
	return New(nodes)
}

// Nodes returns every node id in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// Edges returns the resolved dependencies of id.
func (g *Graph) Edges(id string) []string {
	return append([]string(nil), g.edges[id]...)
}

// Dependents returns the tasks blocked by id, in insertion order.
func (g *Graph) Dependents(id string) []string {
	return append([]string(nil), g.reverse[id]...)
}

// FindCycles reports every cycle found by a three-color depth-first search.
//
// Nodes are visited in insertion order and neighbours in declared order, so the
// result is deterministic. A cycle is recorded when the search reaches a node that
// is still on the current path; it is reported as the path slice starting at that
// node. Each node and edge is processed once.
func (g *Graph) FindCycles() [][]string {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // finished
	)

	color := make(map[string]int, len(g.order))
	position := make(map[string]int, len(g.order))
	var path []string
	cycles := [][]string{}
	reported := make(map[string]struct{})

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		position[id] = len(path)
		path = append(path, id)

		for _, dep := range g.edges[id] {
			switch color[dep] {
			case gray:
				cycle := append([]string(nil), path[position[dep]:]...)
				key := canonicalKey(cycle)
				if _, dup := reported[key]; !dup {
					reported[key] = struct{}{}
					cycles = append(cycles, cycle)
				}
			case white:
				visit(dep)
			}
		}

		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range g.order {
		if color[id] == white {
			visit(id)
		}
	}

	return cycles
}

// HasCycles reports whether the graph contains at least one cycle.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// TopologicalOrder returns node ids with every dependency before its dependents.
// Ties are broken by insertion order.
func (g *Graph) TopologicalOrder() ([]string, error) {
	remaining := make(map[string]int, len(g.order))
	for _, id := range g.order {
		remaining[id] = len(g.edges[id])
	}

	sorted := make([]string, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(sorted) < len(g.order) {
		progressed := false
		for _, id := range g.order {
			if done[id] || remaining[id] > 0 {
				continue
			}
			done[id] = true
			sorted = append(sorted, id)
			for _, dependent := range g.reverse[id] {
				remaining[dependent]--
			}
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("%w: %d of %d tasks could not be ordered",
				ErrCycle, len(g.order)-len(sorted), len(g.order))
		}
	}

	return sorted, nil
}

// canonicalKey identifies a cycle independent of its starting node.
func canonicalKey(cycle []string) string {
	start := 0
	for i, id := range cycle {
		if id < cycle[start] {
			start = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	for i := range cycle {
		rotated = append(rotated, cycle[(start+i)%len(cycle)])
	}
	return strings.Join(rotated, "\x00")
}
