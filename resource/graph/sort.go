package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// A CycleError is returned when resources depend on each other in a way that
// makes it impossible to order them.
type CycleError struct {
	// Cycles contains the resource names of every cycle in the graph. Each
	// cycle is sorted.
	Cycles [][]string
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = "[" + strings.Join(c, ", ") + "]"
	}
	return fmt.Sprintf("dependency cycle between resources: %s", strings.Join(parts, ", "))
}

// Sort returns the names of all resources in dependency order: a resource is
// always listed after every resource it depends on. Where the dependencies
// leave the order open, resources are ordered by name.
//
// An error is returned if a resource declares a dependency to a resource that
// does not exist. If the resources contain dependency cycles, a *CycleError
// listing every cycle is returned.
func (g *Graph) Sort() ([]string, error) {
	dg, names, selfRefs, err := g.directed()
	if err != nil {
		return nil, err
	}

	sorted, err := topo.SortStabilized(dg, nil)
	var cycles [][]gonum.Node
	if err != nil {
		unorderable, ok := err.(topo.Unorderable)
		if !ok {
			return nil, errors.Wrap(err, "sort resources")
		}
		cycles = unorderable
	}
	cycles = append(cycles, selfRefs...)
	if len(cycles) > 0 {
		return nil, cycleError(cycles, names)
	}

	out := make([]string, len(sorted))
	for i, n := range sorted {
		out[i] = names[n.ID()]
	}
	return out, nil
}

// directed builds a gonum graph of the resources. Node IDs are assigned in
// lexical order of the resource names, so ordering nodes by ID orders them by
// name. Resources that depend on themselves are returned separately, as the
// graph cannot hold self edges.
func (g *Graph) directed() (*simple.DirectedGraph, []string, [][]gonum.Node, error) {
	names := make([]string, 0, len(g.Resources))
	for name := range g.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make(map[string]int64, len(names))
	dg := simple.NewDirectedGraph()
	for i, name := range names {
		ids[name] = int64(i)
		dg.AddNode(simple.Node(i))
	}

	var selfRefs [][]gonum.Node
	for _, name := range names {
		id := ids[name]
		for _, parent := range g.Parents(name) {
			pid, ok := ids[parent]
			if !ok {
				return nil, nil, nil, errors.Errorf("resource %q depends on non-existing resource %q", name, parent)
			}
			if pid == id {
				selfRefs = append(selfRefs, []gonum.Node{dg.Node(id)})
				continue
			}
			dg.SetEdge(dg.NewEdge(dg.Node(pid), dg.Node(id)))
		}
	}
	return dg, names, selfRefs, nil
}

func cycleError(components [][]gonum.Node, names []string) *CycleError {
	cycles := make([][]string, len(components))
	for i, component := range components {
		c := make([]string, len(component))
		for j, n := range component {
			c[j] = names[n.ID()]
		}
		sort.Strings(c)
		cycles[i] = c
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return &CycleError{Cycles: cycles}
}
