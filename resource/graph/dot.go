package graph

import (
	"github.com/meshstack/meshstack/ctyext"
	"gonum.org/v1/gonum/graph/encoding"
	"gonum.org/v1/gonum/graph/encoding/dot"
	"gonum.org/v1/gonum/graph/simple"
)

type dotNode struct {
	simple.Node
	name, typename string
}

func (n dotNode) DOTID() string { return n.name }

func (n dotNode) Attributes() []encoding.Attribute {
	return []encoding.Attribute{{Key: "tooltip", Value: n.typename}}
}

type dotEdge struct {
	simple.Edge
	label string
}

func (e dotEdge) Attributes() []encoding.Attribute {
	if e.label == "" {
		return nil
	}
	return []encoding.Attribute{{Key: "label", Value: e.label}}
}

// MarshalDOT renders the graph in Graphviz DOT format. Edges point from a
// parent to the resource that depends on it and are labelled with the
// fields that hold the reference.
func (g *Graph) MarshalDOT(name string) ([]byte, error) {
	dg, names, _, err := g.directed()
	if err != nil {
		return nil, err
	}
	out := simple.NewDirectedGraph()
	nodes := make(map[string]dotNode, len(names))
	for i, n := range names {
		node := dotNode{Node: simple.Node(i), name: n, typename: g.Resources[n].Type}
		nodes[n] = node
		out.AddNode(node)
	}
	edges := dg.Edges()
	for edges.Next() {
		e := edges.Edge()
		parent, child := names[e.From().ID()], names[e.To().ID()]
		var label string
		for _, d := range g.Dependencies[child] {
			for _, p := range d.Parents() {
				if p == parent {
					if label != "" {
						label += ", "
					}
					label += ctyext.PathString(d.Field)
					break
				}
			}
		}
		out.SetEdge(dotEdge{
			Edge:  simple.Edge{F: nodes[parent], T: nodes[child]},
			label: label,
		})
	}
	return dot.Marshal(out, name, "", "\t")
}
