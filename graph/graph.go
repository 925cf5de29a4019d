// Package graph derives the provenance graph of lots from the audit trail,
// simplifies round trips through the base asset, and renders it as DOT.
//
// Nodes are keyed by strings: "<wallet>-<ref id>" for lots, "shape_<n>" for
// sinks and synthetic nodes. Edges go from source lots to resulting lots.
package graph

import (
	"fmt"
	"slices"

	"github.com/etnz/satsnav"
	"github.com/pkg/errors"
)

// Shape is the DOT shape of a synthetic node.
type Shape string

const (
	Point   Shape = "point"
	Diamond Shape = "diamond"
)

// Node is either a RefNode or a ShapeNode.
type Node interface {
	isNode()
}

// RefNode is a lot held in a wallet. Kind is the label of the transaction
// that consumed the lot, if any.
type RefNode struct {
	Ref    satsnav.Ref
	Wallet string
	Kind   string
}

// ShapeNode is a synthetic node: a sink where lots leave the tracked world,
// or the replacement of a collapsed round trip.
type ShapeNode struct {
	Shape Shape
	ID    string
}

func (RefNode) isNode()   {}
func (ShapeNode) isNode() {}

// Edge labels.
const (
	LabelTransfer = "Transfer"
	LabelConvert  = "Convert"
	LabelJoin     = "Join"
	LabelSplit    = "Split"
)

// Edge is a directed link between two nodes.
type Edge struct {
	From, To string
	Label    string
	Tooltip  string
}

type edgeKey struct{ from, to string }

// Graph is a directed graph with at most one edge per ordered pair of nodes.
// Nodes and edges are kept in insertion order.
type Graph struct {
	nodes     map[string]Node
	order     []string
	edges     map[edgeKey]Edge
	edgeOrder []edgeKey
	in, out   map[string][]string
	lastShape int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		edges: make(map[edgeKey]Edge),
		in:    make(map[string][]string),
		out:   make(map[string][]string),
	}
}

// NodeID returns the key of the node of ref in wallet.
func NodeID(wallet string, ref satsnav.Ref) string { return wallet + "-" + ref.ID }

// MergeNode adds the node, or updates an existing one. A RefNode update
// without Kind keeps the previous Kind.
func (g *Graph) MergeNode(id string, n Node) {
	prev, ok := g.nodes[id]
	if !ok {
		g.nodes[id] = n
		g.order = append(g.order, id)
		return
	}
	if rn, isRef := n.(RefNode); isRef && rn.Kind == "" {
		if p, wasRef := prev.(RefNode); wasRef {
			rn.Kind = p.Kind
		}
		n = rn
	}
	g.nodes[id] = n
}

// MergeEdge adds the edge, or updates the label and tooltip of an existing
// one. Missing end nodes are an error.
func (g *Graph) MergeEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return errors.Errorf("edge from unknown node %q", e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return errors.Errorf("edge to unknown node %q", e.To)
	}
	k := edgeKey{e.From, e.To}
	if _, ok := g.edges[k]; !ok {
		g.edgeOrder = append(g.edgeOrder, k)
		g.out[e.From] = append(g.out[e.From], e.To)
		g.in[e.To] = append(g.in[e.To], e.From)
	}
	g.edges[k] = e
	return nil
}

// addShape adds a new numbered shape node and returns its id.
func (g *Graph) addShape(shape Shape) string {
	g.lastShape++
	id := fmt.Sprintf("shape_%d", g.lastShape)
	g.MergeNode(id, ShapeNode{Shape: shape, ID: id})
	return id
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge between from and to.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	e, ok := g.edges[edgeKey{from, to}]
	return e, ok
}

// Nodes returns the node ids in insertion order.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns the edges in insertion order.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edgeOrder))
	for i, k := range g.edgeOrder {
		edges[i] = g.edges[k]
	}
	return edges
}

func (g *Graph) InNeighbors(id string) []string  { return slices.Clone(g.in[id]) }
func (g *Graph) OutNeighbors(id string) []string { return slices.Clone(g.out[id]) }
func (g *Graph) InDegree(id string) int          { return len(g.in[id]) }
func (g *Graph) OutDegree(id string) int         { return len(g.out[id]) }
func (g *Graph) Len() int                        { return len(g.order) }

// DropEdge removes the edge between from and to, if any.
func (g *Graph) DropEdge(from, to string) {
	k := edgeKey{from, to}
	if _, ok := g.edges[k]; !ok {
		return
	}
	delete(g.edges, k)
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, func(x edgeKey) bool { return x == k })
	g.out[from] = slices.DeleteFunc(g.out[from], func(x string) bool { return x == to })
	g.in[to] = slices.DeleteFunc(g.in[to], func(x string) bool { return x == from })
}

// DropNode removes the node and all its edges.
func (g *Graph) DropNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for _, to := range g.OutNeighbors(id) {
		g.DropEdge(id, to)
	}
	for _, from := range g.InNeighbors(id) {
		g.DropEdge(from, id)
	}
	delete(g.nodes, id)
	delete(g.in, id)
	delete(g.out, id)
	g.order = slices.DeleteFunc(g.order, func(x string) bool { return x == id })
}
