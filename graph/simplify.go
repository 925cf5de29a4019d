package graph

import (
	"slices"
	"strings"

	"github.com/etnz/satsnav"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// RoundTripTooltip is the tooltip of the edges of a collapsed round trip.
const RoundTripTooltip = "Round trip"

// IsAnchor reports whether the node is a lot of the base asset obtained by a
// single conversion: the possible end of a round trip.
func (g *Graph) IsAnchor(id string, base satsnav.Asset) bool {
	if !g.isBase(id, base) || g.InDegree(id) != 1 {
		return false
	}
	e, _ := g.Edge(g.in[id][0], id)
	return e.Label == LabelConvert
}

// Anchors returns the anchors of the graph in node order.
func (g *Graph) Anchors(base satsnav.Asset) []string {
	var anchors []string
	for _, id := range g.order {
		if g.IsAnchor(id, base) {
			anchors = append(anchors, id)
		}
	}
	return anchors
}

func (g *Graph) isBase(id string, base satsnav.Asset) bool {
	n, ok := g.nodes[id].(RefNode)
	return ok && n.Ref.Asset == base
}

// frontier is a stack of node ids that never holds the same id twice.
type frontier struct {
	stack []string
	set   map[string]bool
}

func (f *frontier) push(id string) {
	if f.set[id] {
		return
	}
	f.stack = append(f.stack, id)
	f.set[id] = true
}

func (f *frontier) pop() string {
	id := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	delete(f.set, id)
	return id
}

// Collapse replaces the round trip ending at anchor by a single diamond
// node, linked from the base asset lots the trip started from and to the
// lots it ended in. It returns the id of the new node.
//
// Lots still held, or sent out of the tracked world, at the end of the
// trip are terminals of the new node.
//
// It returns satsnav.ErrNotApplicable when anchor is not an anchor or when
// some lot of the trip came from outside the ledger.
func (g *Graph) Collapse(anchor string, base satsnav.Asset) (string, error) {
	if !g.IsAnchor(anchor, base) {
		return "", errors.Wrapf(satsnav.ErrNotApplicable, "%s is not a conversion to %s", anchor, base)
	}

	visited := map[string]bool{anchor: true}
	order := []string{anchor}
	todo := &frontier{set: make(map[string]bool)}
	for _, id := range g.in[anchor] {
		todo.push(id)
	}
	for len(todo.stack) > 0 {
		id := todo.pop()
		n, ok := g.nodes[id].(RefNode)
		if !ok {
			continue // a sink, the lot leading to it is a terminal
		}
		visited[id] = true
		order = append(order, id)

		isBase := n.Ref.Asset == base
		if isBase && !slices.ContainsFunc(g.in[id], func(x string) bool { return visited[x] }) {
			continue // a source
		}
		if !isBase && g.InDegree(id) == 0 {
			return "", errors.Wrapf(satsnav.ErrNotApplicable, "round trip to %s reaches %s with no origin", anchor, id)
		}
		if !isBase || g.OutDegree(id) > 1 {
			for _, next := range g.out[id] {
				if !visited[next] {
					todo.push(next)
				}
			}
		}
		for _, prev := range g.in[id] {
			if !visited[prev] {
				todo.push(prev)
			}
		}
		if len(todo.stack) != len(todo.set) {
			return "", errors.Errorf("frontier of %s out of sync: %d queued, %d known", anchor, len(todo.stack), len(todo.set))
		}
	}

	var sources, terminals, interior []string
	for _, id := range order {
		switch {
		case !slices.ContainsFunc(g.in[id], func(x string) bool { return visited[x] }):
			sources = append(sources, id)
		case !slices.ContainsFunc(g.out[id], func(x string) bool { return visited[x] }):
			terminals = append(terminals, id)
		default:
			interior = append(interior, id)
		}
	}
	if len(sources) == 0 || len(terminals) == 0 {
		return "", errors.Wrapf(satsnav.ErrNotApplicable, "round trip to %s has no boundary", anchor)
	}

	for _, e := range g.Edges() {
		if visited[e.From] && visited[e.To] {
			g.DropEdge(e.From, e.To)
		}
	}
	for _, id := range interior {
		g.DropNode(id)
	}
	id := "shape_" + strings.ReplaceAll(uuid.NewSHA1(uuid.NameSpaceOID, []byte(anchor)).String(), "-", "")
	g.MergeNode(id, ShapeNode{Shape: Diamond, ID: id})
	for _, s := range sources {
		if err := g.MergeEdge(Edge{From: s, To: id, Tooltip: RoundTripTooltip}); err != nil {
			return "", err
		}
	}
	for _, t := range terminals {
		if err := g.MergeEdge(Edge{From: id, To: t, Tooltip: RoundTripTooltip}); err != nil {
			return "", err
		}
	}
	return id, nil
}

// Simplify collapses every closed round trip of the graph and returns the
// number of collapsed trips. Anchors whose trip is not closed are left untouched.
func (g *Graph) Simplify(base satsnav.Asset) (int, error) {
	count := 0
	for _, anchor := range g.Anchors(base) {
		if _, ok := g.nodes[anchor]; !ok {
			continue
		}
		_, err := g.Collapse(anchor, base)
		if errors.Is(err, satsnav.ErrNotApplicable) {
			continue
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
