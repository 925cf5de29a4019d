package graph

import (
	"testing"
	"time"

	"github.com/etnz/satsnav"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	btc = satsnav.NewAsset("BTC", satsnav.Crypto)
	eur = satsnav.DefaultBase
)

func day(n int) time.Time { return time.Date(2024, 1, n, 12, 0, 0, 0, time.UTC) }

func entry(wallet, id string, d int, kind satsnav.EntryKind, amount string, asset satsnav.Asset) satsnav.LedgerEntry {
	return satsnav.LedgerEntry{Wallet: wallet, ID: id, Date: day(d), Kind: kind, Amount: satsnav.D(amount), Asset: asset}
}

// buildGraph replays txs and builds the graph of their audit trail.
func buildGraph(t *testing.T, txs ...satsnav.Transaction) *Graph {
	t.Helper()
	l, err := satsnav.BuildBalances(txs, satsnav.Options{})
	require.NoError(t, err)
	g, err := Build(l.Changes(), eur)
	require.NoError(t, err)
	return g
}

func TestMergeNode(t *testing.T) {
	g := New()
	ref := satsnav.Ref{ID: "a", Asset: btc, Amount: satsnav.D("1")}
	g.MergeNode("w-a", RefNode{Ref: ref, Wallet: "w", Kind: "Fee"})
	g.MergeNode("w-a", RefNode{Ref: ref, Wallet: "w"})

	assert.Equal(t, 1, g.Len())
	n, ok := g.Node("w-a")
	require.True(t, ok)
	assert.Equal(t, "Fee", n.(RefNode).Kind)
}

func TestMergeEdge(t *testing.T) {
	g := New()
	g.MergeNode("a", ShapeNode{Shape: Point, ID: "a"})
	g.MergeNode("b", ShapeNode{Shape: Point, ID: "b"})

	require.NoError(t, g.MergeEdge(Edge{From: "a", To: "b", Label: "x"}))
	require.NoError(t, g.MergeEdge(Edge{From: "a", To: "b", Label: "y"}))
	err := g.MergeEdge(Edge{From: "a", To: "c"})
	var traced interface{ StackTrace() errors.StackTrace }
	assert.ErrorAs(t, err, &traced, "errors carry the stack they were created at")

	assert.Len(t, g.Edges(), 1)
	e, ok := g.Edge("a", "b")
	require.True(t, ok)
	assert.Equal(t, "y", e.Label)
	assert.Equal(t, 1, g.OutDegree("a"))
	assert.Equal(t, 1, g.InDegree("b"))
}

func TestDropNode(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.MergeNode(id, ShapeNode{Shape: Point, ID: id})
	}
	require.NoError(t, g.MergeEdge(Edge{From: "a", To: "b"}))
	require.NoError(t, g.MergeEdge(Edge{From: "b", To: "c"}))

	g.DropNode("b")

	assert.Equal(t, []string{"a", "c"}, g.Nodes())
	assert.Empty(t, g.Edges())
	assert.Equal(t, 0, g.OutDegree("a"))
	assert.Equal(t, 0, g.InDegree("c"))
}

func TestBuild(t *testing.T) {
	buy := satsnav.NewTrade(
		entry("W", "1", 1, satsnav.KindTrade, "-2000", eur),
		entry("W", "2", 1, satsnav.KindTrade, "0.1", btc),
	)
	testCases := []struct {
		name   string
		txs    []satsnav.Transaction
		nodes  int
		edges  []string // labels in order
		shapes []Shape
	}{
		{
			name:  "deposit",
			txs:   []satsnav.Transaction{satsnav.NewSingle(entry("W", "1", 1, satsnav.KindDeposit, "1", btc))},
			nodes: 1,
		},
		{
			name:  "buy with base",
			txs:   []satsnav.Transaction{buy},
			nodes: 2,
			edges: []string{LabelConvert},
		},
		{
			name: "fee is not shown as a sink",
			txs: []satsnav.Transaction{
				buy,
				satsnav.NewSingle(entry("W", "3", 2, satsnav.KindFee, "-0.1", btc)),
			},
			nodes: 2,
			edges: []string{LabelConvert},
		},
		{
			name: "withdrawal ends in a diamond",
			txs: []satsnav.Transaction{
				buy,
				satsnav.NewSingle(entry("W", "3", 2, satsnav.KindWithdrawal, "-0.1", btc)),
			},
			nodes:  3,
			edges:  []string{LabelConvert, satsnav.KindWithdrawal.Label()},
			shapes: []Shape{Diamond},
		},
		{
			name: "transfer between wallets",
			txs: []satsnav.Transaction{
				buy,
				satsnav.NewTransfer(
					entry("W", "3", 2, satsnav.KindWithdrawal, "-0.1", btc),
					entry("V", "1", 2, satsnav.KindDeposit, "0.1", btc),
				),
			},
			nodes: 3,
			edges: []string{LabelConvert, LabelTransfer},
		},
		{
			name: "partial sale splits",
			txs: []satsnav.Transaction{
				buy,
				satsnav.NewTrade(
					entry("W", "3", 2, satsnav.KindTrade, "-0.04", btc),
					entry("W", "4", 2, satsnav.KindTrade, "1000", eur),
				),
			},
			nodes: 5,
			edges: []string{LabelConvert, LabelSplit, LabelSplit, LabelConvert},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGraph(t, tc.txs...)
			assert.Equal(t, tc.nodes, g.Len())
			var labels []string
			for _, e := range g.Edges() {
				labels = append(labels, e.Label)
			}
			assert.Equal(t, tc.edges, labels)
			var shapes []Shape
			for _, id := range g.Nodes() {
				if n, ok := mustNode(t, g, id).(ShapeNode); ok {
					shapes = append(shapes, n.Shape)
				}
			}
			assert.Equal(t, tc.shapes, shapes)
		})
	}
}

func mustNode(t *testing.T, g *Graph, id string) Node {
	t.Helper()
	n, ok := g.Node(id)
	require.True(t, ok, id)
	return n
}

func TestBuildIsIdempotent(t *testing.T) {
	txs := []satsnav.Transaction{
		satsnav.NewSingle(entry("W", "1", 1, satsnav.KindDeposit, "1", btc)),
		satsnav.NewSingle(entry("W", "2", 2, satsnav.KindFee, "-0.5", btc)),
	}
	l, err := satsnav.BuildBalances(txs, satsnav.Options{})
	require.NoError(t, err)
	g, err := Build(l.Changes(), eur)
	require.NoError(t, err)
	for _, c := range l.Changes() {
		require.NoError(t, g.apply(c, eur))
	}
	assert.Equal(t, 3, g.Len())
	assert.Len(t, g.Edges(), 2)
}

func TestTooltip(t *testing.T) {
	testCases := []struct {
		tx   satsnav.Transaction
		want string
	}{
		{satsnav.NewSingle(entry("W", "1", 1, satsnav.KindBonus, "1", btc)), "Single: Bonus"},
		{
			satsnav.NewTrade(entry("W", "1", 1, satsnav.KindTrade, "-20", eur), entry("W", "2", 1, satsnav.KindTrade, "0.001", btc)),
			"Trade: -20 EUR -> 0.001 BTC",
		},
		{
			satsnav.NewTransfer(entry("W", "1", 1, satsnav.KindWithdrawal, "-1", btc), entry("V", "1", 1, satsnav.KindDeposit, "1", btc)),
			"Transfer: -1 BTC from W to V",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			assert.Equal(t, tc.want, Tooltip(tc.tx))
		})
	}
}
