package graph

import (
	"strings"
	"testing"

	"github.com/etnz/satsnav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollapseRoundTrip(t *testing.T) {
	g := buildGraph(t,
		satsnav.NewTrade(
			entry("W", "1", 1, satsnav.KindTrade, "-2000", eur),
			entry("W", "2", 1, satsnav.KindTrade, "0.1", btc),
		),
		satsnav.NewTrade(
			entry("W", "3", 2, satsnav.KindTrade, "-0.1", btc),
			entry("W", "4", 2, satsnav.KindTrade, "2500", eur),
		),
	)
	anchor := "W-W-4"
	require.Equal(t, []string{anchor}, g.Anchors(eur))

	id, err := g.Collapse(anchor, eur)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "shape_"))

	assert.Equal(t, []string{"W-W-1", anchor, id}, g.Nodes())
	assert.Equal(t, []Edge{
		{From: "W-W-1", To: id, Tooltip: RoundTripTooltip},
		{From: id, To: anchor, Tooltip: RoundTripTooltip},
	}, g.Edges())

	n := mustNode(t, g, id)
	assert.Equal(t, Diamond, n.(ShapeNode).Shape)
}

func TestCollapsePartialSale(t *testing.T) {
	g := buildGraph(t,
		satsnav.NewTrade(
			entry("W", "1", 1, satsnav.KindTrade, "-1000", eur),
			entry("W", "2", 1, satsnav.KindTrade, "0.05", btc),
		),
		satsnav.NewTrade(
			entry("W", "3", 2, satsnav.KindTrade, "-0.02", btc),
			entry("W", "4", 2, satsnav.KindTrade, "500", eur),
		),
	)
	anchor, held := "W-W-4", "W-W-2~1"
	require.Equal(t, []string{"W-W-1", "W-W-2", held, "W-W-2~2", anchor}, g.Nodes())

	id, err := g.Collapse(anchor, eur)
	require.NoError(t, err)

	assert.Equal(t, []string{"W-W-1", held, anchor, id}, g.Nodes())
	assert.Equal(t, []Edge{
		{From: "W-W-1", To: id, Tooltip: RoundTripTooltip},
		{From: id, To: anchor, Tooltip: RoundTripTooltip},
		{From: id, To: held, Tooltip: RoundTripTooltip},
	}, g.Edges())
	assert.True(t, mustNode(t, g, held).(RefNode).Ref.Amount.Equal(satsnav.D("0.03")))
}

func TestCollapseWithdrawnPart(t *testing.T) {
	g := buildGraph(t,
		satsnav.NewTrade(
			entry("W", "1", 1, satsnav.KindTrade, "-1000", eur),
			entry("W", "2", 1, satsnav.KindTrade, "0.05", btc),
		),
		satsnav.NewSingle(entry("W", "3", 2, satsnav.KindWithdrawal, "-0.05", btc)),
	)
	require.Empty(t, g.Anchors(eur))

	g = buildGraph(t,
		satsnav.NewTrade(
			entry("W", "1", 1, satsnav.KindTrade, "-1000", eur),
			entry("W", "2", 1, satsnav.KindTrade, "0.05", btc),
		),
		satsnav.NewSingle(entry("W", "3", 2, satsnav.KindWithdrawal, "-0.01", btc)),
		satsnav.NewTrade(
			entry("W", "4", 3, satsnav.KindTrade, "-0.04", btc),
			entry("W", "5", 3, satsnav.KindTrade, "900", eur),
		),
	)
	id, err := g.Collapse("W-W-5", eur)
	require.NoError(t, err)
	for _, e := range g.Edges() {
		if e.From == id {
			_, isRef := mustNode(t, g, e.To).(RefNode)
			assert.True(t, isRef, "the diamond leads to lots, not to sinks")
		}
	}
	assert.Contains(t, g.OutNeighbors(id), "W-W-5")
	assert.Equal(t, []string{id}, g.OutNeighbors("W-W-1"))
}

func TestCollapseIsDeterministic(t *testing.T) {
	txs := []satsnav.Transaction{
		satsnav.NewTrade(entry("W", "1", 1, satsnav.KindTrade, "-2000", eur), entry("W", "2", 1, satsnav.KindTrade, "0.1", btc)),
		satsnav.NewTrade(entry("W", "3", 2, satsnav.KindTrade, "-0.1", btc), entry("W", "4", 2, satsnav.KindTrade, "2500", eur)),
	}
	a, err := buildGraph(t, txs...).Collapse("W-W-4", eur)
	require.NoError(t, err)
	b, err := buildGraph(t, txs...).Collapse("W-W-4", eur)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCollapseNotApplicable(t *testing.T) {
	buy := satsnav.NewTrade(
		entry("W", "1", 1, satsnav.KindTrade, "-2000", eur),
		entry("W", "2", 1, satsnav.KindTrade, "0.1", btc),
	)
	testCases := []struct {
		name   string
		txs    []satsnav.Transaction
		anchor string
	}{
		{
			name:   "not an anchor",
			txs:    []satsnav.Transaction{buy},
			anchor: "W-W-2",
		},
		{
			name: "lot deposited from outside",
			txs: []satsnav.Transaction{
				satsnav.NewSingle(entry("W", "1", 1, satsnav.KindDeposit, "0.1", btc)),
				satsnav.NewTrade(entry("W", "3", 2, satsnav.KindTrade, "-0.1", btc), entry("W", "4", 2, satsnav.KindTrade, "2500", eur)),
			},
			anchor: "W-W-4",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGraph(t, tc.txs...)
			nodes, edges := g.Nodes(), g.Edges()

			_, err := g.Collapse(tc.anchor, eur)
			assert.ErrorIs(t, err, satsnav.ErrNotApplicable)
			assert.Equal(t, nodes, g.Nodes())
			assert.Equal(t, edges, g.Edges())
		})
	}
}

func TestSimplify(t *testing.T) {
	testCases := []struct {
		name  string
		txs   []satsnav.Transaction
		want  int
		nodes int
	}{
		{
			name:  "no anchor",
			txs:   []satsnav.Transaction{satsnav.NewSingle(entry("W", "1", 1, satsnav.KindDeposit, "1", btc))},
			want:  0,
			nodes: 1,
		},
		{
			name: "partial sale",
			txs: []satsnav.Transaction{
				satsnav.NewTrade(entry("W", "1", 1, satsnav.KindTrade, "-1000", eur), entry("W", "2", 1, satsnav.KindTrade, "0.05", btc)),
				satsnav.NewTrade(entry("W", "3", 2, satsnav.KindTrade, "-0.02", btc), entry("W", "4", 2, satsnav.KindTrade, "500", eur)),
			},
			want:  1,
			nodes: 4,
		},
		{
			name: "one round trip and one held lot",
			txs: []satsnav.Transaction{
				satsnav.NewTrade(entry("W", "1", 1, satsnav.KindTrade, "-2000", eur), entry("W", "2", 1, satsnav.KindTrade, "0.1", btc)),
				satsnav.NewTrade(entry("W", "3", 2, satsnav.KindTrade, "-0.1", btc), entry("W", "4", 2, satsnav.KindTrade, "2500", eur)),
				satsnav.NewTrade(entry("W", "5", 3, satsnav.KindTrade, "-1000", eur), entry("W", "6", 3, satsnav.KindTrade, "0.05", btc)),
			},
			want:  1,
			nodes: 5,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGraph(t, tc.txs...)
			n, err := g.Simplify(eur)
			require.NoError(t, err)
			assert.Equal(t, tc.want, n)
			assert.Equal(t, tc.nodes, g.Len())
		})
	}
}
