package graph

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/etnz/satsnav"
	"github.com/shopspring/decimal"
)

// walletColors are assigned to wallets in order of appearance.
var walletColors = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#FFA07A",
	"#98D8C8",
	"#F06292",
	"#AED581",
	"#7986CB",
	"#4DB6AC",
	"#9575CD",
}

const feeColor = "#D3D3D3"

var spaces = regexp.MustCompile(`\s+`)

// dotWriter holds the state of one DOT rendering.
type dotWriter struct {
	g       *Graph
	base    satsnav.Asset
	ids     map[string]string
	colors  map[string]string
	wallets []string
}

// WriteDOT renders the graph in GraphViz DOT format. Lots are colored by
// wallet and a legend lists the wallets.
func WriteDOT(w io.Writer, g *Graph, base satsnav.Asset) error {
	d := &dotWriter{g: g, base: base, ids: make(map[string]string), colors: make(map[string]string)}
	var b strings.Builder
	b.WriteString("digraph BalanceChanges {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n\n")
	for _, id := range g.order {
		b.WriteString(d.node(id))
	}
	for _, e := range g.Edges() {
		b.WriteString(d.edge(e))
	}
	b.WriteString("\n  // Legend\n")
	b.WriteString("  subgraph cluster_legend {\n")
	b.WriteString("    label = \"Legend\";\n")
	b.WriteString("    style = filled;\n")
	b.WriteString("    color = lightgrey;\n")
	for _, wallet := range d.wallets {
		legendID := "legend_" + spaces.ReplaceAllString(wallet, "_")
		fmt.Fprintf(&b, "    %q [label=%q, color=%q, style=filled];\n", legendID, wallet, d.colors[wallet])
	}
	b.WriteString("  }\n")
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// dotID returns the DOT identifier of a node. Shapes keep their id, lots are numbered.
func (d *dotWriter) dotID(id string) string {
	if strings.HasPrefix(id, "shape_") {
		return id
	}
	if dotID, ok := d.ids[id]; ok {
		return dotID
	}
	dotID := fmt.Sprintf("ref_%d", len(d.ids)+1)
	d.ids[id] = dotID
	return dotID
}

func (d *dotWriter) color(wallet string) string {
	if c, ok := d.colors[wallet]; ok {
		return c
	}
	c := walletColors[len(d.wallets)%len(walletColors)]
	d.colors[wallet] = c
	d.wallets = append(d.wallets, wallet)
	return c
}

func (d *dotWriter) node(id string) string {
	switch n := d.g.nodes[id].(type) {
	case ShapeNode:
		return fmt.Sprintf("  %s [shape=%s];\n", d.dotID(id), n.Shape)
	case RefNode:
		ref := n.Ref
		amount := formatAmount(ref.Amount, ref.Asset.Kind)
		rate := "-"
		if ref.Rate.Valid {
			rate = ref.Rate.Decimal.StringFixed(2)
		}
		isFee := n.Kind == satsnav.KindFee.Label()
		color := feeColor
		size := 10
		if !isFee {
			color = d.color(n.Wallet)
			size = 14
		}
		label := fmt.Sprintf(`<<font point-size="%d">%s</font>`, size, escape(amount+" "+ref.Asset.Name))
		if ref.Asset != d.base {
			label += fmt.Sprintf(`<BR/><font point-size="10">%s</font>`, escape("Rate: "+rate))
		}
		label += ">"
		shown := amount
		if ref.Asset.Kind == satsnav.Fiat {
			shown = satsnav.FormatFiat(ref.Amount, ref.Asset.Name)
		}
		tooltip := escape(fmt.Sprintf("Wallet: %s, Asset: %s, Amount: %s, Rate: %s", n.Wallet, ref.Asset.Name, shown, rate))
		return fmt.Sprintf("  %s [label=%s, color=\"%s\", style=filled, tooltip=\"%s\"];\n", d.dotID(id), label, color, tooltip)
	default:
		return ""
	}
}

func (d *dotWriter) edge(e Edge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s -> %s", d.dotID(e.From), d.dotID(e.To))
	if e.Label != "" && e.Label != LabelJoin && e.Label != LabelSplit {
		fmt.Fprintf(&b, ` [label="%s"`, escape(e.Label))
	} else {
		b.WriteString(" [")
	}
	if e.Tooltip != "" {
		fmt.Fprintf(&b, ` edgetooltip="%s"`, escape(e.Tooltip))
	}
	b.WriteString("];\n")
	return b.String()
}

func escape(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }

// formatAmount prints crypto amounts with up to 6 decimals and fiat with up
// to 2, falling back to 12 decimals for amounts too small to show.
func formatAmount(amount decimal.Decimal, kind satsnav.AssetKind) string {
	places := int32(2)
	if kind == satsnav.Crypto {
		places = 6
	}
	s := trimZeros(amount.StringFixed(places))
	if s == "0" {
		return trimZeros(amount.StringFixed(12))
	}
	return s
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}
