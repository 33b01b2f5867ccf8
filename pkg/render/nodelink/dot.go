package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Faces labels each node with its face. When false, only the node id is
	// shown.
	Faces bool
	// Ranks adds the rank to each label.
	Ranks bool
}

// Format is an output format accepted by [Render].
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatDOT, FormatSVG, FormatPNG:
		return f, nil
	case "":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unknown format %q (want dot, svg or png)", s)
}

// ToDOT converts a lattice to Graphviz DOT. Edges point from the covered
// face to the covering one; the diagram is laid out bottom to top.
func ToDOT(l *lattice.Lattice, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Hasse {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.1,0.05\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")

	for _, r := range l.Ranks() {
		ids := l.NodesOfRank(r)
		if len(ids) == 0 {
			continue
		}
		slices.Sort(ids)
		fmt.Fprintf(&buf, "\n  subgraph rank_%s {\n    rank=same;\n", rankName(r))
		for _, id := range ids {
			fmt.Fprintf(&buf, "    n%d [%s];\n", id, strings.Join(fmtAttrs(l, id, opts), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range l.Edges() {
		fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func rankName(r int) string {
	if r < 0 {
		return "m" + strconv.Itoa(-r)
	}
	return strconv.Itoa(r)
}

func fmtLabel(l *lattice.Lattice, id int, opts Options) string {
	parts := []string{strconv.Itoa(id)}
	if opts.Faces {
		parts[0] = l.Face(id).String()
	}
	if opts.Ranks {
		r, _ := l.RankOf(id)
		parts = append(parts, fmt.Sprintf("rank %d", r))
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(l *lattice.Lattice, id int, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(l, id, opts))}
	switch {
	case l.IsArtificial(id):
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
	case id == l.TopNode() || id == l.BottomNode():
		attrs = append(attrs, "fillcolor=\"#eef3fb\"")
	}
	return attrs
}

// Render renders a lattice in the given format.
func Render(ctx context.Context, l *lattice.Lattice, format Format, opts Options) ([]byte, error) {
	dot := ToDOT(l, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatPNG:
		return RenderPNG(ctx, dot)
	default:
		return RenderSVG(ctx, dot)
	}
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders DOT source to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with one that
// scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
