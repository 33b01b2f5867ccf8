package arclink

import (
	"context"
	"slices"
)

// Walk calls visit with the edge ids of every spanning tree of the
// linking's graph, stopping early when visit returns false. The linking is
// restored before Walk returns. A graph that is not connected has none.
func (l *Linking) Walk(ctx context.Context, visit func(edges []int) bool) error {
	var stop bool
	var err error
	var rec func(chosen []int)
	rec = func(chosen []int) {
		if stop {
			return
		}
		if err = ctx.Err(); err != nil {
			stop = true
			return
		}
		if l.active <= 1 {
			stop = !visit(slices.Clone(chosen))
			return
		}
		u := l.nodes[root].right
		c := l.nodes[u].down
		if c == u {
			return
		}
		v := l.cols[l.nodes[c].tip]

		ct := l.ContractEdge(Column(u), Column(v))
		rec(append(chosen, l.nodes[c].id))
		l.ExpandEdge(ct)

		if stop {
			return
		}
		l.DeleteRow(Cell(c))
		rec(chosen)
		l.UndeleteRow(Cell(c))
	}
	rec(nil)
	return err
}

// SpanningTrees returns every spanning tree of the graph on vertices
// 0..n-1 as sorted edge indices.
func SpanningTrees(ctx context.Context, n int, edges [][2]int) ([][]int, error) {
	l, _, err := FromEdges(n, edges)
	if err != nil {
		return nil, err
	}
	var out [][]int
	err = l.Walk(ctx, func(t []int) bool {
		slices.Sort(t)
		out = append(out, t)
		return true
	})
	return out, err
}

// CountSpanningTrees returns the number of spanning trees of the graph.
func CountSpanningTrees(ctx context.Context, n int, edges [][2]int) (int, error) {
	l, _, err := FromEdges(n, edges)
	if err != nil {
		return 0, err
	}
	count := 0
	err = l.Walk(ctx, func([]int) bool {
		count++
		return true
	})
	return count, err
}
