package arclink

import (
	"fmt"
	"slices"
)

// Cell is a handle to an arc cell.
type Cell int

// Column is a handle to a column (vertex) header.
type Column int

const root = 0

// node is either the root, a column header or an arc cell. For headers
// left/right link the header ring; for cells they link the row.
type node struct {
	up, down    int
	left, right int
	id          int // column: vertex id; cell: edge id
	tip         int // cell: vertex id at the other end of the arc
}

// Entry describes one cell of a row to append.
type Entry struct {
	Column int // vertex id of the column holding the cell
	ID     int // edge id
	Tip    int // vertex id the arc points to
}

// Linking is the arc structure of a multigraph.
type Linking struct {
	nodes  []node
	cols   map[int]int
	rows   int
	active int
}

// New returns a linking with one column per vertex 0..n-1.
func New(n int) *Linking {
	l := &Linking{
		nodes: []node{{id: -1, tip: -1}},
		cols:  make(map[int]int, n),
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	_ = l.AppendColumns(ids)
	return l
}

// FromEdges builds the linking of the graph on vertices 0..n-1. Edge i gets
// row id i and its cell in the column of edges[i][0] is returned as cells[i].
// Loops are skipped (cells[i] is -1) since they never lie on a spanning tree.
func FromEdges(n int, edges [][2]int) (*Linking, []Cell, error) {
	l := New(n)
	cells := make([]Cell, len(edges))
	for i, e := range edges {
		u, v := e[0], e[1]
		if u < 0 || u >= n || v < 0 || v >= n {
			return nil, nil, fmt.Errorf("edge %d: endpoint out of range [0, %d)", i, n)
		}
		if u == v {
			cells[i] = -1
			continue
		}
		c, err := l.AppendRow([]Entry{{Column: u, ID: i, Tip: v}, {Column: v, ID: i, Tip: u}})
		if err != nil {
			return nil, nil, err
		}
		cells[i] = c
	}
	return l, cells, nil
}

// AppendColumns adds columns to the right of the header ring. Ids must be
// unique.
func (l *Linking) AppendColumns(ids []int) error {
	for _, id := range ids {
		if _, ok := l.cols[id]; ok {
			return fmt.Errorf("duplicate column %d", id)
		}
		x := len(l.nodes)
		last := l.nodes[root].left
		l.nodes = append(l.nodes, node{up: x, down: x, left: last, right: root, id: id, tip: -1})
		l.nodes[last].right = x
		l.nodes[root].left = x
		l.cols[id] = x
		l.active++
	}
	return nil
}

// AppendRow adds a row with one cell per entry, each at the bottom of its
// column, and returns the first cell.
func (l *Linking) AppendRow(entries []Entry) (Cell, error) {
	if len(entries) == 0 {
		return -1, fmt.Errorf("empty row")
	}
	first := -1
	for _, e := range entries {
		col, ok := l.cols[e.Column]
		if !ok {
			return -1, fmt.Errorf("unknown column %d", e.Column)
		}
		x := len(l.nodes)
		n := node{up: l.nodes[col].up, down: col, left: x, right: x, id: e.ID, tip: e.Tip}
		if first >= 0 {
			n.left, n.right = l.nodes[first].left, first
		}
		l.nodes = append(l.nodes, n)
		l.nodes[n.up].down = x
		l.nodes[n.down].up = x
		l.nodes[n.left].right = x
		l.nodes[n.right].left = x
		if first < 0 {
			first = x
		}
	}
	l.rows++
	return Cell(first), nil
}

// Rows returns the number of rows ever appended.
func (l *Linking) Rows() int { return l.rows }

// Active returns the number of columns in the header ring.
func (l *Linking) Active() int { return l.active }

// Column returns the header of vertex id.
func (l *Linking) Column(id int) (Column, bool) {
	c, ok := l.cols[id]
	return Column(c), ok
}

// ColumnID returns the vertex id of a column.
func (l *Linking) ColumnID(c Column) int { return l.nodes[c].id }

// Columns returns the vertex ids in header-ring order.
func (l *Linking) Columns() []int {
	var out []int
	for c := l.nodes[root].right; c != root; c = l.nodes[c].right {
		out = append(out, l.nodes[c].id)
	}
	return out
}

// Cells returns the cells currently hanging in a column, top to bottom.
func (l *Linking) Cells(c Column) []Cell {
	var out []Cell
	for i := l.nodes[c].down; i != int(c); i = l.nodes[i].down {
		out = append(out, Cell(i))
	}
	return out
}

// IDs returns the sorted edge ids of the cells in a column.
func (l *Linking) IDs(c Column) []int {
	var out []int
	for _, i := range l.Cells(c) {
		out = append(out, l.nodes[i].id)
	}
	slices.Sort(out)
	return out
}

// ID returns the edge id of a cell.
func (l *Linking) ID(c Cell) int { return l.nodes[c].id }

// Tip returns the vertex id a cell points to.
func (l *Linking) Tip(c Cell) int { return l.nodes[c].tip }

// Reverse returns the opposite arc of a two-cell row.
func (l *Linking) Reverse(c Cell) Cell { return Cell(l.nodes[c].right) }

func (l *Linking) deleteCell(i int) {
	n := l.nodes[i]
	l.nodes[n.up].down = n.down
	l.nodes[n.down].up = n.up
}

func (l *Linking) undeleteCell(i int) {
	n := l.nodes[i]
	l.nodes[n.up].down = i
	l.nodes[n.down].up = i
}

func (l *Linking) deleteRowExclusive(r int) {
	for i := l.nodes[r].right; i != r; i = l.nodes[i].right {
		l.deleteCell(i)
	}
}

func (l *Linking) undeleteRowExclusive(r int) {
	for i := l.nodes[r].left; i != r; i = l.nodes[i].left {
		l.undeleteCell(i)
	}
}

// DeleteRow unlinks every cell of r's row from its column.
func (l *Linking) DeleteRow(r Cell) {
	l.deleteCell(int(r))
	l.deleteRowExclusive(int(r))
}

// UndeleteRow reverts DeleteRow(r).
func (l *Linking) UndeleteRow(r Cell) {
	l.undeleteRowExclusive(int(r))
	l.undeleteCell(int(r))
}

// CoverColumn removes c from the header ring and the other cells of every
// row through c from their columns.
func (l *Linking) CoverColumn(c Column) {
	l.unlinkColumn(int(c))
	for i := l.nodes[c].down; i != int(c); i = l.nodes[i].down {
		l.deleteRowExclusive(i)
	}
}

// UncoverColumn reverts CoverColumn(c).
func (l *Linking) UncoverColumn(c Column) {
	for i := l.nodes[c].up; i != int(c); i = l.nodes[i].up {
		l.undeleteRowExclusive(i)
	}
	l.relinkColumn(int(c))
}

func (l *Linking) unlinkColumn(c int) {
	n := l.nodes[c]
	l.nodes[n.left].right = n.right
	l.nodes[n.right].left = n.left
	l.active--
}

func (l *Linking) relinkColumn(c int) {
	n := l.nodes[c]
	l.nodes[n.left].right = c
	l.nodes[n.right].left = c
	l.active++
}

// Contraction records what ContractEdge changed.
type Contraction struct {
	u, v        int
	deleted     []int // rows between u and v, in deletion order
	first, last int
	spliced     bool
}

// Deleted returns the edge ids removed as parallel arcs between u and v.
func (c Contraction) Deleted(l *Linking) []int {
	out := make([]int, len(c.deleted))
	for i, r := range c.deleted {
		out[i] = l.nodes[r].id
	}
	return out
}

// ContractEdge merges u into v: every row between them is deleted, arcs
// pointing at u are bent to v, u's remaining arcs are hung into v's list
// and u leaves the header ring.
func (l *Linking) ContractEdge(u, v Column) Contraction {
	vid := l.nodes[v].id
	ct := Contraction{u: int(u), v: int(v)}
	for i := l.nodes[u].down; i != int(u); i = l.nodes[i].down {
		if l.nodes[i].tip == vid {
			l.DeleteRow(Cell(i))
			ct.deleted = append(ct.deleted, i)
		} else {
			l.nodes[l.nodes[i].right].tip = vid
		}
	}
	l.hangIn(&ct)
	l.unlinkColumn(ct.u)
	return ct
}

// ExpandEdge reverts the contraction. Contractions must be expanded in
// reverse order.
func (l *Linking) ExpandEdge(ct Contraction) {
	l.relinkColumn(ct.u)
	l.hangOut(ct)
	uid := l.nodes[ct.u].id
	for i := l.nodes[ct.u].up; i != ct.u; i = l.nodes[i].up {
		l.nodes[l.nodes[i].right].tip = uid
	}
	for k := len(ct.deleted) - 1; k >= 0; k-- {
		l.UndeleteRow(Cell(ct.deleted[k]))
	}
}

func (l *Linking) hangIn(ct *Contraction) {
	u, v := ct.u, ct.v
	if l.nodes[u].down == u {
		return
	}
	ct.first, ct.last, ct.spliced = l.nodes[u].down, l.nodes[u].up, true
	l.nodes[ct.last].down = l.nodes[v].down
	l.nodes[l.nodes[v].down].up = ct.last
	l.nodes[ct.first].up = v
	l.nodes[v].down = ct.first
}

func (l *Linking) hangOut(ct Contraction) {
	if !ct.spliced {
		return
	}
	u, v := ct.u, ct.v
	l.nodes[v].down = l.nodes[ct.last].down
	l.nodes[l.nodes[v].down].up = v
	l.nodes[ct.last].down = u
	l.nodes[ct.first].up = u
}
