// Package arclink implements Knuth's dancing links over the arcs of an
// undirected multigraph.
//
// Every vertex is a column; every edge is a row of two cells, one in the
// column of each endpoint, whose tip names the opposite endpoint. Rows can
// be removed and restored in O(1) ([Linking.DeleteRow], [Linking.UndeleteRow])
// and an edge can be contracted by hanging the arc list of one endpoint into
// the other ([Linking.ContractEdge], [Linking.ExpandEdge]). Every mutation is
// undone by its inverse applied in reverse order, which is what the
// deletion/contraction enumeration in [SpanningTrees] relies on.
//
// Cells live in a flat arena and refer to each other by index, so a Linking
// is a single allocation that can be discarded without cleanup.
package arclink
