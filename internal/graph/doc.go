// Package graph projects engine result rows into a visualization-ready
// node/link graph.
//
// # Modes
//
// **Overview** consumes the fixed query pair built by OverviewQueries: one
// row per node (entity, label, internal id) and one row per relationship
// (source id, destination id, label). Rows that do not have that shape are
// skipped individually.
//
// **Ad hoc** (Project) consumes rows of an arbitrary user query. Every node
// value found in any column becomes a graph node (first occurrence wins) and
// every relationship value becomes a candidate link. Scalars and other
// values are ignored.
//
// # Integrity
//
// In both modes the node set is complete before links are checked: a link
// is kept only when both of its endpoints are nodes of the same Data. Nodes
// are never dropped for lacking links. Node ids are the canonical
// "{tableId}:{offset}" form of the engine's internal ids and are unique
// within one Data.
//
// All functions here are pure; they hold no state between calls.
package graph
