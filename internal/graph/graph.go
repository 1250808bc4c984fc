package graph

import (
	"fmt"

	"github.com/LadybugDB/bugscope/internal/value"
)

// FallbackName is used for nodes without a name, id or title property, and
// FallbackLabel for overview rows without a string label.
const (
	FallbackName  = "Node"
	FallbackLabel = "Node"
)

// nameKeys are the property names tried, in priority order, for a node's
// display name.
var nameKeys = []string{"name", "id", "title"}

// Node is a graph vertex.
type Node struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
}

// Link is a directed graph edge between two node ids.
type Link struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Label  string `json:"label" yaml:"label"`
}

// Data is a projected graph. Nodes keep first-seen order and links keep
// discovery order. Both slices are non-nil so they encode as JSON arrays.
type Data struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// OverviewQueries returns the node and link queries of the overview, each
// capped at limit rows.
func OverviewQueries(limit int) (nodes, links string) {
	nodes = fmt.Sprintf("MATCH (n) RETURN n, LABEL(n) AS label, ID(n) AS nodeId LIMIT %d", limit)
	links = fmt.Sprintf("MATCH (a)-[r]->(b) RETURN ID(a) AS src, ID(b) AS dst, LABEL(r) AS relType LIMIT %d", limit)
	return nodes, links
}

// DisplayName picks the display name of an entity: the first property named
// "name", else "id", else "title", else FallbackName.
func DisplayName(props value.Properties) string {
	for _, key := range nameKeys {
		if v, ok := props.Get(key); ok && v != nil {
			return v.String()
		}
	}
	return FallbackName
}

// Overview builds the overview graph from the rows of the overview query
// pair.
func Overview(nodeRows, linkRows []value.Row) Data {
	b := newBuilder()

	for _, row := range nodeRows {
		if len(row) < 3 {
			continue
		}
		id, ok := value.AsInternalID(row[2])
		if !ok {
			continue
		}
		label, ok := value.AsString(row[1])
		if !ok {
			label = FallbackLabel
		}
		b.addNode(Node{
			ID:    id.String(),
			Name:  entityName(row[0]),
			Label: label,
		})
	}

	for _, row := range linkRows {
		if len(row) < 3 {
			continue
		}
		src, ok := value.AsInternalID(row[0])
		if !ok {
			continue
		}
		dst, ok := value.AsInternalID(row[1])
		if !ok {
			continue
		}
		label, _ := value.AsString(row[2])
		b.addCandidate(Link{Source: src.String(), Target: dst.String(), Label: label})
	}

	return b.build()
}

// Project builds a graph from the rows of an arbitrary query.
func Project(rows []value.Row) Data {
	p := &projector{b: newBuilder()}
	for _, row := range rows {
		for _, v := range row {
			if v != nil {
				v.Accept(p)
			}
		}
	}
	return p.b.build()
}

// projector collects nodes and candidate links from every column.
type projector struct {
	b *builder
}

func (p *projector) VisitNode(n value.Node) {
	p.b.addNode(Node{
		ID:    n.ID.String(),
		Name:  DisplayName(n.Properties),
		Label: n.Label,
	})
}

func (p *projector) VisitRel(r value.Rel) {
	p.b.addCandidate(Link{
		Source: r.Src.String(),
		Target: r.Dst.String(),
		Label:  r.Label,
	})
}

func (p *projector) VisitScalar(value.Scalar)         {}
func (p *projector) VisitInternalID(value.InternalID) {}
func (p *projector) VisitOther(value.Other)           {}

// entityName returns the display name of a node value, or FallbackName for
// any other variant.
func entityName(v value.Value) string {
	if v == nil {
		return FallbackName
	}
	n := &namer{name: FallbackName}
	v.Accept(n)
	return n.name
}

type namer struct {
	name string
}

func (n *namer) VisitNode(node value.Node)        { n.name = DisplayName(node.Properties) }
func (n *namer) VisitRel(value.Rel)               {}
func (n *namer) VisitScalar(value.Scalar)         {}
func (n *namer) VisitInternalID(value.InternalID) {}
func (n *namer) VisitOther(value.Other)           {}
