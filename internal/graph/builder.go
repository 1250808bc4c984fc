package graph

// builder accumulates nodes and candidate links and enforces referential
// integrity once, at build time.
type builder struct {
	nodes      []Node
	ids        map[string]struct{}
	candidates []Link
}

func newBuilder() *builder {
	return &builder{
		nodes:      []Node{},
		ids:        make(map[string]struct{}),
		candidates: []Link{},
	}
}

// addNode adds n unless a node with the same id was added before. It reports
// whether n was added.
func (b *builder) addNode(n Node) bool {
	if _, seen := b.ids[n.ID]; seen {
		return false
	}
	b.ids[n.ID] = struct{}{}
	b.nodes = append(b.nodes, n)
	return true
}

func (b *builder) addCandidate(l Link) {
	b.candidates = append(b.candidates, l)
}

func (b *builder) has(id string) bool {
	_, ok := b.ids[id]
	return ok
}

// build drops every candidate link with an endpoint outside the node set.
func (b *builder) build() Data {
	links := make([]Link, 0, len(b.candidates))
	for _, l := range b.candidates {
		if b.has(l.Source) && b.has(l.Target) {
			links = append(links, l)
		}
	}
	return Data{Nodes: b.nodes, Links: links}
}
