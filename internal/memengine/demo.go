package memengine

import "github.com/LadybugDB/bugscope/internal/value"

// Query prefixes matched by the demo dataset. The overview pair is matched
// regardless of its LIMIT clause.
const (
	demoNodesPrefix = "MATCH (n) RETURN n, LABEL(n)"
	demoLinksPrefix = "MATCH (a)-[r]->(b) RETURN ID(a)"
	demoPathsPrefix = "MATCH (a)-[r]->(b) RETURN a, r, b"
)

// Demo returns an engine that serves a small people/companies graph for
// every path.
func Demo() *Engine {
	e := New()
	e.SetFallback(DemoDataset())
	return e
}

// DemoDataset returns the dataset served by Demo.
func DemoDataset() *Dataset {
	alice := demoNode(0, 0, "Person", "p1", "Alice")
	bob := demoNode(0, 1, "Person", "p2", "Bob")
	acme := demoNode(1, 0, "Company", "c1", "Acme")

	knows := value.Rel{Label: "KNOWS", Src: alice.ID, Dst: bob.ID}
	alicePlace := value.Rel{Label: "WORKS_AT", Src: alice.ID, Dst: acme.ID}
	bobPlace := value.Rel{Label: "WORKS_AT", Src: bob.ID, Dst: acme.ID}

	nodeRow := func(n value.Node) value.Row {
		return value.Row{n, value.String(n.Label), n.ID}
	}
	linkRow := func(r value.Rel) value.Row {
		return value.Row{r.Src, r.Dst, value.String(r.Label)}
	}

	return NewDataset().
		ScriptPrefix(demoNodesPrefix, nodeRow(alice), nodeRow(bob), nodeRow(acme)).
		ScriptPrefix(demoLinksPrefix, linkRow(knows), linkRow(alicePlace), linkRow(bobPlace)).
		ScriptPrefix(demoPathsPrefix,
			value.Row{alice, knows, bob},
			value.Row{alice, alicePlace, acme},
			value.Row{bob, bobPlace, acme},
		)
}

func demoNode(table, offset uint64, label, id, name string) value.Node {
	return value.Node{
		ID:    value.InternalID{TableID: table, Offset: offset},
		Label: label,
		Properties: value.Properties{
			{Key: "id", Value: value.String(id)},
			{Key: "name", Value: value.String(name)},
		},
	}
}
