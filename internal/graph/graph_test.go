package graph

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/LadybugDB/bugscope/internal/value"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iid(table, offset uint64) value.InternalID {
	return value.InternalID{TableID: table, Offset: offset}
}

func person(offset uint64, props ...value.Property) value.Node {
	return value.Node{ID: iid(0, offset), Label: "Person", Properties: props}
}

func prop(key string, v value.Value) value.Property {
	return value.Property{Key: key, Value: v}
}

func nodeRow(n value.Node) value.Row {
	return value.Row{n, value.String(n.Label), n.ID}
}

func linkRow(src, dst value.InternalID, label string) value.Row {
	return value.Row{src, dst, value.String(label)}
}

// assertIntegrity checks that every link endpoint is a node id and that node
// ids are unique.
func assertIntegrity(t *testing.T, d Data) {
	t.Helper()
	ids := make(map[string]int)
	for _, n := range d.Nodes {
		ids[n.ID]++
	}
	for id, count := range ids {
		assert.Equal(t, 1, count, "node id %s must be unique", id)
	}
	for _, l := range d.Links {
		assert.Contains(t, ids, l.Source, "link %+v has dangling source", l)
		assert.Contains(t, ids, l.Target, "link %+v has dangling target", l)
	}
}

func TestOverview_DropsLinksToMissingNodes(t *testing.T) {
	a := person(0, prop("name", value.String("A")))
	b := person(1, prop("name", value.String("B")))
	c := person(2, prop("name", value.String("C")))
	d := iid(0, 3)

	got := Overview(
		[]value.Row{nodeRow(a), nodeRow(b), nodeRow(c)},
		[]value.Row{linkRow(a.ID, b.ID, "KNOWS"), linkRow(b.ID, d, "KNOWS")},
	)

	want := Data{
		Nodes: []Node{
			{ID: "0:0", Name: "A", Label: "Person"},
			{ID: "0:1", Name: "B", Label: "Person"},
			{ID: "0:2", Name: "C", Label: "Person"},
		},
		Links: []Link{{Source: "0:0", Target: "0:1", Label: "KNOWS"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overview() mismatch (-want +got):\n%s", diff)
	}
	assertIntegrity(t, got)
}

func TestOverview_SkipsMalformedRows(t *testing.T) {
	a := person(0, prop("name", value.String("A")))
	b := person(1)

	nodeRows := []value.Row{
		nodeRow(a),
		{a, value.String("Person")},                 // too short
		{a, value.String("Person"), value.Int64(7)}, // id is not an internal id
		{value.Int64(1), value.Int32(9), iid(5, 5)}, // not a node, label not a string
		{b, value.Other{}, b.ID},
	}
	linkRows := []value.Row{
		{a.ID, b.ID},                                  // too short
		{value.String("0:0"), b.ID, value.String("")}, // src not an internal id
		{a.ID, value.Int64(1), value.String("X")},     // dst not an internal id
		{a.ID, b.ID, value.Int64(3)},                  // label not a string
	}

	got := Overview(nodeRows, linkRows)

	want := Data{
		Nodes: []Node{
			{ID: "0:0", Name: "A", Label: "Person"},
			{ID: "5:5", Name: "Node", Label: "Node"},
			{ID: "0:1", Name: "Node", Label: "Node"},
		},
		Links: []Link{{Source: "0:0", Target: "0:1", Label: ""}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Overview() mismatch (-want +got):\n%s", diff)
	}
}

func TestOverview_KeepsIsolatedNodes(t *testing.T) {
	a := person(0)
	got := Overview([]value.Row{nodeRow(a)}, nil)
	require.Len(t, got.Nodes, 1)
	assert.NotNil(t, got.Links)
	assert.Empty(t, got.Links)
}

func TestOverview_DuplicateNodeRowsKeepFirst(t *testing.T) {
	first := person(0, prop("name", value.String("first")))
	second := person(0, prop("name", value.String("second")))

	got := Overview([]value.Row{nodeRow(first), nodeRow(second)}, nil)
	assert.Equal(t, []Node{{ID: "0:0", Name: "first", Label: "Person"}}, got.Nodes)
}

// TestOverview_Truncation models a capped node query: links touching nodes
// beyond the cap are dropped while every capped node remains.
func TestOverview_Truncation(t *testing.T) {
	const total, limit = 10, 4
	var nodeRows, linkRows []value.Row
	for i := uint64(0); i < total; i++ {
		if i < limit {
			nodeRows = append(nodeRows, nodeRow(person(i)))
		}
		linkRows = append(linkRows, linkRow(iid(0, i), iid(0, (i+1)%total), "NEXT"))
	}

	got := Overview(nodeRows, linkRows)
	assert.Len(t, got.Nodes, limit)
	assert.Len(t, got.Links, limit-1)
	assertIntegrity(t, got)
}

func TestProject(t *testing.T) {
	alice := person(0, prop("name", value.String("Alice")))
	aliceLater := person(0, prop("name", value.String("Renamed")))
	acme := value.Node{ID: iid(1, 0), Label: "Company", Properties: value.Properties{prop("title", value.String("Acme"))}}
	worksAt := value.Rel{Label: "WORKS_AT", Src: alice.ID, Dst: acme.ID}
	dangling := value.Rel{Label: "KNOWS", Src: alice.ID, Dst: iid(0, 9)}

	rows := []value.Row{
		{alice, worksAt, acme},
		{aliceLater, dangling, value.Int64(42)},
		{value.String("scalar only"), nil},
	}

	got := Project(rows)

	want := Data{
		Nodes: []Node{
			{ID: "0:0", Name: "Alice", Label: "Person"},
			{ID: "1:0", Name: "Acme", Label: "Company"},
		},
		Links: []Link{{Source: "0:0", Target: "1:0", Label: "WORKS_AT"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}
	assertIntegrity(t, got)
}

func TestProject_LinkBeforeEndpointIsKept(t *testing.T) {
	a := person(0)
	b := person(1)
	rows := []value.Row{
		{value.Rel{Label: "KNOWS", Src: a.ID, Dst: b.ID}},
		{a},
		{b},
	}

	got := Project(rows)
	assert.Equal(t, []Link{{Source: "0:0", Target: "0:1", Label: "KNOWS"}}, got.Links)
}

func TestProject_NoGraphValues(t *testing.T) {
	got := Project([]value.Row{
		{value.String("x"), value.Int64(1), value.Float64(1.5)},
		{value.Bool(true), iid(0, 0), value.Other{Raw: []any{1}}},
	})

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, string(raw))
}

func TestProject_DuplicateIDsProduceOneNode(t *testing.T) {
	var rows []value.Row
	for i := 0; i < 5; i++ {
		rows = append(rows, value.Row{person(7, prop("name", value.String(fmt.Sprintf("n%d", i))))})
	}

	got := Project(rows)
	assert.Equal(t, []Node{{ID: "0:7", Name: "n0", Label: "Person"}}, got.Nodes)
}

func TestDisplayName(t *testing.T) {
	testCases := []struct {
		name  string
		props value.Properties
		want  string
	}{
		{name: "name wins", props: value.Properties{prop("title", value.String("T")), prop("id", value.String("x1")), prop("name", value.String("N"))}, want: "N"},
		{name: "id before title", props: value.Properties{prop("id", value.String("x1")), prop("title", value.String("T"))}, want: "x1"},
		{name: "title last", props: value.Properties{prop("title", value.String("T"))}, want: "T"},
		{name: "none", props: value.Properties{prop("age", value.Int64(3))}, want: "Node"},
		{name: "empty", props: nil, want: "Node"},
		{name: "first duplicate key wins", props: value.Properties{prop("name", value.String("one")), prop("name", value.String("two"))}, want: "one"},
		{name: "integer", props: value.Properties{prop("id", value.Int64(42))}, want: "42"},
		{name: "float", props: value.Properties{prop("id", value.Float64(1))}, want: "1"},
		{name: "bool", props: value.Properties{prop("name", value.Bool(false))}, want: "false"},
		{name: "internal id", props: value.Properties{prop("id", iid(3, 4))}, want: "3:4"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DisplayName(tc.props))
		})
	}
}

func TestOverviewQueries(t *testing.T) {
	nodes, links := OverviewQueries(500)
	assert.Equal(t, "MATCH (n) RETURN n, LABEL(n) AS label, ID(n) AS nodeId LIMIT 500", nodes)
	assert.Equal(t, "MATCH (a)-[r]->(b) RETURN ID(a) AS src, ID(b) AS dst, LABEL(r) AS relType LIMIT 500", links)
}
