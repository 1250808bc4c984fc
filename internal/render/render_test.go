package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/LadybugDB/bugscope/internal/fsutil"
	"github.com/LadybugDB/bugscope/internal/graph"
	"github.com/LadybugDB/bugscope/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var sample = graph.Data{
	Nodes: []graph.Node{
		{ID: "0:0", Name: "Alice", Label: "Person"},
		{ID: "1:0", Name: "Acme", Label: "Company"},
	},
	Links: []graph.Link{{Source: "0:0", Target: "1:0", Label: "WORKS_AT"}},
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "table", want: FormatTable},
		{in: "JSON", want: FormatJSON},
		{in: " yaml ", want: FormatYAML},
		{in: "csv", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseFormat(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWrite_JSONMatchesWireShape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, graph.Data{Nodes: []graph.Node{}, Links: []graph.Link{}}))
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatJSON, sample))
	var back graph.Data
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, sample, back)
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	dbs := []registry.DatabaseInfo{{ID: 0, Name: "companies", Path: "/data/companies.lbdb", RelativePath: "companies.lbdb"}}
	require.NoError(t, Write(&buf, FormatYAML, dbs))
	assert.Contains(t, buf.String(), "relativePath: companies.lbdb")

	var back []registry.DatabaseInfo
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, dbs, back)
}

func TestWrite_Tables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sample))
	out := buf.String()
	for _, want := range []string{"Alice", "Company", "WORKS_AT", "2 nodes, 1 links"} {
		assert.Contains(t, out, want)
	}

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, []registry.DatabaseInfo{}))
	assert.Equal(t, "No databases found.\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, FormatTable, graph.Data{}))
	assert.Equal(t, "Empty graph.\n", buf.String())

	buf.Reset()
	listing := &fsutil.DirectoryListing{
		Current:     "/data",
		Parent:      "/",
		Directories: []fsutil.DirEntry{{Name: "nested", Path: "/data/nested", Type: fsutil.EntryDirectory}},
		Files:       []fsutil.DirEntry{{Name: "companies", Path: "/data/companies.lbdb", Type: fsutil.EntryFile}},
	}
	require.NoError(t, Write(&buf, FormatTable, listing))
	out = buf.String()
	assert.Contains(t, out, "nested/")
	assert.Contains(t, out, "/data/companies.lbdb")
	assert.Contains(t, out, "..")
}

func TestWrite_TableRejectsUnknownTypes(t *testing.T) {
	err := Write(&bytes.Buffer{}, FormatTable, 42)
	require.EqualError(t, err, "no table layout for int")
}
