package render

import (
	"testing"
	"time"

	"github.com/simplestation/ssu/kernel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNodes() []*model.Node {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	small := &model.Shape{Name: "cpx11", Cores: 2, MemoryGiB: 2}
	large := &model.Shape{Name: "cpx31", Cores: 4, MemoryGiB: 8}
	arm := &model.Shape{Name: "cax11", Cores: 2, MemoryGiB: 4}
	return []*model.Node{
		{ID: 3, Name: "charlie", Status: model.NodeRunning, Created: base.Add(2 * time.Hour), Shape: large},
		{ID: 1, Name: "alpha", Status: model.NodeOff, Created: base.Add(3 * time.Hour), Shape: small},
		{ID: 2, Name: "bravo", Status: model.NodeStarting, Created: base.Add(1 * time.Hour), Shape: arm},
	}
}

func names(nodes []*model.Node) []string {
	result := make([]string, len(nodes))
	for i, n := range nodes {
		result[i] = n.Name
	}
	return result
}

func TestParseNodeSort(t *testing.T) {
	tests := map[string]NodeSort{
		"alphabetical": SortAlphabetical,
		"a":            SortAlphabetical,
		"created":      SortCreated,
		"c":            SortCreated,
		"cores":        SortCores,
		"k":            SortCores,
		"memory":       SortMemory,
		"m":            SortMemory,
		"status":       SortStatus,
		"s":            SortStatus,
		" Status ":     SortStatus,
	}
	for in, want := range tests {
		got, err := ParseNodeSort(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseNodeSort_Invalid(t *testing.T) {
	_, err := ParseNodeSort("price")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "alphabetical|a")
}

func TestNodeSort_String(t *testing.T) {
	assert.Equal(t, "created", SortCreated.String())
	assert.Equal(t, "unknown", NodeSort(42).String())
}

func TestSortNodes(t *testing.T) {
	tests := []struct {
		by      NodeSort
		reverse bool
		want    []string
	}{
		{SortAlphabetical, false, []string{"alpha", "bravo", "charlie"}},
		{SortAlphabetical, true, []string{"charlie", "bravo", "alpha"}},
		{SortCreated, false, []string{"bravo", "charlie", "alpha"}},
		{SortCores, false, []string{"alpha", "bravo", "charlie"}},
		{SortMemory, false, []string{"alpha", "bravo", "charlie"}},
		{SortMemory, true, []string{"charlie", "bravo", "alpha"}},
		{SortStatus, false, []string{"charlie", "bravo", "alpha"}},
		{SortStatus, true, []string{"alpha", "bravo", "charlie"}},
	}
	for _, tt := range tests {
		t.Run(tt.by.String(), func(t *testing.T) {
			nodes := testNodes()
			SortNodes(nodes, tt.by, tt.reverse)
			assert.Equal(t, tt.want, names(nodes))
		})
	}
}

func TestSortNodes_CoresTieKeepsProviderOrder(t *testing.T) {
	nodes := testNodes()
	nodes[0].Shape = &model.Shape{Cores: 2}

	SortNodes(nodes, SortCores, false)

	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, names(nodes))
}

func TestSortNodes_MissingShape(t *testing.T) {
	nodes := testNodes()
	nodes[2].Shape = nil

	SortNodes(nodes, SortMemory, false)

	assert.Equal(t, "bravo", nodes[0].Name)
}
