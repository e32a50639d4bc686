package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnections_UnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
		want    Connections
		wantErr bool
	}{
		{
			name:    "flat form",
			payload: `{"a": {"main": [{"node": "b", "type": "main", "index": 0}]}}`,
			want: Connections{"a": {"main": {
				{Node: "b", Type: "main", Index: intPtr(0)},
			}}},
		},
		{
			name:    "nested n8n form is flattened in slot order",
			payload: `{"a": {"main": [[{"node": "b", "type": "main", "index": 0}], [{"node": "c", "type": "main", "index": 0}]]}}`,
			want: Connections{"a": {"main": {
				{Node: "b", Type: "main", Index: intPtr(0)},
				{Node: "c", Type: "main", Index: intPtr(0)},
			}}},
		},
		{
			name:    "null port",
			payload: `{"a": {"main": null}}`,
			want:    Connections{"a": {"main": {}}},
		},
		{
			name:    "missing index stays nil",
			payload: `{"a": {"main": [{"node": "b", "type": "main"}]}}`,
			want:    Connections{"a": {"main": {{Node: "b", Type: "main"}}}},
		},
		{
			name:    "port is not an array",
			payload: `{"a": {"main": "b"}}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got Connections

			err := json.Unmarshal([]byte(tc.payload), &got)
			if tc.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestWorkflowGraph_Edges(t *testing.T) {
	graph := &WorkflowGraph{
		Nodes: []*WorkflowNode{{ID: "a"}, nil, {ID: "b"}, {ID: "c"}},
		Connections: Connections{
			"b": {"main": {{Node: "c", Type: "main"}}},
			"a": {
				"main":  {{Node: "b", Type: "main"}, {Node: "c", Type: "main"}},
				"error": {{Node: "c", Type: "main"}},
			},
		},
	}

	edges := graph.Edges()
	require.Len(t, edges, 4)
	assert.Equal(t, 4, graph.ConnectionCount())

	assert.Equal(t, Edge{Source: "a", OutputPort: "error", Target: ConnectionTarget{Node: "c", Type: "main"}}, edges[0])
	assert.Equal(t, "b", edges[1].Target.Node)
	assert.Equal(t, "c", edges[2].Target.Node)
	assert.Equal(t, "b", edges[3].Source)

	node, ok := graph.NodeByID("b")
	require.True(t, ok)
	assert.Equal(t, "b", node.ID)

	_, ok = graph.NodeByID("missing")
	assert.False(t, ok)

	assert.Len(t, graph.NodeIDs(), 3)
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
	assert.Empty(t, SortedKeys[int](nil))
}

func intPtr(i int) *int {
	return &i
}
