package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHetzner(t *testing.T, mux *http.ServeMux) *HetznerClient {
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewHetznerClient(Settings{Token: "test-token", Endpoint: srv.URL})
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(body))
}

func TestHetznerClient_ListNodesFiltersByExactName(t *testing.T) {
	mux := http.NewServeMux()
	var gotName string
	mux.HandleFunc("/servers", func(w http.ResponseWriter, r *http.Request) {
		gotName = r.URL.Query().Get("name")
		writeJSON(t, w, http.StatusOK, struct {
			Servers []schema.Server `json:"servers"`
			Meta    schema.Meta     `json:"meta"`
		}{
			Servers: []schema.Server{{
				ID:              1003,
				Name:            "panel",
				Status:          "running",
				Created:         time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
				PrimaryDiskSize: 40,
				ServerType:      schema.ServerType{ID: 45, Name: "cax11", Cores: 2, Memory: 4, Disk: 40, Architecture: "arm"},
				Datacenter:      schema.Datacenter{Name: "fsn1-dc14", Location: schema.Location{Name: "fsn1"}},
			}},
			Meta: schema.Meta{Pagination: &schema.MetaPagination{Page: 1, LastPage: 1, PerPage: 50, TotalEntries: 1}},
		})
	})
	client := newTestHetzner(t, mux)

	nodes, err := client.ListNodes(context.Background(), NodeFilter{Name: "panel"})

	require.NoError(t, err)
	assert.Equal(t, "panel", gotName)
	require.Len(t, nodes, 1)
	assert.Equal(t, model.NodeID(1003), nodes[0].ID)
	assert.Equal(t, model.NodeRunning, nodes[0].Status)
	assert.Equal(t, "fsn1", nodes[0].Location)
	assert.Equal(t, model.ArchARM, nodes[0].Shape.Architecture)
}

func TestHetznerClient_ChangeShapeKeepsDisk(t *testing.T) {
	mux := http.NewServeMux()
	var body map[string]interface{}
	mux.HandleFunc("/servers/1001/actions/change_type", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusCreated, schema.ServerActionChangeTypeResponse{
			Action: schema.Action{ID: 77, Status: "running", Command: "change_server_type"},
		})
	})
	client := newTestHetzner(t, mux)

	id, err := client.ChangeShape(context.Background(), 1001, 23, false)

	require.NoError(t, err)
	assert.Equal(t, model.ActionID(77), id)
	assert.Equal(t, float64(23), body["server_type"])
	assert.Equal(t, false, body["upgrade_disk"])
}

func TestHetznerClient_GetActionError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/actions/77", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, schema.ActionGetResponse{
			Action: schema.Action{
				ID:       77,
				Status:   "error",
				Command:  "change_server_type",
				Progress: 100,
				Error:    &schema.ActionError{Code: "E1", Message: "server is locked"},
			},
		})
	})
	client := newTestHetzner(t, mux)

	action, err := client.GetAction(context.Background(), 77)

	require.NoError(t, err)
	assert.Equal(t, model.ActionError, action.State)
	assert.True(t, action.IsComplete())
	assert.Equal(t, "E1", action.ErrorCode)
	assert.Equal(t, "server is locked", action.ErrorMessage)
	assert.Equal(t, "change_server_type", action.Command)
}

func TestHetznerClient_GetNodeNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/servers/99", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, schema.ErrorResponse{
			Error: schema.Error{Code: "not_found", Message: "server not found"},
		})
	})
	client := newTestHetzner(t, mux)

	_, err := client.GetNode(context.Background(), 99)

	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestHetznerClient_RemoteFailureIsWrapped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/servers/1001/actions/poweron", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusForbidden, schema.ErrorResponse{
			Error: schema.Error{Code: "forbidden", Message: "insufficient permissions"},
		})
	})
	client := newTestHetzner(t, mux)

	_, err := client.PowerOn(context.Background(), 1001)

	var remote *model.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "power on server", remote.Op)
}
