package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/simplestation/ssu/kernel/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluxReporter_RecordAction(t *testing.T) {
	var mu sync.Mutex
	var bodies []string
	var queries []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		queries = append(queries, r.URL.RawQuery)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r, err := NewInfluxReporter(InfluxConfig{URL: srv.URL, Token: "t", Org: "simplestation", Bucket: "ssu"})
	require.NoError(t, err)
	defer r.Close()

	err = r.RecordAction(context.Background(), ActionRecord{
		NodeID:    42,
		ActionID:  7,
		Command:   "stop_server",
		State:     model.ActionError,
		ErrorCode: "locked",
		Polls:     3,
		Duration:  900 * time.Millisecond,
		Finished:  time.Unix(1700000000, 0),
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, bodies, 1)
	assert.True(t, strings.HasPrefix(bodies[0], "ssu_action,"), bodies[0])
	assert.Contains(t, bodies[0], "node=42")
	assert.Contains(t, bodies[0], "error_code=locked")
	assert.Contains(t, bodies[0], "duration_ms=900i")
	assert.Contains(t, queries[0], "bucket=ssu")
}

func TestNewInfluxReporter_RequiresBucket(t *testing.T) {
	_, err := NewInfluxReporter(InfluxConfig{URL: "http://localhost:8086", Org: "o"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	r := Nop()
	assert.NoError(t, r.RecordAction(context.Background(), ActionRecord{}))
	r.Close()
}

func TestInfluxConfig_Enabled(t *testing.T) {
	assert.False(t, InfluxConfig{}.Enabled())
	assert.True(t, InfluxConfig{URL: "http://localhost:8086"}.Enabled())
}
