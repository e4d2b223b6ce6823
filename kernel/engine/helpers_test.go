package engine

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/simplestation/ssu/kernel/clock"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/provider"
	"github.com/simplestation/ssu/kernel/telemetry"
)

var epoch = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type harness struct {
	session  *Session
	provider *provider.MemoryProvider
	clock    *clock.FakeClock
	progress *bytes.Buffer
	reports  *recordingReporter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		provider: provider.DemoFleet(),
		clock:    clock.Fake(epoch),
		progress: &bytes.Buffer{},
		reports:  &recordingReporter{},
	}
	h.session = NewSession(h.provider).
		WithClock(h.clock).
		WithProgress(h.progress).
		WithTelemetry(h.reports)
	return h
}

func (h *harness) node(t *testing.T, id model.NodeID) *model.Node {
	t.Helper()
	node, err := h.provider.GetNode(context.Background(), id)
	if err != nil {
		t.Fatalf("unable to read node %d: %v", id, err)
	}
	return node
}

type recordingReporter struct {
	records []telemetry.ActionRecord
	err     error
}

func (r *recordingReporter) RecordAction(_ context.Context, record telemetry.ActionRecord) error {
	r.records = append(r.records, record)
	return r.err
}

func (r *recordingReporter) Close() {}

func repeat(status model.NodeStatus, n int) []model.NodeStatus {
	statuses := make([]model.NodeStatus, n)
	for i := range statuses {
		statuses[i] = status
	}
	return statuses
}
