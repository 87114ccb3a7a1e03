package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOutboxMetricsCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.ObserveEvent("inventory_assigned", OutboxPublished)
	m.ObserveEvent("inventory_assigned", OutboxPublished)
	m.ObserveEvent("", OutboxTerminal)
	m.ObserveBatch(40 * time.Millisecond)

	snap := gather(t, reg)
	expectValue(t, "published", snap.series(t, "outbox_events_total", "event_type", "inventory_assigned", "outcome", OutboxPublished).GetCounter().GetValue(), 2)
	expectValue(t, "terminal", snap.series(t, "outbox_events_total", "event_type", "unknown", "outcome", OutboxTerminal).GetCounter().GetValue(), 1)
	if got := snap.series(t, "outbox_batch_duration_seconds").GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 batch sample got %d", got)
	}
}

func TestNilOutboxMetricsIsNoop(t *testing.T) {
	var m *OutboxMetrics
	m.ObserveEvent("x", OutboxFailed)
	m.ObserveBatch(time.Second)
	NewOutboxMetrics(nil).ObserveEvent("x", OutboxFailed)
}
