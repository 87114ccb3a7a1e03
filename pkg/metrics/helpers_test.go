package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// snapshot indexes a registry's families by name.
type snapshot map[string][]*dto.Metric

func gather(t *testing.T, reg *prometheus.Registry) snapshot {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	snap := snapshot{}
	for _, family := range families {
		snap[family.GetName()] = family.GetMetric()
	}
	return snap
}

// series returns the metric of family name whose labels include every
// name/value pair given.
func (s snapshot) series(t *testing.T, name string, labelPairs ...string) *dto.Metric {
	t.Helper()
	if len(labelPairs)%2 != 0 {
		t.Fatalf("labels come in name/value pairs: %v", labelPairs)
	}
	for _, metric := range s[name] {
		if hasLabels(metric, labelPairs) {
			return metric
		}
	}
	t.Fatalf("no %s series with labels %v", name, labelPairs)
	return nil
}

func hasLabels(metric *dto.Metric, pairs []string) bool {
	have := map[string]string{}
	for _, label := range metric.GetLabel() {
		have[label.GetName()] = label.GetValue()
	}
	for i := 0; i < len(pairs); i += 2 {
		if have[pairs[i]] != pairs[i+1] {
			return false
		}
	}
	return true
}

func expectValue(t *testing.T, what string, got, want float64) {
	t.Helper()
	if got != want {
		t.Fatalf("expected %s %v got %v", what, want, got)
	}
}
