package redis

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

type staticStats struct {
	stats *redis.PoolStats
}

func (s staticStats) PoolStats() *redis.PoolStats { return s.stats }

func gatherValues(t *testing.T, c prometheus.Collector) map[string]float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() != nil {
				values[mf.GetName()] = m.GetCounter().GetValue()
			} else {
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	return values
}

func TestPoolCollectorExportsStats(t *testing.T) {
	values := gatherValues(t, NewPoolCollector(staticStats{stats: &redis.PoolStats{Hits: 12, Misses: 3, TotalConns: 5, IdleConns: 2}}))
	want := map[string]float64{
		"redis_pool_hits_total":       12,
		"redis_pool_misses_total":     3,
		"redis_pool_connections":      5,
		"redis_pool_idle_connections": 2,
	}
	for name, expected := range want {
		if values[name] != expected {
			t.Fatalf("expected %s=%v got %v", name, expected, values[name])
		}
	}
}

func TestPoolCollectorSkipsMissingStats(t *testing.T) {
	if values := gatherValues(t, NewPoolCollector(&Client{})); len(values) != 0 {
		t.Fatalf("expected no series got %v", values)
	}
}
