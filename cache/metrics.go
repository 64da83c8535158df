package cache

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names recorded by Store.
const (
	MetricHits      = "reflcache.store.hits"
	MetricMisses    = "reflcache.store.misses"
	MetricEvictions = "reflcache.store.evictions"
)

type storeMetrics struct {
	hits      metric.Int64Counter
	misses    metric.Int64Counter
	evictions metric.Int64Counter
	opt       metric.AddOption
}

func newStoreMetrics(meter metric.Meter, storeID string) (*storeMetrics, error) {
	hits, err := meter.Int64Counter(
		MetricHits,
		metric.WithDescription("Lookups answered from the store"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		MetricMisses,
		metric.WithDescription("Lookups that ran the value factory"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	evictions, err := meter.Int64Counter(
		MetricEvictions,
		metric.WithDescription("Entries removed by expiry, capacity or explicit delete"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &storeMetrics{
		hits:      hits,
		misses:    misses,
		evictions: evictions,
		opt:       metric.WithAttributes(attribute.String("cache.store", storeID)),
	}, nil
}

func (m *storeMetrics) hit() {
	m.hits.Add(context.Background(), 1, m.opt)
}

func (m *storeMetrics) miss() {
	m.misses.Add(context.Background(), 1, m.opt)
}

func (m *storeMetrics) evict() {
	m.evictions.Add(context.Background(), 1, m.opt)
}
