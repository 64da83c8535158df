package cache

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

const (
	// DefaultSize is the entry capacity used when none is configured.
	DefaultSize = 1024

	// DefaultTTL is the expiration used when a caller passes no TTL.
	DefaultTTL = 15 * time.Minute
)

// Policy decides how long entries live.
type Policy struct {
	// DefaultTTL is used when a caller passes a TTL <= 0.
	DefaultTTL time.Duration

	// MaxTTL clamps every TTL. Zero means no maximum.
	MaxTTL time.Duration
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}

type options struct {
	size    int
	policy  Policy
	sliding bool
	now     func() time.Time
	logger  *zap.Logger
	meter   metric.Meter
}

func defaultOptions() options {
	return options{
		size:   DefaultSize,
		policy: Policy{DefaultTTL: DefaultTTL},
		now:    time.Now,
		logger: zap.NewNop(),
		meter:  noop.NewMeterProvider().Meter("reflcache"),
	}
}

// Option configures a Store.
type Option func(*options)

// WithSize sets the maximum number of entries. The least recently used entry is
// evicted when the store is full.
func WithSize(size int) Option {
	return func(o *options) { o.size = size }
}

// WithDefaultTTL sets the TTL used when callers pass none.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.policy.DefaultTTL = ttl
		}
	}
}

// WithMaxTTL clamps every TTL to max.
func WithMaxTTL(max time.Duration) Option {
	return func(o *options) { o.policy.MaxTTL = max }
}

// WithSlidingExpiration makes every hit push the entry's expiry forward by its TTL.
func WithSlidingExpiration(enabled bool) Option {
	return func(o *options) { o.sliding = enabled }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for miss and eviction events.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeter sets the meter hit, miss and eviction counters are recorded on.
func WithMeter(meter metric.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}
