package meta

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// idGenerator hands out monotonic ULIDs. MonotonicEntropy is not safe for
// concurrent use, hence the mutex.
type idGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func newIDGenerator() *idGenerator {
	return &idGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *idGenerator) next(now time.Time) ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(now), g.entropy)
	if err != nil {
		// Entropy overflow within one millisecond; fall back to a fresh random id.
		return ulid.MustNew(ulid.Timestamp(now), rand.Reader)
	}
	return id
}

var typeIDs = newIDGenerator()
