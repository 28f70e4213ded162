// Package id issues time-sortable identifiers for runs, positions and saved
// strategies.
package id

import (
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rustyeddy/fxjournal/rng"
)

// Generator issues monotonic ULIDs. IDs from one generator are strictly
// increasing, even within the same millisecond.
type Generator struct {
	mu   sync.Mutex
	mono io.Reader
	now  func() time.Time
}

// NewGenerator returns a generator whose entropy is seeded with seed; a zero
// seed is replaced by an unpredictable one. now may be nil for the wall clock.
func NewGenerator(seed int64, now func() time.Time) *Generator {
	if seed == 0 {
		seed = rng.RandomSeed()
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{
		mono: ulid.Monotonic(rand.New(rand.NewSource(seed)), 0),
		now:  now,
	}
}

func (g *Generator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.mono)
	if err != nil {
		// Only happens when the monotonic entropy overflows within one ms.
		panic(err)
	}
	return id.String()
}

var std = NewGenerator(0, nil)

// New returns a ULID string from the process-wide generator.
func New() string {
	return std.New()
}
