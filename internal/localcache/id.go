package localcache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tphakala/tickwatch/internal/sighting"
)

// idGenerator produces local-<millis>-<suffix> ids. The millisecond part is
// strictly increasing within a process, so two saves in the same millisecond
// still sort in insertion order.
type idGenerator struct {
	mu     sync.Mutex
	last   int64
	now    func() time.Time
	suffix func() string
}

func newIDGenerator() *idGenerator {
	return &idGenerator{
		now:    time.Now,
		suffix: randomSuffix,
	}
}

func (g *idGenerator) next() string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return fmt.Sprintf("%s%d-%s", sighting.LocalIDPrefix, ms, g.suffix())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
