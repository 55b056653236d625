package testutil

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"keybin-go/internal/kb"
)

// Epoch is where FixedClock starts: 2024-01-15 10:30:00 UTC, on a whole second
// so session records round-trip exactly.
var Epoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is a kb.Clock that only moves when told to. Safe for concurrent use.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ kb.Clock = (*StubClock)(nil)

// NewStubClock creates a StubClock set to t.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t}
}

// FixedClock returns a StubClock set to Epoch.
func FixedClock() *StubClock {
	return NewStubClock(Epoch)
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock by d. A negative d moves it back.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubTokenGenerator issues session tokens "token-1", "token-2", ... and
// remembers what it handed out.
type StubTokenGenerator struct {
	mu     sync.Mutex
	issued []string
}

var _ kb.IDGenerator = (*StubTokenGenerator)(nil)

func NewStubTokenGenerator() *StubTokenGenerator {
	return &StubTokenGenerator{}
}

func (g *StubTokenGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	token := fmt.Sprintf("token-%d", len(g.issued)+1)
	g.issued = append(g.issued, token)
	return token
}

// Last returns the most recently issued token, or "" if none was issued.
func (g *StubTokenGenerator) Last() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.issued) == 0 {
		return ""
	}
	return g.issued[len(g.issued)-1]
}

// SessionRecord formats a stored session record for token issued at issuedAt.
func SessionRecord(token string, issuedAt time.Time) string {
	return token + ":" + strconv.FormatInt(issuedAt.Unix(), 10)
}
