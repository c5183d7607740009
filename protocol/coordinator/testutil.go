package coordinator

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/veriai-sys/veriai-go/protocol"
)

// A MemoryAudit is an AuditWriter that keeps the appended records
// in memory. It is used in tests.
type MemoryAudit struct {
	mu      sync.Mutex
	Records []*protocol.AuditRecord
	Err     error
}

// Append implements the AuditWriter interface.
func (m *MemoryAudit) Append(_ context.Context, r *protocol.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	r.Seq = uint64(len(m.Records))
	m.Records = append(m.Records, r)
	return nil
}

// Len returns the number of appended records.
func (m *MemoryAudit) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

// NewTestCoordinator creates a Coordinator used for testing
// session operations. Its clock is frozen at a fixed instant and
// session ids are issued sequentially.
func NewTestCoordinator(t *testing.T, p *protocol.Policies) (*Coordinator, *MemoryAudit) {
	t.Helper()
	audit := new(MemoryAudit)
	c := New(p, nil, audit)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.clock = func() time.Time { return now }
	var mu sync.Mutex
	n := 0
	c.newID = func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "session-" + strconv.Itoa(n)
	}
	return c, audit
}
