package auditlog

import (
	"context"
	"sync"

	"github.com/veriai-sys/veriai-go/protocol"
	"github.com/veriai-sys/veriai-go/storage/kv"
	"github.com/veriai-sys/veriai-go/storage/kv/auditkv"
	"github.com/veriai-sys/veriai-go/storage/kv/leveldbkv"
)

// A KVLog keeps the audit chain in a kv.DB.
type KVLog struct {
	mu   sync.Mutex
	db   kv.DB
	head *auditkv.Head
}

var _ Log = (*KVLog)(nil)

// OpenKVLog opens (or creates) a leveldb database at path and
// returns a KVLog backed by it.
func OpenKVLog(path string) (*KVLog, error) {
	db, err := leveldbkv.OpenDB(path)
	if err != nil {
		return nil, err
	}
	l, err := NewKVLog(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

// NewKVLog returns a KVLog that continues the chain stored in db.
func NewKVLog(db kv.DB) (*KVLog, error) {
	head, err := auditkv.LoadHead(db)
	if err != nil {
		return nil, err
	}
	return &KVLog{db: db, head: head}, nil
}

// Append implements the Log interface.
func (l *KVLog) Append(_ context.Context, r *protocol.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := auditkv.LoadRecord(l.db, r.SessionID)
	switch {
	case err == nil:
		return ErrDuplicateSession
	case err != l.db.ErrNotFound():
		return err
	}
	Seal(r, l.head.Next, l.head.Hash)
	if err := auditkv.StoreRecord(l.db, r); err != nil {
		return err
	}
	l.head = &auditkv.Head{Next: r.Seq + 1, Hash: r.Hash}
	return nil
}

// Get implements the Log interface.
func (l *KVLog) Get(_ context.Context, sessionID string) (*protocol.AuditRecord, error) {
	r, err := auditkv.LoadRecord(l.db, sessionID)
	if err == l.db.ErrNotFound() {
		return nil, ErrRecordNotFound
	}
	return r, err
}

// Records implements the Log interface.
func (l *KVLog) Records(context.Context) ([]*protocol.AuditRecord, error) {
	return auditkv.LoadRecords(l.db)
}

// Close closes the underlying database.
func (l *KVLog) Close() error {
	return l.db.Close()
}
