package auditlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/veriai-sys/veriai-go/protocol"
)

// A JSONLLog appends one JSON encoded record per line to a file.
// Lookups scan the file; the log is meant for small deployments and
// for shipping to external log collectors.
type JSONLLog struct {
	path string

	mu       sync.Mutex
	f        appendFile
	failed   error
	next     uint64
	head     []byte
	sessions map[string]struct{}
}

// appendFile is the part of *os.File a JSONLLog writes through.
type appendFile interface {
	io.Writer
	io.Seeker
	io.Closer
	Sync() error
	Truncate(size int64) error
}

var _ Log = (*JSONLLog)(nil)

// OpenJSONLLog creates or opens the JSONL file at path and continues
// the chain stored in it. Missing parent directories are created.
func OpenJSONLLog(path string) (*JSONLLog, error) {
	if path == "" {
		return nil, os.ErrInvalid
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	l := &JSONLLog{path: path, sessions: make(map[string]struct{})}
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		l.sessions[r.SessionID] = struct{}{}
		l.next = r.Seq + 1
		l.head = r.Hash
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	l.f = f
	return l, nil
}

// Append implements the Log interface. The file is synced before
// Append returns.
//
// A failed write or sync is rolled back by truncating the file to its
// previous size, so the chain on disk never holds a partial or
// unconfirmed record. If the rollback fails too, the log refuses every
// later append.
func (l *JSONLLog) Append(_ context.Context, r *protocol.AuditRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return os.ErrClosed
	}
	if l.failed != nil {
		return l.failed
	}
	if _, ok := l.sessions[r.SessionID]; ok {
		return ErrDuplicateSession
	}
	Seal(r, l.next, l.head)
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	off, err := l.f.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}
	if err := l.write(data); err != nil {
		if terr := l.f.Truncate(off); terr != nil {
			l.failed = fmt.Errorf("%w: rollback failed: %w", ErrLogFailed, errors.Join(err, terr))
		}
		return err
	}
	l.sessions[r.SessionID] = struct{}{}
	l.next++
	l.head = r.Hash
	return nil
}

func (l *JSONLLog) write(data []byte) error {
	if _, err := l.f.Write(data); err != nil {
		return err
	}
	return l.f.Sync()
}

// Get implements the Log interface.
func (l *JSONLLog) Get(_ context.Context, sessionID string) (*protocol.AuditRecord, error) {
	l.mu.Lock()
	_, ok := l.sessions[sessionID]
	l.mu.Unlock()
	if !ok {
		return nil, ErrRecordNotFound
	}
	records, err := l.readAll()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.SessionID == sessionID {
			return r, nil
		}
	}
	return nil, ErrRecordNotFound
}

// Records implements the Log interface.
func (l *JSONLLog) Records(context.Context) ([]*protocol.AuditRecord, error) {
	return l.readAll()
}

// Close closes the underlying file.
func (l *JSONLLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

func (l *JSONLLog) readAll() ([]*protocol.AuditRecord, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*protocol.AuditRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		r := new(protocol.AuditRecord)
		if err := json.Unmarshal(sc.Bytes(), r); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", l.path, line, err)
		}
		records = append(records, r)
	}
	return records, sc.Err()
}
