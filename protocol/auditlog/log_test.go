package auditlog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/veriai-sys/veriai-go/protocol"
	"github.com/veriai-sys/veriai-go/storage/kv"
	"github.com/veriai-sys/veriai-go/utils"
)

func newRecord(sid string) *protocol.AuditRecord {
	return &protocol.AuditRecord{
		SessionID:       sid,
		AgentA:          "agent_a",
		AgentB:          "agent_b",
		Status:          protocol.StatusFailed,
		Reason:          protocol.ReasonRejected,
		ConversationLog: `[{"agent":"agent_a","message":"yes"}]`,
		Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 123000, time.UTC),
	}
}

// exerciseLog appends n records to l and checks the chain it stores.
func exerciseLog(t *testing.T, l Log, prefix string, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if err := l.Append(ctx, newRecord(prefix+strconv.Itoa(i))); err != nil {
			t.Fatal(err)
		}
	}
	if err := l.Append(ctx, newRecord(prefix+"0")); err != ErrDuplicateSession {
		t.Fatal("Expect ErrDuplicateSession, got", err)
	}

	r, err := l.Get(ctx, prefix+"1")
	if err != nil {
		t.Fatal(err)
	}
	if r.Seq != 1 || r.Status != protocol.StatusFailed || r.Reason != protocol.ReasonRejected {
		t.Fatal("Unexpected record", r)
	}
	if _, err := l.Get(ctx, "missing"); err != ErrRecordNotFound {
		t.Fatal("Expect ErrRecordNotFound, got", err)
	}

	records, err := l.Records(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != n {
		t.Fatal("Expect", n, "records, got", len(records))
	}
	if err := Verify(records); err != nil {
		t.Fatal(err)
	}
}

func TestKVLog(t *testing.T) {
	utils.WithDB(func(db kv.DB) {
		l, err := NewKVLog(db)
		if err != nil {
			t.Fatal(err)
		}
		exerciseLog(t, l, "s", 4)
	})
}

func TestKVLogReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")
	l, err := OpenKVLog(path)
	if err != nil {
		t.Fatal(err)
	}
	exerciseLog(t, l, "s", 2)
	l.Close()

	l, err = OpenKVLog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if err := l.Append(context.Background(), newRecord("s2")); err != nil {
		t.Fatal(err)
	}
	records, _ := l.Records(context.Background())
	if len(records) != 3 || records[2].Seq != 2 {
		t.Fatal("Expect the chain to continue after reopening")
	}
	if err := Verify(records); err != nil {
		t.Fatal(err)
	}
}

func TestJSONLLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.jsonl")
	l, err := OpenJSONLLog(path)
	if err != nil {
		t.Fatal(err)
	}
	exerciseLog(t, l, "s", 3)
	l.Close()

	l, err = OpenJSONLLog(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if err := l.Append(context.Background(), newRecord("s1")); err != ErrDuplicateSession {
		t.Fatal("Expect the reopened log to remember its sessions, got", err)
	}
	if err := l.Append(context.Background(), newRecord("s3")); err != nil {
		t.Fatal(err)
	}
	records, _ := l.Records(context.Background())
	if err := Verify(records); err != nil || len(records) != 4 {
		t.Fatal("Expect an intact chain of 4 records", err)
	}
}

func TestJSONLLogClosed(t *testing.T) {
	l, err := OpenJSONLLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	l.Close()
	if err := l.Append(context.Background(), newRecord("s")); err != os.ErrClosed {
		t.Fatal("Expect os.ErrClosed, got", err)
	}
	if err := l.Close(); err != nil {
		t.Fatal("Expect Close to be idempotent")
	}
}

func TestPGLog(t *testing.T) {
	dsn := os.Getenv("VERIAI_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("VERIAI_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	l, err := OpenPGLog(ctx, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if _, err := l.pool.Exec(ctx, `TRUNCATE verification_logs`); err != nil {
		t.Fatal(err)
	}
	exerciseLog(t, l, "pg-", 3)
}

func TestVerifyDetectsTampering(t *testing.T) {
	build := func() []*protocol.AuditRecord {
		var records []*protocol.AuditRecord
		var prev []byte
		for i := 0; i < 3; i++ {
			r := newRecord("s" + strconv.Itoa(i))
			Seal(r, uint64(i), prev)
			prev = r.Hash
			records = append(records, r)
		}
		return records
	}
	if err := Verify(build()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		tamper func([]*protocol.AuditRecord) []*protocol.AuditRecord
	}{
		{"modified status", func(rs []*protocol.AuditRecord) []*protocol.AuditRecord {
			rs[1].Status = protocol.StatusVerified
			return rs
		}},
		{"dropped record", func(rs []*protocol.AuditRecord) []*protocol.AuditRecord {
			return append(rs[:1], rs[2:]...)
		}},
		{"relinked record", func(rs []*protocol.AuditRecord) []*protocol.AuditRecord {
			rs[2].PrevHash = rs[0].Hash
			return rs
		}},
		{"modified log", func(rs []*protocol.AuditRecord) []*protocol.AuditRecord {
			rs[0].ConversationLog = "[]"
			return rs
		}},
	}
	for _, tt := range tests {
		if err := Verify(tt.tamper(build())); !errors.Is(err, ErrBrokenChain) {
			t.Errorf("%s: expect ErrBrokenChain, got %v", tt.name, err)
		}
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &Config{Backend: "s3"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatal("Expect ErrUnknownBackend, got", err)
	}
}

func TestOpenJSONLBackend(t *testing.T) {
	l, err := Open(context.Background(), &Config{
		Backend: BackendJSONL,
		Path:    filepath.Join(t.TempDir(), "audit.jsonl"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if _, ok := l.(*JSONLLog); !ok {
		t.Fatal("Expect a JSONLLog")
	}
}

var errDiskFull = errors.New("disk full")

// flakyFile fails the next Write (after writing half of it), Sync or
// Truncate once its flag is set.
type flakyFile struct {
	appendFile
	failWrite, failSync, failTruncate bool
}

func (f *flakyFile) Write(p []byte) (int, error) {
	if f.failWrite {
		f.failWrite = false
		n, _ := f.appendFile.Write(p[:len(p)/2])
		return n, errDiskFull
	}
	return f.appendFile.Write(p)
}

func (f *flakyFile) Sync() error {
	if f.failSync {
		f.failSync = false
		return errDiskFull
	}
	return f.appendFile.Sync()
}

func (f *flakyFile) Truncate(size int64) error {
	if f.failTruncate {
		return errDiskFull
	}
	return f.appendFile.Truncate(size)
}

func TestJSONLLogRollsBackFailedAppend(t *testing.T) {
	tests := []struct {
		name string
		ff   flakyFile
	}{
		{"partial write", flakyFile{failWrite: true}},
		{"sync", flakyFile{failSync: true}},
	}
	for _, tt := range tests {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "audit.jsonl")
		l, err := OpenJSONLLog(path)
		if err != nil {
			t.Fatal(err)
		}
		if err := l.Append(ctx, newRecord("s0")); err != nil {
			t.Fatal(err)
		}

		ff := tt.ff
		ff.appendFile = l.f
		l.f = &ff
		if err := l.Append(ctx, newRecord("s1")); err != errDiskFull {
			t.Fatalf("%s: expect the injected error, got %v", tt.name, err)
		}
		if err := l.Append(ctx, newRecord("s1")); err != nil {
			t.Fatalf("%s: expect the retry to succeed, got %v", tt.name, err)
		}
		if err := l.Append(ctx, newRecord("s2")); err != nil {
			t.Fatal(err)
		}
		l.Close()

		l, err = OpenJSONLLog(path)
		if err != nil {
			t.Fatalf("%s: expect the log to reopen, got %v", tt.name, err)
		}
		records, err := l.Records(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 || records[1].SessionID != "s1" {
			t.Fatalf("%s: expect 3 records, got %d", tt.name, len(records))
		}
		if err := Verify(records); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		l.Close()
	}
}

func TestJSONLLogFailsWhenRollbackFails(t *testing.T) {
	ctx := context.Background()
	l, err := OpenJSONLLog(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	l.f = &flakyFile{appendFile: l.f, failSync: true, failTruncate: true}

	if err := l.Append(ctx, newRecord("s0")); err != errDiskFull {
		t.Fatal("Expect the injected error, got", err)
	}
	if err := l.Append(ctx, newRecord("s1")); !errors.Is(err, ErrLogFailed) {
		t.Fatal("Expect ErrLogFailed, got", err)
	}
}
