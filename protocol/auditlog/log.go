// Package auditlog implements the append-only, hash-chained log of
// completed verification sessions.
//
// Every record carries the hash of its predecessor, in the spirit of a
// chain of signed tree roots: rewriting or dropping a record in the
// middle of the log breaks the chain and is detected by Verify.
package auditlog

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/veriai-sys/veriai-go/crypto"
	"github.com/veriai-sys/veriai-go/protocol"
)

var (
	// ErrRecordNotFound indicates that no record was appended for the
	// requested session.
	ErrRecordNotFound = errors.New("[auditlog] Record not found")
	// ErrDuplicateSession indicates that a record for the session was
	// already appended. Records are write-once.
	ErrDuplicateSession = errors.New("[auditlog] Session already audited")
	// ErrBrokenChain indicates that the records do not form a valid chain.
	ErrBrokenChain = errors.New("[auditlog] Broken hash chain")
	// ErrLogFailed indicates that the log could not undo a failed append
	// and no longer accepts records.
	ErrLogFailed = errors.New("[auditlog] Log failed")
	// ErrUnknownBackend indicates an unsupported storage backend name.
	ErrUnknownBackend = errors.New("[auditlog] Unknown backend")
)

// A Log persists audit records. Implementations are safe for
// concurrent use.
type Log interface {
	// Append seals r as the next link of the chain and persists it.
	Append(ctx context.Context, r *protocol.AuditRecord) error
	// Get returns the record of the given session.
	Get(ctx context.Context, sessionID string) (*protocol.AuditRecord, error)
	// Records returns every record in chain order.
	Records(ctx context.Context) ([]*protocol.AuditRecord, error)
	Close() error
}

// Seal assigns r its position in the chain and computes its hash
// over r.Serialize().
func Seal(r *protocol.AuditRecord, seq uint64, prevHash []byte) {
	r.Seq = seq
	r.PrevHash = prevHash
	r.Hash = crypto.Digest(r.Serialize())
}

// Verify checks that records form an unbroken chain starting at
// sequence number 0.
func Verify(records []*protocol.AuditRecord) error {
	var prev []byte
	for i, r := range records {
		if r.Seq != uint64(i) {
			return fmt.Errorf("%w: record %d has sequence number %d",
				ErrBrokenChain, i, r.Seq)
		}
		if !bytes.Equal(r.PrevHash, prev) {
			return fmt.Errorf("%w: record %d does not link to its predecessor",
				ErrBrokenChain, i)
		}
		if !bytes.Equal(r.Hash, crypto.Digest(r.Serialize())) {
			return fmt.Errorf("%w: record %d was modified", ErrBrokenChain, i)
		}
		prev = r.Hash
	}
	return nil
}

// Backend names accepted by Open.
const (
	BackendLevelDB  = "leveldb"
	BackendJSONL    = "jsonl"
	BackendPostgres = "postgres"
)

// Config selects and configures the storage backend of a Log.
// Path is used by the leveldb and jsonl backends, DSN by postgres.
type Config struct {
	Backend string `toml:"backend" yaml:"backend"`
	Path    string `toml:"path,omitempty" yaml:"path,omitempty"`
	DSN     string `toml:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// Open opens the Log described by conf. An empty backend selects leveldb.
func Open(ctx context.Context, conf *Config) (Log, error) {
	switch conf.Backend {
	case "", BackendLevelDB:
		return OpenKVLog(conf.Path)
	case BackendJSONL:
		return OpenJSONLLog(conf.Path)
	case BackendPostgres:
		return OpenPGLog(ctx, conf.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, conf.Backend)
	}
}
