package auditlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/veriai-sys/veriai-go/protocol"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS verification_logs (
	seq              BIGINT PRIMARY KEY,
	session_id       TEXT NOT NULL UNIQUE,
	agent_a          TEXT NOT NULL,
	agent_b          TEXT NOT NULL,
	status           TEXT NOT NULL,
	reason           TEXT NOT NULL DEFAULT '',
	timestamp        TIMESTAMPTZ NOT NULL,
	conversation_log TEXT NOT NULL,
	prev_hash        BYTEA,
	hash             BYTEA NOT NULL
)`

const pgColumns = `seq, session_id, agent_a, agent_b, status, reason,
	timestamp, conversation_log, prev_hash, hash`

// A PGLog keeps the audit chain in the verification_logs table of a
// PostgreSQL database.
type PGLog struct {
	pool *pgxpool.Pool
}

var _ Log = (*PGLog)(nil)

// OpenPGLog connects to the database at dsn and creates the
// verification_logs table if it does not exist.
func OpenPGLog(ctx context.Context, dsn string) (*PGLog, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("auditlog: connect: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("auditlog: create schema: %w", err)
	}
	return &PGLog{pool: pool}, nil
}

// Append implements the Log interface. The table is locked for the
// duration of the insert so concurrent writers extend the chain one
// at a time.
func (l *PGLog) Append(ctx context.Context, r *protocol.AuditRecord) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `LOCK TABLE verification_logs IN EXCLUSIVE MODE`); err != nil {
		return err
	}
	var last int64
	var prev []byte
	err = tx.QueryRow(ctx,
		`SELECT seq, hash FROM verification_logs ORDER BY seq DESC LIMIT 1`).
		Scan(&last, &prev)
	next := uint64(last) + 1
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		next, prev = 0, nil
	case err != nil:
		return err
	}

	Seal(r, next, prev)
	_, err = tx.Exec(ctx, `INSERT INTO verification_logs (`+pgColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		int64(r.Seq), r.SessionID, r.AgentA, r.AgentB, string(r.Status), r.Reason,
		r.Timestamp, r.ConversationLog, r.PrevHash, r.Hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateSession
		}
		return err
	}
	return tx.Commit(ctx)
}

// Get implements the Log interface.
func (l *PGLog) Get(ctx context.Context, sessionID string) (*protocol.AuditRecord, error) {
	rows, err := l.pool.Query(ctx, `SELECT `+pgColumns+
		` FROM verification_logs WHERE session_id = $1`, sessionID)
	if err != nil {
		return nil, err
	}
	r, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	return r, err
}

// Records implements the Log interface.
func (l *PGLog) Records(ctx context.Context) ([]*protocol.AuditRecord, error) {
	rows, err := l.pool.Query(ctx, `SELECT `+pgColumns+
		` FROM verification_logs ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanRecord)
}

// Close closes the connection pool.
func (l *PGLog) Close() error {
	l.pool.Close()
	return nil
}

func scanRecord(row pgx.CollectableRow) (*protocol.AuditRecord, error) {
	r := new(protocol.AuditRecord)
	var seq int64
	var status string
	err := row.Scan(&seq, &r.SessionID, &r.AgentA, &r.AgentB, &status,
		&r.Reason, &r.Timestamp, &r.ConversationLog, &r.PrevHash, &r.Hash)
	if err != nil {
		return nil, err
	}
	r.Seq = uint64(seq)
	r.Status = protocol.SessionStatus(status)
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}
