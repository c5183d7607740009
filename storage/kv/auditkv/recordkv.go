// Package auditkv stores the hash-chained audit records of completed
// verification sessions in a kv.DB.
package auditkv

import (
	"encoding/json"

	"github.com/veriai-sys/veriai-go/protocol"
	"github.com/veriai-sys/veriai-go/storage/kv"
	"github.com/veriai-sys/veriai-go/utils"
)

// A Head is the tip of the audit chain: the sequence number the next
// record gets and the hash of the latest record.
type Head struct {
	Next uint64
	Hash []byte
}

// StoreRecord stores r under its session id, indexes it by its sequence
// number and advances the chain head, all in one batch.
func StoreRecord(db kv.DB, r *protocol.AuditRecord) error {
	buf, err := json.Marshal(r)
	if err != nil {
		return err
	}
	wb := db.NewBatch()
	wb.Put(recordKey(r.SessionID), buf)
	wb.Put(seqKey(r.Seq), []byte(r.SessionID))
	wb.Put([]byte{HeadIdentifier}, encodeHead(&Head{Next: r.Seq + 1, Hash: r.Hash}))
	return db.Write(wb)
}

// LoadRecord loads the record of the given session.
// It returns db.ErrNotFound() if no such record was stored.
func LoadRecord(db kv.DB, sessionID string) (*protocol.AuditRecord, error) {
	buf, err := db.Get(recordKey(sessionID))
	if err != nil {
		return nil, err
	}
	r := new(protocol.AuditRecord)
	if err := json.Unmarshal(buf, r); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRecords loads every stored record in chain order.
func LoadRecords(db kv.DB) ([]*protocol.AuditRecord, error) {
	it := db.NewIterator(kv.PrefixRange([]byte{SeqIdentifier}))
	defer it.Release()
	var ids []string
	for ok := it.First(); ok; ok = it.Next() {
		ids = append(ids, string(it.Value()))
	}
	if err := it.Error(); err != nil {
		return nil, err
	}
	records := make([]*protocol.AuditRecord, 0, len(ids))
	for _, id := range ids {
		r, err := LoadRecord(db, id)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

// LoadHead loads the chain head. An empty db has the zero Head.
func LoadHead(db kv.DB) (*Head, error) {
	buf, err := db.Get([]byte{HeadIdentifier})
	if err == db.ErrNotFound() {
		return new(Head), nil
	}
	if err != nil {
		return nil, err
	}
	return decodeHead(buf)
}

func encodeHead(h *Head) []byte {
	buf := make([]byte, 0, 8+len(h.Hash))
	buf = append(buf, utils.ULongToBytes(h.Next)...)
	buf = append(buf, h.Hash...)
	return buf
}

func decodeHead(buf []byte) (*Head, error) {
	if len(buf) < 8 {
		return nil, kv.ErrBadBufferLength
	}
	next, err := utils.BytesToULong(buf[:8])
	if err != nil {
		return nil, err
	}
	h := &Head{Next: next}
	if len(buf) > 8 {
		h.Hash = append([]byte(nil), buf[8:]...)
	}
	return h, nil
}

func recordKey(sessionID string) []byte {
	key := make([]byte, 0, 1+len(sessionID))
	key = append(key, RecordIdentifier)
	key = append(key, sessionID...)
	return key
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 0, 1+8)
	key = append(key, SeqIdentifier)
	key = append(key, utils.ULongToBytes(seq)...)
	return key
}
