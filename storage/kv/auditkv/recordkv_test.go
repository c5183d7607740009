package auditkv

import (
	"bytes"
	"testing"
	"time"

	"github.com/veriai-sys/veriai-go/protocol"
	"github.com/veriai-sys/veriai-go/storage/kv"
	"github.com/veriai-sys/veriai-go/utils"
)

func testRecord(seq uint64, sid string) *protocol.AuditRecord {
	return &protocol.AuditRecord{
		Seq:             seq,
		SessionID:       sid,
		AgentA:          "agent_a",
		AgentB:          "agent_b",
		Status:          protocol.StatusVerified,
		ConversationLog: "[]",
		Timestamp:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Hash:            []byte{byte(seq), 0xaa},
	}
}

func TestRecordStoreLoad(t *testing.T) {
	utils.WithDB(func(db kv.DB) {
		head, err := LoadHead(db)
		if err != nil {
			t.Fatal(err)
		}
		if head.Next != 0 || head.Hash != nil {
			t.Fatal("Expect an empty head", head)
		}

		for i, sid := range []string{"s-b", "s-a", "s-c"} {
			if err := StoreRecord(db, testRecord(uint64(i), sid)); err != nil {
				t.Fatal(err)
			}
		}

		r, err := LoadRecord(db, "s-a")
		if err != nil {
			t.Fatal(err)
		}
		if r.Seq != 1 || r.Status != protocol.StatusVerified || !r.Timestamp.Equal(testRecord(1, "").Timestamp) {
			t.Fatal("Unexpected record", r)
		}
		if _, err := LoadRecord(db, "missing"); err != db.ErrNotFound() {
			t.Fatal("Expect ErrNotFound, got", err)
		}

		head, err = LoadHead(db)
		if err != nil {
			t.Fatal(err)
		}
		if head.Next != 3 || !bytes.Equal(head.Hash, []byte{2, 0xaa}) {
			t.Fatal("Unexpected head", head)
		}

		records, err := LoadRecords(db)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 3 {
			t.Fatal("Expect 3 records, got", len(records))
		}
		for i, want := range []string{"s-b", "s-a", "s-c"} {
			if records[i].SessionID != want {
				t.Fatal("Expect records in chain order")
			}
		}
	})
}

func TestDecodeHeadBadLength(t *testing.T) {
	if _, err := decodeHead([]byte{1, 2}); err != kv.ErrBadBufferLength {
		t.Fatal("Expect ErrBadBufferLength, got", err)
	}
}
