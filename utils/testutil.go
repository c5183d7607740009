package utils

import (
	"github.com/veriai-sys/veriai-go/storage/kv"
	"github.com/veriai-sys/veriai-go/storage/kv/leveldbkv"
)

// WithDB runs f against a fresh in-memory leveldb instance
// and closes the database afterwards.
func WithDB(f func(kv.DB)) {
	db, err := leveldbkv.OpenMemDB()
	if err != nil {
		panic(err)
	}
	defer db.Close()
	f(db)
}
