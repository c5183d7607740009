// Copyright 2014-2015 The Coname Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
// 	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

// Package leveldbkv implements the kv interface using leveldb.
// Every write is synced to disk before it returns.
package leveldbkv

import (
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
	"github.com/veriai-sys/veriai-go/storage/kv"
)

type leveldbkv leveldb.DB

var _ kv.DB = (*leveldbkv)(nil)

var syncWrites = &opt.WriteOptions{Sync: true}

// OpenDB opens (or creates) the leveldb database at path and
// keeps it open until Close is called.
func OpenDB(path string) (kv.DB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("leveldbkv: open %s: %w", path, err)
	}
	return Wrap(db), nil
}

// OpenMemDB returns an empty database kept in memory. Its content
// is lost on Close.
func OpenMemDB() (kv.DB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, fmt.Errorf("leveldbkv: open memory db: %w", err)
	}
	return Wrap(db), nil
}

// Wrap uses a leveldb.DB as a kv.DB.
func Wrap(db *leveldb.DB) kv.DB {
	return (*leveldbkv)(db)
}

func (db *leveldbkv) Get(key []byte) ([]byte, error) {
	return (*leveldb.DB)(db).Get(key, nil)
}

func (db *leveldbkv) Put(key, value []byte) error {
	return (*leveldb.DB)(db).Put(key, value, syncWrites)
}

func (db *leveldbkv) Delete(key []byte) error {
	return (*leveldb.DB)(db).Delete(key, syncWrites)
}

func (db *leveldbkv) NewBatch() kv.Batch {
	return new(leveldb.Batch)
}

func (db *leveldbkv) Write(b kv.Batch) error {
	wb, ok := b.(*leveldb.Batch)
	if !ok {
		return fmt.Errorf("leveldbkv.Write: expected *leveldb.Batch, got %T", b)
	}
	return (*leveldb.DB)(db).Write(wb, syncWrites)
}

// NewIterator iterates over the keys in rg, or over the whole
// database if rg is nil.
func (db *leveldbkv) NewIterator(rg *kv.Range) kv.Iterator {
	var r *util.Range
	if rg != nil {
		r = &util.Range{Start: rg.Start, Limit: rg.Limit}
	}
	return (*leveldb.DB)(db).NewIterator(r, nil)
}

func (db *leveldbkv) Close() error {
	return (*leveldb.DB)(db).Close()
}

func (db *leveldbkv) ErrNotFound() error {
	return leveldb.ErrNotFound
}
