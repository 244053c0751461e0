package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = btree.DefaultFreeListSize
)

// BTreeStore is an in memory KVStore. It is safe for concurrent use. All
// iterators work on a snapshot of the data taken at creation time, so writes
// while iterating are allowed.
type BTreeStore struct {
	mu sync.RWMutex
	bt *btree.BTree
}

var _ KVStore = (*BTreeStore)(nil)

// MemStore returns a simple implementation useful for tests and for a
// single process party vault. There is no persistence here....
func MemStore() *BTreeStore {
	free := btree.NewFreeList(DefaultFreeListSize)
	return &BTreeStore{
		bt: btree.NewWithFreeList(2, free),
	}
}

// Get reads the value stored under given key, nil if missing.
func (b *BTreeStore) Get(key []byte) ([]byte, error) {
	assertKey(key)
	b.mu.RLock()
	defer b.mu.RUnlock()

	res := b.bt.Get(bkey{key})
	if res == nil {
		return nil, nil
	}
	return res.(setItem).value, nil
}

// Has returns true if a value is stored under given key.
func (b *BTreeStore) Has(key []byte) (bool, error) {
	assertKey(key)
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.bt.Has(bkey{key}), nil
}

// Set writes to the BTree. Stored value is a copy of the given one.
func (b *BTreeStore) Set(key, value []byte) error {
	assertKey(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	b.bt.ReplaceOrInsert(newSetItem(k, v))
	return nil
}

// Delete deletes from the BTree.
func (b *BTreeStore) Delete(key []byte) error {
	assertKey(key)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.bt.Delete(bkey{key})
	return nil
}

// Iterator over a domain of keys in ascending order.
func (b *BTreeStore) Iterator(start, end []byte) (Iterator, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	it := &snapshot{}
	collect := func(i btree.Item) bool {
		it.items = append(it.items, i.(setItem))
		return true
	}
	switch {
	case start == nil && end == nil:
		b.bt.Ascend(collect)
	case start == nil:
		b.bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		b.bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		b.bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return it, nil
}

// Len returns the number of stored keys.
func (b *BTreeStore) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bt.Len()
}

func assertKey(key []byte) {
	if key == nil {
		panic("nil key")
	}
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
