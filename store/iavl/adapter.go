/*
Package iavl provides a versioned, merkleized ledger state backed by the
tendermint iavl tree. Every commit produces a root hash that identifies the
complete account state at that version.
*/
package iavl

import (
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

// DefaultCacheSize is the number of tree nodes kept in memory.
const DefaultCacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore creates a new store using given database as a backend.
// Call LoadLatestVersion to resume from an existing state.
func NewCommitStore(db dbm.DB, cacheSize int) *CommitStore {
	return &CommitStore{tree: iavl.NewMutableTree(db, cacheSize)}
}

// NewMemCommitStore returns a commit store without persistence, useful for
// tests and short lived ledgers.
func NewMemCommitStore() *CommitStore {
	return NewCommitStore(dbm.NewMemDB(), DefaultCacheSize)
}

// Get returns the value from the working tree.
// Returns nil iff key doesn't exist. Panics on nil key.
func (s *CommitStore) Get(key []byte) []byte {
	_, val := s.tree.Get(key)
	return val
}

// Has checks if a key exists in the working tree.
func (s *CommitStore) Has(key []byte) bool {
	return s.Get(key) != nil
}

// Set writes to the working tree. It will be persisted on Commit.
func (s *CommitStore) Set(key, value []byte) {
	s.tree.Set(key, value)
}

// Delete removes from the working tree.
func (s *CommitStore) Delete(key []byte) {
	s.tree.Remove(key)
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (s *CommitStore) Iterator(start, end []byte) store.Iterator {
	return s.iterate(start, end, true)
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
func (s *CommitStore) ReverseIterator(start, end []byte) store.Iterator {
	return s.iterate(start, end, false)
}

func (s *CommitStore) iterate(start, end []byte, ascending bool) store.Iterator {
	var models []store.Model
	s.tree.IterateRange(start, end, ascending, func(key, value []byte) bool {
		models = append(models, store.Pair(key, value))
		return false
	})
	return store.NewSliceIterator(models)
}

// NewBatch returns a batch that applies its ops to the working tree.
func (s *CommitStore) NewBatch() store.Batch {
	return store.NewNonAtomicBatch(s)
}

// CacheWrap gives us a savepoint to perform actions
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Commit saves the working tree as the next version.
func (s *CommitStore) Commit() (store.CommitID, error) {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{Version: version, Hash: hash}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved
func (s *CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}
