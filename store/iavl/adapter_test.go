package iavl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tendermint/libs/db"
)

func TestCommitAndReload(t *testing.T) {
	db := dbm.NewMemDB()

	s := NewCommitStore(db, DefaultCacheSize)
	require.NoError(t, s.LoadLatestVersion())
	assert.Equal(t, int64(0), s.LatestVersion().Version)

	cache := s.CacheWrap()
	cache.Set([]byte("alice"), []byte("100"))
	cache.Set([]byte("bob"), []byte("50"))
	// nothing visible before the cache is written
	assert.Nil(t, s.Get([]byte("alice")))
	cache.Write()
	assert.Equal(t, []byte("100"), s.Get([]byte("alice")))

	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)
	assert.Equal(t, id, s.LatestVersion())

	// a fresh store over the same database resumes the state
	reloaded := NewCommitStore(db, DefaultCacheSize)
	require.NoError(t, reloaded.LoadLatestVersion())
	assert.Equal(t, id, reloaded.LatestVersion())
	assert.Equal(t, []byte("50"), reloaded.Get([]byte("bob")))
}

func TestHashIsDeterministic(t *testing.T) {
	a, b := NewMemCommitStore(), NewMemCommitStore()
	for _, s := range []*CommitStore{a, b} {
		s.Set([]byte("k1"), []byte("v1"))
		s.Set([]byte("k2"), []byte("v2"))
		s.Delete([]byte("k1"))
	}
	ida, err := a.Commit()
	require.NoError(t, err)
	idb, err := b.Commit()
	require.NoError(t, err)
	assert.Equal(t, ida.Hash, idb.Hash)

	b.Set([]byte("k3"), []byte("v3"))
	idb, err = b.Commit()
	require.NoError(t, err)
	assert.NotEqual(t, ida.Hash, idb.Hash)
}

func TestIterators(t *testing.T) {
	s := NewMemCommitStore()
	s.Set([]byte("a"), []byte("1"))
	s.Set([]byte("b"), []byte("2"))
	s.Set([]byte("c"), []byte("3"))

	var keys []string
	for it := s.Iterator([]byte("a"), []byte("c")); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"a", "b"}, keys)

	keys = nil
	for it := s.ReverseIterator(nil, nil); it.Valid(); it.Next() {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}
