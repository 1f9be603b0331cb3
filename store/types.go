package store

import "github.com/iov-one/tokenswap"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = tokenswap.ReadOnlyKVStore
	SetDeleter       = tokenswap.SetDeleter
	KVStore          = tokenswap.KVStore
	Batch            = tokenswap.Batch
	Iterator         = tokenswap.Iterator
	CacheableKVStore = tokenswap.CacheableKVStore
	KVCacheWrap      = tokenswap.KVCacheWrap
	CommitKVStore    = tokenswap.CommitKVStore
	CommitID         = tokenswap.CommitID
)
