package ledger

import (
	"sync"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// AccountLocks schedules transactions so that no two of them touching the
// same writable account run at once. Any number of transactions may read an
// account that nobody writes.
//
// Locking never blocks. A transaction that cannot acquire all of its locks
// fails with ErrAccountInUse and should be retried by the client.
type AccountLocks struct {
	mu       sync.Mutex
	writable map[tokenswap.Address]struct{}
	readonly map[tokenswap.Address]int
}

// NewAccountLocks returns an empty lock table.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{
		writable: make(map[tokenswap.Address]struct{}),
		readonly: make(map[tokenswap.Address]int),
	}
}

// Lock acquires all locks the accounts require or none of them.
func (l *AccountLocks) Lock(metas []tokenswap.AccountMeta) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, m := range metas {
		if _, ok := l.writable[m.Address]; ok {
			return errors.ErrAccountInUse.Newf("account %s", m.Address)
		}
		if m.IsWritable && l.readonly[m.Address] > 0 {
			return errors.ErrAccountInUse.Newf("account %s", m.Address)
		}
	}
	for _, m := range metas {
		if m.IsWritable {
			l.writable[m.Address] = struct{}{}
		} else {
			l.readonly[m.Address]++
		}
	}
	return nil
}

// Unlock releases locks acquired by Lock with the same accounts.
func (l *AccountLocks) Unlock(metas []tokenswap.AccountMeta) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, m := range metas {
		if m.IsWritable {
			delete(l.writable, m.Address)
			continue
		}
		if l.readonly[m.Address] <= 1 {
			delete(l.readonly, m.Address)
		} else {
			l.readonly[m.Address]--
		}
	}
}
