package tokenswap

import (
	"github.com/iov-one/tokenswap/errors"
)

// AccountInfo is the view of an account a program works on during a single
// instruction. Programs change Lamports and Data in place, the runtime
// verifies and persists the changes once the instruction returns.
type AccountInfo struct {
	Key        Address
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
	// Owner is the program allowed to change Data and debit Lamports.
	Owner      Address
	Executable bool
}

// Clone returns a deep copy of the account.
func (a *AccountInfo) Clone() *AccountInfo {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AccountMeta describes how an instruction references an account.
type AccountMeta struct {
	Address    Address
	IsSigner   bool
	IsWritable bool
}

// NewWritableMeta returns a meta for a writable account.
func NewWritableMeta(a Address, signer bool) AccountMeta {
	return AccountMeta{Address: a, IsSigner: signer, IsWritable: true}
}

// NewReadonlyMeta returns a meta for a read only account.
func NewReadonlyMeta(a Address, signer bool) AccountMeta {
	return AccountMeta{Address: a, IsSigner: signer}
}

// Instruction is a single call of a program.
type Instruction struct {
	ProgramID Address
	Accounts  []AccountMeta
	Data      []byte
}

// AccountIter walks the accounts passed to an instruction in order.
type AccountIter struct {
	accounts []*AccountInfo
	pos      int
}

// NewAccountIter returns an iterator over given accounts.
func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account or ErrNotEnoughAccountKeys when all
// accounts were consumed.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if it.pos >= len(it.accounts) {
		return nil, errors.ErrNotEnoughAccountKeys.Newf("account %d", it.pos)
	}
	a := it.accounts[it.pos]
	it.pos++
	return a, nil
}

// Remaining returns the accounts not consumed yet.
func (it *AccountIter) Remaining() []*AccountInfo {
	return it.accounts[it.pos:]
}
