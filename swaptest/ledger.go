package swaptest

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/x/escrow"
	"github.com/iov-one/tokenswap/x/rent"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/stretchr/testify/require"
)

// ChainID is the chain every test ledger runs.
const ChainID = "swap-test"

// Ledger wraps a runtime with the token and escrow programs deployed.
type Ledger struct {
	*ledger.Runtime
	t     testing.TB
	nonce uint64
}

// NewLedger returns a ledger on a fresh in memory store, initialized with
// the default rent configuration.
func NewLedger(t testing.TB) *Ledger {
	t.Helper()
	rt := ledger.NewRuntime(ChainID, iavl.NewMemCommitStore())
	require.NoError(t, rt.InitGenesis(&ledger.Genesis{ChainID: ChainID}))
	rt.RegisterProgram(token.ProgramID, token.NewProcessor())
	rt.RegisterProgram(escrow.ProgramID, escrow.NewProcessor(token.ProgramID))
	return &Ledger{Runtime: rt, t: t}
}

// Tx builds a transaction with a unique nonce signed by all given keys.
func (l *Ledger) Tx(signers []*Key, ixs ...tokenswap.Instruction) *ledger.Transaction {
	l.t.Helper()
	tx := ledger.NewTransaction(atomic.AddUint64(&l.nonce, 1), ixs...)
	for _, k := range signers {
		require.NoError(l.t, tx.Sign(ChainID, k.PrivateKey()))
	}
	return tx
}

// Exec signs and executes the instructions in a single transaction.
func (l *Ledger) Exec(signers []*Key, ixs ...tokenswap.Instruction) error {
	return l.Execute(context.Background(), l.Tx(signers, ixs...))
}

// MustExec is Exec failing the test on error.
func (l *Ledger) MustExec(signers []*Key, ixs ...tokenswap.Instruction) {
	l.t.Helper()
	require.NoError(l.t, l.Exec(signers, ixs...))
}

// Fund sets the lamports of a system account.
func (l *Ledger) Fund(a tokenswap.Address, lamports uint64) {
	l.t.Helper()
	info, err := l.Account(a)
	require.NoError(l.t, err)
	info.Lamports = lamports
	require.NoError(l.t, l.SetAccount(info))
}

// CreateAccount allocates a rent exempt account of given size owned by the
// program.
func (l *Ledger) CreateAccount(owner tokenswap.Address, size int) tokenswap.Address {
	l.t.Helper()
	r, err := l.Rent()
	require.NoError(l.t, err)
	a := RandomAddr(l.t)
	require.NoError(l.t, l.SetAccount(&tokenswap.AccountInfo{
		Key:      a,
		Lamports: r.MinimumBalance(size),
		Data:     make([]byte, size),
		Owner:    owner,
	}))
	return a
}

// CreateMint creates a token with given issuing authority.
func (l *Ledger) CreateMint(authority tokenswap.Address) tokenswap.Address {
	l.t.Helper()
	mint := l.CreateAccount(token.ProgramID, token.MintLen)
	l.MustExec(nil, token.NewInitializeMintInstruction(mint, authority, 0))
	return mint
}

// CreateTokenAccount creates an empty token account of the mint.
func (l *Ledger) CreateTokenAccount(mint, owner tokenswap.Address) tokenswap.Address {
	l.t.Helper()
	acc := l.CreateAccount(token.ProgramID, token.AccountLen)
	l.MustExec(nil, token.NewInitializeAccountInstruction(acc, mint, owner))
	return acc
}

// MintTo issues new tokens into the account.
func (l *Ledger) MintTo(mint tokenswap.Address, authority *Key, dst tokenswap.Address, amount uint64) {
	l.t.Helper()
	l.MustExec([]*Key{authority}, token.NewMintToInstruction(mint, dst, authority.Address(), amount))
}

// TokenAccount returns the state of a token account.
func (l *Ledger) TokenAccount(a tokenswap.Address) *token.Account {
	l.t.Helper()
	info, err := l.Account(a)
	require.NoError(l.t, err)
	acc, err := token.UnpackAccount(info.Data)
	require.NoError(l.t, err)
	return acc
}

// Balance returns the token balance of a token account.
func (l *Ledger) Balance(a tokenswap.Address) uint64 {
	l.t.Helper()
	return l.TokenAccount(a).Amount
}

// Lamports returns the lamports held by an account.
func (l *Ledger) Lamports(a tokenswap.Address) uint64 {
	l.t.Helper()
	info, err := l.Account(a)
	require.NoError(l.t, err)
	return info.Lamports
}

// MinimumBalance returns the rent exempt balance for given data size.
func (l *Ledger) MinimumBalance(size int) uint64 {
	l.t.Helper()
	r, err := l.Rent()
	require.NoError(l.t, err)
	return r.MinimumBalance(size)
}

// RentSysvar returns the rent sysvar account.
func (l *Ledger) RentSysvar() *tokenswap.AccountInfo {
	l.t.Helper()
	info, err := l.Account(rent.SysvarID)
	require.NoError(l.t, err)
	return info
}
