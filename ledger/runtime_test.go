package ledger_test

import (
	"context"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/store"
	"github.com/iov-one/tokenswap/swaptest"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens is a ledger with one mint and two funded token accounts.
type tokens struct {
	l      *swaptest.Ledger
	issuer *swaptest.Key
	alice  *swaptest.Key
	mint   tokenswap.Address
	src    tokenswap.Address
	dst    tokenswap.Address
}

func newTokens(t *testing.T) *tokens {
	l := swaptest.NewLedger(t)
	tk := &tokens{l: l, issuer: swaptest.NewKey(), alice: swaptest.NewKey()}
	tk.mint = l.CreateMint(tk.issuer.Address())
	tk.src = l.CreateTokenAccount(tk.mint, tk.alice.Address())
	tk.dst = l.CreateTokenAccount(tk.mint, swaptest.RandomAddr(t))
	l.MintTo(tk.mint, tk.issuer, tk.src, 100)
	return tk
}

func (tk *tokens) transfer(amount uint64) tokenswap.Instruction {
	return token.NewTransferInstruction(tk.src, tk.dst, tk.alice.Address(), amount)
}

func TestTransactionIsAtomic(t *testing.T) {
	tk := newTokens(t)

	err := tk.l.Exec([]*swaptest.Key{tk.alice}, tk.transfer(40), tk.transfer(70))
	require.True(t, token.ErrInsufficientFunds.Is(err), "%+v", err)
	assert.Equal(t, uint64(100), tk.l.Balance(tk.src))
	assert.Equal(t, uint64(0), tk.l.Balance(tk.dst))

	tk.l.MustExec([]*swaptest.Key{tk.alice}, tk.transfer(40), tk.transfer(60))
	assert.Equal(t, uint64(0), tk.l.Balance(tk.src))
	assert.Equal(t, uint64(100), tk.l.Balance(tk.dst))
}

func TestUnknownProgram(t *testing.T) {
	l := swaptest.NewLedger(t)
	err := l.Exec(nil, tokenswap.Instruction{ProgramID: swaptest.RandomAddr(t)})
	assert.True(t, errors.ErrUnsupportedProgramID.Is(err), "%+v", err)
}

func TestUnsignedTransaction(t *testing.T) {
	tk := newTokens(t)
	err := tk.l.Exec(nil, tk.transfer(1))
	assert.True(t, errors.ErrMissingRequiredSignature.Is(err), "%+v", err)
	assert.Equal(t, uint64(100), tk.l.Balance(tk.src))
}

func TestProgramChangesAreVerified(t *testing.T) {
	cases := map[string]struct {
		// program is deployed at a random address and receives an
		// account it owns, a writable account owned by somebody else
		// and a read only account it owns, in that order.
		program func(accounts []*tokenswap.AccountInfo) error
		wantErr *errors.Error
	}{
		"write own account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Data[0] = 1
				return nil
			},
		},
		"move lamports to a foreign account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Lamports -= 10
				accounts[1].Lamports += 10
				return nil
			},
		},
		"write foreign account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[1].Data[0] = 1
				return nil
			},
			wantErr: errors.ErrExternalAccountModified,
		},
		"debit foreign account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[1].Lamports -= 10
				accounts[0].Lamports += 10
				return nil
			},
			wantErr: errors.ErrExternalAccountModified,
		},
		"write read only account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[2].Data[0] = 1
				return nil
			},
			wantErr: errors.ErrReadonlyModified,
		},
		"credit read only account": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Lamports -= 10
				accounts[2].Lamports += 10
				return nil
			},
			wantErr: errors.ErrReadonlyModified,
		},
		"mint lamports": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Lamports += 10
				return nil
			},
			wantErr: errors.ErrUnbalancedInstruction,
		},
		"resize data": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Data = append(accounts[0].Data, 1)
				return nil
			},
			wantErr: errors.ErrExternalAccountModified,
		},
		"change owner": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				accounts[0].Owner = tokenswap.ZeroAddress
				return nil
			},
			wantErr: errors.ErrExternalAccountModified,
		},
		"panic": {
			program: func(accounts []*tokenswap.AccountInfo) error {
				panic("boom")
			},
			wantErr: errors.ErrPanic,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := swaptest.NewLedger(t)
			programID := swaptest.RandomAddr(t)
			l.RegisterProgram(programID, tokenswap.ProgramFunc(
				func(ctx context.Context, _ tokenswap.Address, accounts []*tokenswap.AccountInfo, _ []byte) error {
					return tc.program(accounts)
				}))
			own := l.CreateAccount(programID, 4)
			foreign := l.CreateAccount(token.ProgramID, 4)
			readonly := l.CreateAccount(programID, 4)

			before := map[tokenswap.Address]*tokenswap.AccountInfo{}
			for _, a := range []tokenswap.Address{own, foreign, readonly} {
				info, err := l.Account(a)
				require.NoError(t, err)
				before[a] = info
			}

			err := l.Exec(nil, tokenswap.Instruction{
				ProgramID: programID,
				Accounts: []tokenswap.AccountMeta{
					tokenswap.NewWritableMeta(own, false),
					tokenswap.NewWritableMeta(foreign, false),
					tokenswap.NewReadonlyMeta(readonly, false),
				},
			})
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			if err == nil {
				return
			}
			for a, info := range before {
				got, err := l.Account(a)
				require.NoError(t, err)
				assert.Equal(t, info, got)
			}
		})
	}
}

func TestZeroLamportAccountsArePurged(t *testing.T) {
	l := swaptest.NewLedger(t)
	programID := swaptest.RandomAddr(t)
	l.RegisterProgram(programID, tokenswap.ProgramFunc(
		func(ctx context.Context, _ tokenswap.Address, accounts []*tokenswap.AccountInfo, _ []byte) error {
			accounts[1].Lamports += accounts[0].Lamports
			accounts[0].Lamports = 0
			return nil
		}))
	closing := l.CreateAccount(programID, 8)
	recipient := swaptest.RandomAddr(t)
	lamports := l.Lamports(closing)

	l.MustExec(nil, tokenswap.Instruction{
		ProgramID: programID,
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(closing, false),
			tokenswap.NewWritableMeta(recipient, false),
		},
	})

	info, err := l.Account(closing)
	require.NoError(t, err)
	assert.Equal(t, &tokenswap.AccountInfo{Key: closing}, info)
	assert.Equal(t, lamports, l.Lamports(recipient))
}

// forward returns a program passing its accounts to a token transfer.
func forward(signerSeeds [][][]byte) tokenswap.Program {
	return tokenswap.ProgramFunc(func(ctx context.Context, _ tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
		ix := token.NewTransferInstruction(accounts[0].Key, accounts[1].Key, accounts[2].Key, 1)
		return tokenswap.GetInvoker(ctx).InvokeSigned(ctx, ix, accounts, signerSeeds)
	})
}

func TestInvokePrivileges(t *testing.T) {
	t.Run("signature is passed through", func(t *testing.T) {
		tk := newTokens(t)
		programID := swaptest.RandomAddr(t)
		tk.l.RegisterProgram(programID, forward(nil))

		tk.l.MustExec([]*swaptest.Key{tk.alice}, tokenswap.Instruction{
			ProgramID: programID,
			Accounts: []tokenswap.AccountMeta{
				tokenswap.NewWritableMeta(tk.src, false),
				tokenswap.NewWritableMeta(tk.dst, false),
				tokenswap.NewReadonlyMeta(tk.alice.Address(), true),
				tokenswap.NewReadonlyMeta(token.ProgramID, false),
			},
		})
		assert.Equal(t, uint64(1), tk.l.Balance(tk.dst))
	})

	t.Run("signature cannot be forged", func(t *testing.T) {
		tk := newTokens(t)
		programID := swaptest.RandomAddr(t)
		tk.l.RegisterProgram(programID, forward(nil))

		err := tk.l.Exec(nil, tokenswap.Instruction{
			ProgramID: programID,
			Accounts: []tokenswap.AccountMeta{
				tokenswap.NewWritableMeta(tk.src, false),
				tokenswap.NewWritableMeta(tk.dst, false),
				tokenswap.NewReadonlyMeta(tk.alice.Address(), false),
				tokenswap.NewReadonlyMeta(token.ProgramID, false),
			},
		})
		assert.True(t, errors.ErrPrivilegeEscalation.Is(err), "%+v", err)
		assert.Equal(t, uint64(100), tk.l.Balance(tk.src))
	})

	t.Run("read only account cannot become writable", func(t *testing.T) {
		tk := newTokens(t)
		programID := swaptest.RandomAddr(t)
		tk.l.RegisterProgram(programID, forward(nil))

		err := tk.l.Exec([]*swaptest.Key{tk.alice}, tokenswap.Instruction{
			ProgramID: programID,
			Accounts: []tokenswap.AccountMeta{
				tokenswap.NewWritableMeta(tk.src, false),
				tokenswap.NewReadonlyMeta(tk.dst, false),
				tokenswap.NewReadonlyMeta(tk.alice.Address(), true),
				tokenswap.NewReadonlyMeta(token.ProgramID, false),
			},
		})
		assert.True(t, errors.ErrPrivilegeEscalation.Is(err), "%+v", err)
	})

	t.Run("program signs for its derived address", func(t *testing.T) {
		tk := newTokens(t)
		programID := swaptest.RandomAddr(t)
		seeds := [][]byte{[]byte("vault")}
		pda, bump, err := tokenswap.FindProgramAddress(seeds, programID)
		require.NoError(t, err)
		tk.l.RegisterProgram(programID, forward([][][]byte{{seeds[0], {bump}}}))

		vault := tk.l.CreateTokenAccount(tk.mint, pda)
		tk.l.MintTo(tk.mint, tk.issuer, vault, 5)

		tk.l.MustExec(nil, tokenswap.Instruction{
			ProgramID: programID,
			Accounts: []tokenswap.AccountMeta{
				tokenswap.NewWritableMeta(vault, false),
				tokenswap.NewWritableMeta(tk.dst, false),
				tokenswap.NewReadonlyMeta(pda, false),
				tokenswap.NewReadonlyMeta(token.ProgramID, false),
			},
		})
		assert.Equal(t, uint64(4), tk.l.Balance(vault))
		assert.Equal(t, uint64(1), tk.l.Balance(tk.dst))
	})

	t.Run("program cannot sign for an address of another program", func(t *testing.T) {
		tk := newTokens(t)
		programID := swaptest.RandomAddr(t)
		seeds := [][]byte{[]byte("vault")}
		pda, bump, err := tokenswap.FindProgramAddress(seeds, token.ProgramID)
		require.NoError(t, err)
		tk.l.RegisterProgram(programID, forward([][][]byte{{seeds[0], {bump}}}))

		vault := tk.l.CreateTokenAccount(tk.mint, pda)
		tk.l.MintTo(tk.mint, tk.issuer, vault, 5)

		err = tk.l.Exec(nil, tokenswap.Instruction{
			ProgramID: programID,
			Accounts: []tokenswap.AccountMeta{
				tokenswap.NewWritableMeta(vault, false),
				tokenswap.NewWritableMeta(tk.dst, false),
				tokenswap.NewReadonlyMeta(pda, false),
				tokenswap.NewReadonlyMeta(token.ProgramID, false),
			},
		})
		require.Error(t, err)
		assert.Equal(t, uint64(5), tk.l.Balance(vault))
	})
}

func TestInvokeDepth(t *testing.T) {
	l := swaptest.NewLedger(t)
	programID := swaptest.RandomAddr(t)
	var calls int
	l.RegisterProgram(programID, tokenswap.ProgramFunc(
		func(ctx context.Context, self tokenswap.Address, accounts []*tokenswap.AccountInfo, _ []byte) error {
			calls++
			return tokenswap.GetInvoker(ctx).Invoke(ctx, tokenswap.Instruction{ProgramID: self}, nil)
		}))

	err := l.Exec(nil, tokenswap.Instruction{ProgramID: programID})
	assert.True(t, errors.ErrCallDepth.Is(err), "%+v", err)
	assert.Equal(t, ledger.MaxInvokeDepth, calls)
}

func TestDuplicateProgramPanics(t *testing.T) {
	l := swaptest.NewLedger(t)
	assert.Panics(t, func() {
		l.RegisterProgram(token.ProgramID, token.NewProcessor())
	})
}

func TestCommit(t *testing.T) {
	tk := newTokens(t)
	first, err := tk.l.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Version)
	assert.NotEmpty(t, first.Hash)

	tk.l.MustExec([]*swaptest.Key{tk.alice}, tk.transfer(1))
	second, err := tk.l.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Version)
	assert.NotEqual(t, first.Hash, second.Hash)

	rt := ledger.NewRuntime("mem", store.MemStore())
	_, err = rt.Commit()
	assert.True(t, errors.ErrDatabase.Is(err), "%+v", err)
}
