package ledger_test

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/swaptest"
	"github.com/iov-one/tokenswap/x/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionSignatures(t *testing.T) {
	alice := swaptest.NewKey()
	bob := swaptest.NewKey()
	src := swaptest.RandomAddr(t)
	dst := swaptest.RandomAddr(t)

	newTx := func() *ledger.Transaction {
		return ledger.NewTransaction(1, token.NewTransferInstruction(src, dst, alice.Address(), 10))
	}

	t.Run("signed by the authority", func(t *testing.T) {
		tx := newTx()
		require.NoError(t, tx.Sign("mychain", alice.PrivateKey()))
		signers, err := tx.Verify("mychain")
		require.NoError(t, err)
		assert.True(t, signers[alice.Address()])
	})

	t.Run("signed by somebody else", func(t *testing.T) {
		tx := newTx()
		require.NoError(t, tx.Sign("mychain", bob.PrivateKey()))
		_, err := tx.Verify("mychain")
		assert.True(t, errors.ErrMissingRequiredSignature.Is(err), "%+v", err)
	})

	t.Run("signed for another chain", func(t *testing.T) {
		tx := newTx()
		require.NoError(t, tx.Sign("otherchain", alice.PrivateKey()))
		_, err := tx.Verify("mychain")
		assert.True(t, errors.ErrSignatureFailure.Is(err), "%+v", err)
	})

	t.Run("modified after signing", func(t *testing.T) {
		tx := newTx()
		require.NoError(t, tx.Sign("mychain", alice.PrivateKey()))
		tx.Instructions[0].Data[1]++
		_, err := tx.Verify("mychain")
		assert.True(t, errors.ErrSignatureFailure.Is(err), "%+v", err)
	})

	t.Run("nonce is signed", func(t *testing.T) {
		tx := newTx()
		require.NoError(t, tx.Sign("mychain", alice.PrivateKey()))
		tx.Nonce++
		_, err := tx.Verify("mychain")
		assert.True(t, errors.ErrSignatureFailure.Is(err), "%+v", err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ledger.NewTransaction(1).Verify("mychain")
		assert.True(t, errors.ErrInvalidInput.Is(err), "%+v", err)
	})
}

func TestTransactionSerialization(t *testing.T) {
	alice := swaptest.NewKey()
	tx := ledger.NewTransaction(77,
		token.NewTransferInstruction(swaptest.RandomAddr(t), swaptest.RandomAddr(t), alice.Address(), 10),
		tokenswap.Instruction{ProgramID: swaptest.RandomAddr(t), Data: []byte("x")},
	)
	require.NoError(t, tx.Sign("mychain", alice.PrivateKey()))

	raw, err := tx.Marshal()
	require.NoError(t, err)
	got, err := ledger.UnmarshalTransaction(raw)
	require.NoError(t, err)

	assert.Equal(t, tx.Nonce, got.Nonce)
	assert.Equal(t, tx.Instructions[0], got.Instructions[0])
	assert.Equal(t, tx.Signatures, got.Signatures)
	_, err = got.Verify("mychain")
	assert.NoError(t, err)
}
