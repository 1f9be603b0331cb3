package token

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// AccountLen is the size of a token account: mint, owner, amount and
	// state.
	AccountLen = 32 + 32 + 8 + 1

	// MintLen is the size of a mint: authority, supply, decimals and the
	// initialized flag.
	MintLen = 32 + 8 + 1 + 1
)

// AccountState tells whether a token account is in use.
type AccountState uint8

const (
	AccountUninitialized AccountState = iota
	AccountInitialized
)

// Account is the state of a token account.
type Account struct {
	Mint   tokenswap.Address
	Owner  tokenswap.Address
	Amount uint64
	State  AccountState
}

// IsInitialized returns true once the account was initialized.
func (a *Account) IsInitialized() bool {
	return a.State == AccountInitialized
}

// Pack serializes the account into dst, which must be exactly AccountLen
// bytes long.
func (a *Account) Pack(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.ErrInvalidAccountData.Newf("token account of %d bytes", len(dst))
	}
	copy(dst[0:32], a.Mint[:])
	copy(dst[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(dst[64:72], a.Amount)
	dst[72] = byte(a.State)
	return nil
}

// UnpackAccount reads an initialized token account.
func UnpackAccount(src []byte) (*Account, error) {
	a, err := unpackAccountUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !a.IsInitialized() {
		return nil, errors.ErrUninitializedAccount.New("token account")
	}
	return a, nil
}

func unpackAccountUnchecked(src []byte) (*Account, error) {
	if len(src) != AccountLen {
		return nil, errors.ErrInvalidAccountData.Newf("token account of %d bytes", len(src))
	}
	state := AccountState(src[72])
	if state > AccountInitialized {
		return nil, errors.ErrInvalidAccountData.Newf("token account state %d", state)
	}
	var a Account
	copy(a.Mint[:], src[0:32])
	copy(a.Owner[:], src[32:64])
	a.Amount = binary.LittleEndian.Uint64(src[64:72])
	a.State = state
	return &a, nil
}

// Mint is the state of a token definition.
type Mint struct {
	Authority     tokenswap.Address
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

// Pack serializes the mint into dst, which must be exactly MintLen bytes
// long.
func (m *Mint) Pack(dst []byte) error {
	if len(dst) != MintLen {
		return errors.ErrInvalidAccountData.Newf("mint of %d bytes", len(dst))
	}
	copy(dst[0:32], m.Authority[:])
	binary.LittleEndian.PutUint64(dst[32:40], m.Supply)
	dst[40] = m.Decimals
	dst[41] = 0
	if m.IsInitialized {
		dst[41] = 1
	}
	return nil
}

// UnpackMint reads an initialized mint.
func UnpackMint(src []byte) (*Mint, error) {
	m, err := unpackMintUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !m.IsInitialized {
		return nil, errors.ErrUninitializedAccount.New("mint")
	}
	return m, nil
}

func unpackMintUnchecked(src []byte) (*Mint, error) {
	if len(src) != MintLen {
		return nil, errors.ErrInvalidAccountData.Newf("mint of %d bytes", len(src))
	}
	if src[41] > 1 {
		return nil, errors.ErrInvalidAccountData.Newf("mint initialized flag %d", src[41])
	}
	var m Mint
	copy(m.Authority[:], src[0:32])
	m.Supply = binary.LittleEndian.Uint64(src[32:40])
	m.Decimals = src[40]
	m.IsInitialized = src[41] == 1
	return &m, nil
}
