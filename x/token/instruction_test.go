package token

import (
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/swaptest/assert"
)

func TestInstructionEncoding(t *testing.T) {
	authority := tokenswap.MustParseAddress("BPFLoaderUpgradeab1e11111111111111111111111")

	cases := map[string]Instruction{
		"initialize mint":    {Kind: KindInitializeMint, Decimals: 9, NewAuthority: authority},
		"initialize account": {Kind: KindInitializeAccount},
		"transfer":           {Kind: KindTransfer, Amount: 1 << 40},
		"set authority":      {Kind: KindSetAuthority, AuthorityType: AuthorityAccountOwner, NewAuthority: authority},
		"mint to":            {Kind: KindMintTo, Amount: 7},
		"close account":      {Kind: KindCloseAccount},
	}
	for testName, ix := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := UnpackInstruction(ix.Pack())
			assert.Nil(t, err)
			assert.Equal(t, ix, *got)
		})
	}
}

func TestSetAuthorityLayout(t *testing.T) {
	var next tokenswap.Address
	next[0] = 0xff
	data := (&Instruction{Kind: KindSetAuthority, AuthorityType: AuthorityAccountOwner, NewAuthority: next}).Pack()
	assert.Equal(t, 35, len(data))
	assert.Equal(t, []byte{6, 2, 1, 0xff}, data[:4])

	// Removing the authority is not supported.
	data[2] = 0
	_, err := UnpackInstruction(data)
	assert.IsErr(t, ErrInvalidInstruction, err)
}

func TestStateLayouts(t *testing.T) {
	var a Account
	a.Amount = 0x0102
	a.State = AccountInitialized
	raw := make([]byte, AccountLen)
	assert.Nil(t, a.Pack(raw))
	assert.Equal(t, []byte{0x02, 0x01}, raw[64:66])
	assert.Equal(t, byte(1), raw[72])

	raw[72] = 2
	_, err := UnpackAccount(raw)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)

	_, err = UnpackAccount(make([]byte, AccountLen))
	assert.IsErr(t, errors.ErrUninitializedAccount, err)

	_, err = UnpackMint(make([]byte, MintLen-1))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}
