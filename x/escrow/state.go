package escrow

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// EscrowLen is the size of an escrow record account. The first 105 bytes
// hold the flag, the three addresses and the expected amount, followed by
// the locked amount. Records allocated with only 105 bytes are rejected as
// invalid account data.
const EscrowLen = 1 + 32 + 32 + 32 + 8 + 8

// Escrow is the record of a pending trade.
type Escrow struct {
	IsInitialized bool
	// Initializer receives the rent of the closed accounts.
	Initializer tokenswap.Address
	// TempTokenAccount holds the offered tokens and is owned by the
	// program derived authority until the trade completes.
	TempTokenAccount tokenswap.Address
	// InitializerReceivingTokenAccount is credited with the taker payment.
	InitializerReceivingTokenAccount tokenswap.Address
	// ExpectedAmount is what the taker must pay.
	ExpectedAmount uint64
	// LockedAmount is the balance of the temporary account at the time the
	// trade was opened. The taker is guaranteed to receive exactly this.
	LockedAmount uint64
}

// Pack serializes the record into dst, which must be exactly EscrowLen
// bytes long.
func (e *Escrow) Pack(dst []byte) error {
	if len(dst) != EscrowLen {
		return errors.ErrInvalidAccountData.Newf("escrow record of %d bytes", len(dst))
	}
	dst[0] = 0
	if e.IsInitialized {
		dst[0] = 1
	}
	copy(dst[1:33], e.Initializer[:])
	copy(dst[33:65], e.TempTokenAccount[:])
	copy(dst[65:97], e.InitializerReceivingTokenAccount[:])
	binary.LittleEndian.PutUint64(dst[97:105], e.ExpectedAmount)
	binary.LittleEndian.PutUint64(dst[105:113], e.LockedAmount)
	return nil
}

// UnpackEscrow reads an initialized escrow record.
func UnpackEscrow(src []byte) (*Escrow, error) {
	e, err := unpackEscrowUnchecked(src)
	if err != nil {
		return nil, err
	}
	if !e.IsInitialized {
		return nil, errors.ErrUninitializedAccount.New("escrow record")
	}
	return e, nil
}

func unpackEscrowUnchecked(src []byte) (*Escrow, error) {
	if len(src) != EscrowLen {
		return nil, errors.ErrInvalidAccountData.Newf("escrow record of %d bytes", len(src))
	}
	if src[0] > 1 {
		return nil, errors.ErrInvalidAccountData.Newf("initialized flag %d", src[0])
	}
	var e Escrow
	e.IsInitialized = src[0] == 1
	copy(e.Initializer[:], src[1:33])
	copy(e.TempTokenAccount[:], src[33:65])
	copy(e.InitializerReceivingTokenAccount[:], src[65:97])
	e.ExpectedAmount = binary.LittleEndian.Uint64(src[97:105])
	e.LockedAmount = binary.LittleEndian.Uint64(src[105:113])
	return &e, nil
}
