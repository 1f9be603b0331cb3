package tokenswap

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// MaxSeeds is the maximum number of seeds a program address can be
	// derived from.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	pdaMarker = "ProgramDerivedAddress"
)

// CreateProgramAddress derives an address that no private key exists for.
// Only the program identified by programID can authorize actions for it,
// by presenting the same seeds to the runtime.
//
// The hash of the seeds may land on the ed25519 curve, in which case a
// private key could exist and ErrInvalidSeeds is returned. Use
// FindProgramAddress to search for a bump seed that avoids this.
func CreateProgramAddress(seeds [][]byte, programID Address) (Address, error) {
	if len(seeds) > MaxSeeds {
		return ZeroAddress, errors.ErrInvalidSeeds.Newf("%d seeds", len(seeds))
	}
	h := sha256.New()
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return ZeroAddress, errors.ErrInvalidSeeds.Newf("seed of %d bytes", len(s))
		}
		h.Write(s)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr Address
	copy(addr[:], h.Sum(nil))
	if IsOnCurve(addr) {
		return ZeroAddress, errors.ErrInvalidSeeds.New("address on curve")
	}
	return addr, nil
}

// FindProgramAddress returns the first valid program address, searching
// bump seeds from 255 down, together with the bump that produced it. The
// bump must be appended to the seeds when signing for the address.
func FindProgramAddress(seeds [][]byte, programID Address) (Address, uint8, error) {
	if len(seeds) >= MaxSeeds {
		return ZeroAddress, 0, errors.ErrInvalidSeeds.Newf("%d seeds", len(seeds))
	}
	for _, s := range seeds {
		if len(s) > MaxSeedLength {
			return ZeroAddress, 0, errors.ErrInvalidSeeds.Newf("seed of %d bytes", len(s))
		}
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.ErrInvalidSeeds.Is(err) {
			return ZeroAddress, 0, err
		}
	}
	return ZeroAddress, 0, errors.ErrInvalidSeeds.New("no viable bump")
}

// IsOnCurve returns true if the address is a valid compressed ed25519 point.
func IsOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
