package tokenswap

import (
	"bytes"
	"encoding/json"

	"github.com/btcsuite/btcutil/base58"
	"github.com/iov-one/tokenswap/errors"
)

// AddressLength is the length of all addresses. An address is either an
// ed25519 public key or a program derived address.
const AddressLength = 32

// Address identifies an account on the ledger.
type Address [AddressLength]byte

// ZeroAddress is the address with all bytes set to zero.
var ZeroAddress Address

// NewAddress copies given bytes into an address. The length must match.
func NewAddress(raw []byte) (Address, error) {
	var a Address
	if len(raw) != AddressLength {
		return a, errors.ErrInvalidInput.Newf("address length %d", len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// ParseAddress decodes the base58 representation of an address.
func ParseAddress(s string) (Address, error) {
	raw := base58.Decode(s)
	if len(raw) == 0 && s != "" {
		return ZeroAddress, errors.ErrInvalidInput.Newf("malformed base58 address %q", s)
	}
	return NewAddress(raw)
}

// MustParseAddress is like ParseAddress but panics on failure. Use it only
// for constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Bytes returns a copy of the address as a slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a[:], b[:])
}

// IsZero returns true if all bytes of the address are zero.
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String returns the base58 representation.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// MarshalJSON provides a base58 representation for JSON, to override the
// standard array of numbers encoding.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	// No value zero the address.
	if len(enc) == 0 {
		*a = ZeroAddress
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
