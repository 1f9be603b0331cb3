package swaptest

import (
	"crypto/rand"
	"testing"

	"github.com/iov-one/tokenswap"
	"golang.org/x/crypto/ed25519"
)

// Key is an ed25519 key pair of a test user.
type Key struct {
	priv ed25519.PrivateKey
	addr tokenswap.Address
}

// NewKey generates a random key.
func NewKey() *Key {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	var addr tokenswap.Address
	copy(addr[:], pub)
	return &Key{priv: priv, addr: addr}
}

// Address returns the public key of this key pair, which is also its
// account address.
func (k *Key) Address() tokenswap.Address {
	return k.addr
}

// PrivateKey returns the signing key.
func (k *Key) PrivateKey() ed25519.PrivateKey {
	return k.priv
}

// RandomAddr returns an address nobody holds a key for.
func RandomAddr(t testing.TB) tokenswap.Address {
	t.Helper()
	var a tokenswap.Address
	if _, err := rand.Read(a[:]); err != nil {
		t.Fatalf("cannot read random address: %s", err)
	}
	return a
}

// ParseAddress returns the address encoded in base58 or fails the test.
func ParseAddress(t testing.TB, encoded string) tokenswap.Address {
	t.Helper()
	a, err := tokenswap.ParseAddress(encoded)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encoded, err)
	}
	return a
}
