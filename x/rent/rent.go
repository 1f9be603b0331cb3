/*
Package rent implements the rent exemption rules of the ledger and the rent
sysvar account that exposes them to programs.

An account holding at least MinimumBalance lamports for its data size is rent
exempt and persists indefinitely. When the account is closed the whole balance
is refunded to whoever closes it.
*/
package rent

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

const (
	// ConfPackage is the name the rent configuration is stored under.
	ConfPackage = "rent"

	// AccountStorageOverhead is the number of bytes added to the data size
	// of every account when computing its rent.
	AccountStorageOverhead = 128

	// MaxAccountDataLen is the largest account data size a valid
	// configuration must be able to price without overflow.
	MaxAccountDataLen = 10 * 1024 * 1024

	// SysvarLen is the size of the rent sysvar account data.
	SysvarLen = 8 + 8 + 1

	// DefaultLamportsPerByteYear is the default rental rate.
	DefaultLamportsPerByteYear uint64 = 3480
	// DefaultExemptionThreshold is the number of years worth of rent an
	// account must hold to be exempt.
	DefaultExemptionThreshold = 2.0
	// DefaultBurnPercent is the share of collected rent that is destroyed.
	DefaultBurnPercent uint8 = 50
)

// SysvarID is the address of the rent sysvar account.
var SysvarID = tokenswap.MustParseAddress("SysvarRent111111111111111111111111111111111")

// Rent holds the rent parameters of the ledger.
type Rent struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
	BurnPercent         uint8   `json:"burn_percent"`
}

// Default returns the rent configuration used when genesis does not set one.
func Default() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// MinimumBalance returns the lamports an account with given data size must
// hold to be rent exempt. A balance that does not fit in lamports is capped
// at the largest representable value, so such an account is never exempt.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	balance, ok := r.minimumBalance(uint64(AccountStorageOverhead + dataLen))
	if !ok {
		return math.MaxUint64
	}
	return balance
}

func (r Rent) minimumBalance(bytes uint64) (uint64, bool) {
	hi, perYear := bits.Mul64(bytes, r.LamportsPerByteYear)
	if hi != 0 {
		return 0, false
	}
	balance := float64(perYear) * r.ExemptionThreshold
	if balance >= float64(1<<64) {
		return 0, false
	}
	return uint64(balance), true
}

// IsExempt returns true if the balance covers rent exemption of an account
// with given data size.
func (r Rent) IsExempt(balance uint64, dataLen int) bool {
	return balance >= r.MinimumBalance(dataLen)
}

// Validate returns an error if the configuration cannot be used.
func (r Rent) Validate() error {
	if r.ExemptionThreshold < 0 || math.IsNaN(r.ExemptionThreshold) || math.IsInf(r.ExemptionThreshold, 0) {
		return errors.ErrInvalidInput.Newf("exemption threshold %v", r.ExemptionThreshold)
	}
	if r.BurnPercent > 100 {
		return errors.ErrInvalidInput.Newf("burn percent %d", r.BurnPercent)
	}
	if _, ok := r.minimumBalance(AccountStorageOverhead + MaxAccountDataLen); !ok {
		return errors.ErrInvalidInput.Newf("rent of %d bytes overflows", MaxAccountDataLen)
	}
	return nil
}

// Marshal serializes the configuration using the sysvar layout.
func (r Rent) Marshal() ([]byte, error) {
	raw := make([]byte, SysvarLen)
	binary.LittleEndian.PutUint64(raw[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(raw[8:16], math.Float64bits(r.ExemptionThreshold))
	raw[16] = r.BurnPercent
	return raw, nil
}

// Unmarshal loads the configuration from the sysvar layout.
func (r *Rent) Unmarshal(raw []byte) error {
	if len(raw) < SysvarLen {
		return errors.ErrAccountDataTooSmall.Newf("rent sysvar of %d bytes", len(raw))
	}
	r.LamportsPerByteYear = binary.LittleEndian.Uint64(raw[0:8])
	r.ExemptionThreshold = math.Float64frombits(binary.LittleEndian.Uint64(raw[8:16]))
	r.BurnPercent = raw[16]
	return nil
}

// FromAccount reads the rent configuration from the sysvar account passed
// to an instruction.
func FromAccount(info *tokenswap.AccountInfo) (Rent, error) {
	var r Rent
	if info.Key != SysvarID {
		return r, errors.ErrInvalidArgument.Newf("%s is not the rent sysvar", info.Key)
	}
	if err := r.Unmarshal(info.Data); err != nil {
		return r, err
	}
	return r, nil
}
