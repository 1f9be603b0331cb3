package tokenswap_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("address round trips through base58", t, func() {
		a := tokenswap.MustParseAddress("BPFLoaderUpgradeab1e11111111111111111111111")
		So(a.String(), ShouldEqual, "BPFLoaderUpgradeab1e11111111111111111111111")
	})

	Convey("zero address prints as ones", t, func() {
		So(tokenswap.ZeroAddress.String(), ShouldEqual, "11111111111111111111111111111111")
		So(tokenswap.ZeroAddress.IsZero(), ShouldBeTrue)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	rent := tokenswap.MustParseAddress("SysvarRent111111111111111111111111111111111")

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr tokenswap.Address
	}{
		"base58 decoding": {
			json:     `"SysvarRent111111111111111111111111111111111"`,
			wantAddr: rent,
		},
		"zero address": {
			json:     `""`,
			wantAddr: tokenswap.ZeroAddress,
		},
		"too short": {
			json:    `"abc"`,
			wantErr: errors.ErrInvalidInput,
		},
		"not base58": {
			json:    `"0OIl"`,
			wantErr: errors.ErrInvalidInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a tokenswap.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil {
				assert.Equal(t, tc.wantAddr, a)
			}
		})
	}
}

func TestAddressMarshalJSON(t *testing.T) {
	a := tokenswap.MustParseAddress("SysvarRent111111111111111111111111111111111")
	raw, err := json.Marshal(struct{ A tokenswap.Address }{a})
	require.NoError(t, err)
	assert.Equal(t, `{"A":"SysvarRent111111111111111111111111111111111"}`, string(raw))
}

func TestNewAddress(t *testing.T) {
	_, err := tokenswap.NewAddress(make([]byte, 20))
	assert.True(t, errors.ErrInvalidInput.Is(err))

	raw := make([]byte, tokenswap.AddressLength)
	raw[0] = 7
	a, err := tokenswap.NewAddress(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, a.Bytes())
}
