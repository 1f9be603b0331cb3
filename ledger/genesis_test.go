package ledger_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/ledger"
	"github.com/iov-one/tokenswap/store/iavl"
	"github.com/iov-one/tokenswap/x/rent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisJSON = `{
	"chain_id": "genesis-test",
	"conf": {
		"rent": {"lamports_per_byte_year": 10, "exemption_threshold": 1.5, "burn_percent": 20}
	},
	"accounts": [
		{"address": "BPFLoaderUpgradeab1e11111111111111111111111", "lamports": 500, "owner": "", "data": "AQID"}
	]
}`

func TestLoadGenesis(t *testing.T) {
	dir, err := ioutil.TempDir("", "genesis")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "genesis.json")
	require.NoError(t, ioutil.WriteFile(path, []byte(genesisJSON), 0600))

	g, err := ledger.LoadGenesis(path)
	require.NoError(t, err)
	assert.Equal(t, "genesis-test", g.ChainID)

	rt := ledger.NewRuntime("genesis-test", iavl.NewMemCommitStore())
	require.NoError(t, rt.InitGenesis(g))

	conf, err := rt.Rent()
	require.NoError(t, err)
	want := rent.Rent{LamportsPerByteYear: 10, ExemptionThreshold: 1.5, BurnPercent: 20}
	assert.Equal(t, want, conf)

	sysvar, err := rt.Account(rent.SysvarID)
	require.NoError(t, err)
	fromSysvar, err := rent.FromAccount(sysvar)
	require.NoError(t, err)
	assert.Equal(t, want, fromSysvar)

	acc, err := rt.Account(tokenswap.MustParseAddress("BPFLoaderUpgradeab1e11111111111111111111111"))
	require.NoError(t, err)
	assert.Equal(t, uint64(500), acc.Lamports)
	assert.Equal(t, []byte{1, 2, 3}, acc.Data)
	assert.Equal(t, tokenswap.ZeroAddress, acc.Owner)
}

func TestGenesisDefaults(t *testing.T) {
	rt := ledger.NewRuntime("defaults", iavl.NewMemCommitStore())
	require.NoError(t, rt.InitGenesis(&ledger.Genesis{ChainID: "defaults"}))
	conf, err := rt.Rent()
	require.NoError(t, err)
	assert.Equal(t, rent.Default(), conf)
}

func TestGenesisErrors(t *testing.T) {
	cases := map[string]struct {
		raw     string
		chainID string
		wantErr *errors.Error
	}{
		"malformed json": {
			raw:     `{"chain_id": `,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
		"missing chain id": {
			raw:     `{}`,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
		"other chain": {
			raw:     `{"chain_id": "y"}`,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
		"invalid rent": {
			raw:     `{"chain_id": "x", "conf": {"rent": {"burn_percent": 101}}}`,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
		"rent rate overflows": {
			raw:     `{"chain_id": "x", "conf": {"rent": {"lamports_per_byte_year": 18446744073709551615, "exemption_threshold": 2}}}`,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
		"rent sysvar in accounts": {
			raw:     `{"chain_id": "x", "accounts": [{"address": "SysvarRent111111111111111111111111111111111", "lamports": 1}]}`,
			chainID: "x",
			wantErr: errors.ErrInvalidInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			rt := ledger.NewRuntime(tc.chainID, iavl.NewMemCommitStore())
			g, err := ledger.ParseGenesis([]byte(tc.raw))
			if err == nil {
				err = rt.InitGenesis(g)
			}
			require.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
			if g != nil {
				_, err := rt.Rent()
				assert.True(t, errors.ErrNotFound.Is(err), "genesis must not be partially written: %+v", err)
			}
		})
	}
}
