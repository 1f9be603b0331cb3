package ledger

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/x/rent"
)

// Genesis is the initial state of the ledger.
type Genesis struct {
	ChainID string `json:"chain_id"`
	// Conf holds the configuration of each package, keyed by package name.
	Conf     map[string]json.RawMessage `json:"conf"`
	Accounts []GenesisAccount           `json:"accounts"`
}

// GenesisAccount is an account that exists from the start.
type GenesisAccount struct {
	Address  tokenswap.Address `json:"address"`
	Lamports uint64            `json:"lamports"`
	Owner    tokenswap.Address `json:"owner"`
	Data     []byte            `json:"data,omitempty"`
}

// LoadGenesis reads a genesis document from a JSON file.
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return ParseGenesis(raw)
}

// ParseGenesis decodes a genesis document.
func ParseGenesis(raw []byte) (*Genesis, error) {
	var g Genesis
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis: %s", err)
	}
	if g.ChainID == "" {
		return nil, errors.ErrInvalidInput.New("genesis without chain id")
	}
	return &g, nil
}

// InitGenesis writes the genesis state. The rent configuration falls back
// to rent.Default when the document does not carry one, and the rent sysvar
// account is created from it.
func (r *Runtime) InitGenesis(g *Genesis) error {
	if g.ChainID != r.chainID {
		return errors.ErrInvalidInput.Newf("genesis for chain %q, runtime runs %q", g.ChainID, r.chainID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cache := r.db.CacheWrap()

	conf := rent.Default()
	if _, ok := g.Conf[rent.ConfPackage]; ok {
		if err := gconf.InitConfig(cache, g.Conf, rent.ConfPackage, &conf); err != nil {
			cache.Discard()
			return err
		}
	} else if err := gconf.Save(cache, rent.ConfPackage, &conf); err != nil {
		cache.Discard()
		return err
	}
	sysvar, err := conf.Marshal()
	if err != nil {
		cache.Discard()
		return err
	}
	lamports := conf.MinimumBalance(len(sysvar))
	if lamports == 0 {
		lamports = 1
	}
	if err := SaveAccount(cache, &tokenswap.AccountInfo{
		Key:      rent.SysvarID,
		Lamports: lamports,
		Data:     sysvar,
	}); err != nil {
		cache.Discard()
		return err
	}

	for _, a := range g.Accounts {
		if a.Address == rent.SysvarID {
			cache.Discard()
			return errors.ErrInvalidInput.New("rent sysvar is created from configuration")
		}
		if err := SaveAccount(cache, &tokenswap.AccountInfo{
			Key:      a.Address,
			Lamports: a.Lamports,
			Owner:    a.Owner,
			Data:     a.Data,
		}); err != nil {
			cache.Discard()
			return err
		}
	}
	cache.Write()
	return nil
}
