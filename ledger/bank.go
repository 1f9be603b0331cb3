package ledger

import (
	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

var accountPrefix = []byte("acct:")

func accountKey(a tokenswap.Address) []byte {
	return append(append([]byte(nil), accountPrefix...), a[:]...)
}

// LoadAccount returns the account stored under given address. An account
// that does not exist is returned as an empty one owned by nobody, as every
// address can receive lamports.
func LoadAccount(db tokenswap.ReadOnlyKVStore, a tokenswap.Address) (*tokenswap.AccountInfo, error) {
	info := &tokenswap.AccountInfo{Key: a}
	raw := db.Get(accountKey(a))
	if raw == nil {
		return info, nil
	}
	var s storedAccount
	if err := cdc.UnmarshalBinaryBare(raw, &s); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "decode account %s: %s", a, err)
	}
	owner, err := tokenswap.NewAddress(s.Owner)
	if err != nil {
		return nil, errors.Wrapf(err, "owner of account %s", a)
	}
	info.Lamports = s.Lamports
	info.Data = s.Data
	info.Owner = owner
	info.Executable = s.Executable
	return info, nil
}

// SaveAccount persists the account. Accounts without lamports are removed,
// they cannot pay for their storage.
func SaveAccount(db tokenswap.SetDeleter, info *tokenswap.AccountInfo) error {
	if info.Lamports == 0 {
		db.Delete(accountKey(info.Key))
		return nil
	}
	raw, err := cdc.MarshalBinaryBare(storedAccount{
		Lamports:   info.Lamports,
		Data:       info.Data,
		Owner:      info.Owner.Bytes(),
		Executable: info.Executable,
	})
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "encode account %s: %s", info.Key, err)
	}
	db.Set(accountKey(info.Key), raw)
	return nil
}

// Accounts returns every stored account in address order.
func Accounts(db tokenswap.ReadOnlyKVStore) ([]*tokenswap.AccountInfo, error) {
	end := append([]byte(nil), accountPrefix...)
	end[len(end)-1]++
	it := db.Iterator(accountPrefix, end)
	defer it.Close()

	var res []*tokenswap.AccountInfo
	for ; it.Valid(); it.Next() {
		a, err := tokenswap.NewAddress(it.Key()[len(accountPrefix):])
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "account key")
		}
		info, err := LoadAccount(db, a)
		if err != nil {
			return nil, err
		}
		res = append(res, info)
	}
	return res, nil
}
