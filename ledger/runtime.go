package ledger

import (
	"context"
	"sync"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/gconf"
	"github.com/iov-one/tokenswap/x/rent"
)

// Runtime executes transactions against the accounts kept in a store.
//
// Transactions that do not share writable accounts may be executed
// concurrently. Each one sees a consistent view of its accounts and its
// changes are written at once, or not at all.
type Runtime struct {
	chainID string
	locks   *AccountLocks

	// mu guards db.
	mu sync.Mutex
	db tokenswap.CacheableKVStore

	progMu   sync.RWMutex
	programs map[tokenswap.Address]tokenswap.Program
}

// NewRuntime returns a runtime without any program registered.
func NewRuntime(chainID string, db tokenswap.CacheableKVStore) *Runtime {
	return &Runtime{
		chainID:  chainID,
		locks:    NewAccountLocks(),
		db:       db,
		programs: make(map[tokenswap.Address]tokenswap.Program),
	}
}

// ChainID returns the identifier transactions are signed for.
func (r *Runtime) ChainID() string {
	return r.chainID
}

// RegisterProgram deploys the program at given address. It panics if the
// address is already taken.
func (r *Runtime) RegisterProgram(id tokenswap.Address, p tokenswap.Program) {
	r.progMu.Lock()
	defer r.progMu.Unlock()
	if _, ok := r.programs[id]; ok {
		panic("program " + id.String() + " already registered")
	}
	r.programs[id] = p
}

func (r *Runtime) program(id tokenswap.Address) (tokenswap.Program, bool) {
	r.progMu.RLock()
	defer r.progMu.RUnlock()
	p, ok := r.programs[id]
	return p, ok
}

// Account returns the current state of an account.
func (r *Runtime) Account(a tokenswap.Address) (*tokenswap.AccountInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadAccount(a)
}

func (r *Runtime) loadAccount(a tokenswap.Address) (*tokenswap.AccountInfo, error) {
	info, err := LoadAccount(r.db, a)
	if err != nil {
		return nil, err
	}
	if _, ok := r.program(a); ok {
		info.Executable = true
	}
	return info, nil
}

// SetAccount overwrites the account. It is meant for genesis and tests,
// transactions are the only way to change accounts of a running ledger.
func (r *Runtime) SetAccount(info *tokenswap.AccountInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return SaveAccount(r.db, info)
}

// Rent returns the rent configuration stored at genesis.
func (r *Runtime) Rent() (rent.Rent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var conf rent.Rent
	err := gconf.Load(r.db, rent.ConfPackage, &conf)
	return conf, err
}

// Execute runs all instructions of the transaction. Changes are persisted
// only when every instruction succeeded.
func (r *Runtime) Execute(ctx context.Context, tx *Transaction) error {
	ctx = tokenswap.WithLogInfo(ctx, "call", "execute", "nonce", tx.Nonce)
	logger := tokenswap.GetLogger(ctx)

	if _, err := tx.Verify(r.chainID); err != nil {
		return err
	}
	metas := tx.accountMetas()
	if err := r.locks.Lock(metas); err != nil {
		return err
	}
	defer r.locks.Unlock(metas)

	working, err := r.snapshot(metas)
	if err != nil {
		return err
	}
	load := func(a tokenswap.Address) (*tokenswap.AccountInfo, error) {
		info, ok := working[a]
		if !ok {
			return nil, errors.ErrNotEnoughAccountKeys.Newf("account %s", a)
		}
		return info, nil
	}

	for i, ix := range tx.Instructions {
		program, ok := r.program(ix.ProgramID)
		if !ok {
			return errors.ErrUnsupportedProgramID.Newf("instruction %d: program %s", i, ix.ProgramID)
		}
		f, err := newFrame(ix.ProgramID, ix.Accounts, load)
		if err != nil {
			return errors.Wrapf(err, "instruction %d", i)
		}
		if err := r.run(ctx, program, f, ix.Data, 1); err != nil {
			logger.Info("instruction failed", "index", i, "program", ix.ProgramID, "err", err)
			return errors.Wrapf(err, "instruction %d", i)
		}
		for a, info := range f.live {
			if f.writable[a] {
				working[a] = info
			}
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cache := r.db.CacheWrap()
	for _, m := range metas {
		if !m.IsWritable {
			continue
		}
		if err := SaveAccount(cache, working[m.Address]); err != nil {
			cache.Discard()
			return err
		}
	}
	cache.Write()
	logger.Debug("transaction executed", "instructions", len(tx.Instructions))
	return nil
}

func (r *Runtime) snapshot(metas []tokenswap.AccountMeta) (map[tokenswap.Address]*tokenswap.AccountInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	working := make(map[tokenswap.Address]*tokenswap.AccountInfo, len(metas))
	for _, m := range metas {
		info, err := r.loadAccount(m.Address)
		if err != nil {
			return nil, err
		}
		working[m.Address] = info
	}
	return working, nil
}

// run executes the program and verifies the changes it made.
func (r *Runtime) run(ctx context.Context, program tokenswap.Program, f *frame, data []byte, depth int) (err error) {
	defer errors.Recover(&err)

	ctx = tokenswap.WithInvoker(ctx, &invoker{rt: r, frame: f, depth: depth})
	if err := program.Process(ctx, f.programID, f.infos, data); err != nil {
		return err
	}
	return f.verifyAll()
}

// Commit persists the state as a new version when the store supports it.
func (r *Runtime) Commit() (tokenswap.CommitID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.db.(tokenswap.CommitKVStore)
	if !ok {
		return tokenswap.CommitID{}, errors.ErrDatabase.New("store is not versioned")
	}
	return c.Commit()
}
