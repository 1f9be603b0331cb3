package ledger

import (
	"bytes"
	"math/bits"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// frame is a single program execution, either a top level instruction or a
// cross program invocation.
type frame struct {
	programID tokenswap.Address
	// infos are handed to the program, one per referenced account and in
	// instruction order. The same address always maps to the same info.
	infos []*tokenswap.AccountInfo
	live  map[tokenswap.Address]*tokenswap.AccountInfo
	// verified holds the last state of each account the program was
	// allowed to produce.
	verified map[tokenswap.Address]*tokenswap.AccountInfo
	signer   map[tokenswap.Address]bool
	writable map[tokenswap.Address]bool
	// lamports the accounts held before execution, as a 128 bit sum.
	lamportsHi, lamportsLo uint64
}

// newFrame prepares the accounts referenced by metas. Account states are
// copied from load, so the program works on its own version of them.
func newFrame(programID tokenswap.Address, metas []tokenswap.AccountMeta, load func(tokenswap.Address) (*tokenswap.AccountInfo, error)) (*frame, error) {
	f := &frame{
		programID: programID,
		live:      make(map[tokenswap.Address]*tokenswap.AccountInfo),
		verified:  make(map[tokenswap.Address]*tokenswap.AccountInfo),
		signer:    make(map[tokenswap.Address]bool),
		writable:  make(map[tokenswap.Address]bool),
	}
	for _, m := range metas {
		f.signer[m.Address] = f.signer[m.Address] || m.IsSigner
		f.writable[m.Address] = f.writable[m.Address] || m.IsWritable
	}
	for _, m := range metas {
		info, ok := f.live[m.Address]
		if !ok {
			src, err := load(m.Address)
			if err != nil {
				return nil, err
			}
			info = src.Clone()
			info.IsSigner = f.signer[m.Address]
			info.IsWritable = f.writable[m.Address]
			if info.Executable && info.IsWritable {
				return nil, errors.ErrInvalidArgument.Newf("program %s cannot be writable", m.Address)
			}
			f.live[m.Address] = info
			f.verified[m.Address] = info.Clone()
			f.lamportsHi, f.lamportsLo = add128(f.lamportsHi, f.lamportsLo, info.Lamports)
		}
		f.infos = append(f.infos, info)
	}
	return f, nil
}

// verify checks that the program changed only what it is allowed to and
// records the current state as verified.
func (f *frame) verify(addrs ...tokenswap.Address) error {
	for _, a := range addrs {
		before, after := f.verified[a], f.live[a]
		if err := verifyAccount(f.programID, before, after, f.writable[a]); err != nil {
			return err
		}
	}
	for _, a := range addrs {
		f.verified[a] = f.live[a].Clone()
	}
	return nil
}

// verifyAll checks every account of the frame and the lamport balance.
func (f *frame) verifyAll() error {
	addrs := make([]tokenswap.Address, 0, len(f.live))
	var hi, lo uint64
	for a, info := range f.live {
		addrs = append(addrs, a)
		hi, lo = add128(hi, lo, info.Lamports)
	}
	if hi != f.lamportsHi || lo != f.lamportsLo {
		return errors.ErrUnbalancedInstruction.Newf("program %s", f.programID)
	}
	return f.verify(addrs...)
}

func verifyAccount(programID tokenswap.Address, before, after *tokenswap.AccountInfo, writable bool) error {
	if after.Key != before.Key {
		return errors.ErrExternalAccountModified.Newf("account %s changed its address", before.Key)
	}
	if after.Owner != before.Owner || after.Executable != before.Executable {
		return errors.ErrExternalAccountModified.Newf("account %s metadata", before.Key)
	}
	if len(after.Data) != len(before.Data) {
		return errors.ErrExternalAccountModified.Newf("account %s data length", before.Key)
	}
	if after.Lamports != before.Lamports {
		if !writable {
			return errors.ErrReadonlyModified.Newf("lamports of %s", before.Key)
		}
		if after.Lamports < before.Lamports && before.Owner != programID {
			return errors.ErrExternalAccountModified.Newf("%s debited lamports of %s", programID, before.Key)
		}
	}
	if !bytes.Equal(after.Data, before.Data) {
		if !writable {
			return errors.ErrReadonlyModified.Newf("data of %s", before.Key)
		}
		if before.Owner != programID {
			return errors.ErrExternalAccountModified.Newf("%s modified data of %s", programID, before.Key)
		}
	}
	return nil
}

func add128(hi, lo, v uint64) (uint64, uint64) {
	lo, carry := bits.Add64(lo, v, 0)
	return hi + carry, lo
}
