package ledger

import (
	"context"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
)

// MaxInvokeDepth limits how deep programs may call each other. The top
// level instruction is at depth 1.
const MaxInvokeDepth = 4

// invoker executes cross program invocations issued by the program running
// in frame.
type invoker struct {
	rt    *Runtime
	frame *frame
	depth int
}

var _ tokenswap.Invoker = (*invoker)(nil)

func (inv *invoker) Invoke(ctx context.Context, ix tokenswap.Instruction, accounts []*tokenswap.AccountInfo) error {
	return inv.InvokeSigned(ctx, ix, accounts, nil)
}

// InvokeSigned runs the instruction on a copy of the shared accounts and
// writes the changes back once the callee succeeded and its changes are
// verified. A callee never gains privileges the caller did not have, except
// signing for the program derived addresses of the caller.
func (inv *invoker) InvokeSigned(ctx context.Context, ix tokenswap.Instruction, accounts []*tokenswap.AccountInfo, signerSeeds [][][]byte) error {
	if inv.depth >= MaxInvokeDepth {
		return errors.ErrCallDepth.Newf("depth %d", inv.depth+1)
	}
	program, ok := inv.rt.program(ix.ProgramID)
	if !ok {
		return errors.ErrUnsupportedProgramID.Newf("program %s", ix.ProgramID)
	}

	caller := inv.frame
	derived := make(map[tokenswap.Address]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		a, err := tokenswap.CreateProgramAddress(seeds, caller.programID)
		if err != nil {
			return errors.Wrap(err, "signer seeds")
		}
		derived[a] = true
	}
	passed := make(map[tokenswap.Address]bool, len(accounts))
	for _, a := range accounts {
		passed[a.Key] = true
	}

	var shared []tokenswap.Address
	for _, m := range ix.Accounts {
		if _, ok := caller.live[m.Address]; !ok || !passed[m.Address] {
			if derived[m.Address] && !m.IsWritable {
				continue
			}
			return errors.ErrNotEnoughAccountKeys.Newf("account %s not provided", m.Address)
		}
		if m.IsSigner && !caller.signer[m.Address] && !derived[m.Address] {
			return errors.ErrPrivilegeEscalation.Newf("signature of %s", m.Address)
		}
		if m.IsWritable && !caller.writable[m.Address] {
			return errors.ErrPrivilegeEscalation.Newf("%s is read only", m.Address)
		}
		shared = append(shared, m.Address)
	}

	// What the caller did so far must hold on its own.
	if err := caller.verify(shared...); err != nil {
		return err
	}

	callee, err := newFrame(ix.ProgramID, ix.Accounts, func(a tokenswap.Address) (*tokenswap.AccountInfo, error) {
		if info, ok := caller.live[a]; ok {
			return info, nil
		}
		return &tokenswap.AccountInfo{Key: a}, nil
	})
	if err != nil {
		return err
	}

	ctx = tokenswap.WithLogInfo(ctx, "invoke", ix.ProgramID, "depth", inv.depth+1)
	if err := inv.rt.run(ctx, program, callee, ix.Data, inv.depth+1); err != nil {
		return err
	}

	for _, a := range shared {
		if !callee.writable[a] {
			continue
		}
		dst, src := caller.live[a], callee.live[a]
		dst.Lamports = src.Lamports
		copy(dst.Data, src.Data)
		caller.verified[a] = dst.Clone()
	}
	return nil
}
