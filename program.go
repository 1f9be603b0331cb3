package tokenswap

import (
	"context"
)

// Program is executed by the runtime for every instruction addressed to it.
// Returning an error aborts the whole transaction.
type Program interface {
	Process(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc is an adapter to use a plain function as a Program.
type ProgramFunc func(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error

var _ Program = (ProgramFunc)(nil)

func (fn ProgramFunc) Process(ctx context.Context, programID Address, accounts []*AccountInfo, data []byte) error {
	return fn(ctx, programID, accounts, data)
}

// Invoker executes an instruction of another program from inside a running
// program. Accounts must contain every account the instruction references,
// except program derived signers that can be materialized from the seeds.
type Invoker interface {
	// Invoke calls the program with the privileges the caller already has.
	Invoke(ctx context.Context, ix Instruction, accounts []*AccountInfo) error

	// InvokeSigned additionally lets the calling program sign for the
	// program derived addresses produced by each set of signer seeds.
	InvokeSigned(ctx context.Context, ix Instruction, accounts []*AccountInfo, signerSeeds [][][]byte) error
}
