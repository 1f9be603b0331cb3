package ledger

import (
	amino "github.com/tendermint/go-amino"
)

// cdc encodes everything the ledger persists or signs. All encoded types are
// concrete so nothing has to be registered.
var cdc = amino.NewCodec()

// storedAccount is the persisted form of an account.
type storedAccount struct {
	Lamports   uint64
	Data       []byte
	Owner      []byte
	Executable bool
}

// wireMeta is the encoded form of tokenswap.AccountMeta.
type wireMeta struct {
	Address    []byte
	IsSigner   bool
	IsWritable bool
}

// wireInstruction is the encoded form of tokenswap.Instruction.
type wireInstruction struct {
	ProgramID []byte
	Accounts  []wireMeta
	Data      []byte
}

type wireSignature struct {
	PubKey    []byte
	Signature []byte
}

// wireTx is the encoded form of a Transaction.
type wireTx struct {
	Nonce        uint64
	Instructions []wireInstruction
	Signatures   []wireSignature
}
