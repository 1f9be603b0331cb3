package escrow

import (
	"encoding/binary"
	"fmt"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/rent"
)

const (
	tagInitEscrow byte = 0
	tagExchange   byte = 1

	// instructionLen is the size of an encoded instruction: a tag followed
	// by a little endian amount.
	instructionLen = 1 + 8
)

// Instruction is implemented only by InitEscrow and Exchange.
type Instruction interface {
	escrowInstruction()
}

// InitEscrow starts a trade. Amount is how many tokens of the wanted kind
// the initializer expects to receive.
type InitEscrow struct {
	Amount uint64
}

// Exchange completes a trade. Amount is how many tokens the taker pays and
// must equal the amount the initializer expects.
type Exchange struct {
	Amount uint64
}

func (InitEscrow) escrowInstruction() {}
func (Exchange) escrowInstruction()   {}

// Unpack decodes instruction data. Bytes following the amount are ignored.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInstruction.New("empty")
	}
	if len(data) < instructionLen {
		return nil, ErrInvalidInstruction.Newf("%d bytes", len(data))
	}
	amount := binary.LittleEndian.Uint64(data[1:instructionLen])
	switch data[0] {
	case tagInitEscrow:
		return InitEscrow{Amount: amount}, nil
	case tagExchange:
		return Exchange{Amount: amount}, nil
	default:
		return nil, ErrInvalidInstruction.Newf("tag %d", data[0])
	}
}

// Pack encodes the instruction. Only the InitEscrow and Exchange values are
// valid, Pack panics when given nil or a pointer to either of them.
func Pack(ix Instruction) []byte {
	data := make([]byte, instructionLen)
	switch ix := ix.(type) {
	case InitEscrow:
		data[0] = tagInitEscrow
		binary.LittleEndian.PutUint64(data[1:], ix.Amount)
	case Exchange:
		data[0] = tagExchange
		binary.LittleEndian.PutUint64(data[1:], ix.Amount)
	default:
		panic(fmt.Sprintf("cannot pack %T escrow instruction", ix))
	}
	return data
}

// InitEscrowAccounts lists the accounts an InitEscrow instruction operates
// on.
type InitEscrowAccounts struct {
	Initializer    tokenswap.Address
	TempToken      tokenswap.Address
	ReceivingToken tokenswap.Address
	Escrow         tokenswap.Address
	TokenProgram   tokenswap.Address
}

// NewInitEscrowInstruction builds the instruction that locks the tokens in
// the temporary account and records the expected amount.
func NewInitEscrowInstruction(programID tokenswap.Address, acc InitEscrowAccounts, amount uint64) tokenswap.Instruction {
	return tokenswap.Instruction{
		ProgramID: programID,
		Data:      Pack(InitEscrow{Amount: amount}),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewReadonlyMeta(acc.Initializer, true),
			tokenswap.NewWritableMeta(acc.TempToken, false),
			tokenswap.NewReadonlyMeta(acc.ReceivingToken, false),
			tokenswap.NewWritableMeta(acc.Escrow, false),
			tokenswap.NewReadonlyMeta(rent.SysvarID, false),
			tokenswap.NewReadonlyMeta(acc.TokenProgram, false),
		},
	}
}

// ExchangeAccounts lists the accounts an Exchange instruction operates on.
type ExchangeAccounts struct {
	Taker            tokenswap.Address
	TakerSource      tokenswap.Address
	TakerDestination tokenswap.Address
	TempToken        tokenswap.Address
	Initializer      tokenswap.Address
	ReceivingToken   tokenswap.Address
	Escrow           tokenswap.Address
	TokenProgram     tokenswap.Address
}

// NewExchangeInstruction builds the instruction completing a trade. The
// program derived authority of the escrow program is appended as the last
// account.
func NewExchangeInstruction(programID tokenswap.Address, acc ExchangeAccounts, amount uint64) (tokenswap.Instruction, error) {
	pda, _, err := Authority(programID)
	if err != nil {
		return tokenswap.Instruction{}, err
	}
	return tokenswap.Instruction{
		ProgramID: programID,
		Data:      Pack(Exchange{Amount: amount}),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewReadonlyMeta(acc.Taker, true),
			tokenswap.NewWritableMeta(acc.TakerSource, false),
			tokenswap.NewWritableMeta(acc.TakerDestination, false),
			tokenswap.NewWritableMeta(acc.TempToken, false),
			tokenswap.NewWritableMeta(acc.Initializer, false),
			tokenswap.NewWritableMeta(acc.ReceivingToken, false),
			tokenswap.NewWritableMeta(acc.Escrow, false),
			tokenswap.NewReadonlyMeta(acc.TokenProgram, false),
			tokenswap.NewReadonlyMeta(pda, false),
		},
	}, nil
}
