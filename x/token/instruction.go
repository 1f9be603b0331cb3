package token

import (
	"encoding/binary"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/x/rent"
)

// ProgramID is the address the token program is deployed at.
var ProgramID = tokenswap.MustParseAddress("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// InstructionKind is the first byte of every token instruction.
type InstructionKind uint8

const (
	KindInitializeMint    InstructionKind = 0
	KindInitializeAccount InstructionKind = 1
	KindTransfer          InstructionKind = 3
	KindSetAuthority      InstructionKind = 6
	KindMintTo            InstructionKind = 7
	KindCloseAccount      InstructionKind = 9
)

// AuthorityType selects which authority SetAuthority changes.
type AuthorityType uint8

const (
	AuthorityMintTokens   AuthorityType = 0
	AuthorityAccountOwner AuthorityType = 2
)

// Instruction is a decoded token instruction. Only the fields relevant for
// the kind are set.
type Instruction struct {
	Kind          InstructionKind
	Amount        uint64
	Decimals      uint8
	AuthorityType AuthorityType
	NewAuthority  tokenswap.Address
}

// UnpackInstruction decodes token instruction data.
func UnpackInstruction(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, ErrInvalidInstruction.New("empty")
	}
	ix := Instruction{Kind: InstructionKind(data[0])}
	rest := data[1:]
	switch ix.Kind {
	case KindInitializeMint:
		if len(rest) < 1+tokenswap.AddressLength {
			return nil, ErrInvalidInstruction.New("initialize mint")
		}
		ix.Decimals = rest[0]
		copy(ix.NewAuthority[:], rest[1:1+tokenswap.AddressLength])
	case KindInitializeAccount, KindCloseAccount:
	case KindTransfer, KindMintTo:
		if len(rest) < 8 {
			return nil, ErrInvalidInstruction.Newf("amount of kind %d", ix.Kind)
		}
		ix.Amount = binary.LittleEndian.Uint64(rest[:8])
	case KindSetAuthority:
		// authority type, option tag and the new authority
		if len(rest) < 2+tokenswap.AddressLength || rest[1] != 1 {
			return nil, ErrInvalidInstruction.New("set authority")
		}
		ix.AuthorityType = AuthorityType(rest[0])
		copy(ix.NewAuthority[:], rest[2:2+tokenswap.AddressLength])
	default:
		return nil, ErrInvalidInstruction.Newf("unknown kind %d", ix.Kind)
	}
	return &ix, nil
}

// Pack encodes the instruction data.
func (ix *Instruction) Pack() []byte {
	switch ix.Kind {
	case KindInitializeMint:
		data := make([]byte, 2+tokenswap.AddressLength)
		data[0] = byte(ix.Kind)
		data[1] = ix.Decimals
		copy(data[2:], ix.NewAuthority[:])
		return data
	case KindTransfer, KindMintTo:
		data := make([]byte, 9)
		data[0] = byte(ix.Kind)
		binary.LittleEndian.PutUint64(data[1:], ix.Amount)
		return data
	case KindSetAuthority:
		data := make([]byte, 3+tokenswap.AddressLength)
		data[0] = byte(ix.Kind)
		data[1] = byte(ix.AuthorityType)
		data[2] = 1
		copy(data[3:], ix.NewAuthority[:])
		return data
	default:
		return []byte{byte(ix.Kind)}
	}
}

// NewInitializeMintInstruction creates a mint with given decimals and
// issuing authority.
func NewInitializeMintInstruction(mint, authority tokenswap.Address, decimals uint8) tokenswap.Instruction {
	ix := Instruction{Kind: KindInitializeMint, Decimals: decimals, NewAuthority: authority}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(mint, false),
			tokenswap.NewReadonlyMeta(rent.SysvarID, false),
		},
	}
}

// NewInitializeAccountInstruction initializes a token account of the mint
// owned by owner.
func NewInitializeAccountInstruction(account, mint, owner tokenswap.Address) tokenswap.Instruction {
	ix := Instruction{Kind: KindInitializeAccount}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(account, false),
			tokenswap.NewReadonlyMeta(mint, false),
			tokenswap.NewReadonlyMeta(owner, false),
			tokenswap.NewReadonlyMeta(rent.SysvarID, false),
		},
	}
}

// NewTransferInstruction moves amount from source to destination,
// authorized by the source owner.
func NewTransferInstruction(source, destination, authority tokenswap.Address, amount uint64) tokenswap.Instruction {
	ix := Instruction{Kind: KindTransfer, Amount: amount}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(source, false),
			tokenswap.NewWritableMeta(destination, false),
			tokenswap.NewReadonlyMeta(authority, true),
		},
	}
}

// NewSetAuthorityInstruction hands the given authority of account over to
// newAuthority.
func NewSetAuthorityInstruction(account, currentAuthority, newAuthority tokenswap.Address, kind AuthorityType) tokenswap.Instruction {
	ix := Instruction{Kind: KindSetAuthority, AuthorityType: kind, NewAuthority: newAuthority}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(account, false),
			tokenswap.NewReadonlyMeta(currentAuthority, true),
		},
	}
}

// NewMintToInstruction issues amount new tokens into destination.
func NewMintToInstruction(mint, destination, authority tokenswap.Address, amount uint64) tokenswap.Instruction {
	ix := Instruction{Kind: KindMintTo, Amount: amount}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(mint, false),
			tokenswap.NewWritableMeta(destination, false),
			tokenswap.NewReadonlyMeta(authority, true),
		},
	}
}

// NewCloseAccountInstruction closes an empty token account, sending its
// lamports to destination.
func NewCloseAccountInstruction(account, destination, owner tokenswap.Address) tokenswap.Instruction {
	ix := Instruction{Kind: KindCloseAccount}
	return tokenswap.Instruction{
		ProgramID: ProgramID,
		Data:      ix.Pack(),
		Accounts: []tokenswap.AccountMeta{
			tokenswap.NewWritableMeta(account, false),
			tokenswap.NewWritableMeta(destination, false),
			tokenswap.NewReadonlyMeta(owner, true),
		},
	}
}
