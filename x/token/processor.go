package token

import (
	"context"
	"math/bits"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/rent"
)

// Processor executes token instructions.
type Processor struct{}

var _ tokenswap.Program = Processor{}

// NewProcessor returns the token program.
func NewProcessor() Processor {
	return Processor{}
}

// Process decodes the instruction data and dispatches to the handler of its
// kind.
func (p Processor) Process(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	ix, err := UnpackInstruction(data)
	if err != nil {
		return err
	}
	logger := tokenswap.GetLogger(ctx).With("program", Namespace)
	it := tokenswap.NewAccountIter(accounts)

	switch ix.Kind {
	case KindInitializeMint:
		logger.Debug("Instruction: InitializeMint")
		return p.initializeMint(programID, it, ix)
	case KindInitializeAccount:
		logger.Debug("Instruction: InitializeAccount")
		return p.initializeAccount(programID, it)
	case KindTransfer:
		logger.Debug("Instruction: Transfer", "amount", ix.Amount)
		return p.transfer(programID, it, ix.Amount)
	case KindSetAuthority:
		logger.Debug("Instruction: SetAuthority", "new_authority", ix.NewAuthority)
		return p.setAuthority(programID, it, ix)
	case KindMintTo:
		logger.Debug("Instruction: MintTo", "amount", ix.Amount)
		return p.mintTo(programID, it, ix.Amount)
	case KindCloseAccount:
		logger.Debug("Instruction: CloseAccount")
		return p.closeAccount(programID, it)
	}
	return ErrInvalidInstruction.Newf("unknown kind %d", ix.Kind)
}

func (Processor) initializeMint(programID tokenswap.Address, it *tokenswap.AccountIter, ix *Instruction) error {
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	rentInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := assertOwnedBy(mintInfo, programID); err != nil {
		return err
	}
	mint, err := unpackMintUnchecked(mintInfo.Data)
	if err != nil {
		return err
	}
	if mint.IsInitialized {
		return errors.ErrAccountAlreadyInitialized.New("mint")
	}
	if err := assertRentExempt(rentInfo, mintInfo); err != nil {
		return err
	}
	mint.Authority = ix.NewAuthority
	mint.Decimals = ix.Decimals
	mint.IsInitialized = true
	return mint.Pack(mintInfo.Data)
}

func (Processor) initializeAccount(programID tokenswap.Address, it *tokenswap.AccountIter) error {
	accInfo, err := it.Next()
	if err != nil {
		return err
	}
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	ownerInfo, err := it.Next()
	if err != nil {
		return err
	}
	rentInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := assertOwnedBy(accInfo, programID); err != nil {
		return err
	}
	acc, err := unpackAccountUnchecked(accInfo.Data)
	if err != nil {
		return err
	}
	if acc.IsInitialized() {
		return ErrAlreadyInUse.New("token account")
	}
	if err := assertRentExempt(rentInfo, accInfo); err != nil {
		return err
	}
	if err := assertOwnedBy(mintInfo, programID); err != nil {
		return err
	}
	if _, err := UnpackMint(mintInfo.Data); err != nil {
		return errors.Wrap(ErrInvalidMint, err.Error())
	}

	acc.Mint = mintInfo.Key
	acc.Owner = ownerInfo.Key
	acc.Amount = 0
	acc.State = AccountInitialized
	return acc.Pack(accInfo.Data)
}

func (Processor) transfer(programID tokenswap.Address, it *tokenswap.AccountIter, amount uint64) error {
	srcInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := assertOwnedBy(srcInfo, programID); err != nil {
		return err
	}
	if err := assertOwnedBy(dstInfo, programID); err != nil {
		return err
	}

	src, err := UnpackAccount(srcInfo.Data)
	if err != nil {
		return err
	}
	dst, err := UnpackAccount(dstInfo.Data)
	if err != nil {
		return err
	}
	if src.Amount < amount {
		return ErrInsufficientFunds.Newf("balance %d, transfer %d", src.Amount, amount)
	}
	if src.Mint != dst.Mint {
		return ErrMintMismatch.New("transfer")
	}
	if err := assertAuthority(src.Owner, authInfo); err != nil {
		return err
	}

	// Moving tokens to the same account changes nothing once the
	// authority was checked.
	if srcInfo.Key == dstInfo.Key {
		return nil
	}

	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return errors.ErrOverflow.New("destination balance")
	}
	src.Amount -= amount
	dst.Amount = sum
	if err := src.Pack(srcInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (Processor) setAuthority(programID tokenswap.Address, it *tokenswap.AccountIter, ix *Instruction) error {
	ownedInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := assertOwnedBy(ownedInfo, programID); err != nil {
		return err
	}

	switch len(ownedInfo.Data) {
	case AccountLen:
		if ix.AuthorityType != AuthorityAccountOwner {
			return ErrAuthorityTypeUnsupported.Newf("type %d on token account", ix.AuthorityType)
		}
		acc, err := UnpackAccount(ownedInfo.Data)
		if err != nil {
			return err
		}
		if err := assertAuthority(acc.Owner, authInfo); err != nil {
			return err
		}
		acc.Owner = ix.NewAuthority
		return acc.Pack(ownedInfo.Data)
	case MintLen:
		if ix.AuthorityType != AuthorityMintTokens {
			return ErrAuthorityTypeUnsupported.Newf("type %d on mint", ix.AuthorityType)
		}
		mint, err := UnpackMint(ownedInfo.Data)
		if err != nil {
			return err
		}
		if err := assertAuthority(mint.Authority, authInfo); err != nil {
			return err
		}
		mint.Authority = ix.NewAuthority
		return mint.Pack(ownedInfo.Data)
	default:
		return errors.ErrInvalidArgument.Newf("account of %d bytes has no authority", len(ownedInfo.Data))
	}
}

func (Processor) mintTo(programID tokenswap.Address, it *tokenswap.AccountIter, amount uint64) error {
	mintInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if err := assertOwnedBy(mintInfo, programID); err != nil {
		return err
	}
	if err := assertOwnedBy(dstInfo, programID); err != nil {
		return err
	}

	mint, err := UnpackMint(mintInfo.Data)
	if err != nil {
		return err
	}
	dst, err := UnpackAccount(dstInfo.Data)
	if err != nil {
		return err
	}
	if dst.Mint != mintInfo.Key {
		return ErrMintMismatch.New("mint to")
	}
	if err := assertAuthority(mint.Authority, authInfo); err != nil {
		return err
	}

	supply, carry := bits.Add64(mint.Supply, amount, 0)
	if carry != 0 {
		return errors.ErrOverflow.New("mint supply")
	}
	// Every balance is bounded by the supply, so this cannot overflow.
	dst.Amount += amount
	mint.Supply = supply
	if err := mint.Pack(mintInfo.Data); err != nil {
		return err
	}
	return dst.Pack(dstInfo.Data)
}

func (Processor) closeAccount(programID tokenswap.Address, it *tokenswap.AccountIter) error {
	accInfo, err := it.Next()
	if err != nil {
		return err
	}
	dstInfo, err := it.Next()
	if err != nil {
		return err
	}
	authInfo, err := it.Next()
	if err != nil {
		return err
	}
	if accInfo.Key == dstInfo.Key {
		return errors.ErrInvalidAccountData.New("cannot close into itself")
	}
	if err := assertOwnedBy(accInfo, programID); err != nil {
		return err
	}
	acc, err := UnpackAccount(accInfo.Data)
	if err != nil {
		return err
	}
	if acc.Amount != 0 {
		return ErrNonZeroBalance.Newf("balance %d", acc.Amount)
	}
	if err := assertAuthority(acc.Owner, authInfo); err != nil {
		return err
	}

	lamports, carry := bits.Add64(dstInfo.Lamports, accInfo.Lamports, 0)
	if carry != 0 {
		return errors.ErrOverflow.New("destination lamports")
	}
	dstInfo.Lamports = lamports
	accInfo.Lamports = 0
	for i := range accInfo.Data {
		accInfo.Data[i] = 0
	}
	return nil
}

func assertOwnedBy(info *tokenswap.AccountInfo, programID tokenswap.Address) error {
	if info.Owner != programID {
		return errors.ErrIncorrectProgramID.Newf("account %s owned by %s", info.Key, info.Owner)
	}
	return nil
}

// assertAuthority checks that the authority account is the expected one and
// that it signed. Program derived authorities sign through the runtime.
func assertAuthority(expected tokenswap.Address, authInfo *tokenswap.AccountInfo) error {
	if expected != authInfo.Key {
		return ErrOwnerMismatch.Newf("want %s, got %s", expected, authInfo.Key)
	}
	if !authInfo.IsSigner {
		return errors.ErrMissingRequiredSignature.Newf("authority %s", authInfo.Key)
	}
	return nil
}

func assertRentExempt(rentInfo, info *tokenswap.AccountInfo) error {
	r, err := rent.FromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !r.IsExempt(info.Lamports, len(info.Data)) {
		return errors.ErrNotRentExempt.Newf("account %s", info.Key)
	}
	return nil
}
