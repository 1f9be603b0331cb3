package escrow

import (
	"context"
	"math/bits"

	"github.com/iov-one/tokenswap"
	"github.com/iov-one/tokenswap/errors"
	"github.com/iov-one/tokenswap/x/rent"
	"github.com/iov-one/tokenswap/x/token"
)

// ProgramID is the address the escrow program is deployed at.
var ProgramID = tokenswap.MustParseAddress("EscrowSwap111111111111111111111111111111111")

// authoritySeed derives the address that owns every temporary token account
// held in custody by the program.
var authoritySeed = []byte("escrow")

// Authority returns the program derived address that takes custody of the
// offered tokens, together with its bump seed.
func Authority(programID tokenswap.Address) (tokenswap.Address, uint8, error) {
	return tokenswap.FindProgramAddress([][]byte{authoritySeed}, programID)
}

// Processor executes escrow instructions.
type Processor struct {
	tokenProgramID tokenswap.Address
}

var _ tokenswap.Program = Processor{}

// NewProcessor returns the escrow program working with the token program
// deployed at tokenProgramID.
func NewProcessor(tokenProgramID tokenswap.Address) Processor {
	return Processor{tokenProgramID: tokenProgramID}
}

// Process decodes the instruction and runs it.
func (p Processor) Process(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, data []byte) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	ctx = tokenswap.WithLogInfo(ctx, "program", Namespace)

	switch ix := ix.(type) {
	case InitEscrow:
		tokenswap.GetLogger(ctx).Info("Instruction: InitEscrow", "amount", ix.Amount)
		return p.initEscrow(ctx, programID, accounts, ix.Amount)
	case Exchange:
		tokenswap.GetLogger(ctx).Info("Instruction: Exchange", "amount", ix.Amount)
		return p.exchange(ctx, programID, accounts, ix.Amount)
	}
	return ErrInvalidInstruction.New("unknown instruction")
}

// initEscrow expects accounts in the following order
//   0. [signer] initializer
//   1. [writable] temporary token account holding the offered tokens
//   2. [] token account receiving the payment
//   3. [writable] escrow record
//   4. [] rent sysvar
//   5. [] token program
func (p Processor) initEscrow(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, amount uint64) error {
	it := tokenswap.NewAccountIter(accounts)
	initializer, err := it.Next()
	if err != nil {
		return err
	}
	if !initializer.IsSigner {
		return errors.ErrMissingRequiredSignature.Newf("initializer %s", initializer.Key)
	}
	temp, err := it.Next()
	if err != nil {
		return err
	}
	receiving, err := it.Next()
	if err != nil {
		return err
	}
	record, err := it.Next()
	if err != nil {
		return err
	}
	rentInfo, err := it.Next()
	if err != nil {
		return err
	}
	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}

	r, err := rent.FromAccount(rentInfo)
	if err != nil {
		return err
	}
	if !r.IsExempt(record.Lamports, len(record.Data)) {
		return errors.ErrNotRentExempt.Newf("escrow record %s", record.Key)
	}
	if record.Owner != programID {
		return errors.ErrIncorrectProgramID.Newf("escrow record owned by %s", record.Owner)
	}
	state, err := unpackEscrowUnchecked(record.Data)
	if err != nil {
		return err
	}
	if state.IsInitialized {
		return errors.ErrAccountAlreadyInitialized.Newf("escrow record %s", record.Key)
	}

	if receiving.Owner != p.tokenProgramID {
		return errors.ErrIncorrectProgramID.Newf("receiving account owned by %s", receiving.Owner)
	}
	if temp.Owner != p.tokenProgramID {
		return errors.ErrIncorrectProgramID.Newf("temporary account owned by %s", temp.Owner)
	}
	if tokenProgram.Key != p.tokenProgramID {
		return errors.ErrIncorrectProgramID.Newf("token program %s", tokenProgram.Key)
	}
	locked, err := token.UnpackAccount(temp.Data)
	if err != nil {
		return errors.Wrap(err, "temporary account")
	}
	if locked.Owner != initializer.Key {
		return errors.ErrIllegalOwner.Newf("temporary account owned by %s", locked.Owner)
	}

	state.IsInitialized = true
	state.Initializer = initializer.Key
	state.TempTokenAccount = temp.Key
	state.InitializerReceivingTokenAccount = receiving.Key
	state.ExpectedAmount = amount
	state.LockedAmount = locked.Amount
	if err := state.Pack(record.Data); err != nil {
		return err
	}

	pda, _, err := Authority(programID)
	if err != nil {
		return err
	}
	ix := token.NewSetAuthorityInstruction(temp.Key, initializer.Key, pda, token.AuthorityAccountOwner)
	ix.ProgramID = p.tokenProgramID
	inv, err := invoker(ctx)
	if err != nil {
		return err
	}
	if err := inv.Invoke(ctx, ix, []*tokenswap.AccountInfo{temp, initializer, tokenProgram}); err != nil {
		return errors.Wrap(err, "transfer temporary account ownership")
	}
	tokenswap.GetLogger(ctx).Debug("escrow opened",
		"escrow", record.Key, "locked", locked.Amount, "expected", amount)
	return nil
}

// exchange expects accounts in the following order
//   0. [signer] taker
//   1. [writable] taker token account paying the expected amount
//   2. [writable] taker token account receiving the locked tokens
//   3. [writable] temporary token account
//   4. [writable] initializer main account
//   5. [writable] initializer token account receiving the payment
//   6. [writable] escrow record
//   7. [] token program
//   8. [] program derived authority, optional
func (p Processor) exchange(ctx context.Context, programID tokenswap.Address, accounts []*tokenswap.AccountInfo, amount uint64) error {
	it := tokenswap.NewAccountIter(accounts)
	taker, err := it.Next()
	if err != nil {
		return err
	}
	if !taker.IsSigner {
		return errors.ErrMissingRequiredSignature.Newf("taker %s", taker.Key)
	}
	takerSource, err := it.Next()
	if err != nil {
		return err
	}
	takerDestination, err := it.Next()
	if err != nil {
		return err
	}
	temp, err := it.Next()
	if err != nil {
		return err
	}
	initializer, err := it.Next()
	if err != nil {
		return err
	}
	receiving, err := it.Next()
	if err != nil {
		return err
	}
	record, err := it.Next()
	if err != nil {
		return err
	}
	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}

	pda, bump, err := Authority(programID)
	if err != nil {
		return err
	}
	var authority *tokenswap.AccountInfo
	if rest := it.Remaining(); len(rest) > 0 {
		authority = rest[0]
		if authority.Key != pda {
			return errors.ErrInvalidSeeds.Newf("authority %s, want %s", authority.Key, pda)
		}
	}

	if record.Owner != programID {
		return errors.ErrIncorrectProgramID.Newf("escrow record owned by %s", record.Owner)
	}
	state, err := UnpackEscrow(record.Data)
	if err != nil {
		return err
	}
	if state.TempTokenAccount != temp.Key {
		return errors.ErrInvalidAccountData.Newf("temporary account %s, recorded %s", temp.Key, state.TempTokenAccount)
	}
	if state.Initializer != initializer.Key {
		return errors.ErrInvalidAccountData.Newf("initializer %s, recorded %s", initializer.Key, state.Initializer)
	}
	if state.InitializerReceivingTokenAccount != receiving.Key {
		return errors.ErrInvalidAccountData.Newf("receiving account %s, recorded %s", receiving.Key, state.InitializerReceivingTokenAccount)
	}
	if tokenProgram.Key != p.tokenProgramID {
		return errors.ErrIncorrectProgramID.Newf("token program %s", tokenProgram.Key)
	}

	locked, err := token.UnpackAccount(temp.Data)
	if err != nil {
		return errors.Wrap(err, "temporary account")
	}
	paid, err := token.UnpackAccount(receiving.Data)
	if err != nil {
		return errors.Wrap(err, "receiving account")
	}
	received, err := token.UnpackAccount(takerDestination.Data)
	if err != nil {
		return errors.Wrap(err, "taker destination account")
	}
	if _, carry := bits.Add64(paid.Amount, amount, 0); carry != 0 {
		return ErrAmountOverflow.New("receiving account balance")
	}
	// Accounts of the same mint cannot overflow together, this only trips
	// for a destination of another mint, rejected by the transfer anyway.
	if _, carry := bits.Add64(received.Amount, locked.Amount, 0); carry != 0 {
		return ErrAmountOverflow.New("taker destination balance")
	}
	refund, carry := bits.Add64(record.Lamports, temp.Lamports, 0)
	if carry == 0 {
		_, carry = bits.Add64(initializer.Lamports, refund, 0)
	}
	if carry != 0 {
		return ErrAmountOverflow.New("initializer lamports")
	}

	if amount != state.ExpectedAmount {
		return ErrExpectedAmountMismatch.Newf("offered %d, expected %d", amount, state.ExpectedAmount)
	}
	if locked.Amount != state.LockedAmount {
		return ErrExpectedAmountMismatch.Newf("locked %d, recorded %d", locked.Amount, state.LockedAmount)
	}

	inv, err := invoker(ctx)
	if err != nil {
		return err
	}
	signerSeeds := [][][]byte{{authoritySeed, {bump}}}
	withAuthority := func(accs ...*tokenswap.AccountInfo) []*tokenswap.AccountInfo {
		if authority != nil {
			accs = append(accs, authority)
		}
		return append(accs, tokenProgram)
	}

	pay := token.NewTransferInstruction(takerSource.Key, receiving.Key, taker.Key, amount)
	pay.ProgramID = p.tokenProgramID
	if err := inv.Invoke(ctx, pay, []*tokenswap.AccountInfo{takerSource, receiving, taker, tokenProgram}); err != nil {
		return errors.Wrap(err, "pay initializer")
	}

	release := token.NewTransferInstruction(temp.Key, takerDestination.Key, pda, locked.Amount)
	release.ProgramID = p.tokenProgramID
	if err := inv.InvokeSigned(ctx, release, withAuthority(temp, takerDestination), signerSeeds); err != nil {
		return errors.Wrap(err, "release locked tokens")
	}

	closeTemp := token.NewCloseAccountInstruction(temp.Key, initializer.Key, pda)
	closeTemp.ProgramID = p.tokenProgramID
	if err := inv.InvokeSigned(ctx, closeTemp, withAuthority(temp, initializer), signerSeeds); err != nil {
		return errors.Wrap(err, "close temporary account")
	}

	lamports, carry := bits.Add64(initializer.Lamports, record.Lamports, 0)
	if carry != 0 {
		return ErrAmountOverflow.New("initializer lamports")
	}
	initializer.Lamports = lamports
	record.Lamports = 0
	for i := range record.Data {
		record.Data[i] = 0
	}

	tokenswap.GetLogger(ctx).Debug("escrow completed",
		"escrow", record.Key, "paid", amount, "released", locked.Amount)
	return nil
}

func invoker(ctx context.Context) (tokenswap.Invoker, error) {
	inv := tokenswap.GetInvoker(ctx)
	if inv == nil {
		return nil, errors.ErrUnsupportedProgramID.New("cross program invocation not available")
	}
	return inv, nil
}
