package errors

// Ledger wide root errors. The numbering is part of the external contract,
// never renumber an existing entry.
var (
	// ErrInvalidArgument is returned when an argument passed to a program
	// is invalid.
	ErrInvalidArgument = Register(2, "invalid program argument")

	// ErrInvalidInstructionData is returned when instruction data cannot be
	// parsed by a ledger component.
	ErrInvalidInstructionData = Register(3, "invalid instruction data")

	// ErrInvalidAccountData is returned when an account holds data that
	// does not match what the instruction expects.
	ErrInvalidAccountData = Register(4, "invalid account data for instruction")

	// ErrAccountDataTooSmall is returned when the account data buffer is too
	// small to hold the expected state.
	ErrAccountDataTooSmall = Register(5, "account data too small for instruction")

	// ErrInsufficientFunds is returned when an account cannot cover a
	// requested debit.
	ErrInsufficientFunds = Register(6, "insufficient funds for instruction")

	// ErrIncorrectProgramID is returned when an account is not owned by the
	// expected program or a program reference points to the wrong program.
	ErrIncorrectProgramID = Register(7, "incorrect program id for instruction")

	// ErrMissingRequiredSignature is returned when an account that must
	// authorize the instruction did not sign it.
	ErrMissingRequiredSignature = Register(8, "missing required signature for instruction")

	// ErrAccountAlreadyInitialized is returned when an instruction requires
	// an uninitialized account.
	ErrAccountAlreadyInitialized = Register(9, "instruction requires an uninitialized account")

	// ErrUninitializedAccount is returned when an instruction requires an
	// initialized account.
	ErrUninitializedAccount = Register(10, "instruction requires an initialized account")

	// ErrNotEnoughAccountKeys is returned when fewer accounts than required
	// are passed to an instruction.
	ErrNotEnoughAccountKeys = Register(11, "insufficient account keys for instruction")

	// ErrNotRentExempt is returned when an account balance is below its
	// rent exemption minimum.
	ErrNotRentExempt = Register(12, "account does not have enough lamports to be rent exempt")

	// ErrInvalidSeeds is returned when seeds do not derive a valid program
	// address.
	ErrInvalidSeeds = Register(13, "provided seeds do not result in a valid address")

	// ErrIllegalOwner is returned when an account authority does not match
	// the one required by the instruction.
	ErrIllegalOwner = Register(14, "provided owner is not allowed")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result value exceeds the type.
	ErrOverflow = Register(15, "an operation cannot be completed due to value overflow")

	// ErrAccountInUse is returned when a transaction wants to lock an
	// account already locked by another transaction.
	ErrAccountInUse = Register(16, "account in use")

	// ErrReadonlyModified is returned when an instruction changed an
	// account passed as read only.
	ErrReadonlyModified = Register(17, "instruction modified a read-only account")

	// ErrExternalAccountModified is returned when a program changed data or
	// debited lamports of an account it does not own.
	ErrExternalAccountModified = Register(18, "instruction modified an account it does not own")

	// ErrUnbalancedInstruction is returned when the sum of lamports changed
	// during an instruction.
	ErrUnbalancedInstruction = Register(19, "sum of account balances before and after instruction do not match")

	// ErrPrivilegeEscalation is returned when a cross program invocation
	// asks for signer or writable privileges the caller does not have.
	ErrPrivilegeEscalation = Register(20, "cross-program invocation with unauthorized signer or writable account")

	// ErrUnsupportedProgramID is returned when an instruction targets a
	// program that is not deployed.
	ErrUnsupportedProgramID = Register(21, "unsupported program id")

	// ErrCallDepth is returned when cross program invocations nest too deep.
	ErrCallDepth = Register(22, "cross-program invocation call depth too deep")

	// ErrSignatureFailure is returned when a transaction signature does not
	// verify.
	ErrSignatureFailure = Register(23, "transaction did not pass signature verification")

	// ErrNotFound is used when a requested operation cannot be completed
	// due to missing data.
	ErrNotFound = Register(24, "not found")

	// ErrInvalidInput stands for general input problems indication.
	ErrInvalidInput = Register(25, "invalid input")

	// ErrDuplicate is returned when the same entity is declared twice.
	ErrDuplicate = Register(26, "duplicate")

	// ErrDatabase is returned when the storage layer misbehaves.
	ErrDatabase = Register(27, "database")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)
