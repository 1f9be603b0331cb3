package token

import "github.com/iov-one/tokenswap/errors"

// Namespace owns the custom error codes of the token program.
const Namespace = "token"

// Custom error codes of the token program. The numbering is part of the
// external contract.
var (
	ErrInsufficientFunds        = errors.RegisterCustom(Namespace, 1, "insufficient funds")
	ErrInvalidMint              = errors.RegisterCustom(Namespace, 2, "invalid mint")
	ErrMintMismatch             = errors.RegisterCustom(Namespace, 3, "account not associated with this mint")
	ErrOwnerMismatch            = errors.RegisterCustom(Namespace, 4, "owner does not match")
	ErrAlreadyInUse             = errors.RegisterCustom(Namespace, 6, "account or token already in use")
	ErrNonZeroBalance           = errors.RegisterCustom(Namespace, 11, "account with a balance cannot be closed")
	ErrInvalidInstruction       = errors.RegisterCustom(Namespace, 12, "invalid instruction")
	ErrAuthorityTypeUnsupported = errors.RegisterCustom(Namespace, 15, "authority type not supported for this account")
)
