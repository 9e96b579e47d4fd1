package domain

import "errors"

var (
	// ErrOfferNotFound is returned when no live offer record exists for the
	// requested id, either because it was never made or because it has
	// already been taken or refunded.
	ErrOfferNotFound = errors.New("offer not found")
	// ErrOfferAlreadyExists is returned when making an offer with an id that
	// is either live or retired.
	ErrOfferAlreadyExists = errors.New("offer id already used")
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	// ErrInvalidMint ...
	ErrInvalidMint = errors.New("offered and wanted mints must be valid and different")
	// ErrInvalidMaker ...
	ErrInvalidMaker = errors.New("maker must not be empty")

	// ErrMintNotFound ...
	ErrMintNotFound = errors.New("mint not found")
	// ErrMintAlreadyExists ...
	ErrMintAlreadyExists = errors.New("mint already exists")
	// ErrTokenAccountNotFound ...
	ErrTokenAccountNotFound = errors.New("token account not found")
	// ErrTokenAccountAlreadyExists ...
	ErrTokenAccountAlreadyExists = errors.New("token account already exists")
	// ErrInsufficientFunds is returned when a token account balance is lower
	// than the amount to debit.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientLamports is returned when a system account cannot pay for
	// an account reserve.
	ErrInsufficientLamports = errors.New("insufficient lamports")
	// ErrAmountOverflow ...
	ErrAmountOverflow = errors.New("amount overflow")
	// ErrMintMismatch is returned when an account does not hold the declared
	// mint.
	ErrMintMismatch = errors.New("account mint mismatch")
	// ErrOwnerMismatch is returned when the authority is not the owner of the
	// account it acts upon.
	ErrOwnerMismatch = errors.New("authority is not the account owner")
	// ErrInvalidAuthority is returned for empty authorities or derived ones
	// whose seeds do not derive their address.
	ErrInvalidAuthority = errors.New("invalid authority")
	// ErrAccountNotEmpty is returned when closing a token account with a non
	// zero balance.
	ErrAccountNotEmpty = errors.New("token account is not empty")

	// ErrConcurrentUpdate is returned by storage drivers when a transaction
	// could not be committed because of a conflicting one.
	ErrConcurrentUpdate = errors.New("conflicting concurrent update")
	// ErrReadOnlyTx is returned when writing through a read-only transaction.
	ErrReadOnlyTx = errors.New("write in read-only transaction")
)
