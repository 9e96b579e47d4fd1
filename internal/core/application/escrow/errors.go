package escrow

import (
	"errors"
	"fmt"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
)

var (
	// ErrOfferMismatch is returned when the accounts or mints of a request do
	// not match those of the offer.
	ErrOfferMismatch = errors.New("offer does not match request")
	// ErrUnauthorizedCaller is returned when the caller is not entitled to
	// the requested transition.
	ErrUnauthorizedCaller = errors.New("unauthorized caller")
	// ErrVaultWithdrawalFailed is returned by TakeOffer when the vault
	// balance of token A cannot be moved to the taker's account.
	ErrVaultWithdrawalFailed = errors.New("failed to withdraw from vault")
	// ErrVaultClosureFailed is returned by TakeOffer when the emptied vault
	// cannot be closed in favour of the maker.
	ErrVaultClosureFailed = errors.New("failed to close vault")
	// ErrRefundTransferFailed is returned by RefundOffer when the vault
	// balance of token A cannot be moved back to the maker's account.
	ErrRefundTransferFailed = errors.New("failed to refund offered tokens")
	// ErrRefundClosureFailed is returned by RefundOffer when the emptied
	// vault cannot be closed.
	ErrRefundClosureFailed = errors.New("failed to close vault on refund")
	// ErrInsufficientTakerBalance is returned when the taker cannot pay the
	// wanted amount of token B.
	ErrInsufficientTakerBalance = errors.New("taker has insufficient balance")
	// ErrInsufficientMakerBalance is returned when the maker cannot fund the
	// vault with the offered amount of token A.
	ErrInsufficientMakerBalance = errors.New("maker has insufficient balance")
	// ErrInsufficientReserve is returned when the payer of a new account
	// cannot afford its rent exempt reserve.
	ErrInsufficientReserve = errors.New("insufficient lamports for account reserve")
	// ErrServiceUnavailable is returned for storage failures.
	ErrServiceUnavailable = errors.New("service is unavailable, retry later")

	ErrOfferNotFound      = domain.ErrOfferNotFound
	ErrOfferAlreadyExists = domain.ErrOfferAlreadyExists
	ErrInvalidAmount      = domain.ErrInvalidAmount
	ErrInvalidMint        = domain.ErrInvalidMint
	ErrConcurrentUpdate   = domain.ErrConcurrentUpdate
)

var kinds = []error{
	ErrOfferMismatch,
	ErrUnauthorizedCaller,
	ErrVaultWithdrawalFailed,
	ErrVaultClosureFailed,
	ErrRefundTransferFailed,
	ErrRefundClosureFailed,
	ErrInsufficientTakerBalance,
	ErrInsufficientMakerBalance,
	ErrInsufficientReserve,
	ErrServiceUnavailable,
	ErrOfferNotFound,
	ErrOfferAlreadyExists,
	ErrInvalidAmount,
	ErrInvalidMint,
	ErrConcurrentUpdate,
}

func wrap(kind, cause error) error {
	if cause == nil || errors.Is(cause, kind) {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// classify makes sure that every error returned by the service is one of the
// known kinds. Unknown ones come from the storage layer.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return wrap(ErrServiceUnavailable, err)
}
