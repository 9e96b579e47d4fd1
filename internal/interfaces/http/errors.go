package httpinterface

import (
	"errors"
	"net/http"

	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/operator"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

// ErrMalformedRequest is returned for requests that cannot be parsed, before
// reaching any service.
var ErrMalformedRequest = errors.New("malformed request")

type errorMapping struct {
	err    error
	kind   string
	status int
}

// errorMappings is sorted so that the most specific errors come first.
var errorMappings = []errorMapping{
	{escrowapi.ErrInvalidSignature, "UNAUTHORIZED_CALLER", http.StatusUnauthorized},
	{escrowapi.ErrMalformedPayload, "MALFORMED_REQUEST", http.StatusBadRequest},
	{ErrMalformedRequest, "MALFORMED_REQUEST", http.StatusBadRequest},

	{escrow.ErrOfferNotFound, "OFFER_NOT_FOUND", http.StatusNotFound},
	{escrow.ErrOfferAlreadyExists, "OFFER_ALREADY_EXISTS", http.StatusConflict},
	{escrow.ErrConcurrentUpdate, "CONCURRENT_UPDATE", http.StatusConflict},
	{escrow.ErrInvalidAmount, "INVALID_AMOUNT", http.StatusBadRequest},
	{escrow.ErrInvalidMint, "INVALID_MINT", http.StatusBadRequest},
	{escrow.ErrOfferMismatch, "OFFER_MISMATCH", http.StatusBadRequest},
	{escrow.ErrUnauthorizedCaller, "UNAUTHORIZED_CALLER", http.StatusForbidden},
	{escrow.ErrInsufficientTakerBalance, "INSUFFICIENT_TAKER_BALANCE", http.StatusUnprocessableEntity},
	{escrow.ErrInsufficientMakerBalance, "INSUFFICIENT_MAKER_BALANCE", http.StatusUnprocessableEntity},
	{escrow.ErrInsufficientReserve, "INSUFFICIENT_RESERVE", http.StatusUnprocessableEntity},
	{escrow.ErrVaultWithdrawalFailed, "VAULT_WITHDRAWAL_FAILED", http.StatusUnprocessableEntity},
	{escrow.ErrVaultClosureFailed, "VAULT_CLOSURE_FAILED", http.StatusUnprocessableEntity},
	{escrow.ErrRefundTransferFailed, "REFUND_TRANSFER_FAILED", http.StatusUnprocessableEntity},
	{escrow.ErrRefundClosureFailed, "REFUND_CLOSURE_FAILED", http.StatusUnprocessableEntity},
	{escrow.ErrServiceUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},

	{operator.ErrMintNotFound, "MINT_NOT_FOUND", http.StatusNotFound},
	{operator.ErrInvalidAmount, "INVALID_AMOUNT", http.StatusBadRequest},
	{operator.ErrInvalidOwner, "INVALID_OWNER", http.StatusBadRequest},
	{operator.ErrServiceUnavailable, "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
	{domain.ErrOwnerMismatch, "OWNER_MISMATCH", http.StatusUnprocessableEntity},
	{domain.ErrAmountOverflow, "AMOUNT_OVERFLOW", http.StatusUnprocessableEntity},

	{pubsub.ErrWebhookNotFound, "WEBHOOK_NOT_FOUND", http.StatusNotFound},
	{pubsub.ErrInvalidEvent, "INVALID_EVENT", http.StatusBadRequest},
	{pubsub.ErrInvalidEndpoint, "INVALID_ENDPOINT", http.StatusBadRequest},
}

func lookupError(err error) (string, int) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.kind, m.status
		}
	}
	return "INTERNAL", http.StatusInternalServerError
}

func errorKind(err error) string {
	kind, _ := lookupError(err)
	return kind
}
