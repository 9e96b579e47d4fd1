package httpinterface

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/go-chi/chi/v5"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

const (
	transitionMake   = "make"
	transitionTake   = "take"
	transitionRefund = "refund"
)

type escrowHandler struct {
	svc        *escrow.Service
	metrics    *metrics
	skipVerify bool
}

func (h *escrowHandler) makeOffer(w http.ResponseWriter, r *http.Request) {
	info, err := h.doMakeOffer(r)
	h.metrics.observeTransition(transitionMake, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, offerView(*info))
}

func (h *escrowHandler) doMakeOffer(r *http.Request) (*escrow.OfferInfo, error) {
	payload := escrowapi.MakeOfferPayload{}
	maker, err := openEnvelope(r, &payload, h.skipVerify)
	if err != nil {
		return nil, err
	}
	mintA, err := parseKey("token_mint_a", payload.TokenMintA, false)
	if err != nil {
		return nil, err
	}
	mintB, err := parseKey("token_mint_b", payload.TokenMintB, false)
	if err != nil {
		return nil, err
	}

	return h.svc.MakeOffer(r.Context(), escrow.MakeOfferRequest{
		ID:                  payload.ID,
		Maker:               maker,
		TokenMintA:          mintA,
		TokenMintB:          mintB,
		TokenAOfferedAmount: payload.TokenAOfferedAmount,
		TokenBWantedAmount:  payload.TokenBWantedAmount,
	})
}

func (h *escrowHandler) takeOffer(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.doTakeOffer(r)
	h.metrics.observeTransition(transitionTake, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, takeReceiptView(*receipt))
}

func (h *escrowHandler) doTakeOffer(r *http.Request) (*escrow.TakeReceipt, error) {
	id, err := offerIDParam(r)
	if err != nil {
		return nil, err
	}
	payload := escrowapi.TakeOfferPayload{}
	taker, err := openEnvelope(r, &payload, h.skipVerify)
	if err != nil {
		return nil, err
	}
	if payload.OfferID != id {
		return nil, fmt.Errorf(
			"%w: offer id %d does not match path", ErrMalformedRequest,
			payload.OfferID,
		)
	}

	req := escrow.TakeOfferRequest{OfferID: id, Taker: taker}
	keys := []struct {
		name     string
		value    string
		optional bool
		dest     *solana.PublicKey
	}{
		{"maker", payload.Maker, false, &req.Maker},
		{"token_mint_a", payload.TokenMintA, false, &req.TokenMintA},
		{"token_mint_b", payload.TokenMintB, false, &req.TokenMintB},
		{"taker_token_account_a", payload.TakerTokenAccountA, true, &req.TakerTokenAccountA},
		{"taker_token_account_b", payload.TakerTokenAccountB, true, &req.TakerTokenAccountB},
		{"maker_token_account_b", payload.MakerTokenAccountB, true, &req.MakerTokenAccountB},
		{"vault", payload.Vault, true, &req.Vault},
	}
	for _, k := range keys {
		key, err := parseKey(k.name, k.value, k.optional)
		if err != nil {
			return nil, err
		}
		*k.dest = key
	}

	return h.svc.TakeOffer(r.Context(), req)
}

func (h *escrowHandler) refundOffer(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.doRefundOffer(r)
	h.metrics.observeTransition(transitionRefund, err)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, refundReceiptView(*receipt))
}

func (h *escrowHandler) doRefundOffer(
	r *http.Request,
) (*escrow.RefundReceipt, error) {
	id, err := offerIDParam(r)
	if err != nil {
		return nil, err
	}
	payload := escrowapi.RefundOfferPayload{}
	maker, err := openEnvelope(r, &payload, h.skipVerify)
	if err != nil {
		return nil, err
	}
	if payload.OfferID != id {
		return nil, fmt.Errorf(
			"%w: offer id %d does not match path", ErrMalformedRequest,
			payload.OfferID,
		)
	}
	mintA, err := parseKey("token_mint_a", payload.TokenMintA, false)
	if err != nil {
		return nil, err
	}
	makerAccountA, err := parseKey(
		"maker_token_account_a", payload.MakerTokenAccountA, true,
	)
	if err != nil {
		return nil, err
	}
	vault, err := parseKey("vault", payload.Vault, true)
	if err != nil {
		return nil, err
	}

	return h.svc.RefundOffer(r.Context(), escrow.RefundOfferRequest{
		OfferID:            id,
		Maker:              maker,
		TokenMintA:         mintA,
		MakerTokenAccountA: makerAccountA,
		Vault:              vault,
	})
}

func (h *escrowHandler) getOffer(w http.ResponseWriter, r *http.Request) {
	id, err := offerIDParam(r)
	if err != nil {
		writeError(w, err)
		return
	}
	info, err := h.svc.GetOffer(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offerView(*info))
}

func (h *escrowHandler) listOffers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := escrow.OfferFilter{}
	var err error
	if filter.Maker, err = parseKey("maker", query.Get("maker"), true); err != nil {
		writeError(w, err)
		return
	}
	if filter.TokenMintA, err = parseKey(
		"token_mint_a", query.Get("token_mint_a"), true,
	); err != nil {
		writeError(w, err)
		return
	}
	if filter.TokenMintB, err = parseKey(
		"token_mint_b", query.Get("token_mint_b"), true,
	); err != nil {
		writeError(w, err)
		return
	}

	offers, err := h.svc.ListOffers(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offerListView(offers))
}

func (h *escrowHandler) getBalances(w http.ResponseWriter, r *http.Request) {
	owner, err := parseKey("owner", chi.URLParam(r, "owner"), false)
	if err != nil {
		writeError(w, err)
		return
	}
	balances, err := h.svc.GetBalances(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balancesView(*balances))
}

func offerIDParam(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid offer id: %s", ErrMalformedRequest, err)
	}
	return id, nil
}
