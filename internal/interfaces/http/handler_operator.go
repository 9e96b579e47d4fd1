package httpinterface

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tdex-network/tdex-escrow/internal/core/application/operator"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

type operatorHandler struct {
	svc *operator.Service
}

func (h *operatorHandler) createMint(w http.ResponseWriter, r *http.Request) {
	req := escrowapi.CreateMintRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	mint, err := h.svc.CreateMint(r.Context(), req.Decimals)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mintView(*mint))
}

func (h *operatorHandler) listMints(w http.ResponseWriter, r *http.Request) {
	mints, err := h.svc.ListMints(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	res := escrowapi.ListMintsResponse{Mints: make([]escrowapi.Mint, 0, len(mints))}
	for _, m := range mints {
		res.Mints = append(res.Mints, mintView(m))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *operatorHandler) mintTo(w http.ResponseWriter, r *http.Request) {
	mint, err := parseKey("mint", chi.URLParam(r, "mint"), false)
	if err != nil {
		writeError(w, err)
		return
	}
	req := escrowapi.MintToRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	owner, err := parseKey("owner", req.Owner, false)
	if err != nil {
		writeError(w, err)
		return
	}

	account, err := h.svc.MintTo(r.Context(), mint, owner, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	m, err := h.svc.GetMint(r.Context(), mint)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenAccountView(*account, m.Decimals))
}

func (h *operatorHandler) airdrop(w http.ResponseWriter, r *http.Request) {
	req := escrowapi.AirdropRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	owner, err := parseKey("owner", req.Owner, false)
	if err != nil {
		writeError(w, err)
		return
	}
	account, err := h.svc.Airdrop(r.Context(), owner, req.Lamports)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, escrowapi.SystemAccount{
		Address:  account.Address.String(),
		Lamports: account.Lamports,
	})
}

func (h *operatorHandler) addWebhook(w http.ResponseWriter, r *http.Request) {
	req := escrowapi.AddWebhookRequest{}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id, err := h.svc.AddWebhook(r.Context(), req.Event, req.Endpoint, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, escrowapi.AddWebhookResponse{ID: id})
}

func (h *operatorHandler) removeWebhook(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RemoveWebhook(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *operatorHandler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.svc.ListWebhooks(r.Context(), r.URL.Query().Get("event"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, webhookListView(hooks))
}
