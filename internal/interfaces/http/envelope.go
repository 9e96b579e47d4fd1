package httpinterface

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

const maxBodySize = 1 << 16

// openEnvelope decodes the signed envelope in the request body, verifies it
// and decodes its payload into v. It returns the signer.
// A signer that cannot be verified is an unauthorized caller.
func openEnvelope(
	r *http.Request, v interface{}, skipVerify bool,
) (solana.PublicKey, error) {
	env := escrowapi.SignedEnvelope{}
	if err := decodeBody(r, &env); err != nil {
		return solana.PublicKey{}, err
	}
	signer, err := env.Open(v, skipVerify)
	if errors.Is(err, escrowapi.ErrInvalidSignature) {
		return solana.PublicKey{}, fmt.Errorf(
			"%w: %w", escrow.ErrUnauthorizedCaller, err,
		)
	}
	return signer, err
}

func decodeBody(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedRequest, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedRequest, err)
	}
	return nil
}

// parseKey parses a base58 address. Empty strings are parsed as the zero key
// if optional.
func parseKey(name, key string, optional bool) (solana.PublicKey, error) {
	if len(key) <= 0 {
		if optional {
			return solana.PublicKey{}, nil
		}
		return solana.PublicKey{}, fmt.Errorf("%w: missing %s", ErrMalformedRequest, name)
	}
	pk, err := solana.PublicKeyFromBase58(key)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf(
			"%w: invalid %s: %s", ErrMalformedRequest, name, err,
		)
	}
	return pk, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	kind, status := lookupError(err)
	writeJSON(w, status, errorBody(kind, err.Error()))
}

func errorBody(kind, msg string) escrowapi.ErrorResponse {
	return escrowapi.ErrorResponse{Kind: kind, Error: msg}
}
