package escrowapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	// ErrInvalidSignature is returned when opening an envelope whose signer or
	// signature is not valid.
	ErrInvalidSignature = errors.New("invalid envelope signature")
	// ErrMalformedPayload is returned when the payload of an envelope cannot
	// be decoded.
	ErrMalformedPayload = errors.New("malformed envelope payload")
)

// SignedEnvelope wraps the payload of a transition request. Signature is the
// base58 ed25519 signature of the raw payload bytes made by Signer.
type SignedEnvelope struct {
	Payload   json.RawMessage `json:"payload"`
	Signer    string          `json:"signer"`
	Signature string          `json:"signature"`
}

// NewSignedEnvelope marshals payload and signs it with the given key.
func NewSignedEnvelope(
	payload interface{}, key solana.PrivateKey,
) (*SignedEnvelope, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(buf)
	if err != nil {
		return nil, err
	}
	return &SignedEnvelope{
		Payload:   buf,
		Signer:    key.PublicKey().String(),
		Signature: sig.String(),
	}, nil
}

// Open verifies the envelope and decodes its payload into v, rejecting
// unknown fields. It returns the signer. The signature is not verified if
// skipVerify is true.
func (e SignedEnvelope) Open(
	v interface{}, skipVerify bool,
) (solana.PublicKey, error) {
	signer, err := solana.PublicKeyFromBase58(e.Signer)
	if err != nil || signer.IsZero() {
		return solana.PublicKey{}, fmt.Errorf(
			"%w: invalid signer", ErrInvalidSignature,
		)
	}
	if len(e.Payload) <= 0 {
		return solana.PublicKey{}, fmt.Errorf(
			"%w: missing payload", ErrMalformedPayload,
		)
	}

	if !skipVerify {
		sig, err := solana.SignatureFromBase58(e.Signature)
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf(
				"%w: malformed signature", ErrInvalidSignature,
			)
		}
		if !sig.Verify(signer, e.Payload) {
			return solana.PublicKey{}, ErrInvalidSignature
		}
	}

	dec := json.NewDecoder(bytes.NewReader(e.Payload))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrMalformedPayload, err)
	}
	return signer, nil
}
