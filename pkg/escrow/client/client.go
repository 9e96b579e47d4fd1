// Package client is a Go client for the public and operator HTTP interfaces
// of the escrow daemon.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

const defaultTimeout = 30 * time.Second

// Error is returned for any response with a non 2xx status code.
type Error struct {
	Status  int
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

type Client struct {
	publicURL   string
	operatorURL string
	http        *http.Client
}

// New returns a client for the daemon interfaces at the given base urls.
// The operator url is optional if only the public interface is needed.
func New(publicURL, operatorURL string) (*Client, error) {
	if _, err := url.ParseRequestURI(publicURL); err != nil {
		return nil, fmt.Errorf("invalid public url: %w", err)
	}
	if len(operatorURL) > 0 {
		if _, err := url.ParseRequestURI(operatorURL); err != nil {
			return nil, fmt.Errorf("invalid operator url: %w", err)
		}
	}
	return &Client{
		publicURL:   strings.TrimSuffix(publicURL, "/"),
		operatorURL: strings.TrimSuffix(operatorURL, "/"),
		http:        &http.Client{Timeout: defaultTimeout},
	}, nil
}

func (c *Client) MakeOffer(
	ctx context.Context, key solana.PrivateKey, payload escrowapi.MakeOfferPayload,
) (*escrowapi.Offer, error) {
	env, err := escrowapi.NewSignedEnvelope(payload, key)
	if err != nil {
		return nil, err
	}
	offer := &escrowapi.Offer{}
	if err := c.do(
		ctx, http.MethodPost, c.publicURL+"/v1/offers", env, offer,
	); err != nil {
		return nil, err
	}
	return offer, nil
}

func (c *Client) TakeOffer(
	ctx context.Context, key solana.PrivateKey, payload escrowapi.TakeOfferPayload,
) (*escrowapi.TakeReceipt, error) {
	env, err := escrowapi.NewSignedEnvelope(payload, key)
	if err != nil {
		return nil, err
	}
	receipt := &escrowapi.TakeReceipt{}
	path := fmt.Sprintf("%s/v1/offers/%d/take", c.publicURL, payload.OfferID)
	if err := c.do(ctx, http.MethodPost, path, env, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) RefundOffer(
	ctx context.Context, key solana.PrivateKey,
	payload escrowapi.RefundOfferPayload,
) (*escrowapi.RefundReceipt, error) {
	env, err := escrowapi.NewSignedEnvelope(payload, key)
	if err != nil {
		return nil, err
	}
	receipt := &escrowapi.RefundReceipt{}
	path := fmt.Sprintf("%s/v1/offers/%d/refund", c.publicURL, payload.OfferID)
	if err := c.do(ctx, http.MethodPost, path, env, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (c *Client) GetOffer(ctx context.Context, id uint64) (*escrowapi.Offer, error) {
	offer := &escrowapi.Offer{}
	path := fmt.Sprintf("%s/v1/offers/%d", c.publicURL, id)
	if err := c.do(ctx, http.MethodGet, path, nil, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// ListOffers returns the live offers, filtered by any non empty argument.
func (c *Client) ListOffers(
	ctx context.Context, maker, tokenMintA, tokenMintB string,
) ([]escrowapi.Offer, error) {
	query := url.Values{}
	for k, v := range map[string]string{
		"maker":        maker,
		"token_mint_a": tokenMintA,
		"token_mint_b": tokenMintB,
	} {
		if len(v) > 0 {
			query.Set(k, v)
		}
	}
	path := c.publicURL + "/v1/offers"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	res := &escrowapi.ListOffersResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Offers, nil
}

func (c *Client) GetBalances(
	ctx context.Context, owner string,
) (*escrowapi.Balances, error) {
	balances := &escrowapi.Balances{}
	path := fmt.Sprintf("%s/v1/accounts/%s", c.publicURL, owner)
	if err := c.do(ctx, http.MethodGet, path, nil, balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (c *Client) do(
	ctx context.Context, method, url string, body, res interface{},
) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errResp := escrowapi.ErrorResponse{}
		if err := json.Unmarshal(buf, &errResp); err != nil || errResp.Kind == "" {
			return &Error{resp.StatusCode, "UNKNOWN", strings.TrimSpace(string(buf))}
		}
		return &Error{resp.StatusCode, errResp.Kind, errResp.Error}
	}

	if res == nil || len(buf) <= 0 {
		return nil
	}
	return json.Unmarshal(buf, res)
}
