package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

var ErrMissingOperatorURL = errors.New("missing operator url")

func (c *Client) CreateMint(
	ctx context.Context, decimals uint8,
) (*escrowapi.Mint, error) {
	if err := c.checkOperator(); err != nil {
		return nil, err
	}
	mint := &escrowapi.Mint{}
	if err := c.do(
		ctx, http.MethodPost, c.operatorURL+"/v1/mints",
		escrowapi.CreateMintRequest{Decimals: decimals}, mint,
	); err != nil {
		return nil, err
	}
	return mint, nil
}

func (c *Client) ListMints(ctx context.Context) ([]escrowapi.Mint, error) {
	if err := c.checkOperator(); err != nil {
		return nil, err
	}
	res := &escrowapi.ListMintsResponse{}
	if err := c.do(
		ctx, http.MethodGet, c.operatorURL+"/v1/mints", nil, res,
	); err != nil {
		return nil, err
	}
	return res.Mints, nil
}

// GetMint returns the operator's mint with the given address.
func (c *Client) GetMint(ctx context.Context, address string) (*escrowapi.Mint, error) {
	mints, err := c.ListMints(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range mints {
		if m.Address == address {
			return &m, nil
		}
	}
	return nil, &Error{http.StatusNotFound, "MINT_NOT_FOUND", "mint not found"}
}

func (c *Client) MintTo(
	ctx context.Context, mint, owner string, amount uint64,
) (*escrowapi.TokenAccount, error) {
	if err := c.checkOperator(); err != nil {
		return nil, err
	}
	account := &escrowapi.TokenAccount{}
	path := fmt.Sprintf("%s/v1/mints/%s/mint-to", c.operatorURL, mint)
	if err := c.do(
		ctx, http.MethodPost, path,
		escrowapi.MintToRequest{Owner: owner, Amount: amount}, account,
	); err != nil {
		return nil, err
	}
	return account, nil
}

func (c *Client) Airdrop(
	ctx context.Context, owner string, lamports uint64,
) (*escrowapi.SystemAccount, error) {
	if err := c.checkOperator(); err != nil {
		return nil, err
	}
	account := &escrowapi.SystemAccount{}
	if err := c.do(
		ctx, http.MethodPost, c.operatorURL+"/v1/airdrop",
		escrowapi.AirdropRequest{Owner: owner, Lamports: lamports}, account,
	); err != nil {
		return nil, err
	}
	return account, nil
}

func (c *Client) AddWebhook(
	ctx context.Context, event, endpoint, secret string,
) (string, error) {
	if err := c.checkOperator(); err != nil {
		return "", err
	}
	res := &escrowapi.AddWebhookResponse{}
	if err := c.do(
		ctx, http.MethodPost, c.operatorURL+"/v1/webhooks",
		escrowapi.AddWebhookRequest{
			Event: event, Endpoint: endpoint, Secret: secret,
		}, res,
	); err != nil {
		return "", err
	}
	return res.ID, nil
}

func (c *Client) RemoveWebhook(ctx context.Context, id string) error {
	if err := c.checkOperator(); err != nil {
		return err
	}
	path := fmt.Sprintf("%s/v1/webhooks/%s", c.operatorURL, url.PathEscape(id))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) ListWebhooks(
	ctx context.Context, event string,
) ([]escrowapi.Webhook, error) {
	if err := c.checkOperator(); err != nil {
		return nil, err
	}
	path := c.operatorURL + "/v1/webhooks"
	if len(event) > 0 {
		path += "?event=" + url.QueryEscape(event)
	}
	res := &escrowapi.ListWebhooksResponse{}
	if err := c.do(ctx, http.MethodGet, path, nil, res); err != nil {
		return nil, err
	}
	return res.Webhooks, nil
}

func (c *Client) checkOperator() error {
	if len(c.operatorURL) <= 0 {
		return ErrMissingOperatorURL
	}
	return nil
}
