package httpinterface

import (
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
)

func offerView(info escrow.OfferInfo) escrowapi.Offer {
	return escrowapi.Offer{
		ID:                 info.ID,
		Address:            info.Address.String(),
		Maker:              info.Maker.String(),
		TokenMintA:         info.TokenMintA.String(),
		TokenMintB:         info.TokenMintB.String(),
		TokenBWantedAmount: info.TokenBWantedAmount,
		TokenBWantedAmountUI: escrowapi.FormatAmount(
			info.TokenBWantedAmount, info.TokenBDecimals,
		),
		Vault:         info.Vault.String(),
		VaultAmount:   info.VaultAmount,
		VaultAmountUI: escrowapi.FormatAmount(info.VaultAmount, info.TokenADecimals),
		Bump:          info.Bump,
		CreatedAt:     info.CreatedAt,
	}
}

func offerListView(list []escrow.OfferInfo) escrowapi.ListOffersResponse {
	offers := make([]escrowapi.Offer, 0, len(list))
	for _, info := range list {
		offers = append(offers, offerView(info))
	}
	return escrowapi.ListOffersResponse{Offers: offers}
}

func takeReceiptView(r escrow.TakeReceipt) escrowapi.TakeReceipt {
	return escrowapi.TakeReceipt{
		OfferID:            r.OfferID,
		Taker:              r.Taker.String(),
		Maker:              r.Maker.String(),
		TokenMintA:         r.TokenMintA.String(),
		TokenMintB:         r.TokenMintB.String(),
		TokenAReceived:     r.TokenAReceived,
		TokenBPaid:         r.TokenBPaid,
		LamportsToMaker:    r.LamportsToMaker,
		TakerTokenAccountA: r.TakerTokenAccountA.String(),
		MakerTokenAccountB: r.MakerTokenAccountB.String(),
	}
}

func refundReceiptView(r escrow.RefundReceipt) escrowapi.RefundReceipt {
	return escrowapi.RefundReceipt{
		OfferID:            r.OfferID,
		Maker:              r.Maker.String(),
		TokenMintA:         r.TokenMintA.String(),
		TokenARefunded:     r.TokenARefunded,
		LamportsToMaker:    r.LamportsToMaker,
		MakerTokenAccountA: r.MakerTokenAccountA.String(),
	}
}

func tokenAccountView(a domain.TokenAccount, decimals uint8) escrowapi.TokenAccount {
	return escrowapi.TokenAccount{
		Address:  a.Address.String(),
		Mint:     a.Mint.String(),
		Owner:    a.Owner.String(),
		Amount:   a.Amount,
		AmountUI: escrowapi.FormatAmount(a.Amount, decimals),
		Reserve:  a.Reserve,
	}
}

func balancesView(b escrow.Balances) escrowapi.Balances {
	accounts := make([]escrowapi.TokenAccount, 0, len(b.TokenAccounts))
	for _, a := range b.TokenAccounts {
		accounts = append(accounts, tokenAccountView(a, b.Decimals[a.Mint]))
	}
	return escrowapi.Balances{
		Owner:         b.Owner.String(),
		Lamports:      b.Lamports,
		TokenAccounts: accounts,
	}
}

func mintView(m domain.Mint) escrowapi.Mint {
	return escrowapi.Mint{
		Address:   m.Address.String(),
		Authority: m.Authority.String(),
		Decimals:  m.Decimals,
		Supply:    m.Supply,
		SupplyUI:  escrowapi.FormatAmount(m.Supply, m.Decimals),
	}
}

func webhookListView(list []ports.WebhookInfo) escrowapi.ListWebhooksResponse {
	hooks := make([]escrowapi.Webhook, 0, len(list))
	for _, h := range list {
		hooks = append(hooks, escrowapi.Webhook{
			ID:        h.GetId(),
			Event:     h.GetEvent(),
			Endpoint:  h.GetEndpoint(),
			IsSecured: h.IsSecured(),
		})
	}
	return escrowapi.ListWebhooksResponse{Webhooks: hooks}
}
