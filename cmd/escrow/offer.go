package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
	"github.com/urfave/cli/v2"
)

var offerIDFlag = &cli.Uint64Flag{
	Name:     "id",
	Usage:    "the id of the offer",
	Required: true,
}

var makeOffer = cli.Command{
	Name:  "make",
	Usage: "lock an amount of token A in a new offer, asking for token B",
	Flags: []cli.Flag{
		offerIDFlag,
		&cli.StringFlag{
			Name:     "mint-a",
			Usage:    "the mint of the offered tokens",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "mint-b",
			Usage:    "the mint of the wanted tokens",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount-a",
			Usage:    "the offered amount, in units of --decimals-a",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "amount-b",
			Usage:    "the wanted amount, in units of --decimals-b",
			Required: true,
		},
		&cli.UintFlag{
			Name:  "decimals-a",
			Usage: "the decimals of the offered amount, 0 for base units",
		},
		&cli.UintFlag{
			Name:  "decimals-b",
			Usage: "the decimals of the wanted amount, 0 for base units",
		},
	},
	Action: makeOfferAction,
}

var takeOffer = cli.Command{
	Name:  "take",
	Usage: "pay the wanted amount of token B to get the whole vault of an offer",
	Flags: []cli.Flag{
		offerIDFlag,
	},
	Action: takeOfferAction,
}

var refundOffer = cli.Command{
	Name:  "refund",
	Usage: "cancel an offer and get back the tokens locked in its vault",
	Flags: []cli.Flag{
		offerIDFlag,
	},
	Action: refundOfferAction,
}

var getOffer = cli.Command{
	Name:   "offer",
	Usage:  "get the details of a live offer",
	Flags:  []cli.Flag{offerIDFlag},
	Action: getOfferAction,
}

var listOffers = cli.Command{
	Name:  "offers",
	Usage: "list the live offers",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "maker",
			Usage: "filter offers by maker",
		},
		&cli.StringFlag{
			Name:  "mint-a",
			Usage: "filter offers by offered mint",
		},
		&cli.StringFlag{
			Name:  "mint-b",
			Usage: "filter offers by wanted mint",
		},
		&cli.BoolFlag{
			Name:  "mine",
			Usage: "list only the offers made with the local key",
		},
	},
	Action: listOffersAction,
}

func makeOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	key, err := getPrivateKey()
	if err != nil {
		return err
	}

	amountA, err := parseAmountFlag(ctx, "amount-a", "decimals-a")
	if err != nil {
		return err
	}
	amountB, err := parseAmountFlag(ctx, "amount-b", "decimals-b")
	if err != nil {
		return err
	}

	offer, err := client.MakeOffer(context.Background(), key, escrowapi.MakeOfferPayload{
		ID:                  ctx.Uint64("id"),
		TokenMintA:          ctx.String("mint-a"),
		TokenMintB:          ctx.String("mint-b"),
		TokenAOfferedAmount: amountA,
		TokenBWantedAmount:  amountB,
	})
	if err != nil {
		return err
	}

	printRespJSON(offer)
	return nil
}

func takeOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	key, err := getPrivateKey()
	if err != nil {
		return err
	}

	// The terms are read from the live offer. The daemon checks them against
	// the stored ones in the same transaction of the settlement.
	offer, err := client.GetOffer(context.Background(), ctx.Uint64("id"))
	if err != nil {
		return err
	}

	receipt, err := client.TakeOffer(context.Background(), key, escrowapi.TakeOfferPayload{
		OfferID:    offer.ID,
		Maker:      offer.Maker,
		TokenMintA: offer.TokenMintA,
		TokenMintB: offer.TokenMintB,
		Vault:      offer.Vault,
	})
	if err != nil {
		return err
	}

	printRespJSON(receipt)
	return nil
}

func refundOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	key, err := getPrivateKey()
	if err != nil {
		return err
	}

	offer, err := client.GetOffer(context.Background(), ctx.Uint64("id"))
	if err != nil {
		return err
	}

	receipt, err := client.RefundOffer(context.Background(), key, escrowapi.RefundOfferPayload{
		OfferID:    offer.ID,
		TokenMintA: offer.TokenMintA,
		Vault:      offer.Vault,
	})
	if err != nil {
		return err
	}

	printRespJSON(receipt)
	return nil
}

func getOfferAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	offer, err := client.GetOffer(context.Background(), ctx.Uint64("id"))
	if err != nil {
		return err
	}

	printRespJSON(offer)
	return nil
}

func listOffersAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	maker := ctx.String("maker")
	if ctx.Bool("mine") {
		if len(maker) > 0 {
			return fmt.Errorf("--mine and --maker are mutually exclusive")
		}
		key, err := getPrivateKey()
		if err != nil {
			return err
		}
		maker = key.PublicKey().String()
	}

	offers, err := client.ListOffers(
		context.Background(), maker, ctx.String("mint-a"), ctx.String("mint-b"),
	)
	if err != nil {
		return err
	}

	printRespJSON(escrowapi.ListOffersResponse{Offers: offers})
	return nil
}

func parseAmountFlag(ctx *cli.Context, amountFlag, decimalsFlag string) (uint64, error) {
	decimals := ctx.Uint(decimalsFlag)
	if decimals > 255 {
		return 0, fmt.Errorf("--%s must be in range [0, 255]", decimalsFlag)
	}
	amount, err := escrowapi.ParseAmount(ctx.String(amountFlag), uint8(decimals))
	if err != nil {
		return 0, fmt.Errorf("invalid --%s: %w", amountFlag, err)
	}
	return amount, nil
}
