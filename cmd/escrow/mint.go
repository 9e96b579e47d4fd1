package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
	"github.com/urfave/cli/v2"
)

var mint = cli.Command{
	Name:  "mint",
	Usage: "manage the operator's mints",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a new mint whose authority is the faucet",
			Flags: []cli.Flag{
				&cli.UintFlag{
					Name:  "decimals",
					Usage: "the decimals of the mint",
					Value: 9,
				},
			},
			Action: createMintAction,
		},
		{
			Name:  "to",
			Usage: "mint tokens to the associated account of an owner",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "mint",
					Usage:    "the mint address",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "owner",
					Usage: "the owner address, defaults to the local key",
				},
				&cli.StringFlag{
					Name:     "amount",
					Usage:    "the amount to mint, in units of the mint",
					Required: true,
				},
			},
			Action: mintToAction,
		},
		{
			Name:   "list",
			Usage:  "list all the operator's mints",
			Action: listMintsAction,
		},
	},
}

var airdrop = cli.Command{
	Name:  "airdrop",
	Usage: "credit lamports to an owner",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the owner address, defaults to the local key",
		},
		&cli.Uint64Flag{
			Name:     "lamports",
			Usage:    "the amount of lamports to credit",
			Required: true,
		},
	},
	Action: airdropAction,
}

func createMintAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	decimals := ctx.Uint("decimals")
	if decimals > 255 {
		return fmt.Errorf("--decimals must be in range [0, 255]")
	}

	resp, err := client.CreateMint(context.Background(), uint8(decimals))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func mintToAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	owner, err := ownerOrLocalKey(ctx)
	if err != nil {
		return err
	}

	m, err := client.GetMint(context.Background(), ctx.String("mint"))
	if err != nil {
		return err
	}
	amount, err := escrowapi.ParseAmount(ctx.String("amount"), m.Decimals)
	if err != nil {
		return fmt.Errorf("invalid --amount: %w", err)
	}

	resp, err := client.MintTo(context.Background(), m.Address, owner, amount)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func listMintsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	mints, err := client.ListMints(context.Background())
	if err != nil {
		return err
	}

	printRespJSON(escrowapi.ListMintsResponse{Mints: mints})
	return nil
}

func airdropAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	owner, err := ownerOrLocalKey(ctx)
	if err != nil {
		return err
	}

	resp, err := client.Airdrop(context.Background(), owner, ctx.Uint64("lamports"))
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}

func ownerOrLocalKey(ctx *cli.Context) (string, error) {
	if owner := ctx.String("owner"); len(owner) > 0 {
		return owner, nil
	}
	key, err := getPrivateKey()
	if err != nil {
		return "", err
	}
	return key.PublicKey().String(), nil
}
