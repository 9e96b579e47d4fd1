package main

import (
	"context"

	"github.com/urfave/cli/v2"
)

var balances = cli.Command{
	Name:  "balances",
	Usage: "get the lamports and the token accounts of an owner",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "the owner address, defaults to the local key",
		},
	},
	Action: balancesAction,
}

func balancesAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	owner := ctx.String("owner")
	if len(owner) <= 0 {
		key, err := getPrivateKey()
		if err != nil {
			return err
		}
		owner = key.PublicKey().String()
	}

	resp, err := client.GetBalances(context.Background(), owner)
	if err != nil {
		return err
	}

	printRespJSON(resp)
	return nil
}
