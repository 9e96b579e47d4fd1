package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/tdex-escrow/pkg/escrowapi"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

const generatedSecretLen = 32

var webhook = cli.Command{
	Name:  "webhook",
	Usage: "manage the webhooks notified on offer events",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a webhook registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "endpoint",
					Usage:    "the endpoint where to notify the webhook",
					Required: true,
				},
				&cli.StringFlag{
					Name:  "secret",
					Usage: "the eventual secret to authenticate requests",
				},
				&cli.BoolFlag{
					Name:  "gen-secret",
					Usage: "generate a random secret to authenticate requests",
				},
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event for which the webhook gets notified: OFFER_MADE, OFFER_TAKEN, OFFER_REFUNDED or * for any",
					Value: "*",
				},
			},
			Action: addWebhookAction,
		},
		{
			Name:  "remove",
			Usage: "remove a webhook",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Usage:    "the id of the webhook to remove",
					Required: true,
				},
			},
			Action: removeWebhookAction,
		},
		{
			Name:  "list",
			Usage: "list all webhooks registered for some event",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "event",
					Usage: "the event to filter hooks by",
				},
			},
			Action: listWebhooksAction,
		},
	},
}

func addWebhookAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	secret := ctx.String("secret")
	if ctx.Bool("gen-secret") {
		if len(secret) > 0 {
			return fmt.Errorf("--secret and --gen-secret are mutually exclusive")
		}
		secret = randstr.Hex(generatedSecretLen)
	}

	id, err := client.AddWebhook(
		context.Background(), ctx.String("event"), ctx.String("endpoint"), secret,
	)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("hook id:", id)
	if ctx.Bool("gen-secret") {
		fmt.Println("secret:", secret)
	}
	return nil
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	if err := client.RemoveWebhook(context.Background(), ctx.String("id")); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("removed hook", ctx.String("id"))
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	hooks, err := client.ListWebhooks(context.Background(), ctx.String("event"))
	if err != nil {
		return err
	}

	printRespJSON(escrowapi.ListWebhooksResponse{Webhooks: hooks})
	return nil
}
