package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli/v2"
)

var keygen = cli.Command{
	Name:  "keygen",
	Usage: "generate a new signing key and store it in the local state",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "overwrite the key already in the local state",
		},
	},
	Action: keygenAction,
}

func keygenAction(ctx *cli.Context) error {
	if key, err := getPrivateKey(); err == nil && !ctx.Bool("force") {
		return fmt.Errorf(
			"a key for %s already exists, use --force to overwrite it",
			key.PublicKey(),
		)
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return err
	}
	if err := setState(map[string]string{privateKeyKey: key.String()}); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("address:", key.PublicKey())
	return nil
}
