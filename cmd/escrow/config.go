package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

var (
	publicURLFlag = cli.StringFlag{
		Name:  "public-url",
		Usage: "base url of the escrowd public interface",
		Value: "http://localhost:9945",
	}

	operatorURLFlag = cli.StringFlag{
		Name:  "operator-url",
		Usage: "base url of the escrowd operator interface",
		Value: "http://localhost:9000",
	}
)

var config = cli.Command{
	Name:   "config",
	Usage:  "Print local configuration of the escrow CLI",
	Action: configAction,
	Subcommands: []*cli.Command{
		{
			Name:   "set",
			Usage:  "set a <key> <value> in the local state",
			Action: configSetAction,
		},
		{
			Name:   "init",
			Usage:  "initialize the local state with flags",
			Action: configInitAction,
			Flags: []cli.Flag{
				&publicURLFlag,
				&operatorURLFlag,
			},
		},
	},
}

func configAction(ctx *cli.Context) error {
	state, err := getState()
	if err != nil {
		return err
	}

	for key, value := range state {
		if key == privateKeyKey {
			value = "<hidden>"
		}
		fmt.Println(key + ": " + value)
	}

	return nil
}

func configInitAction(ctx *cli.Context) error {
	return setState(map[string]string{
		publicURLKey:   ctx.String(publicURLFlag.Name),
		operatorURLKey: ctx.String(operatorURLFlag.Name),
	})
}

func configSetAction(ctx *cli.Context) error {
	if ctx.NArg() < 2 {
		return errors.New("key and value are missing")
	}

	key := ctx.Args().Get(0)
	value := ctx.Args().Get(1)

	if err := setState(map[string]string{key: value}); err != nil {
		return err
	}

	fmt.Printf("%s has been set\n", key)

	return nil
}
