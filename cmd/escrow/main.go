package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/gagliardetto/solana-go"
	"github.com/tdex-network/tdex-escrow/pkg/escrow/client"
	"github.com/urfave/cli/v2"
)

const (
	publicURLKey   = "public_url"
	operatorURLKey = "operator_url"
	privateKeyKey  = "private_key"
)

var (
	escrowDataDir = btcutil.AppDataDir("escrow-cli", false)
	statePath     = filepath.Join(escrowDataDir, "state.json")
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "escrow CLI"
	app.Usage = "Command line interface for escrowd makers, takers and operators"
	app.Commands = append(
		app.Commands,
		&config,
		&keygen,
		&makeOffer,
		&takeOffer,
		&refundOffer,
		&getOffer,
		&listOffers,
		&balances,
		&mint,
		&airdrop,
		&webhook,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func getState() (map[string]string, error) {
	data := map[string]string{}

	file, err := os.ReadFile(statePath)
	if err != nil {
		return nil, errors.New("get config state error: try 'config init'")
	}
	if err := json.Unmarshal(file, &data); err != nil {
		return nil, fmt.Errorf("invalid config state: %w", err)
	}

	return data, nil
}

func setState(data map[string]string) error {
	if err := os.MkdirAll(escrowDataDir, os.ModeDir|0700); err != nil {
		return err
	}

	currentData, err := getState()
	if err != nil {
		currentData = map[string]string{}
	}

	mergedData := merge(currentData, data)

	jsonString, err := json.MarshalIndent(mergedData, "", "\t")
	if err != nil {
		return err
	}
	if err := os.WriteFile(statePath, jsonString, 0600); err != nil {
		return fmt.Errorf("writing to file: %w", err)
	}

	return nil
}

func merge(maps ...map[string]string) map[string]string {
	merge := make(map[string]string, 0)
	for _, m := range maps {
		for k, v := range m {
			merge[k] = v
		}
	}
	return merge
}

func printRespJSON(resp interface{}) {
	jsonStr, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		fmt.Println("unable to decode response: ", err)
		return
	}

	fmt.Println(string(jsonStr))
}

func getClient() (*client.Client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	publicURL, ok := state[publicURLKey]
	if !ok {
		return nil, fmt.Errorf("set %s with `config set %s`", publicURLKey, publicURLKey)
	}
	return client.New(publicURL, state[operatorURLKey])
}

func getPrivateKey() (solana.PrivateKey, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	key, ok := state[privateKeyKey]
	if !ok {
		return nil, errors.New("generate a key with `keygen` first")
	}
	return solana.PrivateKeyFromBase58(key)
}

type invalidUsageError struct {
	ctx     *cli.Context
	command string
}

func (e *invalidUsageError) Error() string {
	return fmt.Sprintf("invalid usage of command %s", e.command)
}

func fatal(err error) {
	var e *invalidUsageError
	if errors.As(err, &e) {
		_ = cli.ShowCommandHelp(e.ctx, e.command)
	} else {
		_, _ = fmt.Fprintf(os.Stderr, "[escrow] %v\n", err)
	}
	os.Exit(1)
}
