package db_test

import (
	"context"
	"database/sql"

	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	postgresdb "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg"

	_ "github.com/jackc/pgx/v4/stdlib"
)

const (
	pgAddrEnv = "ESCROW_TEST_PG_ADDR"

	truncateQuery = `
	TRUNCATE TABLE offer, retired_offer, token_account, mint, system_account
`
)

// setupPgDb connects to the given postgres instance, migrates it and
// truncates all tables so that every test run starts from an empty db.
func setupPgDb(addr string) (ports.RepoManager, error) {
	svc, err := postgresdb.NewService(postgresdb.DbConfig{
		DataSourceURL:      addr,
		MigrationSourceURL: "file://../pg/migration",
	})
	if err != nil {
		return nil, err
	}

	if err := truncateDb(addr); err != nil {
		svc.Close()
		return nil, err
	}
	return svc, nil
}

func truncateDb(addr string) error {
	db, err := sql.Open("pgx", addr)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(context.Background(), truncateQuery)
	return err
}
