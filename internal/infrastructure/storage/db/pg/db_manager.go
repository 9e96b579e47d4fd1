package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg/sqlc/queries"
	"github.com/tdex-network/tdex-escrow/internal/storageutil/uow"

	"github.com/tdex-network/tdex-escrow/internal/core/domain"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v4/pgxpool"
)

const (
	postgresDriver = "pgx"

	uniqueViolation        = "23505"
	foreignKeyViolation    = "23503"
	serializationFailure   = "40001"
	deadlockDetected       = "40P01"
	readOnlySqlTransaction = "25006"

	defaultMigrationSource = "file://internal/infrastructure/storage/db/pg/migration"
)

type DbConfig struct {
	DataSourceURL      string
	MigrationSourceURL string
}

type repoManager struct {
	pgxPool *pgxpool.Pool

	offerRepository   *offerRepositoryImpl
	accountRepository *accountRepositoryImpl
}

// NewService connects to the postgres instance at the given data source url
// and applies all pending migrations.
func NewService(dbConfig DbConfig) (ports.RepoManager, error) {
	if len(dbConfig.DataSourceURL) <= 0 {
		return nil, fmt.Errorf("missing data source url")
	}
	migrationSource := dbConfig.MigrationSourceURL
	if len(migrationSource) <= 0 {
		migrationSource = defaultMigrationSource
	}

	pgxPool, err := connect(dbConfig.DataSourceURL)
	if err != nil {
		return nil, err
	}

	if err = migrateDb(dbConfig.DataSourceURL, migrationSource); err != nil {
		pgxPool.Close()
		return nil, err
	}

	tr := transactional{pgxPool, queries.New(pgxPool)}

	return &repoManager{
		pgxPool:           pgxPool,
		offerRepository:   &offerRepositoryImpl{tr},
		accountRepository: &accountRepositoryImpl{tr},
	}, nil
}

func (r *repoManager) OfferRepository() domain.OfferRepository {
	return r.offerRepository
}

func (r *repoManager) AccountRepository() domain.AccountRepository {
	return r.accountRepository
}

func (r *repoManager) RunTransaction(
	ctx context.Context, readOnly bool,
	handler func(ctx context.Context) (interface{}, error),
) (interface{}, error) {
	var result interface{}
	unit := uow.NewUnitOfWork(r.offerRepository, r.accountRepository)
	err := unit.Run(ctx, readOnly, func(ctx context.Context) (err error) {
		result, err = handler(ctx)
		return
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repoManager) Close() {
	r.pgxPool.Close()
}

type tx struct {
	ctx   context.Context
	pgxTx pgx.Tx
}

func (t *tx) Commit() error {
	return mapPgError(t.pgxTx.Commit(t.ctx))
}

func (t *tx) Rollback() error {
	err := t.pgxTx.Rollback(t.ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// transactional is embedded by repositories so that they share the same
// serializable postgres transaction within a unit of work.
type transactional struct {
	pgxPool *pgxpool.Pool
	querier *queries.Queries
}

func (r transactional) Begin(
	ctx context.Context, readOnly bool,
) (uow.Tx, error) {
	opts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	if readOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	pgxTx, err := r.pgxPool.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &tx{ctx, pgxTx}, nil
}

func (r transactional) ContextKey() interface{} {
	return r.pgxPool
}

// execTx runs txBody in the transaction of ctx, if any, or in a new one
// committed right after.
func (r transactional) execTx(
	ctx context.Context, readOnly bool,
	txBody func(*queries.Queries) error,
) error {
	if t, ok := uow.TxFromContext(ctx, r.pgxPool); ok {
		return mapPgError(txBody(r.querier.WithTx(t.(*tx).pgxTx)))
	}

	t, err := r.Begin(ctx, readOnly)
	if err != nil {
		return err
	}

	// Rollback is safe to call even if the tx is already closed, so if
	// the tx commits successfully, this is a no-op.
	defer func() {
		if err := t.Rollback(); err != nil {
			log.Errorf("unable to rollback db tx: %v", err)
		}
	}()

	if err := txBody(r.querier.WithTx(t.(*tx).pgxTx)); err != nil {
		return mapPgError(err)
	}

	return t.Commit()
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case serializationFailure, deadlockDetected:
		return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
	case readOnlySqlTransaction:
		return fmt.Errorf("%w: %w", domain.ErrReadOnlyTx, err)
	}
	return err
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

func connect(dataSource string) (*pgxpool.Pool, error) {
	return pgxpool.Connect(context.Background(), dataSource)
}

func migrateDb(dataSource, migrationSourceUrl string) error {
	pg := postgres.Postgres{}

	d, err := pg.Open(dataSource)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(
		migrationSourceUrl,
		postgresDriver,
		d,
	)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}
