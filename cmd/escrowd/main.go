package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-escrow/internal/config"
	"github.com/tdex-network/tdex-escrow/internal/core/application/escrow"
	"github.com/tdex-network/tdex-escrow/internal/core/application/operator"
	"github.com/tdex-network/tdex-escrow/internal/core/application/pubsub"
	"github.com/tdex-network/tdex-escrow/internal/core/ports"
	pubsubinfra "github.com/tdex-network/tdex-escrow/internal/infrastructure/pubsub"
	dbbadger "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/badger"
	"github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/inmemory"
	postgresdb "github.com/tdex-network/tdex-escrow/internal/infrastructure/storage/db/pg"
	tokenprogram "github.com/tdex-network/tdex-escrow/internal/infrastructure/token-program"
	httpinterface "github.com/tdex-network/tdex-escrow/internal/interfaces/http"
)

func main() {
	if err := config.InitConfig(); err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	log.SetLevel(config.GetLogLevel())

	datadir := config.GetDatadir()
	publicAddress := fmt.Sprintf(":%d", config.GetInt(config.ListeningPortKey))
	operatorAddress := fmt.Sprintf(
		":%d", config.GetInt(config.OperatorListeningPortKey),
	)

	repoManager, err := newRepoManager(datadir)
	if err != nil {
		log.WithError(err).Fatal("failed to open db")
	}

	tokenProgram, err := tokenprogram.NewService(
		config.GetProgramID(), config.GetUint64(config.RentExemptLamportsKey),
		repoManager.AccountRepository(),
	)
	if err != nil {
		repoManager.Close()
		log.WithError(err).Fatal("failed to init token program")
	}

	webhookPubSub, err := pubsubinfra.NewService(
		datadir, config.GetDuration(config.WebhookTimeoutKey),
		config.GetInt(config.WebhookRateLimitKey),
	)
	if err != nil {
		repoManager.Close()
		log.WithError(err).Fatal("failed to init webhook pubsub")
	}
	pubsubSvc, err := pubsub.NewService(webhookPubSub)
	if err != nil {
		repoManager.Close()
		log.WithError(err).Fatal("failed to init pubsub service")
	}

	escrowSvc, err := escrow.NewService(repoManager, tokenProgram, pubsubSvc)
	if err != nil {
		shutdown(repoManager, pubsubSvc)
		log.WithError(err).Fatal("failed to init escrow service")
	}
	operatorSvc, err := operator.NewService(repoManager, tokenProgram, pubsubSvc)
	if err != nil {
		shutdown(repoManager, pubsubSvc)
		log.WithError(err).Fatal("failed to init operator service")
	}

	svc, err := httpinterface.NewService(httpinterface.ServiceOpts{
		Address:          publicAddress,
		OperatorAddress:  operatorAddress,
		NoSignatureCheck: config.GetBool(config.NoSignatureCheckKey),
		EscrowSvc:        escrowSvc,
		OperatorSvc:      operatorSvc,
	})
	if err != nil {
		shutdown(repoManager, pubsubSvc)
		log.WithError(err).Fatal("failed to init http interface")
	}

	log.WithFields(log.Fields{
		"datadir":    datadir,
		"db":         config.GetString(config.DBTypeKey),
		"program_id": config.GetProgramID().String(),
		"faucet":     operatorSvc.Faucet().String(),
	}).Info("starting daemon")

	if err := svc.Start(); err != nil {
		shutdown(repoManager, pubsubSvc)
		log.WithError(err).Fatal("failed to start daemon")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	<-sigChan

	log.Info("shutting down daemon")
	svc.Stop()
	shutdown(repoManager, pubsubSvc)
	log.Info("exiting")
}

func newRepoManager(datadir string) (ports.RepoManager, error) {
	switch config.GetString(config.DBTypeKey) {
	case config.DBInMemory:
		log.Warn("using in-memory db, state will be lost on exit")
		return inmemory.NewRepoManager(), nil
	case config.DBPostgres:
		return postgresdb.NewService(postgresdb.DbConfig{
			DataSourceURL:      config.GetString(config.PgConnectAddrKey),
			MigrationSourceURL: config.GetString(config.PgMigrationSourceKey),
		})
	default:
		return dbbadger.NewRepoManager(
			filepath.Join(datadir, config.DbLocation), log.StandardLogger(),
		)
	}
}

func shutdown(repoManager ports.RepoManager, pubsubSvc *pubsub.Service) {
	pubsubSvc.Close()
	log.Debug("closed webhook store")
	repoManager.Close()
	log.Debug("closed db")
}
