package main

import (
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/ledgercore/ledger-api/internal/api"
	"github.com/ledgercore/ledger-api/internal/config"
	"github.com/ledgercore/ledger-api/internal/service"
	"github.com/ledgercore/ledger-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ledgerStore, err := store.NewStore(cfg.DBSource)
	if err != nil {
		logger.Fatal("unable to connect to database", zap.Error(err))
	}
	defer ledgerStore.Close()

	// Initialize Layers
	accounts := service.NewAccountService(ledgerStore)
	transactions := service.NewTransactionService(ledgerStore)
	handler := api.NewHandler(accounts, transactions, logger)

	r := api.NewRouter(handler, cfg.AdminUsername, cfg.AdminPassword)

	logger.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
