// Package main implements the campaign registry sync daemon. It mirrors the
// on-chain campaign registry into a local time-bounded cache and exposes the
// moderation and donation workflows over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/CrowdChain-Network/registry_layer/internal/api"
	"github.com/CrowdChain-Network/registry_layer/internal/chain"
	"github.com/CrowdChain-Network/registry_layer/internal/config"
	"github.com/CrowdChain-Network/registry_layer/internal/registry"
	registrychain "github.com/CrowdChain-Network/registry_layer/internal/registry/chain"
	"github.com/CrowdChain-Network/registry_layer/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// optional .env for local development
	_ = godotenv.Load()

	log := logger.New("registryd")

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}

	client, err := chain.NewClient(chain.Config{
		RPCURL:            cfg.RPCURL,
		NetworkID:         cfg.NetworkID,
		RequestsPerSecond: cfg.RequestsPerSecond,
	})
	if err != nil {
		log.WithError(err).Fatal("create node client")
	}

	var wallet *chain.Wallet
	if cfg.WalletKey != "" {
		wallet, err = chain.NewWallet(cfg.WalletKey)
		if err != nil {
			log.WithError(err).Fatal("load wallet")
		}
		log.WithField("address", wallet.Address()).Info("wallet loaded; write operations enabled")
	} else {
		log.Warn("no wallet configured; running read-only")
	}

	ledger := registrychain.New(client, cfg.ContractHash, wallet)

	cache := registry.NewCache(registry.CacheConfig{
		Ledger: ledger,
		TTL:    cfg.CacheTTL,
		Logger: log,
	})
	gate := registry.NewGate(ledger, log)
	moderator := registry.NewModerator(ledger, cache, gate, log)
	recorder := registry.NewRecorder(ledger, cache, log)

	var owner string
	if wallet != nil {
		owner = wallet.Address()
	}
	publisher := registry.NewPublisher(registry.PublisherConfig{
		Ledger:            ledger,
		Cache:             cache,
		Owner:             owner,
		ImageCheckTimeout: cfg.ImageCheckTimeout,
		Logger:            log,
	})

	server := api.NewServer(api.Config{
		Cache:     cache,
		Moderator: moderator,
		Recorder:  recorder,
		Publisher: publisher,
		Gate:      gate,
		Node:      client,
		Logger:    log,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Warm the snapshot before serving; a failed initial read is not fatal,
	// the first getAll past the TTL retries.
	warmCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := cache.Refresh(warmCtx); err != nil {
		log.WithError(err).Warn("initial snapshot refresh failed")
	}
	cancel()

	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("registry sync layer listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
