package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	claimservice "tipdrop/contexts/distribution/claim-service"
	claimevm "tipdrop/contexts/distribution/claim-service/adapters/evm"
	claimpostgres "tipdrop/contexts/distribution/claim-service/adapters/postgres"
	claimworkers "tipdrop/contexts/distribution/claim-service/application/workers"
	dropservice "tipdrop/contexts/distribution/drop-service"
	dropevm "tipdrop/contexts/distribution/drop-service/adapters/evm"
	dropmemory "tipdrop/contexts/distribution/drop-service/adapters/memory"
	droppostgres "tipdrop/contexts/distribution/drop-service/adapters/postgres"
	dropworkers "tipdrop/contexts/distribution/drop-service/application/workers"
	jarservice "tipdrop/contexts/tipping/jar-service"
	jarevm "tipdrop/contexts/tipping/jar-service/adapters/evm"
	jarpostgres "tipdrop/contexts/tipping/jar-service/adapters/postgres"
	jarworkers "tipdrop/contexts/tipping/jar-service/application/workers"
	"tipdrop/internal/platform/config"
	"tipdrop/internal/platform/db"
	"tipdrop/internal/platform/httpserver"
	"tipdrop/internal/platform/logging"
	"tipdrop/internal/platform/messaging"
	"tipdrop/internal/shared/retry"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	outboxRelay     claimworkers.OutboxRelay
	claimProjection dropworkers.ClaimProjectionConsumer
	jarRefresher    *jarworkers.BalanceRefresher
	pollInterval    time.Duration
	jarInterval     time.Duration
	runProjection   bool
	runRelay        bool
	runRefresher    bool
	logger          *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogFormat).With("service", cfg.ServiceName, "process", "api")
	slog.SetDefault(logger)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(); err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)

	dropSettlement, err := dropevm.NewSettlement(dropevm.SettlementConfig{
		RPCURL:              cfg.RPCURL,
		ChainID:             cfg.ChainID,
		DropContractAddress: cfg.DropContractAddress,
		USDCContractAddress: cfg.USDCContractAddress,
		PrivateKeyHex:       cfg.SettlementPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}
	claimSettlement, err := claimevm.NewSettlement(claimevm.SettlementConfig{
		RPCURL:              cfg.RPCURL,
		ChainID:             cfg.ChainID,
		DropContractAddress: cfg.DropContractAddress,
		PrivateKeyHex:       cfg.SettlementPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}
	jarSettlement, err := jarevm.NewSettlement(jarevm.SettlementConfig{
		RPCURL:             cfg.RPCURL,
		ChainID:            cfg.ChainID,
		JarContractAddress: cfg.JarContractAddress,
		PrivateKeyHex:      cfg.SettlementPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}

	dropRepo := droppostgres.NewRepository(pg.DB, logger)
	dropModule := dropservice.NewModule(dropservice.Dependencies{
		Repository:    dropRepo,
		Settlement:    dropSettlement,
		ShortCodes:    dropmemory.RandomShortCodes{},
		Clock:         droppostgres.SystemClock{},
		Subscriber:    bus,
		PublicBaseURL: cfg.PublicBaseURL,
		Logger:        logger,
	})

	claimRepo := claimpostgres.NewRepository(pg.DB, logger)
	claimModule := claimservice.NewModule(claimservice.Dependencies{
		Claims:     claimRepo,
		Drops:      claimpostgres.NewDropDirectory(pg.DB),
		Settlement: claimSettlement,
		Outbox:     claimRepo,
		Publisher:  bus,
		Clock:      claimpostgres.SystemClock{},
		IDs:        claimpostgres.UUIDGenerator{},
		Retry:      retry.DefaultConfig(),
		Logger:     logger,
	})

	jarRepo := jarpostgres.NewRepository(pg.DB, logger)
	jarModule := jarservice.NewModule(jarservice.Dependencies{
		Tips:       jarRepo,
		Wallets:    jarRepo,
		Balances:   jarRepo,
		Settlement: jarSettlement,
		Clock:      jarpostgres.SystemClock{},
		IDs:        jarpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	server := httpserver.New(dropModule, claimModule, jarModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogFormat).With("service", cfg.ServiceName, "process", "worker")
	slog.SetDefault(logger)
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus := messaging.NewBus(logger)
	dropRepo := droppostgres.NewRepository(pg.DB, logger)
	claimRepo := claimpostgres.NewRepository(pg.DB, logger)
	jarRepo := jarpostgres.NewRepository(pg.DB, logger)

	jarSettlement, err := jarevm.NewSettlement(jarevm.SettlementConfig{
		RPCURL:             cfg.RPCURL,
		ChainID:            cfg.ChainID,
		JarContractAddress: cfg.JarContractAddress,
		PrivateKeyHex:      cfg.SettlementPrivateKey,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &WorkerApp{
		postgres: pg,
		outboxRelay: claimworkers.OutboxRelay{
			Outbox:    claimRepo,
			Publisher: bus,
			Clock:     claimpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		claimProjection: dropworkers.ClaimProjectionConsumer{
			Repository: dropRepo,
			Subscriber: bus,
			Logger:     logger,
		},
		jarRefresher: &jarworkers.BalanceRefresher{
			Balances:   jarRepo,
			Settlement: jarSettlement,
			Clock:      jarpostgres.SystemClock{},
			Logger:     logger,
		},
		pollInterval:  cfg.WorkerPollInterval,
		jarInterval:   cfg.JarRefreshInterval,
		runProjection: cfg.EnableClaimProjection,
		runRelay:      cfg.EnableOutboxRelay,
		runRefresher:  cfg.EnableJarRefresher,
		logger:        logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.runProjection {
		if err := w.claimProjection.Run(ctx); err != nil {
			return err
		}
	}

	poll := w.pollInterval
	if poll <= 0 {
		poll = 2 * time.Second
	}
	jarEvery := w.jarInterval
	if jarEvery <= 0 {
		jarEvery = 30 * time.Second
	}

	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	jarTicker := time.NewTicker(jarEvery)
	defer jarTicker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", poll.String(),
		"jar_refresh_interval", jarEvery.String(),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if w.runRelay {
				if err := w.outboxRelay.RunOnce(ctx); err != nil {
					return err
				}
			}
		case <-jarTicker.C:
			if w.runRefresher {
				if err := w.jarRefresher.RunOnce(ctx); err != nil && w.logger != nil {
					w.logger.Warn("jar refresh cycle failed",
						"event", "bootstrap_jar_refresh_failed",
						"module", "internal/app/bootstrap",
						"layer", "platform",
						"error", err.Error(),
					)
				}
			}
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
