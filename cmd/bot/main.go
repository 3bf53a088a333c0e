package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/aliskhannn/teachme-bot/internal/config"
	"github.com/aliskhannn/teachme-bot/internal/delivery/telegram"
	"github.com/aliskhannn/teachme-bot/internal/infra/bolt"
	"github.com/aliskhannn/teachme-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/teachme-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/teachme-bot/internal/logger"
	"github.com/aliskhannn/teachme-bot/internal/metrics"
	"github.com/aliskhannn/teachme-bot/internal/repository"
	"github.com/aliskhannn/teachme-bot/internal/service"
	"github.com/aliskhannn/teachme-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openSlotBackend(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeKV()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, lg); err != nil {
				lg.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	slot := repository.NewSlotRepository(kv, cfg.Storage.SlotKey)
	store := storage.Hydrate(ctx, slot, slot,
		storage.WithLogger(lg.Named("store")),
		storage.WithMetrics(m),
	)

	images := service.NewImageEncoder(cfg.Images.MaxBytes, lg.Named("images"), m)
	controller := service.NewController(store, images, lg.Named("controller"), m)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create telegram bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{
			Command:     "start",
			Description: "Start the bot",
		},
		{
			Command:     "practice",
			Description: "Practice a topic",
		},
		{
			Command:     "newtopic",
			Description: "Create a topic (usage: /newtopic Geography)",
		},
		{
			Command:     "add",
			Description: "Add a question",
		},
		{
			Command:     "bank",
			Description: "Browse and delete questions",
		},
		{
			Command:     "clear",
			Description: "Delete all topics and questions",
		},
		{
			Command:     "help",
			Description: "Help",
		},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("authorized on telegram",
		zap.String("account", bot.Self.UserName),
		zap.Int64("owner_id", cfg.OwnerID),
		zap.String("slot", slot.Key()),
	)

	handler := telegram.NewHandler(bot, lg.Named("telegram"), controller, store, cfg.OwnerID)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler failed", zap.Error(err))
	}

	bot.StopReceivingUpdates()
	lg.Info("shutdown signal received")
}

// openSlotBackend opens the key/value store that holds the persisted bank.
func openSlotBackend(ctx context.Context, cfg *config.Config, lg *zap.Logger) (repository.KV, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverBolt:
		db, err := bolt.Open(cfg.Storage.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		lg.Info("using bolt storage", zap.String("path", cfg.Storage.BoltPath))
		return db, func() { _ = db.Close() }, nil

	default:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		slots := pgrepo.NewSlotStore(pool)
		if err := slots.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		lg.Info("using postgres storage")
		return slots, pool.Close, nil
	}
}
