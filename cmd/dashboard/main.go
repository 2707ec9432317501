package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"adminboard/internal/app"
	"adminboard/internal/config"
	"adminboard/internal/util"
)

func main() {
	cfgPath := flag.String("config", config.ConfigPath, "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	timeout, err := config.ParseDuration("requestTimeout", cfg.RequestTimeout)
	if err != nil {
		log.Fatalf("failed to parse request timeout: %v", err)
	}
	latencyMin, err := config.ParseDuration("latencyMin", cfg.LatencyMin)
	if err != nil {
		log.Fatalf("failed to parse latency: %v", err)
	}
	latencyMax, err := config.ParseDuration("latencyMax", cfg.LatencyMax)
	if err != nil {
		log.Fatalf("failed to parse latency: %v", err)
	}
	tokenTTL, err := config.ParseDuration("tokenTTL", cfg.TokenTTL)
	if err != nil {
		log.Fatalf("failed to parse token TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	core, err := app.New(app.Config{
		Development:    cfg.Development(),
		APIBaseURL:     cfg.APIBaseURL,
		RequestTimeout: timeout,
		DataSource:     cfg.DataSource,
		PageSize:       cfg.PageSize,
		LatencyMin:     latencyMin,
		LatencyMax:     latencyMax,
		Storage:        cfg.Storage,
		StatePath:      cfg.StatePath,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		RedisPrefix:    cfg.RedisPrefix,
		DownloadDir:    cfg.DownloadDir,
		LoginPolicy:    cfg.LoginPolicy,
		SharedPassword: cfg.SharedPassword,
		LoginPath:      cfg.LoginPath,
		TokenIssuer:    cfg.TokenIssuer,
		TokenSecret:    cfg.TokenSecret,
		TokenTTL:       tokenTTL,
		Logger:         logger,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	defer core.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, _ = util.EnsureRequestID(ctx)

	authenticated := core.Boot(ctx, false)
	if redirect := core.Session.Guard(ctx, "/"); redirect != "" {
		logger.Info("route guarded", "path", "/", "redirect", redirect)
	}
	if err := core.Refresh(ctx); err != nil {
		logger.Error("refresh failed", "err", err)
		return
	}

	stats := core.Dashboard.Stats()
	logger.Info("dashboard ready",
		"authenticated", authenticated,
		"theme", core.Theme.Theme(),
		"users", stats.TotalUsers,
		"orders", stats.TotalOrders,
		"revenue", stats.TotalRevenue.StringFixed(2),
		"order_counts", core.Catalog.Orders.CountsByStatus(),
	)
}
