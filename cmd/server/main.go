package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/SheenArtem/StockCSVDownload/internal/batch"
	"github.com/SheenArtem/StockCSVDownload/internal/collector"
	"github.com/SheenArtem/StockCSVDownload/internal/config"
	"github.com/SheenArtem/StockCSVDownload/internal/logger"
	"github.com/SheenArtem/StockCSVDownload/internal/notifier"
	"github.com/SheenArtem/StockCSVDownload/internal/recorder"
	"github.com/SheenArtem/StockCSVDownload/internal/scheduler"
	"github.com/SheenArtem/StockCSVDownload/internal/server"
)

func main() {
	// Load config
	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if err := logger.Setup(cfg.Log, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("logger setup")
	}
	log.Info().Str("config", cfgPath).Msg("StockCSVDownload starting")

	// Init sources
	fetcher := collector.NewYahooFetcher(cfg.Proxy)
	var chips collector.ChipSource
	if !cfg.FinMind.Disable {
		chips = collector.NewFinMindSource(cfg.FinMind.Token, cfg.Proxy)
	}
	log.Info().Str("prices", fetcher.Name()).Bool("chips", chips != nil).Msg("data sources ready")

	col := collector.NewCollector(fetcher, chips, cfg.Ownership)

	// Init metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := recorder.NewPrometheusRecorder(reg)

	runner := batch.NewRunner(cfg.Download.Workers, cfg.Download.Timeout, rec)
	tmpl := collector.Request{
		Period:   cfg.Download.Period,
		Interval: cfg.Download.Interval,
		Resample: cfg.Download.Resample,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	var n scheduler.Notifier
	if cfg.NotifyEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, runner, n, scheduler.Options{
		Watchlist: cfg.Watchlist,
		Request:   tmpl,
		ExportDir: cfg.Export.Dir,
	})
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	// Init HTTP API
	srv := server.New(server.NewFrameHandler(col, runner, tmpl, cfg.Watchlist),
		server.WithAddr(cfg.HTTP.Addr),
		server.WithTimeouts(cfg.HTTP.ReadTimeout, cfg.HTTP.WriteTimeout, 10*time.Second),
		server.WithGatherer(reg),
	)
	srv.Start()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, refreshing watchlist now")
		go sched.RunRefreshNow()
	}

	log.Info().Msg("StockCSVDownload is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	if err := srv.Stop(context.Background()); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("StockCSVDownload stopped")
}
