package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhagglund/navpulse/internal/api"
	"github.com/jhagglund/navpulse/internal/config"
	"github.com/jhagglund/navpulse/internal/db"
	"github.com/jhagglund/navpulse/internal/engine"
	"github.com/jhagglund/navpulse/internal/holdings"
	"github.com/jhagglund/navpulse/internal/marketdata"
	"github.com/jhagglund/navpulse/internal/notifications"
	"github.com/jhagglund/navpulse/internal/repository"
	"github.com/jhagglund/navpulse/internal/report"
	"github.com/jhagglund/navpulse/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║      navpulse — ETF NAV engine       ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	serve := flag.Bool("serve", false, "run as a daemon with scheduler and status API")
	flag.Parse()

	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Holdings source cascade. Unconfigured candidates are skipped entirely.
	var sources []holdings.Source
	if cfg.HoldingsXLSXPath != "" {
		sources = append(sources, holdings.NewXLSXSource(cfg.HoldingsXLSXPath, cfg.HoldingsSheet, cfg.HoldingsHeaderRow))
	}
	if cfg.HoldingsCSVURL != "" {
		sources = append(sources, holdings.NewRemoteCSVSource(cfg.HoldingsCSVURL, cfg.HTTPTimeout()))
	}
	if cfg.ProductPageURL != "" {
		sources = append(sources, holdings.NewPageSource(cfg.ProductPageURL, cfg.HTTPTimeout()))
	}
	if cfg.SnapshotCSVPath != "" {
		sources = append(sources, holdings.NewSnapshotCSVSource(cfg.SnapshotCSVPath))
	}
	loader := holdings.NewLoader(decimal.NewFromFloat(cfg.WeightSumTolerance), sources...)

	// Market data
	client := marketdata.NewClient(cfg.PriceAPIBaseURL, cfg.HTTPTimeout())
	fetcher := marketdata.NewFetcher(client, cfg.FetchConcurrency)

	// Result sinks. Files are always written; DB and webhook are optional.
	reporters := report.Multi{report.NewFileReporter(cfg.ResultFile, cfg.SourceFile)}

	var pool *pgxpool.Pool
	if cfg.DBEnabled {
		fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
		pool, err = db.Connect(cfg.DSN())
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			pool.Close()
			fmt.Println("[DB] Connection pool closed")
		}()

		if err := db.TestConnection(pool); err != nil {
			fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
			os.Exit(1)
		}

		reporters = append(reporters, report.NewRepoReporter(repository.NewNavRepo(pool)))
	}

	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)
	if notify.Enabled() {
		reporters = append(reporters, report.NewWebhookReporter(notify))
	}

	eng := engine.New(loader, fetcher, reporters,
		decimal.NewFromFloat(cfg.SharesOutstanding),
		decimal.NewFromFloat(cfg.MinCoverageRatio))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !*serve {
		runOnce(ctx, eng)
		return
	}

	runDaemon(ctx, cfg, eng, pool)
}

// runOnce performs a single estimation run and exits non-zero on failure.
// The artifacts are written either way.
func runOnce(ctx context.Context, eng *engine.Engine) {
	if err := eng.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %v\n", err)
		os.Exit(1)
	}
}

func runDaemon(ctx context.Context, cfg *config.Config, eng *engine.Engine, pool *pgxpool.Pool) {
	// 1. Status API (needs the run history DB)
	var srv *api.Server
	if pool != nil {
		srv = api.NewServer(pool, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
				os.Exit(1)
			}
		}()
	} else {
		fmt.Println("[API] Skipped - run history DB not enabled")
	}

	// 2. Scheduler
	sched := scheduler.NewNavScheduler(cfg.ScheduleCron, 5*time.Minute, eng.Run)
	if err := sched.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "[SCHEDULER] Start failed: %v\n", err)
		os.Exit(1)
	}

	// 3. Initial run on startup (fire-and-forget)
	go func() {
		runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		defer cancel()
		if err := eng.Run(runCtx); err != nil {
			fmt.Printf("[ENGINE] Initial run failed: %v\n", err)
		}
	}()

	fmt.Println("\nAll services started successfully")

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	sched.Stop()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
		}
		fmt.Println("[API] Server closed")
	}
	fmt.Println("Shutdown complete")
}
