package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeffcaradona/data-contract-library/internal/bootstrap/config"
	"github.com/jeffcaradona/data-contract-library/internal/server"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	configPath := flag.String("config", "", "Path to contractd.yaml (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("contractd version=%s commit=%s build_date=%s\n", version, commit, buildDate)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg := config.LoadFromPath(*configPath)
	if *addr != "" {
		cfg.Addr = *addr
	}

	srv := server.New(cfg, log)
	log.Info("contractd starting", "addr", cfg.Addr)
	if err := srv.Run(ctx); err != nil {
		log.Error("contractd failed", "error", err)
		os.Exit(1)
	}
	log.Info("contractd stopped")
}
