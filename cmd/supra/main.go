package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	flag "github.com/spf13/pflag"

	"github.com/tailored-agentic-units/supra/engine"
	"github.com/tailored-agentic-units/supra/observability"
	"github.com/tailored-agentic-units/supra/server"

	_ "github.com/tailored-agentic-units/supra/oracle/openai"
)

func main() {
	var (
		configFile  = flag.StringP("config", "c", "", "Path to engine config JSON file")
		preferences = flag.StringP("preferences", "p", "", "Dietary preferences for the session")
		catalogPath = flag.String("catalog", "", "Path to restaurant catalog file or directory (overrides config)")
		provider    = flag.String("provider", "", "Oracle provider (overrides config)")
		model       = flag.String("model", "", "Oracle model (overrides config)")
		limit       = flag.Int("limit", 0, "Maximum selection size (overrides config)")
		serve       = flag.String("serve", "", "Serve the session service on this address instead of chatting")
		remote      = flag.String("remote", "", "Chat through a session service at this URL")
		observer    = flag.String("observer", "slog", "Comma-separated observers (noop, slog, metrics)")
		idleTimeout = flag.Duration("idle-timeout", 30*time.Minute, "Discard served sessions idle this long (0 keeps them until closed)")
		verbose     = flag.BoolP("verbose", "v", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	observability.RegisterObserver("slog", observability.NewSlogObserver(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *remote != "" {
		client := server.NewClient(http.DefaultClient, *remote)
		conv, err := startRemote(ctx, client, *preferences)
		if err != nil {
			log.Fatalf("Failed to start remote session: %v", err)
		}
		if err := runREPL(ctx, os.Stdin, os.Stdout, conv); err != nil {
			log.Fatalf("Session failed: %v", err)
		}
		return
	}

	cfg := engine.DefaultConfig()
	if *configFile != "" {
		loaded, err := engine.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}

	if *catalogPath != "" {
		cfg.Catalog.Path = *catalogPath
	}
	if *provider != "" {
		cfg.Oracle.Provider = *provider
	}
	if *model != "" {
		cfg.Oracle.Model = *model
	}
	if *limit > 0 {
		cfg.Limit = *limit
	}
	if cfg.Oracle.Provider == "" {
		cfg.Oracle.Provider = "openai"
	}
	cfg.Oracle.ResolveAPIKey()

	registry := prometheus.NewRegistry()
	metrics, err := observability.NewMetricsObserver(registry)
	if err != nil {
		log.Fatalf("Failed to create metrics observer: %v", err)
	}
	observability.RegisterObserver("metrics", metrics)

	obs, err := observability.Compose(*observer)
	if err != nil {
		log.Fatalf("Invalid observer: %v", err)
	}

	if *serve != "" {
		mgr := server.NewManager(&cfg, engine.WithObserver(obs))
		if *idleTimeout > 0 {
			go evictIdle(ctx, mgr, *idleTimeout, logger)
		}
		handler := server.NewHandler(server.NewService(mgr), registry)
		if err := server.NewHTTPServer(*serve, handler, logger).Serve(ctx); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	e, err := engine.New(&cfg, engine.WithObserver(obs))
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	if err := e.Start(ctx, *preferences); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	if err := runREPL(ctx, os.Stdin, os.Stdout, localConversation{engine: e}); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

func evictIdle(ctx context.Context, mgr *server.Manager, idle time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(max(idle/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ids := mgr.EvictIdle(now.Add(-idle)); len(ids) > 0 {
				logger.Info("evicted idle sessions", "count", len(ids))
			}
		}
	}
}
