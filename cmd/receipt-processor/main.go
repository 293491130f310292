package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/receipt-processor/internal/points"
	"github.com/zombor/receipt-processor/internal/receipt"
	"github.com/zombor/receipt-processor/internal/telemetry"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-processor")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		storeType   = fs.StringLong("store", "memory", "Receipt store: 'memory', 'bolt' or 'redis'")
		dbPath      = fs.StringLong("db", "receipts.db", "Database file path for the bolt store")
		redisURL    = fs.StringLong("redis-url", "redis://localhost:6379/0", "Redis URL for the redis store")
		redisPrefix = fs.StringLong("redis-prefix", "receipt-processor", "Key prefix for the redis store")
		redisTTL    = fs.DurationLong("redis-ttl", 0, "Expiry for receipts in the redis store (0 keeps them)")
		logLevel    = fs.StringLong("log-level", "info", "Log level: debug, info, warn or error")
		otelAddr    = fs.StringLong("otel-endpoint", "", "OTLP gRPC collector address for traces, e.g. localhost:4317 (empty disables)")
		otelStdout  = fs.BoolLong("otel-stdout", "Print traces to stdout instead of a collector")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_PROCESSOR"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "error: invalid log level %q\n", *logLevel)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	// Initialize tracing
	if *otelAddr != "" || *otelStdout {
		cfg := telemetry.Config{
			ServiceName: "receipt-processor",
			Version:     version,
			Endpoint:    *otelAddr,
		}
		if *otelStdout {
			cfg.Stdout = os.Stdout
		}
		slog.Info("Initializing tracing...", "endpoint", *otelAddr, "stdout", *otelStdout)
		provider, err := telemetry.New(context.Background(), cfg)
		if err != nil {
			slog.Error("Failed to initialize tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(ctx); err != nil {
				slog.Error("Failed to flush traces", "error", err)
			}
		}()
	}

	// Initialize receipt store
	var db receipt.DB
	switch *storeType {
	case "memory":
		slog.Info("Using in-memory store")
		db = receipt.NewMemoryDB()
	case "bolt":
		slog.Info("Initializing database...", "path", *dbPath)
		boltDB, err := receipt.NewBoltDB(*dbPath)
		if err != nil {
			slog.Error("Failed to initialize database", "error", err)
			os.Exit(1)
		}
		db = boltDB
	case "redis":
		slog.Info("Connecting to redis...", "prefix", *redisPrefix)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisDB, err := receipt.NewRedisDB(ctx, *redisURL, *redisPrefix, *redisTTL)
		cancel()
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		db = redisDB
	default:
		slog.Error("Invalid store type", "type", *storeType, "valid", "memory, bolt or redis")
		os.Exit(1)
	}
	defer db.Close()

	service := receipt.NewService(db, points.NewCalculator())
	server := receipt.NewServer(service)

	addr := fmt.Sprintf(":%d", *port)
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(addr)
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)

	// Wait for interrupt signal or server failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigChan:
	case err := <-errChan:
		if err != nil {
			slog.Error("Server error", "error", err)
			db.Close()
			os.Exit(1)
		}
		return
	}

	slog.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
