// Package main implements the entry point for the Fakebook server: a
// social-graph dataset exposed through a graph query endpoint with nested
// field resolution and a fixed-route lookup API, with token-based
// authentication gating the like mutation and the protected profile route.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fakebook/fakebook/auth"
	"github.com/fakebook/fakebook/config"
	"github.com/fakebook/fakebook/gateway/graphql"
	resthttp "github.com/fakebook/fakebook/gateway/http"
	"github.com/fakebook/fakebook/graph"
	"github.com/fakebook/fakebook/metric"
	"github.com/fakebook/fakebook/store"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "fakebook"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	server, err := buildServer(cfg, logger)
	if err != nil {
		return err
	}

	if err := server.Setup(); err != nil {
		return fmt.Errorf("setup server: %w", err)
	}

	return runWithSignalHandling(server, cliCfg.ShutdownTimeout)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printDetailedHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	slog.Info("Starting Fakebook server",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cliCfg.ConfigPath)

	return cliCfg, logger, false, nil
}

// buildServer wires the dataset store, auth, resolvers, metrics, and the
// two gateway surfaces into the central HTTP server.
func buildServer(cfg *config.Config, logger *slog.Logger) (*graphql.Server, error) {
	st, err := store.Open(cfg.Dataset.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}

	users, posts, comments := st.Counts()
	slog.Info("Dataset loaded",
		"path", cfg.Dataset.Path,
		"users", users,
		"posts", posts,
		"comments", comments)

	tokens, err := auth.NewService(cfg.Auth.Secret, cfg.TokenTTL())
	if err != nil {
		return nil, fmt.Errorf("create token service: %w", err)
	}
	gate := auth.NewGate(tokens, logger)

	relations := graph.NewResolver(st)
	registry := metric.NewRegistry()

	engine := graphql.NewEngine(relations, st, registry.Metrics, logger)
	rest := resthttp.NewGateway(st, tokens, gate, registry.Metrics, logger)

	server, err := graphql.NewServer(cfg, engine, gate, registry, logger, rest)
	if err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}

	slog.Info("Surfaces configured",
		"graphql", cfg.Server.GraphQLPath,
		"rest", "/rest, /login",
		"address", cfg.Server.BindAddress)

	return server, nil
}

// runWithSignalHandling starts the server and handles shutdown signals
func runWithSignalHandling(server *graphql.Server, shutdownTimeout time.Duration) error {
	signalCtx, signalCancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer signalCancel()

	ready := make(chan struct{})
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(signalCtx, ready)
	}()

	select {
	case <-ready:
		slog.Info("Fakebook started successfully")
	case err := <-errChan:
		return fmt.Errorf("start server: %w", err)
	}

	<-signalCtx.Done()
	slog.Info("Received shutdown signal")

	if err := server.Stop(shutdownTimeout); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	if err := <-errChan; err != nil {
		return err
	}

	slog.Info("Fakebook shutdown complete")
	return nil
}
