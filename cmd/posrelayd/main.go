package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/posrelay/server/internal/config"
	"github.com/posrelay/server/internal/game"
	"github.com/posrelay/server/internal/handler"
	gonet "github.com/posrelay/server/internal/net"
	"github.com/posrelay/server/internal/persist"
	"github.com/posrelay/server/internal/session"
	"github.com/posrelay/server/internal/system"
	"github.com/posrelay/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            posrelay  v0.1.0               \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      UDP world-state sync server          \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s\n\n", serverName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("POSRELAY_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name)

	// 3. Open the identity store
	printSection("identity store")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	// 4. Seed the session registry from persisted identities
	stored, err := store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load identities: %w", err)
	}
	printStat("persisted identities", len(stored))
	fmt.Println()

	// 5. Build the consistency domain
	registry := session.NewRegistry(stored)
	worldState := world.NewState()
	validator := world.NewValidator(
		cfg.Movement.ToleranceMeters,
		cfg.Movement.MaxDelta.Seconds(),
	)
	hub := game.NewHub(registry, worldState, validator)

	// 6. Create the network server
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, cfg.Network.MaxDatagramSize, log)
	if err != nil {
		return fmt.Errorf("net server: %w", err)
	}

	// 7. Wire the dispatcher
	deps := &handler.Deps{
		Hub:    hub,
		Net:    netServer,
		Config: cfg,
		Log:    log,
	}
	dispatcher := handler.NewDispatcher(log)
	handler.RegisterAll(dispatcher, deps)

	go netServer.ReadLoop(dispatcher.Handle)

	// 8. Start the liveness reaper
	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	reaper := system.NewLivenessReaper(
		hub, store, deps,
		cfg.Session.SweepInterval,
		cfg.Session.InactivityTimeout,
		log,
	)
	go reaper.Run(reaperCtx)

	printSection("server ready")
	printReady(fmt.Sprintf("listening on %s", netServer.Addr()))
	printReady(fmt.Sprintf("reaper sweep %s, inactivity timeout %s",
		cfg.Session.SweepInterval, cfg.Session.InactivityTimeout))
	fmt.Println()

	// 9. Wait for shutdown
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdownCh
	log.Info("shutdown signal received", zap.String("signal", sig.String()))

	stopReaper()
	netServer.Shutdown()
	log.Info("server stopped")
	return nil
}

// openStore builds the configured identity backend. The returned close
// function may be nil (the file store has nothing to close).
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.Store, func(), error) {
	switch cfg.Identity.Backend {
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		printOK("postgres connected, migrations applied")
		return persist.NewIdentityRepo(db), db.Close, nil
	case "file":
		fs, err := persist.NewFileStore(cfg.Identity.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("identity file: %w", err)
		}
		printOK(fmt.Sprintf("identity file %s", cfg.Identity.Path))
		return fs, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown identity backend %q", cfg.Identity.Backend)
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
