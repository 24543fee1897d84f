// Package main is the entry point for the flash loan arbitrage engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/Anuj0x/AaveFlashToolkit/business/access"
	"github.com/Anuj0x/AaveFlashToolkit/business/intake"
	intakeDI "github.com/Anuj0x/AaveFlashToolkit/business/intake/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/loan"
	"github.com/Anuj0x/AaveFlashToolkit/business/strategy"
	"github.com/Anuj0x/AaveFlashToolkit/business/treasury"
	treasuryDI "github.com/Anuj0x/AaveFlashToolkit/business/treasury/di"
	"github.com/Anuj0x/AaveFlashToolkit/business/venues"
	"github.com/Anuj0x/AaveFlashToolkit/internal/apm"
	"github.com/Anuj0x/AaveFlashToolkit/internal/config"
	"github.com/Anuj0x/AaveFlashToolkit/internal/health"
	"github.com/Anuj0x/AaveFlashToolkit/internal/logger"
	"github.com/Anuj0x/AaveFlashToolkit/internal/metrics"
	"github.com/Anuj0x/AaveFlashToolkit/internal/monolith"
	"github.com/Anuj0x/AaveFlashToolkit/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	routeFile := flag.String("route", "", "Execute a single route submission file and exit (implies -cli)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flasharb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default; CLI is for debugging and one-shot routes.
	tuiMode := !*cliMode && *routeFile == ""

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, *routeFile, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, routeFile string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting flash loan arbitrage engine",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	healthServer.RegisterCheck("store", func(ctx context.Context) (bool, string) {
		if _, err := mono.Store().Count(ctx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})

	// Modules in dependency order: the gate first, then venues the
	// strategy engine routes through, then the treasury the loan module
	// records into, intake last.
	modules := []monolith.Module{
		&access.Module{},
		&venues.Module{},
		&strategy.Module{},
		&treasury.Module{},
		&loan.Module{},
		&intake.Module{},
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if tuiMode {
		startFunc := func() error {
			return mono.StartModules(ctx, modules...)
		}
		return runTUI(ctx, mono, startFunc)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	if routeFile != "" {
		return runRouteFile(ctx, mono, routeFile, log)
	}
	return runCLI(ctx, log)
}

// runRouteFile executes one submission from disk and exits.
func runRouteFile(ctx context.Context, mono monolith.Monolith, path string, log *logger.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read route file: %w", err)
	}

	svc := intakeDI.GetService(mono.Services())
	rec, err := svc.Submit(ctx, data)
	if err != nil {
		return fmt.Errorf("route execution failed: %w", err)
	}

	log.Info(ctx, "route executed",
		"id", rec.ID,
		"asset", rec.Asset,
		"variant", rec.VariantName,
		"profit", rec.ProfitRaw,
	)
	fmt.Printf("committed: %s profit=%s premium=%s\n", rec.ID, rec.ProfitRaw, rec.PremiumRaw)
	return nil
}

func runCLI(ctx context.Context, log *logger.Logger) error {
	log.Info(ctx, "all modules started, consuming route feed")
	<-ctx.Done()
	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, mono monolith.Monolith, startFunc func() error) error {
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		stepNames := []string{"config", "ledger", "venues", "facility", "feed"}
		ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
		ui.Send(ui.StartupMsg{Step: "ledger", Status: "done"})
		ui.Send(ui.StartupMsg{Step: "venues", Status: "starting"})

		if err := startFunc(); err != nil {
			for _, step := range stepNames {
				ui.Send(ui.StartupMsg{Step: step, Status: "failed"})
			}
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		for _, step := range stepNames {
			ui.Send(ui.StartupMsg{Step: step, Status: "done"})
		}

		go pollStats(ctx, mono)

		<-ctx.Done()
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// pollStats feeds the console counters once per second.
func pollStats(ctx context.Context, mono monolith.Monolith) {
	treasurySvc := treasuryDI.GetService(mono.Services())
	st := mono.Store()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			view := treasurySvc.GetStats()
			total, err := st.Count(ctx)
			if err != nil {
				continue
			}
			ui.Send(ui.StatsMsg{
				Executions:       total,
				Committed:        view.ExecutionCount,
				Aborted:          total - view.ExecutionCount,
				CumulativeProfit: view.CumulativeProfit.String(),
				Paused:           view.Paused,
			})
		}
	}
}
