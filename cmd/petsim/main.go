package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"pubsubhub/internal/hub"
	"pubsubhub/internal/hub/metrics"
	"pubsubhub/internal/hub/tracing"
	"pubsubhub/internal/petsim"
)

type Config struct {
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info"`
	ScenarioFile   string        `env:"SCENARIO_FILE"`
	StepInterval   time.Duration `env:"STEP_INTERVAL" envDefault:"0s"`
	ProfileDir     string        `env:"PROFILE_DIR"`
	MetricsEnabled bool          `env:"METRICS_ENABLED" envDefault:"false"`
	TracingEnabled bool          `env:"TRACING_ENABLED" envDefault:"false"`

	Metrics metrics.ServerConfig
	Tracing tracing.Config
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse environment variables: %v", err)
	}

	if cfg.ProfileDir != "" {
		stop, err := startProfiling(cfg.ProfileDir)
		if err != nil {
			log.Fatalf("failed to start profiling: %v", err)
		}
		defer stop()
	}

	config := zap.NewProductionConfig()

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Printf("invalid log level %q, defaulting to info: %v", cfg.LogLevel, err)
		zapLevel = zapcore.InfoLevel
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	logger, err := config.Build(zap.AddCaller())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	scenario, err := petsim.LoadScenario(cfg.ScenarioFile)
	if err != nil {
		logger.Fatal("failed to load scenario", zap.Error(err))
	}

	// Layer order: Tracing -> Metrics -> delivery
	var middleware []hub.Middleware

	if cfg.TracingEnabled {
		tracer, tracingCleanup, err := tracing.NewTracer(cfg.Tracing)
		if err != nil {
			logger.Fatal("failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracingCleanup(shutdownCtx); err != nil {
				logger.Error("failed to cleanup tracing", zap.Error(err))
			}
		}()

		logger.Info("tracing initialized",
			zap.String("service", cfg.Tracing.ServiceName),
			zap.String("jaeger_endpoint", cfg.Tracing.JaegerEndpoint),
			zap.Float64("sample_rate", cfg.Tracing.SampleRate),
		)
		middleware = append(middleware, hub.TracingMiddleware(tracer))
	}

	var metricsServer *metrics.Server
	if cfg.MetricsEnabled {
		registry := metrics.NewRegistry()
		registry.SetSystemInfo("petsim", time.Now().Format(time.RFC3339))
		metricsServer = metrics.NewServer(cfg.Metrics, registry, logger)

		logger.Info("metrics enabled",
			zap.String("endpoint", fmt.Sprintf("http://localhost:%d/metrics", cfg.Metrics.Port)),
			zap.String("health", fmt.Sprintf("http://localhost:%d/health", cfg.Metrics.Port)),
		)
		middleware = append(middleware, hub.MetricsMiddleware(registry))
	}

	sim, err := petsim.NewSimulation(scenario, logger, hub.WithMiddleware(middleware...))
	if err != nil {
		logger.Fatal("failed to create simulation", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	if metricsServer != nil {
		g.Go(func() error {
			return metricsServer.Start(gctx)
		})
	}

	// the hub is only ever touched from this goroutine
	g.Go(func() error {
		defer cancel()
		return run(gctx, sim, cfg.StepInterval)
	})

	if err := g.Wait(); err != nil {
		logger.Error("simulation failed", zap.Error(err))
	}

	for _, status := range sim.Report() {
		logger.Info("pet status",
			zap.String("name", status.Name),
			zap.String("kind", status.Kind),
			zap.Int("eaten", status.Eaten),
			zap.Int("slept", status.Slept),
			zap.Int("naps", status.Naps),
		)
	}

	fmt.Printf("\n\n SIMULATION COMPLETE IN %.2f seconds\n", time.Since(now).Seconds())
}

func run(ctx context.Context, sim *petsim.Simulation, interval time.Duration) error {
	if interval <= 0 {
		return sim.Run(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, step := range sim.Scenario().Steps {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := sim.Step(ctx, step); err != nil {
				return fmt.Errorf("failed to publish step: %w", err)
			}
		}
	}

	return nil
}

func startProfiling(dir string) (func(), error) {
	cpuProfile, err := os.Create(filepath.Join(dir, "cpu.pprof"))
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuProfile); err != nil {
		cpuProfile.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}

	return func() {
		pprof.StopCPUProfile()
		cpuProfile.Close()

		memProfile, err := os.Create(filepath.Join(dir, "mem.pprof"))
		if err != nil {
			log.Printf("could not create memory profile: %v", err)
			return
		}
		defer memProfile.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(memProfile); err != nil {
			log.Printf("could not write memory profile: %v", err)
		}
	}, nil
}
