package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/felixp33/CloudGuardian/internal/auth/github"
	"github.com/felixp33/CloudGuardian/internal/cache"
	"github.com/felixp33/CloudGuardian/internal/config"
	"github.com/felixp33/CloudGuardian/internal/server"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	configPathShort := flag.String("c", "", "path to configuration file (short)")
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading the environment")
	showVersion := flag.Bool("version", false, "show version and exit")
	showHelp := flag.Bool("help", false, "show help and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("CloudGuardian gateway v%s\n", version)
		os.Exit(0)
	}

	if *showHelp {
		fmt.Println("CloudGuardian gateway - GitHub sign-in and repository API for the dashboard")
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfgPath := *configPath
	if *configPathShort != "" {
		cfgPath = *configPathShort
	}

	if err := run(cfgPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	logger.Info("starting cloudguardian", "version", version)

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		logger.Warn("github oauth app is not fully configured; sign-in will be rejected by github",
			"missing", missing,
		)
	}

	cacheInstance, err := cache.New(cfg.Cache)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	logger.Info("cache initialized", "type", cfg.Cache.Type)

	httpClient := &http.Client{Timeout: cfg.GitHub.Timeout}
	provider := github.NewProvider(cfg.GitHub, cfg.Server.CallbackURL(), cacheInstance, httpClient)
	logger.Info("provider initialized",
		"name", provider.Name(),
		"callback_url", cfg.Server.CallbackURL(),
		"state_check", cfg.GitHub.StateCheck,
	)

	return server.New(*cfg, cacheInstance, provider, logger).Start()
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler)
}
