package main

import (
	"fmt"

	"github.com/jonathan/profile-editor/internal/config"
	"github.com/jonathan/profile-editor/internal/metrics"
	"github.com/jonathan/profile-editor/internal/profile"
	"github.com/jonathan/profile-editor/internal/server"
	"github.com/jonathan/profile-editor/internal/server/ratelimit"
	"github.com/jonathan/profile-editor/internal/session"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the profile editor web server",
	Long: `Start an HTTP server that renders the profile page and stores each browser's edits.

Configuration is read from the environment (PROFILE_EDITOR_*, DATABASE_URL, REDIS_URL,
SESSION_SECRET) and optionally from a JSON file given with --config. Flags override both.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Log every request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	cfg.Verbose = cfg.Verbose || serveVerbose
	if err := cfg.Validate(); err != nil {
		return err
	}

	sessionCfg, err := config.NewSessionConfig()
	if err != nil {
		return fmt.Errorf("failed to create session config: %w", err)
	}
	tokens := session.NewTokens(sessionCfg)

	limitCfg, err := ratelimit.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load rate limit config: %w", err)
	}

	backend, err := openBackend(cmd.Context(), cfg, tokens.TTL())
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}

	m := metrics.New()
	source := profile.NewSimulatedSource(cfg.FetchDelayDuration())
	sessions := session.NewManager(backend, tokens, source, m, cfg.PageIdleTimeoutDuration())

	srv, err := server.New(server.Config{Port: cfg.Port, Verbose: cfg.Verbose}, server.Deps{
		Backend:     backend,
		Sessions:    sessions,
		Metrics:     m,
		RateLimiter: ratelimit.NewLimiter(limitCfg),
	})
	if err != nil {
		_ = backend.Close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}
