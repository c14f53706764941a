package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/chatrelay/internal/api"
	"github.com/newthinker/chatrelay/internal/chat"
	"github.com/newthinker/chatrelay/internal/config"
	"github.com/newthinker/chatrelay/internal/llm"
	"github.com/newthinker/chatrelay/internal/llm/groq"
	"github.com/newthinker/chatrelay/internal/logger"
	"github.com/newthinker/chatrelay/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var templatesDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat relay server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&templatesDir, "templates", "", "serve the UI from this directory instead of the embedded copy")
	rootCmd.AddCommand(serveCmd)
}

// newChatService wires the orchestrator to the Groq adapter. rec may be nil.
func newChatService(resolver *config.ProviderResolver, log *zap.Logger, rec chat.Recorder) *chat.Service {
	adapter := llm.NewAdapter(groq.Factory, log.Named("llm"))
	return chat.NewService(resolver, adapter,
		chat.WithLogger(log.Named("chat")),
		chat.WithRecorder(rec),
	)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Initialize logger
	log := logger.Must(debug || cfg.Log.Debug)
	defer log.Sync()

	if cfgFile == "" {
		log.Info("no config file specified, using defaults and environment")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	resolver := config.NewProviderResolver()
	if _, err := resolver.Resolve(); err != nil {
		// Provider settings are re-read per request, so a bad environment
		// at startup is not fatal.
		log.Warn("provider configuration incomplete", zap.Error(err))
	}
	if resolver.ServiceKey() == "" {
		log.Warn("SERVICE_API_KEY not set, chat endpoints are unauthenticated")
	}

	var reg *metrics.Registry
	var rec chat.Recorder
	if cfg.Metrics.Enabled {
		reg = metrics.NewRegistry()
		rec = reg
	}

	log.Info("starting chat relay",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("cors", cfg.Server.CORSEnabled),
		zap.Bool("metrics", cfg.Metrics.Enabled),
	)

	// Create API server
	server, err := api.NewServer(api.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		CORSEnabled:    cfg.Server.CORSEnabled,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		TemplatesDir:   templatesDir,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
	}, api.Dependencies{
		Chat:       newChatService(resolver, log, rec),
		ServiceKey: resolver.ServiceKey,
		Metrics:    reg,
	}, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Info("listening", zap.String("addr", server.Addr()))

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down chat relay")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
