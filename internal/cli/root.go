// Package cli wires configuration, logging, storage and the categorization
// engine into the mailbuckets commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/mailbuckets/internal/categorize"
	"github.com/nhle/mailbuckets/internal/credential"
	"github.com/nhle/mailbuckets/internal/llm"
	"github.com/nhle/mailbuckets/internal/logging"
	"github.com/nhle/mailbuckets/internal/mail"
	"github.com/nhle/mailbuckets/internal/model"
	"github.com/nhle/mailbuckets/internal/store"
)

var (
	configPath  string
	metricsAddr string
)

var rootCmd = &cobra.Command{
	Use:   "mailbuckets",
	Short: "Sort unread mail into buckets with a local language model",
	Long: "mailbuckets fetches unread messages over IMAP and asks a local Ollama model " +
		"to place each one in a user-defined bucket, with a confidence score and summary.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "Path to the config file")
	rootCmd.PersistentFlags().String("model", "", "Ollama model name")
	rootCmd.PersistentFlags().String("ollama-host", "", "Ollama server address")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	rootCmd.AddCommand(tuiCmd, categorizeCmd, bucketsCmd, loginCmd, logoutCmd, configCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env holds the components shared by every command.
type env struct {
	cfg      *model.AppConfig
	logger   *zap.Logger
	registry *prometheus.Registry
}

// setup loads configuration and starts logging. The returned cleanup
// flushes the logger.
func setup(cmd *cobra.Command) (*env, func(), error) {
	cfg, err := model.LoadConfig(configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("starting logger: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	cleanup := func() {
		_ = logger.Sync()
	}

	logger.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.String("model", cfg.Ollama.Model),
		zap.String("ollama_host", cfg.Ollama.Host),
		zap.String("store", cfg.Store.Path),
	)

	return &env{cfg: cfg, logger: logger, registry: reg}, cleanup, nil
}

// openStore opens the bucket database.
func (e *env) openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(e.cfg.Store.Path, e.logger)
	if err != nil {
		return nil, fmt.Errorf("opening bucket store: %w", err)
	}
	return s, nil
}

// newEngine connects to Ollama and validates the configured model.
func (e *env) newEngine(ctx context.Context) (*categorize.Engine, error) {
	backend, err := llm.NewOllama(e.cfg.Ollama.Host, nil, e.logger)
	if err != nil {
		return nil, err
	}

	return categorize.New(ctx, backend, categorize.ConfigFromApp(e.cfg.Ollama),
		categorize.WithLogger(e.logger),
		categorize.WithMetrics(categorize.NewMetrics(e.registry)),
	)
}

// newMailClient resolves the mail password and returns an IMAP client.
func (e *env) newMailClient() (*mail.Client, error) {
	creds, err := credential.Open()
	if err != nil {
		e.logger.Warn("keyring unavailable", zap.Error(err))
	} else if err := creds.ResolveMailPassword(&e.cfg.Mail); err != nil {
		e.logger.Warn("reading mail password from keyring failed", zap.Error(err))
	}

	if err := e.cfg.Mail.Validate(); err != nil {
		return nil, fmt.Errorf("mail account: %w (run 'mailbuckets login' or set GMAIL_EMAIL and GMAIL_APP_PASSWORD)", err)
	}

	return mail.NewClient(e.cfg.Mail, e.logger), nil
}

// serveMetrics exposes the registry on metricsAddr until ctx is done. It
// does nothing when no address is configured.
func (e *env) serveMetrics(ctx context.Context) {
	if metricsAddr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              metricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			e.logger.Warn("shutting down metrics server", zap.Error(err))
		}
	}()

	go func() {
		e.logger.Info("serving metrics", zap.String("addr", metricsAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", zap.Error(err))
		}
	}()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
