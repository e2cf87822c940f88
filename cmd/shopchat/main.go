// Package main provides the shopchat service entry point. Shopchat is a
// conversational shopping assistant that routes user messages through an LLM
// generation service able to search the product catalog and convert
// currencies via structured tool calls.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shopchat/internal/catalog"
	"shopchat/internal/chat"
	"shopchat/internal/config"
	"shopchat/internal/currency"
	"shopchat/internal/logger"
	"shopchat/internal/server"
	"shopchat/internal/tools"
)

var (
	logLevel string
	logFile  string
	version  = "0.1.0" // This could be set at build time
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "shopchat",
	Short: "Shopchat - conversational shopping assistant service",
	Long: `Shopchat is an HTTP service exposing a conversational shopping assistant.
User messages are routed through an LLM generation service that can search the
product catalog and convert currencies through structured tool calls.`,
	Run: runServe, // Default behavior is to serve
}

// serveCmd represents the serve command (explicit version of default behavior).
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chatbot HTTP server",
	Run:   runServe,
}

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("shopchat v%s\n", version)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr")

	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-level flag: %v\n", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding log-file flag: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)

	// Configure logger before any command execution
	cobra.OnInitialize(initLogger)
}

func initLogger() {
	if err := logger.Configure(logLevel, logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}
}

func runServe(_ *cobra.Command, _ []string) {
	logger.Info("Starting shopchat", "version", version)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", "error", err)
	}

	// Catalog loading failures are fatal to startup, not to requests.
	products, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load product catalog", "error", err)
	}
	index := catalog.NewIndex(products)

	rates := currency.NewService(cfg.ExchangeRatesAppID, cfg.ExchangeRatesBaseURL)

	registry := tools.NewRegistry(
		tools.NewSearchProducts(index),
		tools.NewConvertCurrencies(rates),
	)

	generator, err := buildGenerator(cfg)
	if err != nil {
		logger.Fatal("Failed to build generator", "error", err)
	}
	logger.Info("Generation service configured", "provider", generator.ProviderName(), "model", cfg.Model)

	sessions := chat.NewSessionStore(cfg.HistorySize)
	assistant := chat.NewAssistant(generator, registry, sessions, chat.AssistantOptions{
		RequestTimeout:   cfg.RequestTimeout,
		ExchangeDeadline: cfg.ExchangeDeadline,
	})

	srv := server.New(server.NewHandler(assistant, rates), cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", "error", err)
		}
	}
}

// buildGenerator selects a generation-service client from the configuration.
func buildGenerator(cfg *config.Config) (chat.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return chat.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.Model), nil
	case config.ProviderAnthropic:
		return chat.NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
