package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmanzanog/ticker-lens/internal/application"
	"github.com/jmanzanog/ticker-lens/internal/domain"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/config"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/llm/gemini"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata/finnhub"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata/twelvedata"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata/yahoo"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/marketdata/yfinance"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/news"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/persistence/memory"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/persistence/sqldb"
	"github.com/jmanzanog/ticker-lens/internal/infrastructure/search"
	httpHandler "github.com/jmanzanog/ticker-lens/internal/interfaces/http"
	"github.com/joho/godotenv"
	_ "github.com/sijms/go-ora/v2"
	_ "modernc.org/sqlite"
)

// parseLogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger configures and returns a structured logger with source information
func setupLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

// initializeJournal opens the lookup journal backend and runs migrations
func initializeJournal(cfg *config.Config) (domain.LookupRepository, func() error, error) {
	var driver string
	var dialect sqldb.Dialect

	switch cfg.DBDriver {
	case config.DBDriverMemory:
		return memory.NewLookupRepository(memory.DefaultCapacity), func() error { return nil }, nil
	case config.DBDriverPostgres:
		driver, dialect = "pgx", &sqldb.PostgresDialect{}
	case config.DBDriverOracle:
		driver, dialect = "oracle", &sqldb.OracleDialect{}
	case config.DBDriverSQLite:
		driver, dialect = "sqlite", &sqldb.SqliteDialect{}
	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}

	db, err := sql.Open(driver, cfg.DBDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() // Close connection if ping fails
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo := sqldb.NewRepository(sqldb.New(db, dialect))
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close() // Close connection if migration fails
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return repo, db.Close, nil
}

// createMarketDataClient creates the history provider selected by MARKET_DATA_PROVIDER
func createMarketDataClient(cfg *config.Config) marketdata.Provider {
	switch cfg.MarketDataProvider {
	case config.MarketDataProviderTwelveData:
		return twelvedata.NewClient(cfg.TwelveDataAPIKey)
	case config.MarketDataProviderYahoo:
		return yahoo.NewClient()
	default:
		return yfinance.NewClientWithBaseURL(cfg.YFinanceBaseURL)
	}
}

// createMetadataClient reuses the history provider unless METADATA_PROVIDER names another one
func createMetadataClient(cfg *config.Config, history marketdata.Provider) marketdata.MetadataProvider {
	if cfg.MetadataProvider == cfg.MarketDataProvider {
		return history
	}
	switch cfg.MetadataProvider {
	case config.MarketDataProviderFinnhub:
		return finnhub.NewClient(cfg.FinnhubAPIKey)
	case config.MarketDataProviderTwelveData:
		return twelvedata.NewClient(cfg.TwelveDataAPIKey)
	case config.MarketDataProviderYahoo:
		return yahoo.NewClient()
	default:
		return yfinance.NewClientWithBaseURL(cfg.YFinanceBaseURL)
	}
}

// loadAliases reads ALIAS_FILE over the built-in table
func loadAliases(cfg *config.Config) (application.AliasTable, error) {
	aliases, err := application.LoadAliasFile(cfg.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load alias file: %w", err)
	}
	slog.Info("Alias table loaded", "entries", len(aliases), "file", cfg.AliasFile)
	return aliases, nil
}

func directoryEntries(aliases application.AliasTable) map[string]string {
	entries := make(map[string]string, len(aliases))
	for name, symbol := range aliases {
		entries[name] = symbol.String()
	}
	return entries
}

// Services groups what the HTTP layer needs
type Services struct {
	Quotes    *application.QuoteService
	Briefing  *application.BriefingService
	Directory *search.Directory
}

// buildServices wires providers, caches and the journal into the application services
func buildServices(cfg *config.Config, llm application.TextGenerator, journal domain.LookupRepository) (*Services, error) {
	aliases, err := loadAliases(cfg)
	if err != nil {
		return nil, err
	}

	history := createMarketDataClient(cfg)
	metadata := createMetadataClient(cfg, history)
	slog.Info("Using market data provider", "provider", cfg.MarketDataProvider, "metadata_provider", cfg.MetadataProvider)

	resolver := application.NewQuoteResolver(aliases, llm)
	fetcher := application.NewQuoteFetcher(history)
	deriver := application.NewMetricDeriver(cfg.DomesticSuffixes, cfg.LocalCurrency)

	rateSource := application.NewHistoryRateSource(fetcher, domain.TickerSymbol(cfg.FXSymbol), cfg.FXBaseCurrency, cfg.LocalCurrency)
	rates := application.NewRateCache(rateSource, cfg.FXCacheTTL)

	directory, err := search.NewDirectory(directoryEntries(aliases))
	if err != nil {
		return nil, fmt.Errorf("failed to build symbol directory: %w", err)
	}

	feed := news.NewGoogleNews(cfg.NewsLanguage, cfg.NewsRegion, cfg.NewsLimit)

	return &Services{
		Quotes:    application.NewQuoteService(resolver, fetcher, deriver, metadata, rates, journal),
		Briefing:  application.NewBriefingService(resolver, feed, llm, cfg.NewsLanguage),
		Directory: directory,
	}, nil
}

// buildServer creates and configures the HTTP server with all routes and handlers
func buildServer(cfg *config.Config, services *Services) *http.Server {
	router := gin.Default()
	router.Use(httpHandler.RequestTimeout(cfg.RequestTimeout))

	handler := httpHandler.NewHandler(services.Quotes, services.Briefing, services.Directory)
	httpHandler.SetupRoutes(router, handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server
}

// App wraps the application components for easier testing
type App struct {
	Server       *http.Server
	Directory    *search.Directory
	CloseJournal func() error
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.Directory != nil {
		if err := a.Directory.Close(); err != nil {
			slog.Warn("Failed to close symbol directory", "error", err)
		}
	}

	if a.CloseJournal != nil {
		if err := a.CloseJournal(); err != nil {
			return fmt.Errorf("journal close error: %w", err)
		}
	}

	return nil
}

// run contains the main application logic without os.Exit calls
// This makes it testeable
func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	setupLogger(parseLogLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	llm, err := gemini.NewClient(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
	if err != nil {
		return fmt.Errorf("failed to create language model client: %w", err)
	}

	journal, closeJournal, err := initializeJournal(cfg)
	if err != nil {
		return fmt.Errorf("journal initialization failed: %w", err)
	}

	services, err := buildServices(cfg, llm, journal)
	if err != nil {
		_ = closeJournal()
		return err
	}

	server := buildServer(cfg, services)

	app := &App{
		Server:       server,
		Directory:    services.Directory,
		CloseJournal: closeJournal,
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "host", cfg.ServerHost, "port", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	// Wait for termination signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		_ = closeJournal()
		return fmt.Errorf("server error: %w", err)
	case <-quit:
		slog.Info("Received shutdown signal")
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("Server exited gracefully")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("Application error", "error", err)
		os.Exit(1)
	}
}
