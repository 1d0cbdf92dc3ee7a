package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Market data provider constants
const (
	MarketDataProviderYFinance   = "yfinance"
	MarketDataProviderTwelveData = "twelvedata"
	MarketDataProviderYahoo      = "yahoo"
	MarketDataProviderFinnhub    = "finnhub"
)

// Database driver constants
const (
	DBDriverMemory   = "memory"
	DBDriverPostgres = "postgres"
	DBDriverOracle   = "oracle"
	DBDriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort string
	ServerHost string
	LogLevel   string

	MarketDataProvider string
	// MetadataProvider defaults to MarketDataProvider.
	MetadataProvider string
	YFinanceBaseURL  string
	TwelveDataAPIKey string
	FinnhubAPIKey    string

	GeminiAPIKey string
	GeminiModel  string

	NewsLanguage string
	NewsRegion   string
	NewsLimit    int

	LocalCurrency    string
	FXBaseCurrency   string
	FXSymbol         string
	FXCacheTTL       time.Duration
	DomesticSuffixes []string
	AliasFile        string

	DBDriver string
	DBDSN    string

	RequestTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:         getEnvOrDefault("SERVER_PORT", "8080"),
		ServerHost:         getEnvOrDefault("SERVER_HOST", "localhost"),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		MarketDataProvider: getEnvOrDefault("MARKET_DATA_PROVIDER", MarketDataProviderYFinance),
		YFinanceBaseURL:    getEnvOrDefault("YFINANCE_BASE_URL", "http://localhost:8000"),
		TwelveDataAPIKey:   os.Getenv("TWELVE_DATA_API_KEY"),
		FinnhubAPIKey:      os.Getenv("FINNHUB_API_KEY"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		NewsLanguage:       getEnvOrDefault("NEWS_LANGUAGE", "ko"),
		NewsRegion:         getEnvOrDefault("NEWS_REGION", "KR"),
		LocalCurrency:      getEnvOrDefault("LOCAL_CURRENCY", "KRW"),
		FXBaseCurrency:     getEnvOrDefault("FX_BASE_CURRENCY", "USD"),
		DomesticSuffixes:   splitList(getEnvOrDefault("DOMESTIC_SUFFIXES", ".KS,.KQ")),
		AliasFile:          os.Getenv("ALIAS_FILE"),
		DBDriver:           getEnvOrDefault("DB_DRIVER", DBDriverMemory),
		DBDSN:              os.Getenv("DB_DSN"),
	}
	cfg.MetadataProvider = getEnvOrDefault("METADATA_PROVIDER", cfg.MarketDataProvider)
	cfg.FXSymbol = getEnvOrDefault("FX_SYMBOL", defaultFXSymbol(cfg.MarketDataProvider, cfg.FXBaseCurrency, cfg.LocalCurrency))

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	if err := validateProvider("MARKET_DATA_PROVIDER", cfg.MarketDataProvider, false); err != nil {
		return nil, err
	}
	if err := validateProvider("METADATA_PROVIDER", cfg.MetadataProvider, true); err != nil {
		return nil, err
	}
	for _, p := range []string{cfg.MarketDataProvider, cfg.MetadataProvider} {
		switch {
		case p == MarketDataProviderTwelveData && cfg.TwelveDataAPIKey == "":
			return nil, fmt.Errorf("TWELVE_DATA_API_KEY environment variable is required for twelvedata provider")
		case p == MarketDataProviderFinnhub && cfg.FinnhubAPIKey == "":
			return nil, fmt.Errorf("FINNHUB_API_KEY environment variable is required for finnhub provider")
		}
	}

	switch cfg.DBDriver {
	case DBDriverMemory:
	case DBDriverPostgres, DBDriverOracle, DBDriverSQLite:
		if cfg.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN environment variable is required for %s driver", cfg.DBDriver)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}

	var err error
	if cfg.NewsLimit, err = strconv.Atoi(getEnvOrDefault("NEWS_LIMIT", "5")); err != nil || cfg.NewsLimit <= 0 {
		return nil, fmt.Errorf("invalid NEWS_LIMIT: %q", os.Getenv("NEWS_LIMIT"))
	}

	if cfg.FXCacheTTL, err = time.ParseDuration(getEnvOrDefault("FX_CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid FX_CACHE_TTL: %w", err)
	}

	if cfg.RequestTimeout, err = time.ParseDuration(getEnvOrDefault("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// defaultFXSymbol spells the base/local pair the way the history provider
// expects it: "USD/KRW" for Twelve Data, "KRW=X" or "EURKRW=X" for Yahoo.
func defaultFXSymbol(provider, base, local string) string {
	base, local = strings.ToUpper(base), strings.ToUpper(local)
	switch {
	case provider == MarketDataProviderTwelveData:
		return base + "/" + local
	case base == "USD":
		return local + "=X"
	default:
		return base + local + "=X"
	}
}

// validateProvider checks a provider name; finnhub only serves metadata.
func validateProvider(key, value string, metadata bool) error {
	switch value {
	case MarketDataProviderYFinance, MarketDataProviderTwelveData, MarketDataProviderYahoo:
		return nil
	case MarketDataProviderFinnhub:
		if metadata {
			return nil
		}
		return fmt.Errorf("finnhub can only be used as METADATA_PROVIDER")
	default:
		return fmt.Errorf("unsupported %s: %s", key, value)
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
