package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrConfiguration marks a startup-time configuration failure: a malformed
// shares-outstanding constant or an out-of-range threshold. Runs never start
// with a config that fails Validate.
var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	AppName string

	// Fund constants
	SharesOutstanding  float64
	WeightSumTolerance float64
	MinCoverageRatio   float64

	// Holdings source cascade (tried in this order; empty entries are skipped)
	HoldingsXLSXPath  string
	HoldingsSheet     string
	HoldingsHeaderRow int
	HoldingsCSVURL    string
	ProductPageURL    string
	SnapshotCSVPath   string

	// Market data
	PriceAPIBaseURL    string
	FetchConcurrency   int
	HTTPTimeoutSeconds int

	// Result artifacts
	ResultFile string
	SourceFile string

	// Serve mode
	ScheduleCron    string
	APIPort         int
	APIKey          string
	CORSAllowOrigin string
	WebhookURL      string

	// Database (optional; run history and the status API need it)
	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppName: envStr("APP_NAME", "navpulse"),

		SharesOutstanding:  envFloat("SHARES_OUTSTANDING", 0),
		WeightSumTolerance: envFloat("WEIGHT_SUM_TOLERANCE", 0.02),
		MinCoverageRatio:   envFloat("MIN_COVERAGE_RATIO", 0.90),

		HoldingsXLSXPath:  envStr("HOLDINGS_XLSX_PATH", "data/holdings.xlsx"),
		HoldingsSheet:     envStr("HOLDINGS_SHEET", "Holdings"),
		HoldingsHeaderRow: envInt("HOLDINGS_HEADER_ROW", 8),
		HoldingsCSVURL:    envStr("HOLDINGS_CSV_URL", ""),
		ProductPageURL:    envStr("PRODUCT_PAGE_URL", ""),
		SnapshotCSVPath:   envStr("HOLDINGS_SNAPSHOT_PATH", "data/holdings_snapshot.csv"),

		PriceAPIBaseURL:    envStr("PRICE_API_BASE_URL", ""),
		FetchConcurrency:   envInt("FETCH_CONCURRENCY", 8),
		HTTPTimeoutSeconds: envInt("HTTP_TIMEOUT_SECONDS", 20),

		ResultFile: envStr("RESULT_FILE", "nav_result.txt"),
		SourceFile: envStr("SOURCE_FILE", "source_used.txt"),

		ScheduleCron:    envStr("SCHEDULE_CRON", "0 */6 * * *"),
		APIPort:         envInt("API_PORT", 3001),
		APIKey:          envStr("API_KEY", ""),
		CORSAllowOrigin: envStr("CORS_ALLOW_ORIGIN", "*"),
		WebhookURL:      envStr("WEBHOOK_URL", ""),

		DBEnabled:  envBool("DB_ENABLED", false),
		DBHost:     envStr("DB_HOST", "localhost"),
		DBPort:     envInt("DB_PORT", 5432),
		DBName:     envStr("DB_NAME", "navpulse"),
		DBUser:     envStr("DB_USER", ""),
		DBPassword: envStr("DB_PASSWORD", ""),
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if c.SharesOutstanding <= 0 {
		errs = append(errs, "SHARES_OUTSTANDING must be a positive number")
	}
	if c.WeightSumTolerance <= 0 || c.WeightSumTolerance >= 0.5 {
		errs = append(errs, "WEIGHT_SUM_TOLERANCE must be in (0, 0.5)")
	}
	if c.MinCoverageRatio <= 0 || c.MinCoverageRatio > 1 {
		errs = append(errs, "MIN_COVERAGE_RATIO must be in (0, 1]")
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, "FETCH_CONCURRENCY must be at least 1")
	}
	if c.HTTPTimeoutSeconds < 1 {
		errs = append(errs, "HTTP_TIMEOUT_SECONDS must be at least 1")
	}
	if c.HoldingsHeaderRow < 1 {
		errs = append(errs, "HOLDINGS_HEADER_ROW must be at least 1")
	}
	if c.HoldingsXLSXPath == "" && c.HoldingsCSVURL == "" && c.ProductPageURL == "" && c.SnapshotCSVPath == "" {
		errs = append(errs, "at least one holdings source must be configured")
	}
	if c.ResultFile == "" || c.SourceFile == "" {
		errs = append(errs, "RESULT_FILE and SOURCE_FILE must be set")
	}

	if c.DBEnabled && c.DBUser == "" {
		fmt.Println("[WARN] DB_ENABLED is set but DB_USER is empty — connection will likely fail")
	}
	if c.APIKey == "" {
		fmt.Println("[WARN] API_KEY not set — status API has no authentication")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrConfiguration, strings.Join(errs, "\n  "))
	}
	return nil
}

func (c *Config) Print() {
	fmt.Printf("=== %s — ETF NAV estimation ===\n", c.AppName)
	fmt.Printf("Shares outstanding: %.0f (source: config)\n", c.SharesOutstanding)
	fmt.Printf("Weight-sum tolerance: %.3f\n", c.WeightSumTolerance)
	fmt.Printf("Minimum coverage ratio: %.2f\n", c.MinCoverageRatio)
	fmt.Println("--------------------------------------")
	fmt.Println("Holdings cascade:")
	if c.HoldingsXLSXPath != "" {
		fmt.Printf("  xlsx      %s (sheet %q, header row %d)\n", c.HoldingsXLSXPath, c.HoldingsSheet, c.HoldingsHeaderRow)
	}
	if c.HoldingsCSVURL != "" {
		fmt.Printf("  url       %s\n", c.HoldingsCSVURL)
	}
	if c.ProductPageURL != "" {
		fmt.Printf("  scrape    %s\n", c.ProductPageURL)
	}
	if c.SnapshotCSVPath != "" {
		fmt.Printf("  local-csv %s\n", c.SnapshotCSVPath)
	}
	fmt.Println("--------------------------------------")
	fmt.Printf("Price fetch: %d workers, %ds timeout\n", c.FetchConcurrency, c.HTTPTimeoutSeconds)
	fmt.Printf("Artifacts: %s / %s\n", c.ResultFile, c.SourceFile)
	fmt.Printf("Schedule: %q\n", c.ScheduleCron)
	fmt.Printf("Run history DB: %s\n", boolLabel(c.DBEnabled, "enabled", "disabled"))
	fmt.Printf("Webhook: %s\n", boolLabel(c.WebhookURL != "", "configured", "not set"))
	fmt.Println("======================================")
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// HTTPTimeout is the per-request timeout applied to every outbound call.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "true" || v == "1" || v == "yes"
	}
	return fallback
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
