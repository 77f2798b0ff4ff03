// Package config reads process configuration from the environment.
// Every main calls godotenv.Load first, so a local .env file works too.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds settings for the console, the backend server and the migrator.
type Config struct {
	AppEnv string

	// Backend
	DatabaseURL    string
	ServerPort     string
	AllowedOrigins string
	JWTSecret      string
	TokenTTL       time.Duration

	// Console
	APIBaseURL  string
	SessionFile string
	ExportDir   string

	OpenAIAPIKey string

	// Printed at the top of exported invoices.
	SellerName    string
	SellerAddress string
	SellerGSTIN   string

	DefaultCGSTPercent decimal.Decimal
	DefaultSGSTPercent decimal.Decimal
	LowStockThreshold  float64

	// Seeding (cmd/migrate)
	AdminUsername string
	AdminPassword string
}

// Load reads the environment, applying defaults for anything unset or malformed.
func Load() Config {
	return Config{
		AppEnv:             getenv("APP_ENV", "production"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ServerPort:         getenv("SERVER_PORT", "5000"),
		AllowedOrigins:     os.Getenv("ALLOWED_ORIGINS"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getDuration("TOKEN_TTL", time.Hour),
		APIBaseURL:         strings.TrimRight(getenv("API_BASE_URL", "http://localhost:5000/api"), "/"),
		SessionFile:        getenv("SESSION_FILE", defaultSessionFile()),
		ExportDir:          getenv("EXPORT_DIR", "."),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		SellerName:         strings.TrimSpace(os.Getenv("SELLER_NAME")),
		SellerAddress:      strings.TrimSpace(os.Getenv("SELLER_ADDRESS")),
		SellerGSTIN:        strings.TrimSpace(os.Getenv("SELLER_GSTIN")),
		DefaultCGSTPercent: getDecimal("DEFAULT_CGST_PERCENT", decimal.NewFromInt(9)),
		DefaultSGSTPercent: getDecimal("DEFAULT_SGST_PERCENT", decimal.NewFromInt(9)),
		LowStockThreshold:  getFloat("LOW_STOCK_THRESHOLD", 50),
		AdminUsername:      getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:      os.Getenv("ADMIN_PASSWORD"),
	}
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development") || strings.EqualFold(c.AppEnv, "dev")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".granite-console-session.json"
	}
	return filepath.Join(home, ".granite-console", "session.json")
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getDecimal(key string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return def
	}
	return d
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return def
	}
	return f
}
