package config

import (
	"errors"  // Validation errors
	"fmt"     // Error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // List parsing
	"time"    // Durations

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort             string        // Application port
	DatabaseURL         string        // sqlite://, mysql:// or postgres:// URL
	SecretKey           string        // JWT signing secret
	Algorithm           string        // JWT algorithm: HS256, HS384 or HS512
	AccessTokenTTL      time.Duration // Access token lifetime
	BcryptCost          int           // bcrypt work factor
	RedisAddr           string        // Redis server address, empty disables caching
	RedisPass           string        // Redis password
	RedisDB             int           // Redis database number
	CacheTTL            time.Duration // Cache entry lifetime
	AllowedOrigins      []string      // CORS origins
	AuctionSyncInterval time.Duration // How often auction statuses are refreshed
	IsProd              bool          // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:             getEnv("APP_PORT", "8080"),                                               // Application port
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://auction.db"),                            // Database URL
		SecretKey:           os.Getenv("SECRET_KEY"),                                                  // JWT secret key
		Algorithm:           getEnv("ALGORITHM", "HS256"),                                             // JWT algorithm
		AccessTokenTTL:      time.Duration(getInt("ACCESS_TOKEN_EXPIRE_MINUTES", 10)) * time.Minute,   // Token lifetime
		BcryptCost:          getInt("BCRYPT_COST", 10),                                                // bcrypt cost
		RedisAddr:           os.Getenv("REDIS_ADDR"),                                                  // Redis server address
		RedisPass:           os.Getenv("REDIS_PASS"),                                                  // Redis password
		RedisDB:             getInt("REDIS_DB", 0),                                                    // Redis database number
		CacheTTL:            time.Duration(getInt("CACHE_TTL_SECONDS", 60)) * time.Second,             // Cache lifetime
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "*")),                                // CORS origins
		AuctionSyncInterval: time.Duration(getInt("AUCTION_SYNC_INTERVAL_SECONDS", 30)) * time.Second, // Status sync period
		IsProd:              os.Getenv("IS_PROD") == "true",                                           // Is production environment
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required"))
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("ALGORITHM %q is not supported", c.Algorithm))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
