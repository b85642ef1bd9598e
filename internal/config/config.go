package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration
	DatabaseURL             string
	DBMaxConns              int32
	DBMinConns              int32
	DBMaxConnLifetime       time.Duration
	DBMaxConnIdleTime       time.Duration
	RedisAddr               string
	CacheTTL                time.Duration
	JWTSecret               string
	JWTAlgorithm            string
	TokenTTL                time.Duration
	TokenIssuer             string
	CORSOrigins             []string
	RateLimitRPM            int
	AuthRateLimitRPM        int
	SeedAdminPassword       string
	SeedDeveloperPassword   string
	SeedViewerPassword      string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8000"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 15*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 2)),
		DBMaxConnLifetime:       getDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
		DBMaxConnIdleTime:       getDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
		RedisAddr:               strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CacheTTL:                getDuration("CACHE_TTL", 5*time.Minute),
		JWTSecret:               strings.TrimSpace(os.Getenv("SECRET_KEY")),
		JWTAlgorithm:            getEnv("ALGORITHM", "HS256"),
		TokenTTL:                getDuration("TOKEN_TTL", 30*time.Minute),
		TokenIssuer:             getEnv("TOKEN_ISSUER", issuerIdentity()),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		SeedAdminPassword:       getEnv("SEED_ADMIN_PASSWORD", "password"),
		SeedDeveloperPassword:   getEnv("SEED_DEVELOPER_PASSWORD", "password"),
		SeedViewerPassword:      getEnv("SEED_VIEWER_PASSWORD", "password"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM must be one of HS256, HS384, HS512, got %q", c.JWTAlgorithm)
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	return nil
}

// issuerIdentity builds the default token issuer string, "<hostname> <ip>".
func issuerIdentity() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}

	ip := "127.0.0.1"
	if addrs, lookupErr := net.LookupIP(host); lookupErr == nil {
		for _, addr := range addrs {
			if v4 := addr.To4(); v4 != nil {
				ip = v4.String()
				break
			}
		}
	}

	return host + " " + ip
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
