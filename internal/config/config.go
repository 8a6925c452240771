package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverRedis     = "redis"

	AuthProviderClerk    = "clerk"
	AuthProviderFirebase = "firebase"
	AuthProviderLocal    = "local"
)

type Config struct {
	Port string

	StoreDriver   string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FirebaseProjectID       string
	FirebaseCredentialsJSON string // base64 service account JSON
	FirebaseCredentialsFile string

	AuthProvider   string
	ClerkSecretKey string
	JWTKey         string

	MetricsUser string
	MetricsPass string

	RateLimitRPS   float64
	RateLimitBurst int

	DefaultTimezone string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can supply their own values.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:                    withDefault(getenv("PORT"), "3333"),
		StoreDriver:             withDefault(getenv("STORE_DRIVER"), StoreDriverPostgres),
		DatabaseURL:             getenv("DATABASE_URL"),
		RedisAddr:               withDefault(getenv("REDIS_ADDR"), "localhost:6379"),
		RedisPassword:           getenv("REDIS_PASSWORD"),
		FirebaseProjectID:       getenv("FIREBASE_PROJECT_ID"),
		FirebaseCredentialsJSON: getenv("FCM_SERVICE_ACCOUNT_JSON"),
		FirebaseCredentialsFile: withDefault(getenv("FIREBASE_CREDENTIALS_FILE"), "./serviceAccountKey.json"),
		AuthProvider:            withDefault(getenv("AUTH_PROVIDER"), AuthProviderClerk),
		ClerkSecretKey:          getenv("CLERK_SECRET_KEY"),
		JWTKey:                  getenv("JWT_KEY"),
		MetricsUser:             getenv("METRICS_USER"),
		MetricsPass:             getenv("METRICS_PASS"),
		DefaultTimezone:         withDefault(getenv("DEFAULT_TIMEZONE"), "UTC"),
	}

	var err error
	if cfg.RedisDB, err = intOrDefault(getenv("REDIS_DB"), 0); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.RateLimitBurst, err = intOrDefault(getenv("RATE_LIMIT_BURST"), 30); err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
	}
	cfg.RateLimitRPS = 5
	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		if cfg.RateLimitRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case StoreDriverFirestore, StoreDriverRedis:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.AuthProvider {
	case AuthProviderClerk:
		if c.ClerkSecretKey == "" {
			return fmt.Errorf("CLERK_SECRET_KEY environment variable is not set")
		}
	case AuthProviderLocal:
		if c.JWTKey == "" {
			return fmt.Errorf("JWT_KEY environment variable is not set")
		}
	case AuthProviderFirebase:
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}

	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("DEFAULT_TIMEZONE: %w", err)
	}
	return nil
}

// NeedsFirebase reports whether any configured component talks to Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.StoreDriver == StoreDriverFirestore || c.AuthProvider == AuthProviderFirebase
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func intOrDefault(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
