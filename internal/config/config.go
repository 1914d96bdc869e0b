package config // package config loads application configuration from the environment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is fatal at startup: without it no token can be
// issued or verified.
var ErrMissingJWTSecret = errors.New("missing required env var: JWT_SECRET")

// Config holds all runtime configuration values.  It is built once in main
// and handed to constructors; request handling never reads the environment.
type Config struct {
	Env              string        // application environment (e.g. "development", "production")
	Port             string        // HTTP port to listen on
	DB               DBConfig      // MySQL connection settings
	JWTSecret        string        // secret used to sign session tokens
	TokenTTL         time.Duration // lifetime of session tokens
	BcryptCost       int           // bcrypt cost for password hashing
	ProductKeySecret string        // secret mixed into product keys for elevated signup
	RabbitMQURL      string        // broker for inquiry notifications; empty disables publishing
	Redis            RedisConfig
	RateLimit        RateLimitConfig
	Cache            CacheConfig
}

// DBConfig holds MySQL connection parameters.
type DBConfig struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// env mirrors the flat environment variables.  Keys are lower-cased
// variable names; viper maps them back to the upper-case environment.
type env struct {
	AppEnv           string        `mapstructure:"app_env"`
	AppPort          string        `mapstructure:"app_port"`
	DBUser           string        `mapstructure:"db_user"`
	DBPass           string        `mapstructure:"db_pass"`
	DBHost           string        `mapstructure:"db_host"`
	DBPort           string        `mapstructure:"db_port"`
	DBName           string        `mapstructure:"db_name"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	TokenTTL         time.Duration `mapstructure:"token_ttl"`
	BcryptCost       int           `mapstructure:"bcrypt_cost"`
	ProductKeySecret string        `mapstructure:"product_key_secret"`
	RabbitMQURL      string        `mapstructure:"rabbitmq_url"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisTLS      bool   `mapstructure:"redis_tls"`

	RateLimitEnabled        bool          `mapstructure:"rate_limit_enabled"`
	RateLimitCapacity       int           `mapstructure:"rate_limit_capacity"`
	RateLimitRefillTokens   int           `mapstructure:"rate_limit_refill_tokens"`
	RateLimitRefillInterval time.Duration `mapstructure:"rate_limit_refill_interval"`
	RateLimitTTL            time.Duration `mapstructure:"rate_limit_ttl"`
	RateLimitKeyStrategy    string        `mapstructure:"rate_limit_key_strategy"`
	RateLimitPrefix         string        `mapstructure:"rate_limit_prefix"`

	CacheEnabled      bool          `mapstructure:"cache_enabled"`
	CacheMethods      []string      `mapstructure:"cache_methods"`
	CacheTTL          time.Duration `mapstructure:"cache_ttl"`
	CacheKeyStrategy  string        `mapstructure:"cache_key_strategy"`
	CachePrefix       string        `mapstructure:"cache_prefix"`
	CacheMaxBodyBytes int           `mapstructure:"cache_max_body_bytes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("app_port", "8080")
	v.SetDefault("db_user", "root")
	v.SetDefault("db_pass", "")
	v.SetDefault("db_host", "127.0.0.1")
	v.SetDefault("db_port", "3306")
	v.SetDefault("db_name", "realestate")
	v.SetDefault("jwt_secret", "")
	// far-future, session-length validity
	v.SetDefault("token_ttl", "1000h")
	v.SetDefault("bcrypt_cost", 10)
	v.SetDefault("product_key_secret", "")
	v.SetDefault("rabbitmq_url", "")

	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_tls", false)

	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_capacity", 20)
	v.SetDefault("rate_limit_refill_tokens", 1)
	v.SetDefault("rate_limit_refill_interval", "3s")
	v.SetDefault("rate_limit_ttl", "10m")
	v.SetDefault("rate_limit_key_strategy", "ip_route")
	v.SetDefault("rate_limit_prefix", "rl")

	v.SetDefault("cache_enabled", true)
	v.SetDefault("cache_methods", "GET")
	v.SetDefault("cache_ttl", "30s")
	v.SetDefault("cache_key_strategy", "route_query")
	v.SetDefault("cache_prefix", "cache")
	v.SetDefault("cache_max_body_bytes", 1<<20)
}

// Load reads an optional .env file and then the process environment.  A
// missing JWT_SECRET is reported as ErrMissingJWTSecret.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional; real environment wins

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var e env
	if err := v.Unmarshal(&e, func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if strings.TrimSpace(e.JWTSecret) == "" {
		return Config{}, ErrMissingJWTSecret
	}
	if e.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("invalid TOKEN_TTL: %s", e.TokenTTL)
	}

	return Config{
		Env:              e.AppEnv,
		Port:             e.AppPort,
		DB:               DBConfig{User: e.DBUser, Pass: e.DBPass, Host: e.DBHost, Port: e.DBPort, Name: e.DBName},
		JWTSecret:        e.JWTSecret,
		TokenTTL:         e.TokenTTL,
		BcryptCost:       e.BcryptCost,
		ProductKeySecret: e.ProductKeySecret,
		RabbitMQURL:      e.RabbitMQURL,
		Redis:            RedisConfig{Addr: e.RedisAddr, Password: e.RedisPassword, DB: e.RedisDB, TLS: e.RedisTLS},
		RateLimit: normalizeRateLimit(RateLimitConfig{
			Enabled:        e.RateLimitEnabled,
			Capacity:       e.RateLimitCapacity,
			RefillTokens:   e.RateLimitRefillTokens,
			RefillInterval: e.RateLimitRefillInterval,
			TTL:            e.RateLimitTTL,
			KeyStrategy:    e.RateLimitKeyStrategy,
			Prefix:         e.RateLimitPrefix,
		}),
		Cache: CacheConfig{
			Enabled:      e.CacheEnabled,
			Methods:      parseMethods(e.CacheMethods),
			TTL:          e.CacheTTL,
			KeyStrategy:  e.CacheKeyStrategy,
			Prefix:       e.CachePrefix,
			MaxBodyBytes: e.CacheMaxBodyBytes,
		},
	}, nil
}
