package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	DatabaseHost     string
	DatabasePort     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	CacheTTL         time.Duration
	RequestTimeout   time.Duration
}

// Load reads configuration from the environment, falling back to documented
// defaults. A local .env file is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "catalog")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL_SECONDS", 3600)
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	v.AutomaticEnv()

	return &Config{
		Port:             v.GetString("APP_PORT"),
		DatabaseHost:     v.GetString("POSTGRES_HOST"),
		DatabasePort:     v.GetString("POSTGRES_PORT"),
		DatabaseUser:     v.GetString("POSTGRES_USER"),
		DatabasePassword: v.GetString("POSTGRES_PASSWORD"),
		DatabaseName:     v.GetString("POSTGRES_DB"),
		RedisHost:        v.GetString("REDIS_HOST"),
		RedisPort:        v.GetString("REDIS_PORT"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		CacheTTL:         time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		RequestTimeout:   time.Duration(v.GetInt("REQUEST_TIMEOUT_SECONDS")) * time.Second,
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseName,
	)
}

func (c *Config) RedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}
