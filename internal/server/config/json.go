package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/bookshelf/internal/flagx"
	"github.com/dmitrijs2005/bookshelf/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Duration fields accept
// both strings such as "10m" and integer nanoseconds. Pointer fields tell an
// explicit false/zero apart from an omitted key.
type JsonConfig struct {
	HTTPAddr           string          `json:"http_addr"`
	GRPCHealthAddr     *string         `json:"grpc_health_addr"`
	DatabaseDriver     string          `json:"database_driver"`
	DatabaseDSN        string          `json:"database_dsn"`
	DBTimeout          *timex.Duration `json:"db_timeout"`
	SecretKey          string          `json:"secret_key"`
	SessionTTL         *timex.Duration `json:"session_ttl"`
	BcryptCost         int             `json:"bcrypt_cost"`
	CookieSecure       *bool           `json:"cookie_secure"`
	CORSOrigin         string          `json:"cors_origin"`
	TrustProxy         *bool           `json:"trust_proxy"`
	RedisAddr          string          `json:"redis_addr"`
	CacheTTL           *timex.Duration `json:"cache_ttl"`
	RateLimitBurst     int             `json:"rate_limit_burst"`
	RateLimitPerSecond float64         `json:"rate_limit_per_second"`
	S3RootUser         string          `json:"s3_root_user"`
	S3RootPassword     string          `json:"s3_root_password"`
	S3Bucket           string          `json:"s3_bucket"`
	S3Region           string          `json:"s3_region"`
	S3BaseEndpoint     string          `json:"s3_base_endpoint"`
	OTLPEndpoint       string          `json:"otlp_endpoint"`
	LogLevel           string          `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config onto config.
// Keys missing from the file leave the current value untouched. No flag
// means no file is read.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	if c.GRPCHealthAddr != nil {
		config.GRPCHealthAddr = *c.GRPCHealthAddr
	}
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DBTimeout != nil {
		config.DBTimeout = c.DBTimeout.Duration
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL != nil {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.CORSOrigin, c.CORSOrigin)
	if c.TrustProxy != nil {
		config.TrustProxy = *c.TrustProxy
	}
	setString(&config.RedisAddr, c.RedisAddr)
	if c.CacheTTL != nil {
		config.CacheTTL = c.CacheTTL.Duration
	}
	if c.RateLimitBurst != 0 {
		config.RateLimitBurst = c.RateLimitBurst
	}
	if c.RateLimitPerSecond != 0 {
		config.RateLimitPerSecond = c.RateLimitPerSecond
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	setString(&config.LogLevel, c.LogLevel)

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
