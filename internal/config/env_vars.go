package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	envVar            = "ENV"
	databaseURLEnvVar = "DATABASE_URL"
)

// EnvDev is the default environment and the only one allowed to fall back
// to development secrets. Every other value is treated as production.
const (
	EnvDev        = "DEV"
	EnvProduction = "PRODUCTION"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Iron Rent")
}

func (EnvVars) GetEnv() string {
	return strings.ToUpper(GetEnv(envVar, EnvDev))
}

// IsProduction reports whether cookies must be marked Secure and secrets
// must be supplied explicitly. Only an explicit DEV opts out.
func (e EnvVars) IsProduction() bool {
	return e.GetEnv() != EnvDev
}

// GetDatabaseURL returns the postgres connection string. Empty means all
// data is kept in memory.
func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseURLEnvVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDurationEnv reads a Go duration ("45m") or a whole number of seconds
// ("2700"). Unparseable or non-positive values fall back to the default.
func GetDurationEnv(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	if secs, err := strconv.Atoi(value); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
	} else if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	log.Warn().Str("var", envVar).Str("value", value).Dur("default", defaultValue).Msg("Ignoring invalid duration")
	return defaultValue
}

// GetIntEnv reads a positive integer, falling back to the default.
func GetIntEnv(envVar string, defaultValue int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		log.Warn().Str("var", envVar).Str("value", value).Int("default", defaultValue).Msg("Ignoring invalid integer")
		return defaultValue
	}
	return n
}
