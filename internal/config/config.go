package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds reference backend settings.
type Config struct {
	Port        string
	Environment string
	// DatabaseURL selects Postgres storage; empty keeps everything in memory.
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// SessionSecret signs session tokens issued by /api/auth/login.
	SessionSecret string
	// AuthJWKSURL, when set, also accepts tokens from an external identity provider.
	AuthJWKSURL string
	// SeedOnStart loads the fixture workspace into empty storage.
	SeedOnStart bool
	LogDir      string
	Debug       bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:          getEnv("PORT", "8080"),
		Environment:   env,
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CORSOrigins:   getEnv("CORS_ORIGINS", "http://localhost:5173,capacitor://localhost"),
		TablePrefix:   getTablePrefix(env),
		SessionSecret: getEnv("SESSION_SECRET", "arkilo-dev-secret"),
		AuthJWKSURL:   getEnv("AUTH_JWKS_URL", ""),
		SeedOnStart:   getEnv("SEED", getDefaultDebug(env)) == "true",
		LogDir:        getEnv("LOG_DIR", ""),
		Debug:         getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// Origins splits CORSOrigins on commas.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ClientConfig holds CLI settings.
type ClientConfig struct {
	APIURL  string // scheme and host of the backend
	DataDir string
	Token   string
	Debug   bool
}

// LoadClient reads the CLI settings. DataDir holds the session token and
// local settings.
func LoadClient() *ClientConfig {
	dataDir := getEnv("ARKILO_DATA_DIR", "")
	if dataDir == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			dataDir = filepath.Join(dir, "arkilo")
		} else {
			dataDir = ".arkilo"
		}
	}
	return &ClientConfig{
		APIURL:  strings.TrimRight(getEnv("ARKILO_API_URL", "http://localhost:8080"), "/"),
		DataDir: dataDir,
		Token:   getEnv("ARKILO_TOKEN", ""),
		Debug:   getEnv("ARKILO_DEBUG", "false") == "true",
	}
}

func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
