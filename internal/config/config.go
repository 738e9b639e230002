package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Security  SecurityConfig
	Analytics AnalyticsConfig
	Storage   StorageConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	StaticDir      string
	UploadsDir     string
	TrustedProxies []string
}

type AuthConfig struct {
	AdminPassword     string // plain comparison, development convenience
	AdminPasswordHash string // bcrypt hash, preferred
	JWTSecret         string
	UnlockSecret      string
	SessionTimeout    time.Duration
}

type SecurityConfig struct {
	MaxLoginAttempts int
	LockoutDuration  time.Duration
	RulesFile        string
	SuspiciousLimit  int
}

type AnalyticsConfig struct {
	Salt         string
	VisitorLimit int
}

type StorageConfig struct {
	DataDir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			StaticDir:      getEnv("STATIC_DIR", "dist"),
			UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
		},
		Auth: AuthConfig{
			AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:         getEnv("JWT_SECRET", ""),
			UnlockSecret:      getEnv("UNLOCK_SECRET", ""),
			SessionTimeout:    getEnvAsDuration("SESSION_TIMEOUT", 30*time.Minute),
		},
		Security: SecurityConfig{
			MaxLoginAttempts: getEnvAsInt("MAX_LOGIN_ATTEMPTS", 5),
			LockoutDuration:  getEnvAsDuration("LOCKOUT_DURATION", 15*time.Minute),
			RulesFile:        getEnv("THREAT_RULES_FILE", ""),
			SuspiciousLimit:  getEnvAsInt("SUSPICIOUS_LOG_LIMIT", 1000),
		},
		Analytics: AnalyticsConfig{
			Salt:         getEnv("ANALYTICS_SALT", ""),
			VisitorLimit: getEnvAsInt("VISITOR_LOG_LIMIT", 10000),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", defaultDataDir()),
		},
	}

	if env == "production" {
		if err := cfg.validateProduction(); err != nil {
			return nil, err
		}
	} else {
		cfg.applyDevelopmentDefaults()
	}

	return cfg, nil
}

// validateProduction refuses to start with missing or weak secrets.
// Development defaults exist for local convenience only and must never
// reach a deployed instance.
func (c *Config) validateProduction() error {
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH is required in production")
	}
	if err := validateSecret("JWT_SECRET", c.Auth.JWTSecret, 32); err != nil {
		return err
	}
	if err := validateSecret("UNLOCK_SECRET", c.Auth.UnlockSecret, 16); err != nil {
		return err
	}
	if c.Analytics.Salt == "" {
		return fmt.Errorf("ANALYTICS_SALT is required in production")
	}
	return nil
}

func (c *Config) applyDevelopmentDefaults() {
	if c.Auth.AdminPassword == "" && c.Auth.AdminPasswordHash == "" {
		c.Auth.AdminPassword = "admin123"
	}
	if c.Auth.JWTSecret == "" {
		c.Auth.JWTSecret = "pdia-dev-secret-not-for-production"
	}
	if c.Auth.UnlockSecret == "" {
		c.Auth.UnlockSecret = "pdia-dev-unlock-secret"
	}
	if c.Analytics.Salt == "" {
		c.Analytics.Salt = "pdia-dev-analytics-salt"
	}
}

// validateSecret enforces minimum strength for server secrets.
func validateSecret(name, secret string, minLength int) error {
	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in production (got %d)",
			name, minLength, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}
	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}
	return nil
}

// AttemptsFile returns the path of the login-attempts document.
func (c *Config) AttemptsFile() string {
	return filepath.Join(c.Storage.DataDir, "login-attempts.json")
}

// BlacklistFile returns the path of the IP-blacklist document.
func (c *Config) BlacklistFile() string {
	return filepath.Join(c.Storage.DataDir, "ip-blacklist.json")
}

// SuspiciousFile returns the path of the suspicious-activity document.
func (c *Config) SuspiciousFile() string {
	return filepath.Join(c.Storage.DataDir, "suspicious-activity.json")
}

// AnalyticsFile returns the path of the visitor-log document.
func (c *Config) AnalyticsFile() string {
	return filepath.Join(c.Storage.DataDir, "analytics.json")
}

// defaultDataDir prefers the persistent-disk mount when one is present,
// matching the deployment layout the site runs under.
func defaultDataDir() string {
	if info, err := os.Stat("/data"); err == nil && info.IsDir() {
		return "/data"
	}
	return "data"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
