package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	Env            string
	DBPath         string
	LogLevel       string
	CORSOrigins    string
	GoogleClientID string
	KafkaBrokers   []string
	KafkaTopic     string
	SessionTTL     time.Duration
	FrameAncestors string
	PublicBaseURL  string
}

var AppConfig *Config

// Load reads the environment (and .env when present) into AppConfig
func Load() error {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

// FromEnv builds a Config from the current environment
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           GetEnv("PORT", "3000"),
		Env:            GetEnv("ENV", "development"),
		DBPath:         GetEnv("DB_PATH", "./data/storefront.db"),
		LogLevel:       GetEnv("LOG_LEVEL", "info"),
		CORSOrigins:    GetEnv("CORS_ORIGINS", "*"),
		GoogleClientID: GetEnv("GOOGLE_CLIENT_ID", ""),
		KafkaBrokers:   splitList(GetEnv("KAFKA_BROKERS", "")),
		KafkaTopic:     GetEnv("KAFKA_TOPIC", "storefront.orders"),
		FrameAncestors: GetEnv("FRAME_ANCESTORS", "*"),
		PublicBaseURL:  strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
	}

	hours, err := strconv.Atoi(GetEnv("SESSION_TTL_HOURS", "720"))
	if err != nil || hours <= 0 {
		return nil, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer, got %q", os.Getenv("SESSION_TTL_HOURS"))
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
