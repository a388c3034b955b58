package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	OutputPath string
	StatePath  string
	MaxItems   int

	SourcesPath string

	RegionName           string
	RegionAbbreviations  []string
	PincodeAPIBaseURL    string
	RegionPincodeURL     string
	PincodeCachePath     string
	RegionPincodeSetPath string

	HorizonDays int

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int
	HTTPTimeoutSec int

	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string
	EmailTo   string

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OutputPath: getEnv("OUTPUT_PATH", "data/property_listings.json"),
		StatePath:  getEnv("STATE_PATH", ".state/state.json"),
		MaxItems:   getEnvInt("MAX_ITEMS", 50),

		SourcesPath: getEnv("SOURCES_PATH", "sources.yaml"),

		RegionName:           getEnv("REGION_NAME", "Maharashtra"),
		RegionAbbreviations:  getEnvList("REGION_ABBREVIATIONS", "MH"),
		PincodeAPIBaseURL:    getEnv("PINCODE_API_BASE_URL", "https://api.postalpincode.in"),
		RegionPincodeURL:     getEnv("REGION_PINCODE_URL", ""),
		PincodeCachePath:     getEnv("PINCODE_CACHE_PATH", ".state/pincode_cache.json"),
		RegionPincodeSetPath: getEnv("REGION_PINCODE_SET_PATH", ".state/region_pincodes.json"),

		HorizonDays: getEnvInt("HORIZON_DAYS", 0),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 3),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 2000),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getEnv("SMTP_PORT", ""),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", ""),
		EmailTo:   getEnv("EMAIL_TO", ""),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// SMTPConfigured reports whether every mail setting is present.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUser != "" &&
		c.SMTPPass != "" && c.EmailFrom != "" && c.EmailTo != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
