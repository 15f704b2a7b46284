package config

import (
	"os"
	"strconv"
	"time"

	apperr "avkuzmin/caroffer/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// Memcache configuration (rate-limit block windows)
	MemcacheAddr string

	// Fetch configuration
	FetchTimeout   time.Duration
	FetchBlockTime time.Duration
	Cookie         string
	CookieDomain   string
	UseChrome      bool

	// Offer template assets
	TemplateWithVAT    string
	TemplateWithoutVAT string

	// Fonts used by the offer renderer
	TitleFontPath  string
	AccentFontPath string
	InfoFontPath   string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "30"))
	blockTime, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "500"))
	useChrome, _ := strconv.ParseBool(getEnv("USE_CHROME", "false"))

	return Config{
		MemcacheAddr:       getEnv("MEMCACHE_ADDR", "localhost:11211"),
		FetchTimeout:       time.Duration(fetchTimeout) * time.Second,
		FetchBlockTime:     time.Duration(blockTime) * time.Second,
		Cookie:             getEnv("COOKIE", ""),
		CookieDomain:       getEnv("COOKIE_DOMAIN", ".auto.ru"),
		UseChrome:          useChrome,
		TemplateWithVAT:    getEnv("TEMPLATE_WITH_VAT", "static/template.svg"),
		TemplateWithoutVAT: getEnv("TEMPLATE_WITHOUT_VAT", "static/template_without_nds.svg"),
		TitleFontPath:      getEnv("TITLE_FONT", "static/fonts/Montserrat-Bold.ttf"),
		AccentFontPath:     getEnv("ACCENT_FONT", "static/fonts/Horizon.ttf"),
		InfoFontPath:       getEnv("INFO_FONT", "static/fonts/Montserrat-BoldItalic.ttf"),
		Environment:        getEnv("CAROFFER_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.TemplateWithVAT == "" || c.TemplateWithoutVAT == "" {
		return apperr.NewConfiguration("offer template paths must not be empty", nil)
	}
	if c.TitleFontPath == "" || c.AccentFontPath == "" || c.InfoFontPath == "" {
		return apperr.NewConfiguration("font paths must not be empty", nil)
	}
	if c.FetchTimeout <= 0 {
		return apperr.NewConfiguration("fetch timeout must be positive", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
