package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Content-fetching service (Firecrawl-style scrape API).
	FirecrawlKey string
	FirecrawlURL string

	// Region tag attached to every persisted price row.
	Pincode string
	Country string

	// Pacing between remote calls; the fetch service is rate-sensitive.
	PlatformDelay time.Duration
	ProductDelay  time.Duration

	// Daily batch scheduler. Zero disables the background loop.
	ScrapeInterval time.Duration

	// bcrypt hash of the admin bearer token for the sync endpoints.
	AdminTokenHash string
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "pricewatch.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./pricewatch.log"
	}

	fcURL := os.Getenv("FIRECRAWL_URL")
	if fcURL == "" {
		fcURL = "https://api.firecrawl.dev/v1/scrape"
	}

	pincode := os.Getenv("LOCATION_PINCODE")
	if pincode == "" {
		pincode = "603103" // Chennai
	}
	country := os.Getenv("LOCATION_COUNTRY")
	if country == "" {
		country = "IN"
	}

	cfg := Config{
		Port:           port,
		DBDSN:          dsn,
		LogFile:        logFile,
		FirecrawlKey:   os.Getenv("FIRECRAWL_API_KEY"),
		FirecrawlURL:   fcURL,
		Pincode:        pincode,
		Country:        country,
		PlatformDelay:  envMillis("PLATFORM_DELAY_MS", 500),
		ProductDelay:   envMillis("PRODUCT_DELAY_MS", 2000),
		ScrapeInterval: envHours("SCRAPE_INTERVAL_HOURS", 24),
		AdminTokenHash: os.Getenv("ADMIN_TOKEN_HASH"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s PINCODE=%s COUNTRY=%s INTERVAL=%s",
		cfg.Port, cfg.DBDSN, cfg.Pincode, cfg.Country, cfg.ScrapeInterval)
	return cfg
}

func envMillis(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Millisecond
		}
	}
	return time.Duration(def) * time.Millisecond
}

func envHours(key string, def int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return time.Duration(n) * time.Hour
		}
	}
	return time.Duration(def) * time.Hour
}
