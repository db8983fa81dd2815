package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every value the process reads from the environment. It is
// loaded once at startup and treated as immutable afterwards; packages
// receive it (or single values from it) through their constructors and
// never touch the environment themselves.
type Config struct {
	ScraperAPIKey        string
	WalmartStructuredURL string
	EbayOAuthToken       string
	AmazonTag            string
	EPNCampaignID        string
	EPNCustomID          string
	OpenAIKey            string
	Port                 string
	UpstreamTimeout      time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	timeoutSeconds := 15
	if val := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			timeoutSeconds = parsed
		}
	}

	return &Config{
		ScraperAPIKey:        os.Getenv("SCRAPER_API_KEY"),
		WalmartStructuredURL: os.Getenv("WALMART_STRUCTURED_URL"),
		EbayOAuthToken:       os.Getenv("EBAY_OAUTH_TOKEN"),
		AmazonTag:            os.Getenv("AMAZON_TAG"),
		EPNCampaignID:        os.Getenv("EPN_CAMPAIGN_ID"),
		EPNCustomID:          os.Getenv("EPN_CUSTOM_ID"),
		OpenAIKey:            os.Getenv("OPENAI_API_KEY"),
		Port:                 getEnv("PORT", "4000"),
		UpstreamTimeout:      time.Duration(timeoutSeconds) * time.Second,
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
