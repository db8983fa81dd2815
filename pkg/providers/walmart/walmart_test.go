package walmart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/models"
)

func newTestClient(apiKey, baseURL string) *Client {
	return NewClient(
		&config.Config{ScraperAPIKey: apiKey, WalmartStructuredURL: baseURL},
		&http.Client{Timeout: 5 * time.Second},
	)
}

func TestSearchNormalizesItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"items": [
				{
					"id": "W1",
					"name": "Mouse Y",
					"brand": "Logi",
					"image": "https://i5.walmartimages.com/w1.jpg",
					"url": "https://www.walmart.com/ip/W1",
					"seller": "Walmart.com",
					"availability": "In stock",
					"price": "invalid",
					"rating": {"average_rating": 4.0, "number_of_reviews": 5}
				},
				{
					"id": "W2",
					"name": "Mouse Z",
					"url": "https://www.walmart.com/ip/W2",
					"price": 12.5,
					"price_currency": "USD"
				}
			]
		}`)
	}))
	defer ts.Close()

	client := newTestClient("testkey", ts.URL)

	products, err := client.Search(context.Background(), "mouse")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	// Non-numeric price coerces to null, rating block maps through.
	p := products[0]
	if p.Source != "walmart" {
		t.Errorf("source = %q, want walmart", p.Source)
	}
	if p.ID != "W1" || p.Title != "Mouse Y" {
		t.Errorf("identity fields wrong: id=%q title=%q", p.ID, p.Title)
	}
	if p.Price != nil {
		t.Errorf("non-numeric price should normalize to null, got %v", *p.Price)
	}
	if p.PriceCurrency != "$" {
		t.Errorf("priceCurrency = %q, want $", p.PriceCurrency)
	}
	if p.Stars == nil || *p.Stars != 4.0 {
		t.Errorf("stars = %v, want 4.0", p.Stars)
	}
	if p.ReviewCount != 5 {
		t.Errorf("reviewCount = %d, want 5", p.ReviewCount)
	}
	if p.Brand == nil || *p.Brand != "Logi" {
		t.Errorf("brand = %v, want Logi", p.Brand)
	}
	if p.Seller == nil || *p.Seller != "Walmart.com" {
		t.Errorf("seller = %v, want Walmart.com", p.Seller)
	}
	if p.Availability == nil || *p.Availability != "In stock" {
		t.Errorf("availability = %v, want In stock", p.Availability)
	}
	if p.URL != "https://www.walmart.com/ip/W1" {
		t.Errorf("walmart URLs must stay untagged, got %q", p.URL)
	}

	p = products[1]
	if p.Price == nil || *p.Price != 12.5 {
		t.Errorf("numeric price = %v, want 12.5", p.Price)
	}
	if p.PriceCurrency != "USD" {
		t.Errorf("priceCurrency = %q, want USD", p.PriceCurrency)
	}
	if p.Stars != nil || p.ReviewCount != 0 {
		t.Errorf("missing rating should normalize to null/0, got %v/%d", p.Stars, p.ReviewCount)
	}
}

func TestSearchMissingConfig(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		baseURL string
		wantKey string
	}{
		{name: "missing api key", apiKey: "", baseURL: "http://example.com", wantKey: "SCRAPER_API_KEY"},
		{name: "missing base url", apiKey: "testkey", baseURL: "", wantKey: "WALMART_STRUCTURED_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(tt.apiKey, tt.baseURL)

			_, err := client.Search(context.Background(), "mouse")
			var configErr *models.ConfigError
			if !errors.As(err, &configErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
			if configErr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", configErr.Key, tt.wantKey)
			}
		})
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer ts.Close()

	client := newTestClient("testkey", ts.URL)

	_, err := client.Search(context.Background(), "mouse")
	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Provider != "walmart" {
		t.Errorf("provider = %q, want walmart", upstreamErr.Provider)
	}
}
