package ebay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopsearch-base/pkg/affiliate"
	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/models"
)

func newTestClient(cfg *config.Config, baseURL string) *Client {
	client := NewClient(cfg, &http.Client{Timeout: 5 * time.Second}, affiliate.New(cfg))
	client.BaseURL = baseURL
	return client
}

func TestSearchNormalizesItemSummaries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer testtoken" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("limit = %q, want 20", got)
		}
		if got := r.URL.Query().Get("q"); got != "wireless mouse" {
			t.Errorf("q = %q, want %q", got, "wireless mouse")
		}
		fmt.Fprint(w, `{
			"itemSummaries": [
				{
					"itemId": "v1|1234|0",
					"title": "Mouse E",
					"itemWebUrl": "https://www.ebay.com/itm/1234",
					"image": {"imageUrl": "https://i.ebayimg.com/1234.jpg"},
					"price": {"value": "24.95", "currency": "USD"}
				},
				{
					"itemId": "v1|5678|0",
					"title": "Mouse F",
					"itemWebUrl": "https://www.ebay.com/itm/5678",
					"price": {"value": "not-a-number"}
				}
			]
		}`)
	}))
	defer ts.Close()

	client := newTestClient(&config.Config{
		EbayOAuthToken: "testtoken",
		EPNCampaignID:  "5338000000",
		EPNCustomID:    "search",
	}, ts.URL)

	products, err := client.Search(context.Background(), "wireless mouse")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}

	p := products[0]
	if p.Source != "ebay" {
		t.Errorf("source = %q, want ebay", p.Source)
	}
	if p.ID != "v1|1234|0" {
		t.Errorf("id = %q, want v1|1234|0", p.ID)
	}
	want := "https://www.ebay.com/itm/1234?campid=5338000000&customid=search&mkcid=1&mkrid=711-53200-19255-0"
	if p.URL != want {
		t.Errorf("url = %q, want EPN-tagged URL %q", p.URL, want)
	}
	if p.Image == nil || *p.Image != "https://i.ebayimg.com/1234.jpg" {
		t.Errorf("image = %v, want https://i.ebayimg.com/1234.jpg", p.Image)
	}
	if p.Price == nil || *p.Price != 24.95 {
		t.Errorf("price = %v, want 24.95", p.Price)
	}
	if p.PriceCurrency != "USD" {
		t.Errorf("priceCurrency = %q, want USD", p.PriceCurrency)
	}
	// Browse item summaries carry no ratings or seller block.
	if p.Stars != nil || p.ReviewCount != 0 || p.Seller != nil || p.Availability != nil {
		t.Errorf("ebay products must have null stars/seller/availability and zero reviews")
	}

	p = products[1]
	if p.Price != nil {
		t.Errorf("unparseable price should normalize to null, got %v", *p.Price)
	}
	if p.PriceCurrency != "$" {
		t.Errorf("missing currency should default to $, got %q", p.PriceCurrency)
	}
	if p.Image != nil {
		t.Errorf("missing image should normalize to null")
	}
}

func TestSearchMissingToken(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer ts.Close()

	client := newTestClient(&config.Config{}, ts.URL)

	_, err := client.Search(context.Background(), "mouse")
	var configErr *models.ConfigError
	if !errors.As(err, &configErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if configErr.Key != "EBAY_OAUTH_TOKEN" {
		t.Errorf("key = %q, want EBAY_OAUTH_TOKEN", configErr.Key)
	}
	if calls != 0 {
		t.Errorf("missing config must fail before the upstream call, got %d calls", calls)
	}
}

func TestSearchUpstreamFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"errorId":1001}]}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := newTestClient(&config.Config{EbayOAuthToken: "expired"}, ts.URL)

	_, err := client.Search(context.Background(), "mouse")
	var upstreamErr *models.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstreamErr.Provider != "ebay" || upstreamErr.Status != http.StatusUnauthorized {
		t.Errorf("got provider=%q status=%d, want ebay/401", upstreamErr.Provider, upstreamErr.Status)
	}
}
