package amazon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shopsearch-base/pkg/affiliate"
	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/models"
	"shopsearch-base/pkg/observability"
)

const (
	Source         = models.SourceAmazon
	DefaultBaseURL = "https://api.scraperapi.com/structured/amazon/search"
)

// Client queries the ScraperAPI structured Amazon search endpoint and
// normalizes its results into canonical products.
type Client struct {
	BaseURL string

	apiKey string
	http   *http.Client
	tagger *affiliate.Tagger
}

func NewClient(cfg *config.Config, httpClient *http.Client, tagger *affiliate.Tagger) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		apiKey:  cfg.ScraperAPIKey,
		http:    httpClient,
		tagger:  tagger,
	}
}

func (c *Client) Name() string {
	return Source
}

type searchResponse struct {
	Results []searchItem `json:"results"`
}

type searchItem struct {
	ASIN  string `json:"asin"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Price *struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
	} `json:"price"`
	Rating       *float64 `json:"rating"`
	ReviewsCount int      `json:"reviews_count"`
}

// Search runs one structured search and maps results[] into products.
// Product URLs come back affiliate-tagged.
func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	body, err := c.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.UpstreamError{Provider: Source, Message: fmt.Sprintf("invalid response body: %v", err)}
	}

	products := make([]models.Product, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		products = append(products, c.normalize(item))
	}
	return products, nil
}

// SearchRaw runs one structured search and returns the upstream payload
// untouched, for the raw passthrough route.
func (c *Client) SearchRaw(ctx context.Context, query string) (json.RawMessage, error) {
	return c.fetch(ctx, query)
}

func (c *Client) normalize(item searchItem) models.Product {
	product := models.Product{
		Source:        Source,
		ID:            item.ASIN,
		Title:         item.Title,
		URL:           c.tagger.TagAmazon(item.URL),
		PriceCurrency: "$",
		Stars:         item.Rating,
	}
	if item.Image != "" {
		product.Image = &item.Image
	}
	if item.Price != nil {
		product.Price = &item.Price.Value
		if item.Price.Currency != "" {
			product.PriceCurrency = item.Price.Currency
		}
	}
	product.ReviewCount = item.ReviewsCount
	return product
}

func (c *Client) fetch(ctx context.Context, query string) (json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, &models.ConfigError{Key: "SCRAPER_API_KEY"}
	}

	reqURL := fmt.Sprintf("%s?api_key=%s&query=%s", c.BaseURL, c.apiKey, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.UpstreamError{Provider: Source, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		observability.ObserveUpstream(Source, err)
		return nil, &models.UpstreamError{Provider: Source, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ObserveUpstream(Source, err)
		return nil, &models.UpstreamError{Provider: Source, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := &models.UpstreamError{Provider: Source, Status: resp.StatusCode, Message: string(body)}
		observability.ObserveUpstream(Source, upstreamErr)
		return nil, upstreamErr
	}

	observability.ObserveUpstream(Source, nil)
	return body, nil
}
