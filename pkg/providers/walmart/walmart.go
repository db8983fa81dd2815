package walmart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/models"
	"shopsearch-base/pkg/observability"
)

const Source = models.SourceWalmart

// Client queries the ScraperAPI structured Walmart search endpoint. The
// endpoint URL itself is configuration (WALMART_STRUCTURED_URL), unlike the
// fixed Amazon base.
type Client struct {
	BaseURL string

	apiKey string
	http   *http.Client
}

func NewClient(cfg *config.Config, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: cfg.WalmartStructuredURL,
		apiKey:  cfg.ScraperAPIKey,
		http:    httpClient,
	}
}

func (c *Client) Name() string {
	return Source
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Brand string `json:"brand"`
	Image string `json:"image"`
	URL   string `json:"url"`
	// Upstream sometimes sends a non-numeric price ("invalid", "$12.99");
	// anything that is not a JSON number normalizes to null.
	Price         any    `json:"price"`
	PriceCurrency string `json:"price_currency"`
	Seller        string `json:"seller"`
	Availability  string `json:"availability"`
	Rating        *struct {
		AverageRating   *float64 `json:"average_rating"`
		NumberOfReviews int      `json:"number_of_reviews"`
	} `json:"rating"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	if c.apiKey == "" {
		return nil, &models.ConfigError{Key: "SCRAPER_API_KEY"}
	}
	if c.BaseURL == "" {
		return nil, &models.ConfigError{Key: "WALMART_STRUCTURED_URL"}
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

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &models.UpstreamError{Provider: Source, Message: fmt.Sprintf("invalid response body: %v", err)}
	}

	products := make([]models.Product, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		products = append(products, normalize(item))
	}
	return products, nil
}

func normalize(item searchItem) models.Product {
	product := models.Product{
		Source:        Source,
		ID:            item.ID,
		Title:         item.Name,
		URL:           item.URL,
		PriceCurrency: "$",
	}
	if item.Image != "" {
		product.Image = &item.Image
	}
	if item.Brand != "" {
		product.Brand = &item.Brand
	}
	if item.Seller != "" {
		product.Seller = &item.Seller
	}
	if item.Availability != "" {
		product.Availability = &item.Availability
	}
	if value, ok := item.Price.(float64); ok {
		product.Price = &value
	}
	if item.PriceCurrency != "" {
		product.PriceCurrency = item.PriceCurrency
	}
	if item.Rating != nil {
		product.Stars = item.Rating.AverageRating
		product.ReviewCount = item.Rating.NumberOfReviews
	}
	return product
}
