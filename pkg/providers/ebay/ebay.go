package ebay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"shopsearch-base/pkg/affiliate"
	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/models"
	"shopsearch-base/pkg/observability"
)

const (
	Source         = models.SourceEbay
	DefaultBaseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"

	// Browse API page size per search.
	resultLimit = 20
)

// Client queries the eBay Browse item-summary search with bearer-token auth
// and normalizes item summaries into canonical products. Browse summaries
// carry no rating data, so stars stays null and reviewCount zero.
type Client struct {
	BaseURL string

	token  string
	http   *http.Client
	tagger *affiliate.Tagger
}

func NewClient(cfg *config.Config, httpClient *http.Client, tagger *affiliate.Tagger) *Client {
	return &Client{
		BaseURL: DefaultBaseURL,
		token:   cfg.EbayOAuthToken,
		http:    httpClient,
		tagger:  tagger,
	}
}

func (c *Client) Name() string {
	return Source
}

type searchResponse struct {
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type itemSummary struct {
	ItemID     string `json:"itemId"`
	Title      string `json:"title"`
	ItemWebURL string `json:"itemWebUrl"`
	Image      *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	Price *struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Product, error) {
	if c.token == "" {
		return nil, &models.ConfigError{Key: "EBAY_OAUTH_TOKEN"}
	}

	reqURL := fmt.Sprintf("%s?q=%s&limit=%d", c.BaseURL, url.QueryEscape(query), resultLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &models.UpstreamError{Provider: Source, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

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

	products := make([]models.Product, 0, len(parsed.ItemSummaries))
	for _, item := range parsed.ItemSummaries {
		products = append(products, c.normalize(item))
	}
	return products, nil
}

func (c *Client) normalize(item itemSummary) models.Product {
	product := models.Product{
		Source:        Source,
		ID:            item.ItemID,
		Title:         item.Title,
		URL:           c.tagger.TagEbay(item.ItemWebURL),
		PriceCurrency: "$",
	}
	if item.Image != nil && item.Image.ImageURL != "" {
		product.Image = &item.Image.ImageURL
	}
	if item.Price != nil {
		if value, err := strconv.ParseFloat(item.Price.Value, 64); err == nil {
			product.Price = &value
		}
		if item.Price.Currency != "" {
			product.PriceCurrency = item.Price.Currency
		}
	}
	return product
}
