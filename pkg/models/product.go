package models

import "encoding/json"

const (
	SourceAmazon  = "amazon"
	SourceWalmart = "walmart"
	SourceEbay    = "ebay"
)

// Product is the canonical record every provider adapter normalizes into.
// The field set is identical regardless of source: values a provider cannot
// supply are null (pointers) or the documented default, never omitted, so
// consumers never branch on source.
type Product struct {
	Source        string   `json:"source"`
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Image         *string  `json:"image"`
	Price         *float64 `json:"price"`
	PriceCurrency string   `json:"priceCurrency"`
	Stars         *float64 `json:"stars"`
	ReviewCount   int      `json:"reviewCount"`
	Brand         *string  `json:"brand"`
	Seller        *string  `json:"seller"`
	Availability  *string  `json:"availability"`
}

// SourceStatus is the per-provider outcome inside a combined SearchResult.
// It serializes as a plain integer count on success and as {"error": "..."}
// when that provider failed.
type SourceStatus struct {
	Count int
	Err   string
}

func (s SourceStatus) MarshalJSON() ([]byte, error) {
	if s.Err != "" {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{s.Err})
	}
	return json.Marshal(s.Count)
}

func (s *SourceStatus) UnmarshalJSON(data []byte) error {
	var count int
	if err := json.Unmarshal(data, &count); err == nil {
		*s = SourceStatus{Count: count}
		return nil
	}
	var failed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &failed); err != nil {
		return err
	}
	*s = SourceStatus{Err: failed.Error}
	return nil
}

// SearchResult is the combined-search envelope.
type SearchResult struct {
	Query    string                  `json:"query"`
	Total    int                     `json:"total"`
	Products []Product               `json:"products"`
	BySource map[string]SourceStatus `json:"bySource"`
}

// SourceResult is the single-provider envelope used by the per-source routes.
type SourceResult struct {
	Source   string    `json:"source"`
	Query    string    `json:"query"`
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}
