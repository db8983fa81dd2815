package affiliate

import (
	"net/url"
	"strings"

	"shopsearch-base/pkg/config"
)

// eBay Partner Network rotation ID for the US marketplace.
const epnRotationID = "711-53200-19255-0"

// Tagger appends marketplace tracking parameters to product URLs. Tagging is
// best-effort: a missing tracking ID or a malformed URL returns the input
// unchanged rather than failing the search.
type Tagger struct {
	amazonTag  string
	campaignID string
	customID   string
}

func New(cfg *config.Config) *Tagger {
	return &Tagger{
		amazonTag:  cfg.AmazonTag,
		campaignID: cfg.EPNCampaignID,
		customID:   cfg.EPNCustomID,
	}
}

func (t *Tagger) TagAmazon(rawURL string) string {
	if t.amazonTag == "" {
		return rawURL
	}
	return appendParams(rawURL, "tag="+t.amazonTag)
}

func (t *Tagger) TagEbay(rawURL string) string {
	if t.campaignID == "" {
		return rawURL
	}
	return appendParams(rawURL, "campid="+t.campaignID+"&customid="+t.customID+"&mkcid=1&mkrid="+epnRotationID)
}

func appendParams(rawURL, params string) string {
	if rawURL == "" {
		return rawURL
	}
	if _, err := url.Parse(rawURL); err != nil {
		return rawURL
	}
	separator := "?"
	if strings.Contains(rawURL, "?") {
		separator = "&"
	}
	return rawURL + separator + params
}
