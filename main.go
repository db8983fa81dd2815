package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"

	"shopsearch-base/pkg/affiliate"
	"shopsearch-base/pkg/api"
	"shopsearch-base/pkg/assist"
	"shopsearch-base/pkg/config"
	"shopsearch-base/pkg/logger"
	"shopsearch-base/pkg/models"
	"shopsearch-base/pkg/observability"
	"shopsearch-base/pkg/providers/amazon"
	"shopsearch-base/pkg/providers/ebay"
	"shopsearch-base/pkg/providers/walmart"
	"shopsearch-base/pkg/search"
)

type app struct {
	cfg        *config.Config
	amazon     *amazon.Client
	walmart    *walmart.Client
	ebay       *ebay.Client
	aggregator *search.Aggregator
	assistant  *assist.Assistant
}

func newApp(cfg *config.Config) *app {
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}
	tagger := affiliate.New(cfg)

	a := &app{
		cfg:     cfg,
		amazon:  amazon.NewClient(cfg, httpClient, tagger),
		walmart: walmart.NewClient(cfg, httpClient),
		ebay:    ebay.NewClient(cfg, httpClient, tagger),
	}

	// Merge order is fixed: Amazon, Walmart, then eBay. eBay joins the
	// fan-out only when a token is configured.
	providers := []search.Provider{a.amazon, a.walmart}
	if cfg.EbayOAuthToken != "" {
		providers = append(providers, a.ebay)
	}
	a.aggregator = search.New(providers...)
	a.assistant = assist.New(cfg.OpenAIKey, a.aggregator)

	return a
}

func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", a.rootHandler)
	mux.HandleFunc("/ping", a.pingHandler)
	mux.HandleFunc("/api/test", a.testHandler)
	mux.HandleFunc("/api/search", a.combinedHandler)
	mux.HandleFunc("/api/search/amazon", a.amazonRawHandler)
	mux.HandleFunc("/api/search/walmart-simple", a.walmartSimpleHandler)
	mux.HandleFunc("/api/search/ebay", a.ebayHandler)
	mux.HandleFunc("/api/assist", a.assistHandler)
	mux.Handle("/metrics", observability.Handler())
	return mux
}

func main() {
	cfg := config.Load()
	observability.Register()

	a := newApp(cfg)

	ip := GetOutboundIP()
	if ip != nil {
		fmt.Printf("Local Network URL: http://%s:%s\n", ip.String(), cfg.Port)
	}
	fmt.Printf("Access URL: http://localhost:%s\n", cfg.Port)
	fmt.Printf("API Docs: http://localhost:%s/\n", cfg.Port)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.routes(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}

// Serve Scalar docs on root path; everything else under / is a 404.
func (a *app) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		api.WriteError(w, http.StatusNotFound, "Not found")
		return
	}

	html, err := scalargo.NewV2(
		scalargo.WithSpecDir("./"),
		scalargo.WithMetaDataOpts(
			scalargo.WithTitle("Shopping Search API"),
		),
	)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, html)
}

func (a *app) pingHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}

func (a *app) testHandler(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "API is working!"})
}

// requireQuery rejects the request before any upstream call when the query
// parameter is absent.
func requireQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	query := r.URL.Query().Get("query")
	if query == "" {
		api.WriteBadRequest(w, "Missing query")
		return "", false
	}
	return query, true
}

func (a *app) amazonRawHandler(w http.ResponseWriter, r *http.Request) {
	observability.SearchRequests.WithLabelValues("amazon").Inc()

	query, ok := requireQuery(w, r)
	if !ok {
		return
	}
	if a.cfg.ScraperAPIKey == "" {
		api.WriteError(w, http.StatusInternalServerError, "SCRAPER_API_KEY missing in .env")
		return
	}

	data, err := a.amazon.SearchRaw(r.Context(), query)
	if err != nil {
		logger.Upstream(amazon.Source, err)
		api.WriteFromError(w, err, "Amazon API request failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"query":   query,
		"data":    data,
	})
}

func (a *app) walmartSimpleHandler(w http.ResponseWriter, r *http.Request) {
	observability.SearchRequests.WithLabelValues("walmart-simple").Inc()

	query, ok := requireQuery(w, r)
	if !ok {
		return
	}

	products, err := a.walmart.Search(r.Context(), query)
	if err != nil {
		logger.Upstream(walmart.Source, err)
		api.WriteFromError(w, err, "Walmart simple API failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, &models.SourceResult{
		Source:   walmart.Source,
		Query:    query,
		Total:    len(products),
		Products: products,
	})
}

func (a *app) ebayHandler(w http.ResponseWriter, r *http.Request) {
	observability.SearchRequests.WithLabelValues("ebay").Inc()

	query, ok := requireQuery(w, r)
	if !ok {
		return
	}

	products, err := a.ebay.Search(r.Context(), query)
	if err != nil {
		logger.Upstream(ebay.Source, err)
		api.WriteFromError(w, err, "eBay API request failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, &models.SourceResult{
		Source:   ebay.Source,
		Query:    query,
		Total:    len(products),
		Products: products,
	})
}

func (a *app) combinedHandler(w http.ResponseWriter, r *http.Request) {
	observability.SearchRequests.WithLabelValues("combined").Inc()

	query, ok := requireQuery(w, r)
	if !ok {
		return
	}
	if a.cfg.ScraperAPIKey == "" {
		api.WriteError(w, http.StatusInternalServerError, "SCRAPER_API_KEY missing in .env")
		return
	}
	if a.cfg.WalmartStructuredURL == "" {
		api.WriteError(w, http.StatusInternalServerError, "WALMART_STRUCTURED_URL missing in .env")
		return
	}

	result, err := a.aggregator.Combined(r.Context(), query)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "Combined search failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, result)
}

func (a *app) assistHandler(w http.ResponseWriter, r *http.Request) {
	observability.SearchRequests.WithLabelValues("assist").Inc()

	query, ok := requireQuery(w, r)
	if !ok {
		return
	}
	if a.cfg.ScraperAPIKey == "" {
		api.WriteError(w, http.StatusInternalServerError, "SCRAPER_API_KEY missing in .env")
		return
	}

	result, err := a.assistant.Search(r.Context(), query)
	if err != nil {
		logger.Upstream("assist", err)
		api.WriteFromError(w, err, "Assist request failed")
		return
	}

	api.WriteJSON(w, http.StatusOK, result)
}

func GetOutboundIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		addrs, _ := net.InterfaceAddrs()
		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					return ipnet.IP
				}
			}
		}
		return nil
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)

	return localAddr.IP
}
