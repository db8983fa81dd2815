package search

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"shopsearch-base/pkg/logger"
	"shopsearch-base/pkg/models"
)

// Provider is one upstream marketplace adapter.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.Product, error)
}

// Aggregator fans a query out to its providers concurrently and merges the
// results. Provider order is fixed and determines merge order in the final
// product list.
type Aggregator struct {
	providers []Provider
}

func New(providers ...Provider) *Aggregator {
	return &Aggregator{providers: providers}
}

type outcome struct {
	products []models.Product
	err      error
}

// Combined runs every provider concurrently and merges successful results in
// provider order. A failed provider is reported in bySource rather than
// failing the whole request; Combined errors only when every provider failed.
func (a *Aggregator) Combined(ctx context.Context, query string) (*models.SearchResult, error) {
	outcomes := make([]outcome, len(a.providers))

	// Errors are captured per provider, never returned to the group, so one
	// failure does not cancel sibling calls whose results are still wanted.
	g, ctx := errgroup.WithContext(ctx)
	for i, provider := range a.providers {
		i, provider := i, provider
		g.Go(func() error {
			products, err := provider.Search(ctx, query)
			if err != nil {
				logger.Upstream(provider.Name(), err)
			}
			outcomes[i] = outcome{products: products, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &models.SearchResult{
		Query:    query,
		Products: []models.Product{},
		BySource: make(map[string]models.SourceStatus, len(a.providers)),
	}

	var failures []error
	for i, provider := range a.providers {
		if outcomes[i].err != nil {
			failures = append(failures, outcomes[i].err)
			result.BySource[provider.Name()] = models.SourceStatus{Err: provider.Name() + " search failed"}
			continue
		}
		result.Products = append(result.Products, outcomes[i].products...)
		result.BySource[provider.Name()] = models.SourceStatus{Count: len(outcomes[i].products)}
	}
	result.Total = len(result.Products)

	if len(failures) > 0 && len(failures) == len(a.providers) {
		return nil, errors.Join(failures...)
	}
	return result, nil
}
