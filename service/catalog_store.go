package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"rta-kabinets/apperr"
	"rta-kabinets/catalog"
	"rta-kabinets/estimate"
	"rta-kabinets/fetch"
	"rta-kabinets/metrics"
	"rta-kabinets/models"
	"rta-kabinets/repository"
)

const (
	catalogKey = "catalog"

	// lazyLoadTimeout bounds a first load shared by several requests
	lazyLoadTimeout = 30 * time.Second
)

// CatalogStore keeps the current catalog index. A refresh replaces the
// index as a whole, so readers never see a half-built grouping.
type CatalogStore struct {
	source  repository.VariantSource
	latest  *fetch.Latest[*catalog.Index]
	metrics *metrics.Metrics
	loading singleflight.Group

	mu       sync.RWMutex
	index    *catalog.Index
	loadedAt time.Time
	now      func() time.Time
}

// NewCatalogStore creates a store that loads variants from source. m may be nil.
func NewCatalogStore(source repository.VariantSource, m *metrics.Metrics) *CatalogStore {
	return &CatalogStore{
		source:  source,
		latest:  fetch.NewLatest[*catalog.Index](),
		metrics: m,
		index:   catalog.BuildIndex(nil),
		now:     time.Now,
	}
}

// Refresh reloads the variant list and swaps in a new index. A refresh started
// while another is running supersedes it; the older one returns fetch.ErrSuperseded.
func (s *CatalogStore) Refresh(ctx context.Context) (*catalog.Index, error) {
	start := time.Now()
	idx, err := s.latest.Do(ctx, catalogKey, func(ctx context.Context) (*catalog.Index, error) {
		variants, err := s.source.ListVariants(ctx)
		if err != nil {
			return nil, err
		}
		return catalog.BuildIndex(variants), nil
	}, func(idx *catalog.Index) {
		s.mu.Lock()
		s.index = idx
		s.loadedAt = s.now()
		s.mu.Unlock()
	})
	s.metrics.ObserveFetch(catalogKey, start)

	switch {
	case err == nil:
		zap.S().Infof("✓ Catalog refreshed: %d products, %d variants", idx.Len(), idx.VariantCount())
		s.metrics.CatalogRefreshed("ok", idx.VariantCount())
		return idx, nil
	case errors.Is(err, fetch.ErrSuperseded) || apperr.IsCanceled(err):
		zap.S().Debugf("🔁 Catalog refresh discarded: %v", err)
		s.metrics.CatalogRefreshed("discarded", 0)
		return nil, err
	default:
		zap.S().Errorf("❌ Catalog refresh failed: %v", err)
		s.metrics.CatalogRefreshed("error", 0)
		return nil, fmt.Errorf("failed to refresh catalog: %w", err)
	}
}

// EnsureLoaded refreshes once when nothing has been loaded yet. Concurrent
// callers share the same load; one caller going away does not cancel it for
// the others.
func (s *CatalogStore) EnsureLoaded(ctx context.Context) (*catalog.Index, error) {
	if idx, ok := s.loaded(); ok {
		return idx, nil
	}

	ch := s.loading.DoChan(catalogKey, func() (any, error) {
		if idx, ok := s.loaded(); ok {
			return idx, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lazyLoadTimeout)
		defer cancel()
		return s.Refresh(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			// an explicit refresh overtook the load and already applied its index
			if idx, ok := s.loaded(); ok && errors.Is(res.Err, fetch.ErrSuperseded) {
				return idx, nil
			}
			return nil, res.Err
		}
		return res.Val.(*catalog.Index), nil
	}
}

func (s *CatalogStore) loaded() (*catalog.Index, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, !s.loadedAt.IsZero()
}

// Index returns the current index. It is empty until the first successful refresh.
func (s *CatalogStore) Index() *catalog.Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// LoadedAt reports when the current index was built; zero before the first load
func (s *CatalogStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Group looks a product up in the current index
func (s *CatalogStore) Group(productID int64) (models.VariantGroup, error) {
	g, ok := s.Index().Group(productID)
	if !ok {
		return models.VariantGroup{}, fmt.Errorf("%w: %d", estimate.ErrProductNotFound, productID)
	}
	return g, nil
}

// Groups returns the admin view of every product whose name contains query
func (s *CatalogStore) Groups(query string) models.CatalogGroupsResponse {
	idx := s.Index()
	groups := idx.Filter(query)

	resp := models.CatalogGroupsResponse{
		Groups:       make([]models.CatalogGroup, 0, len(groups)),
		ProductCount: idx.Len(),
		VariantCount: idx.VariantCount(),
	}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, catalog.Describe(g))
	}
	if at := s.LoadedAt(); !at.IsZero() {
		resp.LoadedAt = at.UTC().Format(time.RFC3339)
	}
	return resp
}
