// Package service implements the cache-coherence layer: read-through on
// reads, invalidation plus repopulation on writes. The store is
// authoritative; the cache only ever degrades latency, never correctness.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkravets/product-catalog/internal/domain"
	"github.com/mkravets/product-catalog/internal/ports"
)

type CatalogService struct {
	db    ports.Repository
	cache ports.Cache
	ttl   time.Duration
	log   *logrus.Logger
}

func NewCatalogService(db ports.Repository, cache ports.Cache, ttl time.Duration, log *logrus.Logger) *CatalogService {
	return &CatalogService{
		db:    db,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// GetProduct serves a read-through lookup. A cache failure (or an entry that
// no longer decodes) falls back to the store; a store miss is NotFound and
// is not cached.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	key := itemKey(id)
	data, cacheErr := s.cache.Get(ctx, key)
	if cacheErr == nil {
		var product domain.Product
		if err := json.Unmarshal(data, &product); err == nil {
			return &product, nil
		}
		s.log.WithFields(logrus.Fields{"op": "GetProduct", "key": key}).
			Warn("discarding undecodable cache entry")
	} else if !errors.Is(cacheErr, domain.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{"op": "GetProduct", "key": key}).
			WithError(cacheErr).Warn("cache read failed, falling back to store")
	}

	product, err := s.db.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, "GetProduct", key, product)
	return product, nil
}

// ListProducts serves the collection through its single coarse cache entry.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	data, cacheErr := s.cache.Get(ctx, collectionKey)
	if cacheErr == nil {
		var products []domain.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		s.log.WithFields(logrus.Fields{"op": "ListProducts", "key": collectionKey}).
			Warn("discarding undecodable cache entry")
	} else if !errors.Is(cacheErr, domain.ErrCacheMiss) {
		s.log.WithFields(logrus.Fields{"op": "ListProducts", "key": collectionKey}).
			WithError(cacheErr).Warn("cache read failed, falling back to store")
	}

	products, err := s.db.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, "ListProducts", collectionKey, products)
	return products, nil
}

// CreateProduct inserts into the store, then primes the item key and evicts
// the collection key. Cache failures after a successful insert never fail
// the request: TTL expiry bounds any resulting staleness.
func (s *CatalogService) CreateProduct(ctx context.Context, product domain.NewProduct) (*domain.Product, error) {
	created, err := s.db.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, "CreateProduct", itemKey(created.Id), created)
	s.evict(ctx, "CreateProduct", collectionKey)
	return created, nil
}

// UpdateProduct applies a partial update in the store, evicts both affected
// keys, then repopulates the item key with the fresh row so the next read
// does not pay a guaranteed miss.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty product patch", domain.ErrInvalidInput)
	}
	updated, err := s.db.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	key := itemKey(id)
	s.evict(ctx, "UpdateProduct", key, collectionKey)
	s.populate(ctx, "UpdateProduct", key, updated)
	return updated, nil
}

// DeleteProduct removes the row and evicts both keys. No repopulation: the
// next read misses and gets NotFound from the store.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (*domain.Product, error) {
	deleted, err := s.db.DeleteProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.evict(ctx, "DeleteProduct", itemKey(id), collectionKey)
	return deleted, nil
}

func (s *CatalogService) populate(ctx context.Context, op, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.log.WithFields(logrus.Fields{"op": op, "key": key}).
			WithError(err).Warn("failed to marshal cache payload")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.WithFields(logrus.Fields{"op": op, "key": key}).
			WithError(err).Warn("cache write failed")
	}
}

// evict logs failures instead of returning them: a missed invalidation means
// stale reads until TTL expiry, which the caller cannot fix by failing an
// already-committed store mutation.
func (s *CatalogService) evict(ctx context.Context, op string, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.WithFields(logrus.Fields{"op": op, "keys": keys}).
			WithError(err).Warn("cache invalidation failed, stale entries possible until TTL expiry")
	}
}
