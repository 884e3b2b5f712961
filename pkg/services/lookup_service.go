package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/catalog"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// lookupCacheTTL bounds staleness of cached choice lists. Catalog names
// grow as profiles are saved, so the cache is short-lived.
const lookupCacheTTL = 10 * time.Minute

// LookupService serves the fixed choice lists and the grown catalog
// vocabularies that populate form dropdowns.
type LookupService interface {
	Choices(ctx context.Context, table string) ([]string, error)
	CatalogNames(ctx context.Context, kind catalog.Kind) ([]string, error)
}

type lookupService struct {
	lookups repositories.LookupRepository
	cache   *redis.Client
	logger  *zap.Logger
}

// NewLookupService creates a new LookupService. cache may be nil, in
// which case every call hits the database.
func NewLookupService(lookups repositories.LookupRepository, cache *redis.Client, logger *zap.Logger) LookupService {
	return &lookupService{
		lookups: lookups,
		cache:   cache,
		logger:  logger.Named("lookup-service"),
	}
}

var _ LookupService = (*lookupService)(nil)

func (s *lookupService) Choices(ctx context.Context, table string) ([]string, error) {
	return s.cached(ctx, "lookup:choices:"+table, func() ([]string, error) {
		return s.lookups.Choices(ctx, table)
	})
}

func (s *lookupService) CatalogNames(ctx context.Context, kind catalog.Kind) ([]string, error) {
	return s.cached(ctx, "lookup:catalog:"+string(kind), func() ([]string, error) {
		return s.lookups.CatalogNames(ctx, kind)
	})
}

// cached wraps a loader with a read-through Redis cache. Cache errors
// degrade to the database silently apart from a debug log.
func (s *lookupService) cached(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Result()
		if err == nil {
			var names []string
			if err := json.Unmarshal([]byte(raw), &names); err == nil {
				return names, nil
			}
		} else if err != redis.Nil {
			s.logger.Debug("Lookup cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	names, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(names); err == nil {
			if err := s.cache.Set(ctx, key, raw, lookupCacheTTL).Err(); err != nil {
				s.logger.Debug("Lookup cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return names, nil
}
