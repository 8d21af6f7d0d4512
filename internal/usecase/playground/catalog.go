package playground

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"github.com/thinktars/playground/internal/entity"
	pkgRetry "github.com/thinktars/playground/internal/pkg/retry"
	"go.uber.org/zap"
)

const catalogCacheKey = "assistants"

// Catalog holds the selectable Playground assistants. The list is fetched
// from the demos backend at startup and cached; on TTL expiry it is lazily
// refetched on the next read. A failed fetch leaves the catalog empty and
// selection disabled — never fatal.
type Catalog struct {
	demos    DemosConnector
	cache    *gocache.Cache
	ttl      time.Duration
	retryCfg pkgRetry.RetryConfig
	logger   *zap.Logger
}

func NewCatalog(demos DemosConnector, ttl time.Duration, retryCfg pkgRetry.RetryConfig, logger *zap.Logger) *Catalog {
	return &Catalog{
		demos:    demos,
		cache:    gocache.New(ttl, ttl),
		ttl:      ttl,
		retryCfg: retryCfg,
		logger:   logger,
	}
}

// WarmUp performs the startup fetch with bounded retry. This is the only
// retried network operation in the engine; everything visitor-initiated
// fails terminally and waits for an explicit retry.
func (c *Catalog) WarmUp(ctx context.Context) error {
	assistants, err := retry.DoWithData(func() ([]entity.Assistant, error) {
		return c.demos.ListAssistants(ctx)
	}, c.retryCfg.ToRetryOptions()...)
	if err != nil {
		c.logger.Warn("assistant catalog warm-up failed, catalog stays empty", zap.Error(err))
		return err
	}

	c.cache.Set(catalogCacheKey, assistants, c.ttl)
	c.logger.Info("assistant catalog loaded", zap.Int("count", len(assistants)))
	return nil
}

// Assistants returns the cached catalog, refetching once if the cache
// expired.
func (c *Catalog) Assistants(ctx context.Context) ([]entity.Assistant, error) {
	if cached, ok := c.cache.Get(catalogCacheKey); ok {
		return cached.([]entity.Assistant), nil
	}

	assistants, err := c.demos.ListAssistants(ctx)
	if err != nil {
		ctxzap.Warn(ctx, "assistant catalog fetch failed", zap.Error(err))
		return nil, entity.ErrCatalogUnavailable
	}

	c.cache.Set(catalogCacheKey, assistants, c.ttl)
	return assistants, nil
}

// Find looks an assistant up by id.
func (c *Catalog) Find(ctx context.Context, id string) (entity.Assistant, error) {
	assistants, err := c.Assistants(ctx)
	if err != nil {
		return entity.Assistant{}, err
	}

	for _, a := range assistants {
		if a.ID == id {
			return a, nil
		}
	}

	return entity.Assistant{}, entity.ErrAssistantNotFound
}
