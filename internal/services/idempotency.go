package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nkwats-ai/checkpoint-service/internal/cache"
	"github.com/nkwats-ai/checkpoint-service/internal/repositories"
)

// IdempotencyGate deduplicates mutating operations by request id. The
// durable Postgres table is authoritative; Redis fronts it with a TTL so hot
// replays skip the database.
type IdempotencyGate struct {
	repo   repositories.IdempotencyRepository
	cache  cache.CacheService
	ttl    time.Duration
	logger *slog.Logger
}

func NewIdempotencyGate(repo repositories.IdempotencyRepository, cacheService cache.CacheService, ttl time.Duration, logger *slog.Logger) *IdempotencyGate {
	return &IdempotencyGate{
		repo:   repo,
		cache:  cacheService,
		ttl:    ttl,
		logger: logger,
	}
}

func idempotencyCacheKey(requestID string) string {
	return "idem:" + requestID
}

// Lookup returns the stored response for the request id, if any.
func (g *IdempotencyGate) Lookup(ctx context.Context, requestID string) (string, bool, error) {
	var cached string
	err := g.cache.Get(ctx, idempotencyCacheKey(requestID), &cached)
	if err == nil {
		return cached, true, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		g.logger.Warn("idempotency cache read failed, falling back to store", "request_id", requestID, "error", err)
	}

	stored, err := g.repo.Get(ctx, requestID)
	if err != nil {
		return "", false, NewStoreError("idempotency_lookup", err)
	}
	if stored == nil {
		return "", false, nil
	}

	if err := g.cache.Set(ctx, idempotencyCacheKey(requestID), stored.ResponseData, g.ttl); err != nil {
		g.logger.Warn("failed to backfill idempotency cache", "request_id", requestID, "error", err)
	}
	return stored.ResponseData, true, nil
}

// Store persists the response under the request id. The insert is
// first-writer-wins; the returned string is whatever the store kept, so a
// racing duplicate call hands back the winner's bytes.
func (g *IdempotencyGate) Store(ctx context.Context, requestID, responseData string) (string, error) {
	stored, err := g.repo.PutIfAbsent(ctx, requestID, responseData)
	if err != nil {
		return "", NewStoreError("idempotency_store", err)
	}

	if err := g.cache.Set(ctx, idempotencyCacheKey(requestID), stored, g.ttl); err != nil {
		g.logger.Warn("failed to cache idempotent response", "request_id", requestID, "error", err)
	}
	return stored, nil
}
