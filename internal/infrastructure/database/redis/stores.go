package redis

import (
	"context"
	"strings"
	"time"

	"github.com/turtacn/patent-litigation-graph/internal/domain/litigation"
	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
)

const (
	searchKeyPrefix = "search:"
	graphKeyPrefix  = "graph:"
	revokedPrefix   = "revoked:"
)

// SearchCache stores normalized, enriched search results by query.
type SearchCache struct {
	cache Cache
	ttl   time.Duration
}

func NewSearchCache(cache Cache, ttl time.Duration) *SearchCache {
	return &SearchCache{cache: cache, ttl: ttl}
}

func searchKey(query string) string {
	return searchKeyPrefix + strings.TrimSpace(query)
}

// GetSearch returns (records, true, nil) on a hit and (nil, false, nil) on a miss.
func (s *SearchCache) GetSearch(ctx context.Context, query string) ([]*patent.PatentRecord, bool, error) {
	var records []*patent.PatentRecord
	err := s.cache.Get(ctx, searchKey(query), &records)
	if err == ErrCacheMiss {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if records == nil {
		records = []*patent.PatentRecord{}
	}
	return records, true, nil
}

func (s *SearchCache) PutSearch(ctx context.Context, query string, records []*patent.PatentRecord) error {
	return s.cache.Set(ctx, searchKey(query), records, s.ttl)
}

// GraphCache stores litigation graphs by root name. Names without a graph are
// remembered as a short-lived null.
type GraphCache struct {
	cache Cache
	ttl   time.Duration
	log   logging.Logger
}

func NewGraphCache(cache Cache, ttl time.Duration, log logging.Logger) *GraphCache {
	return &GraphCache{cache: cache, ttl: ttl, log: log}
}

// GraphFor returns the cached graph for name or builds it with build. Concurrent
// callers for the same name share one build. A nil graph means "no graph".
func (g *GraphCache) GraphFor(ctx context.Context, name string, build func(ctx context.Context) (*litigation.Graph, error)) (*litigation.Graph, error) {
	var out litigation.Graph
	err := g.cache.GetOrLoad(ctx, graphKeyPrefix+name, &out, g.ttl, func(ctx context.Context) (interface{}, error) {
		built, err := build(ctx)
		if err != nil {
			return nil, err
		}
		if built == nil {
			return nil, nil
		}
		return built, nil
	})
	if err == ErrCacheMiss {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Invalidate drops every cached graph, used after an import changes the store.
func (g *GraphCache) Invalidate(ctx context.Context) error {
	n, err := g.cache.DeleteByPrefix(ctx, graphKeyPrefix)
	if err == nil {
		g.log.Info("Graph cache invalidated", logging.Int64("keys", n))
	}
	return err
}

// TokenDenylist records revoked token ids until the token would have expired.
type TokenDenylist struct {
	client *Client
}

func NewTokenDenylist(client *Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

func (d *TokenDenylist) key(jti string) string {
	return d.client.config.KeyPrefix + revokedPrefix + jti
}

// Revoke denylists jti for ttl. A non-positive ttl means the token has already
// expired and nothing is stored.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, d.key(jti), "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(jti)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

//Personal.AI order the ending
