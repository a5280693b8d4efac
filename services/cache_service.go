package services

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Namespaces for cache keys. Invalidation is deliberately coarse: a write to
// a kind drops every cached list for that kind, plus the stats aggregate
// which mixes both kinds.
const (
	NamespacePOIs  = "pois"
	NamespaceBikes = "bikes"
	NamespaceStats = "stats"
)

// Cache is a key/value cache holding serialized response payloads with a TTL.
// Implementations must degrade rather than fail: any backend error is
// reported as a miss (Lookup) or silently dropped (Store, Invalidate), so a
// broken cache never breaks a request.
type Cache interface {
	Lookup(ctx context.Context, key string) ([]byte, bool)
	Store(ctx context.Context, key string, payload []byte, ttl time.Duration)
	Invalidate(ctx context.Context, namespace string)
}

// CacheKey builds a deterministic key from a namespace and filter key/value
// pairs. Identical filter sets always produce the same key, and distinct ones
// never collide: every pair is spelled out, absent values included, and each
// element is query-escaped so the separator cannot occur inside a value and
// an empty value stays distinct from any literal filter text.
func CacheKey(namespace string, pairs ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range pairs {
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p))
	}
	return b.String()
}

// RedisCache implements Cache on a shared Redis client. Every call runs under
// its own timeout so a stalled Redis degrades to direct store reads instead
// of hanging requests.
type RedisCache struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisCache(client *redis.Client, timeout time.Duration) *RedisCache {
	return &RedisCache{client: client, timeout: timeout}
}

func (c *RedisCache) Lookup(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache lookup failed for %s, falling back to store: %v", key, err)
		return nil, false
	}
	return payload, true
}

func (c *RedisCache) Store(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		log.Printf("cache store failed for %s: %v", key, err)
	}
}

// Ping answers the health probe.
func (c *RedisCache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Invalidate deletes every key in the namespace. SCAN rather than KEYS so a
// large cache does not block Redis.
func (c *RedisCache) Invalidate(ctx context.Context, namespace string) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	iter := c.client.Scan(ctx, 0, namespace+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("cache scan failed for namespace %s: %v", namespace, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache invalidation failed for namespace %s: %v", namespace, err)
	}
}
