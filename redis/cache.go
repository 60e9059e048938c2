// Package redis caches extraction envelopes in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/redis/go-redis/v9"
)

var _ voygen.EnvelopeCache = (*Cache)(nil)

// DefaultTTL is how long a cached envelope lives.
const DefaultTTL = 10 * time.Minute

// KeyPrefix namespaces every cache key.
const KeyPrefix = "voygen:envelope:"

// Cache stores envelopes as JSON strings with a TTL. Failed envelopes are
// not cached.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the entry lifetime.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// NewCache creates a Cache using client.
func NewCache(client *redis.Client, opts ...Option) *Cache {
	c := &Cache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClient connects to a Redis server given a redis:// URL or host:port.
func NewClient(addr string) (*redis.Client, error) {
	if opts, err := redis.ParseURL(addr); err == nil {
		return redis.NewClient(opts), nil
	}
	if addr == "" {
		return nil, voygen.Errorf(voygen.EINVALID, "redis address required")
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

// Key derives a cache key from the envelope kind, the page URL and the
// request arguments.
func Key(kind voygen.EnvelopeKind, pageURL string, req any) (string, error) {
	args, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	h := xxhash.New()
	_, _ = h.WriteString(pageURL)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(args)
	return KeyPrefix + string(kind) + ":" + strconv.FormatUint(h.Sum64(), 16), nil
}

// Get returns the cached envelope or ENOTFOUND.
func (c *Cache) Get(ctx context.Context, key string) (*voygen.Envelope, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, voygen.Errorf(voygen.ENOTFOUND, "no cached envelope")
	}
	if err != nil {
		return nil, err
	}
	var env voygen.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, voygen.Errorf(voygen.EDECODE, "invalid cached envelope: %v", err)
	}
	return &env, nil
}

// Set caches a successful envelope. Failed envelopes are skipped.
func (c *Cache) Set(ctx context.Context, key string, env *voygen.Envelope) error {
	if env == nil || !env.OK {
		return nil
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
