package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"StockSentinel/internal/model"
)

// DefaultCacheTTL bounds how long a fetched history is reused.
const DefaultCacheTTL = time.Hour

// kvStore is the subset of *redis.Client the cache uses.
type kvStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachingFetcher keeps fetched histories in Redis so that repeated runs
// within the TTL do not hit the upstream provider. Quotes are always live.
// Redis errors degrade to a direct fetch.
type CachingFetcher struct {
	next   Fetcher
	store  kvStore
	ttl    time.Duration
	prefix string
}

// NewRedisClient connects to Redis and pings it.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Printf("[INFO] redis connected: %s", addr)
	return client, nil
}

// NewCachingFetcher wraps next with a Redis-backed history cache.
func NewCachingFetcher(next Fetcher, store kvStore, ttl time.Duration) *CachingFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachingFetcher{next: next, store: store, ttl: ttl, prefix: "stocksentinel:"}
}

func (c *CachingFetcher) Name() string { return c.next.Name() + "+redis" }

type cachedBar struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

func (c *CachingFetcher) historyKey(symbol string, days int) string {
	return fmt.Sprintf("%shistory:%s:%s:%d", c.prefix, c.next.Name(), symbol, days)
}

func (c *CachingFetcher) FetchHistory(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	key := c.historyKey(symbol, days)

	data, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cached []cachedBar
		if err := json.Unmarshal([]byte(data), &cached); err == nil {
			return fromCached(cached), nil
		}
		log.Printf("[WARN] cache entry %s is corrupt, refetching", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("[WARN] cache get %s: %v", key, err)
	}

	bars, err := c.next.FetchHistory(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(toCached(bars))
	if err != nil {
		return bars, nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		log.Printf("[WARN] cache set %s: %v", key, err)
	}
	return bars, nil
}

func (c *CachingFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	return c.next.FetchQuote(ctx, symbol)
}

func toCached(bars []model.OHLCV) []cachedBar {
	out := make([]cachedBar, len(bars))
	for i, b := range bars {
		out[i] = cachedBar{T: b.Time.Unix(), O: b.Open, H: b.High, L: b.Low, C: b.Close, V: b.Volume}
	}
	return out
}

func fromCached(cached []cachedBar) []model.OHLCV {
	out := make([]model.OHLCV, len(cached))
	for i, b := range cached {
		out[i] = model.OHLCV{Time: time.Unix(b.T, 0).UTC(), Open: b.O, High: b.H, Low: b.L, Close: b.C, Volume: b.V}
	}
	return out
}
