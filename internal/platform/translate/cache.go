package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Translator matches bilingual.Translator.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

const cacheKeyPrefix = "translate:"

// CachedTranslator keeps successful translations in Redis. Redis failures
// are logged and treated as a miss.
type CachedTranslator struct {
	next Translator
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedTranslator(next Translator, rdb *redis.Client, ttl time.Duration) *CachedTranslator {
	return &CachedTranslator{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(text, source, target string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + source + ":" + target + ":" + hex.EncodeToString(sum[:])
}

func (c *CachedTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if c.rdb == nil {
		return c.next.Translate(ctx, text, source, target)
	}
	key := cacheKey(text, source, target)

	cached, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil && cached != "":
		return cached, nil
	case err != nil && !errors.Is(err, redis.Nil):
		log.Printf("WARN: translation cache read failed: %v", err)
	}

	out, err := c.next.Translate(ctx, text, source, target)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, out, c.ttl).Err(); err != nil {
		log.Printf("WARN: translation cache write failed: %v", err)
	}
	return out, nil
}
