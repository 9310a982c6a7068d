package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/grlcodee/credify.ai/models"
)

// InitRedis connects to addr. It returns nil when addr is empty or the
// server does not answer, and callers fall back to in-process state.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		log.Println("[CACHE] ⚠ REDIS_URL not set, running without Redis")
		return nil
	}

	opts := &redis.Options{Addr: addr}
	if parsed, err := redis.ParseURL(addr); err == nil {
		opts = parsed
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[CACHE] ⚠ Redis unavailable: %v", err)
		rdb.Close()
		return nil
	}

	log.Println("[CACHE] ✓ Connected to Redis")
	return rdb
}

const claimKeyPrefix = "credify:claim:"

// RedisClaimStore shares claim frequencies across processes. Keys expire ttl
// after the last write.
type RedisClaimStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisClaimStore(rdb *redis.Client, ttl time.Duration) *RedisClaimStore {
	return &RedisClaimStore{rdb: rdb, ttl: ttl}
}

func (s *RedisClaimStore) Get(ctx context.Context, claim string) ([]int64, error) {
	raw, err := s.rdb.Get(ctx, claimKeyPrefix+claim).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get claim: %w", err)
	}
	var stamps []int64
	if err := json.Unmarshal(raw, &stamps); err != nil {
		return nil, fmt.Errorf("decode claim stamps: %w", err)
	}
	return stamps, nil
}

func (s *RedisClaimStore) Put(ctx context.Context, claim string, stamps []int64) error {
	raw, err := json.Marshal(stamps)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, claimKeyPrefix+claim, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis put claim: %w", err)
	}
	return nil
}

func (s *RedisClaimStore) Evict(ctx context.Context, claim string) error {
	return s.rdb.Del(ctx, claimKeyPrefix+claim).Err()
}

const verdictKeyPrefix = "credify:verdict:"

// VerdictCache stores finished verdicts keyed by content and language. A nil
// client turns every call into a miss.
type VerdictCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewVerdictCache(rdb *redis.Client, ttl time.Duration) *VerdictCache {
	return &VerdictCache{rdb: rdb, ttl: ttl}
}

func VerdictKey(content, language string) string {
	sum := sha256.Sum256([]byte(language + "\x00" + content))
	return verdictKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *VerdictCache) Get(ctx context.Context, key string) (*models.AnalysisOutput, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[CACHE] ⚠ verdict lookup failed: %v", err)
		}
		return nil, false
	}
	var out models.AnalysisOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *VerdictCache) Set(ctx context.Context, key string, out *models.AnalysisOutput) {
	if c == nil || c.rdb == nil || out == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		log.Printf("[CACHE] ⚠ verdict store failed: %v", err)
	}
}
