package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/opencampus/coursehub/internal/domain/course"
	"github.com/redis/go-redis/v9"
)

const listKey = "courses:list"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// CourseCache is a read-through cache for the course listing. Misses and
// redis failures both fall back to the store; correctness never depends on it.
type CourseCache struct {
	redisdb *redis.Client
	ttl     time.Duration
}

func New(cfg Config, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	redisdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	return &CourseCache{redisdb: redisdb, ttl: ttl}
}

// Ping checks redis connectivity.
func (c *CourseCache) Ping(ctx context.Context) error {
	return c.redisdb.Ping(ctx).Err()
}

func (c *CourseCache) Close() error {
	return c.redisdb.Close()
}

func (c *CourseCache) GetList(ctx context.Context) ([]course.Course, bool) {
	b, err := c.redisdb.Get(ctx, listKey).Bytes()

	if err != nil {
		return nil, false
	}

	var items []course.Course

	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false
	}

	return items, true
}

func (c *CourseCache) SetList(ctx context.Context, items []course.Course) {
	b, err := json.Marshal(items)

	if err != nil {
		return
	}

	_ = c.redisdb.Set(ctx, listKey, b, c.ttl).Err()
}

func (c *CourseCache) InvalidateList(ctx context.Context) {
	_ = c.redisdb.Del(ctx, listKey).Err()
}
