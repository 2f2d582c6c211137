package service

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"
)

// SessionTracker records which accounts currently hold a signed-in session.
type SessionTracker interface {
	Add(ctx context.Context, userID string) error
	Remove(ctx context.Context, userID string) error
	Members(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}

// RedisSessionTracker keeps the signed-in set in a Redis set shared by all instances.
type RedisSessionTracker struct {
	client *redis.Client
	key    string
}

// NewRedisSessionTracker constructs a tracker storing members under key.
func NewRedisSessionTracker(client *redis.Client, key string) *RedisSessionTracker {
	if key == "" {
		key = "lms:sessions"
	}
	return &RedisSessionTracker{client: client, key: key}
}

func (r *RedisSessionTracker) Add(ctx context.Context, userID string) error {
	return r.client.SAdd(ctx, r.key, userID).Err()
}

func (r *RedisSessionTracker) Remove(ctx context.Context, userID string) error {
	return r.client.SRem(ctx, r.key, userID).Err()
}

func (r *RedisSessionTracker) Members(ctx context.Context) ([]string, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

func (r *RedisSessionTracker) Count(ctx context.Context) (int64, error) {
	return r.client.SCard(ctx, r.key).Result()
}

// MemorySessionTracker is a process-local tracker for single-instance deployments.
type MemorySessionTracker struct {
	mu      sync.RWMutex
	members map[string]struct{}
}

// NewMemorySessionTracker constructs an empty in-memory tracker.
func NewMemorySessionTracker() *MemorySessionTracker {
	return &MemorySessionTracker{members: make(map[string]struct{})}
}

func (m *MemorySessionTracker) Add(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[userID] = struct{}{}
	return nil
}

func (m *MemorySessionTracker) Remove(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members, userID)
	return nil
}

func (m *MemorySessionTracker) Members(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := make([]string, 0, len(m.members))
	for id := range m.members {
		members = append(members, id)
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemorySessionTracker) Count(context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.members)), nil
}
