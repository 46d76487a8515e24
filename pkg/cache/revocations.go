package cache

import (
	"context"
	"sync"
	"time"
)

const revokedTokenPrefix = "auth:revoked:"

// TokenRevocations keeps logged-out token ids until they would have expired
type TokenRevocations struct {
	cache Cache
}

func NewTokenRevocations(c Cache) *TokenRevocations {
	return &TokenRevocations{cache: c}
}

func (r *TokenRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, revokedTokenPrefix+tokenID, []byte("1"), ttl)
}

func (r *TokenRevocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok, err := r.cache.Get(ctx, revokedTokenPrefix+tokenID)
	return ok, err
}

// MemoryRevocations keeps revoked token ids in process until they expire.
// Entries are never evicted early, unlike the shared LRU.
type MemoryRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{revoked: make(map[string]time.Time), now: time.Now}
}

func (r *MemoryRevocations) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for id, expiresAt := range r.revoked {
		if now.After(expiresAt) {
			delete(r.revoked, id)
		}
	}
	r.revoked[tokenID] = now.Add(ttl)
	return nil
}

func (r *MemoryRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiresAt, ok := r.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if r.now().After(expiresAt) {
		delete(r.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
