package memory

import (
	"context"
	"sync"
	"time"
)

type Denylist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (d *Denylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.entries[tokenID] = d.now().Add(ttl)
	return nil
}

func (d *Denylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	expiresAt, ok := d.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !d.now().Before(expiresAt) {
		delete(d.entries, tokenID)
		return false, nil
	}
	return true, nil
}
