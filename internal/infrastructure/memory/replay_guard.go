package memory

import (
	"context"
	"sync"
	"time"
)

// ReplayGuard remembers accepted TOTP codes per user until they expire,
// so a captured code cannot be replayed within its accept window.
// In-process fallback for when redis is not configured.
type ReplayGuard struct {
	mu   sync.Mutex
	used map[string]time.Time // userID|code -> expiry
}

func NewReplayGuard() *ReplayGuard {
	return &ReplayGuard{used: make(map[string]time.Time)}
}

func (g *ReplayGuard) MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	k := userID + "|" + code

	if exp, ok := g.used[k]; ok && exp.After(now) {
		return false, nil
	}

	// opportunistic sweep of expired entries
	for key, exp := range g.used {
		if !exp.After(now) {
			delete(g.used, key)
		}
	}

	g.used[k] = now.Add(ttl)
	return true, nil
}
