package redis

import (
	"context"
	"fmt"
	"time"
)

// ReplayGuard marks accepted TOTP codes as used with SET NX + TTL.
// SETNX is atomic, so two concurrent presentations of the same code
// resolve to exactly one winner.
type ReplayGuard struct {
	c *Client
}

func NewReplayGuard(c *Client) *ReplayGuard {
	return &ReplayGuard{c: c}
}

func usedCodeKey(userID, code string) string {
	return fmt.Sprintf("mfa:used:%s:%s", userID, code)
}

// MarkUsed returns true if the code was fresh, false if already seen.
func (g *ReplayGuard) MarkUsed(ctx context.Context, userID, code string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 90 * time.Second
	}
	ok, err := g.c.rdb.SetNX(ctx, usedCodeKey(userID, code), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("replay guard setnx: %w", err)
	}
	return ok, nil
}
