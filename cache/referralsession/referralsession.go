package referralsession

import (
	"strconv"

	"github.com/mediocregopher/radix/v3"
)

const keyPrefix = "referral:session:"

// Cache maps short lived referral session tokens to sponsor user ids. Tokens
// are minted when a visitor lands through a referral link and consumed once
// the visitor registers.
type Cache struct {
	pool       *radix.Pool
	ttlSeconds int
}

// NewCache creates a referral session cache over the given redis pool
func NewCache(pool *radix.Pool, ttlSeconds int) *Cache {
	return &Cache{
		pool:       pool,
		ttlSeconds: ttlSeconds,
	}
}

// Store binds a session token to a sponsor for the configured TTL
func (cache *Cache) Store(token string, referrerID uint64) error {
	return cache.pool.Do(radix.FlatCmd(nil, "SETEX", keyPrefix+token, cache.ttlSeconds, referrerID))
}

// Resolve returns the sponsor bound to a session token, or false when the
// token is unknown or expired
func (cache *Cache) Resolve(token string) (uint64, bool, error) {
	var value string
	if err := cache.pool.Do(radix.Cmd(&value, "GET", keyPrefix+token)); err != nil {
		return 0, false, err
	}
	if len(value) == 0 {
		return 0, false, nil
	}
	referrerID, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return referrerID, true, nil
}

// Invalidate drops a session token after it was consumed
func (cache *Cache) Invalidate(token string) error {
	return cache.pool.Do(radix.Cmd(nil, "DEL", keyPrefix+token))
}
