// Package otp implements the one-time-password ledger: at most one live code
// per email address, hard 10-minute expiry, single-use consumption.
package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voyage/server/internal/auth"
)

// TTL is the hard expiry applied to every ledger entry. Redis evicts the key
// itself; no garbage collection is needed.
const TTL = 10 * time.Minute

// consumeScript atomically compares the candidate against the stored code
// and deletes the entry on match. Returns 0 = no live entry, 1 = mismatch,
// 2 = consumed. Atomicity here is what makes success exactly-once: a second
// consume for the same email always sees 0.
const consumeScript = `
local v = redis.call("GET", KEYS[1])
if not v then
  return 0
end
if v ~= ARGV[1] then
  return 1
end
redis.call("DEL", KEYS[1])
return 2
`

var consumeLua = redis.NewScript(consumeScript)

const (
	consumeNotFound int64 = 0
	consumeMismatch int64 = 1
	consumeOK       int64 = 2
)

// Ledger stores live OTP codes in Redis, keyed by email.
type Ledger struct {
	rdb *redis.Client
}

// NewLedger creates a ledger over the given Redis client.
func NewLedger(rdb *redis.Client) *Ledger {
	return &Ledger{rdb: rdb}
}

func key(email string) string {
	return "otp:" + email
}

// Issue generates a random code of the given digit width and upserts it as
// the single live entry for the email, replacing any prior code
// (single-writer-wins). The entry expires after TTL.
func (l *Ledger) Issue(ctx context.Context, email string, width int) (string, error) {
	code, err := auth.GenerateOTPCode(width)
	if err != nil {
		return "", err
	}
	if err := l.rdb.Set(ctx, key(email), code, TTL).Err(); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

// Consume validates and deletes the live entry for the email in one atomic
// step. Returns auth.ErrOTPNotFound when no live entry exists (including
// after expiry eviction) and auth.ErrOTPMismatch when the stored code
// differs. Success is exactly-once.
func (l *Ledger) Consume(ctx context.Context, email, candidate string) error {
	res, err := consumeLua.Run(ctx, l.rdb, []string{key(email)}, candidate).Int64()
	if err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	switch res {
	case consumeNotFound:
		return auth.ErrOTPNotFound
	case consumeMismatch:
		return auth.ErrOTPMismatch
	case consumeOK:
		return nil
	default:
		return fmt.Errorf("consume otp: unexpected script result %d", res)
	}
}
