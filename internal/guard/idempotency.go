package guard

import (
	"context"
	"sync"
)

// IdempotencyGuard deduplicates ticket commits by ticket_id, so a retried
// HTTP request never commits the same ticket to the ledger twice.
type IdempotencyGuard struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewIdempotencyGuard creates a new in-memory idempotency guard.
func NewIdempotencyGuard() *IdempotencyGuard {
	return &IdempotencyGuard{seen: make(map[string]bool)}
}

// Check returns whether the given key has already been processed.
func (ig *IdempotencyGuard) Check(_ context.Context, key string) CheckResult {
	if key == "" {
		return CheckResult{Allowed: true}
	}

	ig.mu.Lock()
	defer ig.mu.Unlock()

	if ig.seen[key] {
		return CheckResult{
			Allowed: false,
			Reason:  "duplicate request: ticket_id already committed",
		}
	}

	ig.seen[key] = true
	return CheckResult{Allowed: true}
}

// Remove deletes a key from the seen set, used when a commit attempt fails
// durably and the caller should be allowed to retry with the same ticket_id.
func (ig *IdempotencyGuard) Remove(key string) {
	ig.mu.Lock()
	defer ig.mu.Unlock()
	delete(ig.seen, key)
}
