package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreaker_ClosedByDefault(t *testing.T) {
	cb := NewCircuitBreaker(3, 5*time.Second)
	ctx := context.Background()

	result := cb.Check(ctx, "the-odds-api")
	assert.True(t, result.Allowed)
}

func TestCircuitBreaker_OpensOnThreshold(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "the-odds-api")
	cb.RecordFailure("the-odds-api")
	cb.RecordFailure("the-odds-api")

	result := cb.Check(ctx, "the-odds-api")
	assert.False(t, result.Allowed)
	assert.Contains(t, result.Reason, "circuit open")
}

func TestCircuitBreaker_SuccessResets(t *testing.T) {
	cb := NewCircuitBreaker(2, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "the-odds-api")
	cb.RecordFailure("the-odds-api")
	cb.RecordSuccess("the-odds-api")

	result := cb.Check(ctx, "the-odds-api")
	assert.True(t, result.Allowed)
}

func TestCircuitBreaker_HalfOpenAfterReset(t *testing.T) {
	cb := NewCircuitBreaker(1, 10*time.Millisecond)
	ctx := context.Background()

	cb.Check(ctx, "odds88")
	cb.RecordFailure("odds88")
	assert.False(t, cb.Check(ctx, "odds88").Allowed)

	time.Sleep(20 * time.Millisecond)
	result := cb.Check(ctx, "odds88")
	assert.True(t, result.Allowed, "circuit should probe again once the reset timeout elapses")
}

func TestCircuitBreaker_SeparateFeedsAreIndependent(t *testing.T) {
	cb := NewCircuitBreaker(1, 5*time.Second)
	ctx := context.Background()

	cb.Check(ctx, "the-odds-api")
	cb.RecordFailure("the-odds-api")

	result := cb.Check(ctx, "odds88")
	assert.True(t, result.Allowed, "a tripped circuit on one feed must not affect another")
}
