package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

func newCaches(t *testing.T, ttls TTLConfig) *Caches {
	t.Helper()
	c, err := New(16, ttls)
	require.NoError(t, err)
	return c
}

func TestConsistencyHitWithinSameVersionAndTTL(t *testing.T) {
	c := newCaches(t, DefaultTTLConfig())
	now := time.Now()

	_, ok := c.Consistency(1, now)
	assert.False(t, ok, "fresh cache must miss")

	c.PutConsistency(1, now, true)
	v, ok := c.Consistency(1, now.Add(time.Second))
	assert.True(t, ok)
	assert.True(t, v)
}

func TestVersionMismatchIsAMiss(t *testing.T) {
	c := newCaches(t, DefaultTTLConfig())
	now := time.Now()

	c.PutConsistency(1, now, true)
	_, ok := c.Consistency(2, now)
	assert.False(t, ok, "a store mutation bumps the version and must invalidate")

	c.PutSubsumption(3, now, expr.Top, expr.Bottom, false)
	_, ok = c.Subsumption(4, now, expr.Top, expr.Bottom)
	assert.False(t, ok)
}

func TestTTLExpiryIsAMiss(t *testing.T) {
	c := newCaches(t, TTLConfig{
		ConsistencyTTL: time.Millisecond,
		SubsumptionTTL: time.Millisecond,
		InstancesTTL:   time.Millisecond,
	})
	now := time.Now()

	c.PutConsistency(1, now, true)
	_, ok := c.Consistency(1, now.Add(time.Second))
	assert.False(t, ok, "an expired entry must read as a miss, never as a stale answer")
}

func TestSubsumptionKeyIsOrdered(t *testing.T) {
	c := newCaches(t, DefaultTTLConfig())
	now := time.Now()

	c.PutSubsumption(1, now, 7, 9, true)
	v, ok := c.Subsumption(1, now, 7, 9)
	require.True(t, ok)
	assert.True(t, v)

	_, ok = c.Subsumption(1, now, 9, 7)
	assert.False(t, ok, "subsumption is directional; the reversed pair is a distinct key")
}

func TestInstancesRoundTrip(t *testing.T) {
	c := newCaches(t, DefaultTTLConfig())
	now := time.Now()
	want := []entity.IndividualID{3, 5, 8}

	c.PutInstances(2, now, 11, want)
	got, ok := c.Instances(2, now, 11)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestInvalidateAllDropsEverything(t *testing.T) {
	c := newCaches(t, DefaultTTLConfig())
	now := time.Now()

	c.PutConsistency(1, now, true)
	c.PutSatisfiability(1, now, 4, true)
	c.InvalidateAll()

	_, ok := c.Consistency(1, now)
	assert.False(t, ok)
	_, ok = c.Satisfiability(1, now, 4)
	assert.False(t, ok)
}
