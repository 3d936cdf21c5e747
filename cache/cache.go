// Package cache implements the Reasoning Cache (spec §4.7): four
// caches keyed by (ontology-version, query), each entry carrying a TTL,
// backed by github.com/hashicorp/golang-lru/v2 the way the domain
// stack wiring in SPEC_FULL §2 calls for — an LRU eviction policy on
// top of version/TTL invalidation, rather than an unbounded map, since
// a long-running reasoning service classifies against many ontology
// versions over its lifetime.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

type entry[V any] struct {
	version   uint64
	value     V
	expiresAt time.Time
}

func (e entry[V]) fresh(currentVersion uint64, now time.Time) bool {
	return e.version == currentVersion && now.Before(e.expiresAt)
}

// Caches bundles the four caches the Query Facade consults before
// invoking the tableau or classifier (spec §4.7). TTLs are policy
// knobs, not correctness-affecting: a stale-version or expired read is
// always treated as a miss, never as a wrong answer.
type Caches struct {
	consistency    *lru.Cache[struct{}, entry[bool]]
	satisfiability *lru.Cache[expr.ExprID, entry[bool]]
	subsumption    *lru.Cache[pairKey, entry[bool]]
	instances      *lru.Cache[expr.ExprID, entry[[]entity.IndividualID]]

	ttls TTLConfig
}

// TTLConfig holds the three TTL knobs spec §6 enumerates
// (`caching.consistency_ttl`, `.subsumption_ttl`, `.instances_ttl`);
// concept satisfiability shares the consistency TTL, since both are
// invalidated by exactly the same class of ontology changes.
type TTLConfig struct {
	ConsistencyTTL time.Duration
	SubsumptionTTL time.Duration
	InstancesTTL   time.Duration
}

// DefaultTTLConfig picks generous, never-surprising defaults; callers
// needing tighter staleness bounds override via Config (package
// reasoner).
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		ConsistencyTTL: 5 * time.Minute,
		SubsumptionTTL: 5 * time.Minute,
		InstancesTTL:   5 * time.Minute,
	}
}

type pairKey struct {
	a, b expr.ExprID
}

// New creates empty caches, each bounded to size entries (an LRU
// eviction cap distinct from the TTL/version invalidation).
func New(size int, ttls TTLConfig) (*Caches, error) {
	consistency, err := lru.New[struct{}, entry[bool]](1)
	if err != nil {
		return nil, err
	}
	sat, err := lru.New[expr.ExprID, entry[bool]](size)
	if err != nil {
		return nil, err
	}
	sub, err := lru.New[pairKey, entry[bool]](size)
	if err != nil {
		return nil, err
	}
	inst, err := lru.New[expr.ExprID, entry[[]entity.IndividualID]](size)
	if err != nil {
		return nil, err
	}
	return &Caches{consistency: consistency, satisfiability: sat, subsumption: sub, instances: inst, ttls: ttls}, nil
}

// Consistency returns the cached is_consistent() result for version,
// or a miss.
func (c *Caches) Consistency(version uint64, now time.Time) (bool, bool) {
	e, ok := c.consistency.Get(struct{}{})
	if !ok || !e.fresh(version, now) {
		return false, false
	}
	return e.value, true
}

func (c *Caches) PutConsistency(version uint64, now time.Time, value bool) {
	c.consistency.Add(struct{}{}, entry[bool]{version: version, value: value, expiresAt: now.Add(c.ttls.ConsistencyTTL)})
}

// Satisfiability returns the cached is_satisfiable(concept) result.
func (c *Caches) Satisfiability(version uint64, now time.Time, concept expr.ExprID) (bool, bool) {
	e, ok := c.satisfiability.Get(concept)
	if !ok || !e.fresh(version, now) {
		return false, false
	}
	return e.value, true
}

func (c *Caches) PutSatisfiability(version uint64, now time.Time, concept expr.ExprID, value bool) {
	c.satisfiability.Add(concept, entry[bool]{version: version, value: value, expiresAt: now.Add(c.ttls.ConsistencyTTL)})
}

// Subsumption returns the cached is_subsumed_by(a, b) result.
func (c *Caches) Subsumption(version uint64, now time.Time, a, b expr.ExprID) (bool, bool) {
	e, ok := c.subsumption.Get(pairKey{a, b})
	if !ok || !e.fresh(version, now) {
		return false, false
	}
	return e.value, true
}

func (c *Caches) PutSubsumption(version uint64, now time.Time, a, b expr.ExprID, value bool) {
	c.subsumption.Add(pairKey{a, b}, entry[bool]{version: version, value: value, expiresAt: now.Add(c.ttls.SubsumptionTTL)})
}

// Instances returns the cached get_instances(class) result set.
func (c *Caches) Instances(version uint64, now time.Time, class expr.ExprID) ([]entity.IndividualID, bool) {
	e, ok := c.instances.Get(class)
	if !ok || !e.fresh(version, now) {
		return nil, false
	}
	return e.value, true
}

func (c *Caches) PutInstances(version uint64, now time.Time, class expr.ExprID, value []entity.IndividualID) {
	c.instances.Add(class, entry[[]entity.IndividualID]{version: version, value: value, expiresAt: now.Add(c.ttls.InstancesTTL)})
}

// InvalidateAll drops every entry, used when a mutation the version
// counter alone cannot describe occurs (there currently is none in this
// core, but the hook exists for callers doing a full rebuild after
// RemoveAxiom's UnsupportedConstruct path).
func (c *Caches) InvalidateAll() {
	c.consistency.Purge()
	c.satisfiability.Purge()
	c.subsumption.Purge()
	c.instances.Purge()
}
