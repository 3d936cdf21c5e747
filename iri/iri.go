// Package iri implements the IRI interner (spec §3.1, §4.1): it
// canonicalizes absolute IRIs into compact, comparable, shareable
// handles. Equal IRI strings always yield handles that compare equal in
// O(1) and hash in O(1) — a Handle is just a uint32 index into an arena,
// the same "nodes are indices into a vector" idiom the tableau's
// completion graph uses.
package iri

import (
	"hash/fnv"
	"net/url"
	"strings"
	"sync"

	"github.com/anusornc/owl2go/internal/errs"
)

// Handle is a Copy-cheap, comparable reference to an interned IRI.
type Handle uint32

const shardCount = 32

type nsSplit struct {
	ns    string
	local string
	once  sync.Once
}

type shard struct {
	mu      sync.RWMutex
	strToID map[string]Handle
}

// Interner is a concurrent map from absolute IRI string to Handle. Reads
// of an already-interned IRI only ever take the read-lock of one shard;
// writes (first-time interning) take that shard's write-lock. Lock
// acquisition never nests across shards, so there is no deadlock
// ordering to maintain within this package — callers still respect the
// module-wide order interner → registry → axiom store → caches (spec §5).
type Interner struct {
	shards [shardCount]*shard

	mu     sync.RWMutex
	ids    []string   // Handle -> canonical string, arena-indexed
	splits []*nsSplit // Handle -> lazily computed namespace/local split
}

// New creates an empty Interner.
func New() *Interner {
	in := &Interner{}
	for i := range in.shards {
		in.shards[i] = &shard{strToID: make(map[string]Handle, 64)}
	}
	return in
}

func shardFor(s string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum32() % shardCount)
}

// Intern returns the Handle for s, creating one if s has not been seen
// before. It fails with errs.InvalidIRI if s is not an absolute,
// RFC-3987-conformant IRI.
func (in *Interner) Intern(s string) (Handle, error) {
	if !isAbsoluteIRI(s) {
		return 0, errs.Wrap(errs.InvalidIRI, invalidIRIError(s))
	}

	sh := in.shards[shardFor(s)]

	sh.mu.RLock()
	if id, ok := sh.strToID[s]; ok {
		sh.mu.RUnlock()
		return id, nil
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if id, ok := sh.strToID[s]; ok {
		return id, nil
	}

	in.mu.Lock()
	id := Handle(len(in.ids))
	in.ids = append(in.ids, s)
	in.splits = append(in.splits, &nsSplit{})
	in.mu.Unlock()

	sh.strToID[s] = id
	return id, nil
}

// MustIntern interns s and panics on InvalidIRI. Intended for tests and
// fixtures, never for production ingestion paths.
func (in *Interner) MustIntern(s string) Handle {
	h, err := in.Intern(s)
	if err != nil {
		panic(err)
	}
	return h
}

// String resolves a Handle back to its IRI string.
func (in *Interner) String(h Handle) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(h) >= len(in.ids) {
		return ""
	}
	return in.ids[h]
}

// Namespace returns the namespace portion of the handle's IRI (up to and
// including the last '#' or '/'), memoized on first access.
func (in *Interner) Namespace(h Handle) string {
	ns, _ := in.split(h)
	return ns
}

// LocalName returns the local-name portion of the handle's IRI.
func (in *Interner) LocalName(h Handle) string {
	_, local := in.split(h)
	return local
}

func (in *Interner) split(h Handle) (string, string) {
	in.mu.RLock()
	if int(h) >= len(in.splits) {
		in.mu.RUnlock()
		return "", ""
	}
	sp := in.splits[h]
	s := in.ids[h]
	in.mu.RUnlock()

	sp.once.Do(func() {
		ns, local := splitIRI(s)
		sp.ns, sp.local = ns, local
	})
	return sp.ns, sp.local
}

// Release is a no-op hook reserved for a future eviction policy. This
// core never evicts a reachable handle (spec §4.1); callers may still
// call Release defensively without it affecting correctness.
func (in *Interner) Release(Handle) {}

// Len reports how many distinct IRIs have been interned.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.ids)
}

func splitIRI(s string) (ns, local string) {
	if i := strings.LastIndexByte(s, '#'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		return s[:i+1], s[i+1:]
	}
	return s, ""
}

func isAbsoluteIRI(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Scheme != ""
}

type invalidIRIStr string

func (e invalidIRIStr) Error() string { return "invalid or relative IRI: " + string(e) }

func invalidIRIError(s string) error { return invalidIRIStr(s) }
