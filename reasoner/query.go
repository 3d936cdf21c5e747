package reasoner

import (
	"context"

	"go.uber.org/zap"

	"github.com/anusornc/owl2go/classify"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// IsConsistent is spec §4.9's is_consistent: does the ontology have a
// model at all. The read lock is held for the full tableau run — spec
// §5's snapshot semantics, enforced with the store-granularity
// reader–writer lock rather than a copy.
func (r *Reasoner) IsConsistent(ctx context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	version := r.ontology.Store.Version()
	if v, ok := r.caches.Consistency(version, now()); ok {
		r.cfg.Observer.OnCacheHit("consistency")
		return v, nil
	}
	r.cfg.Observer.OnCacheMiss("consistency")

	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()

	result, err := r.snapshot().IsConsistent(ctx)
	if err != nil {
		return false, err
	}
	r.caches.PutConsistency(version, now(), result)
	return result, nil
}

// IsSatisfiable is spec §4.9's is_satisfiable.
func (r *Reasoner) IsSatisfiable(ctx context.Context, c expr.ExprID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	version := r.ontology.Store.Version()
	if v, ok := r.caches.Satisfiability(version, now(), c); ok {
		r.cfg.Observer.OnCacheHit("satisfiability")
		return v, nil
	}
	r.cfg.Observer.OnCacheMiss("satisfiability")

	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()

	result, err := r.snapshot().IsSatisfiable(ctx, c)
	if err != nil {
		return false, err
	}
	r.caches.PutSatisfiability(version, now(), c, result)
	return result, nil
}

// IsSubclassOf is spec §4.9's is_subclass_of.
func (r *Reasoner) IsSubclassOf(ctx context.Context, sub, sup expr.ExprID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	version := r.ontology.Store.Version()
	if v, ok := r.caches.Subsumption(version, now(), sub, sup); ok {
		r.cfg.Observer.OnCacheHit("subsumption")
		return v, nil
	}
	r.cfg.Observer.OnCacheMiss("subsumption")

	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()

	result, err := r.snapshot().IsSubsumedBy(ctx, sub, sup)
	if err != nil {
		return false, err
	}
	r.caches.PutSubsumption(version, now(), sub, sup, result)
	return result, nil
}

// AreEquivalentClasses holds iff each subsumes the other.
func (r *Reasoner) AreEquivalentClasses(ctx context.Context, a, b expr.ExprID) (bool, error) {
	forward, err := r.IsSubclassOf(ctx, a, b)
	if err != nil {
		return false, err
	}
	if !forward {
		return false, nil
	}
	return r.IsSubclassOf(ctx, b, a)
}

// AreDisjointClasses is spec §4.9's are_disjoint_classes.
func (r *Reasoner) AreDisjointClasses(ctx context.Context, a, b expr.ExprID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()
	return r.snapshot().AreDisjoint(ctx, a, b)
}

// AreSameIndividuals decides whether the ontology entails a = b
// (the {a} ⊑ {b} nominal reduction; spec §8 scenario 3's are_same).
func (r *Reasoner) AreSameIndividuals(ctx context.Context, a, b entity.IndividualID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()
	return r.snapshot().AreSameIndividuals(ctx, a, b)
}

// EntailsObjectPropertyAssertion decides whether R(a, b) is entailed
// (spec §8 scenario 6: a chain-derived property assertion).
func (r *Reasoner) EntailsObjectPropertyAssertion(ctx context.Context, p expr.ObjectPropertyExpr, a, b entity.IndividualID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()
	return r.snapshot().EntailsObjectPropertyAssertion(ctx, p, a, b)
}

// DirectSubclasses and DirectSuperclasses answer from a freshly
// computed Hierarchy (spec §4.9); classify() is not cached per-pair
// the way satisfiability/subsumption are — a single run answers every
// pair at once, so the caller is expected to call Classify once and
// reuse the *classify.Hierarchy, not call these in a loop per pair.
func (r *Reasoner) DirectSubclasses(ctx context.Context, c entity.ClassID) ([]entity.ClassID, error) {
	h, err := r.Classify(ctx)
	if err != nil {
		return nil, err
	}
	return h.DirectChildren(c), nil
}

func (r *Reasoner) DirectSuperclasses(ctx context.Context, c entity.ClassID) ([]entity.ClassID, error) {
	h, err := r.Classify(ctx)
	if err != nil {
		return nil, err
	}
	return h.DirectParents(c), nil
}

func (r *Reasoner) EquivalentClasses(ctx context.Context, c entity.ClassID) ([]entity.ClassID, error) {
	h, err := r.Classify(ctx)
	if err != nil {
		return nil, err
	}
	return h.Equivalents(c), nil
}

// Classify is spec §4.9's classify(): runs Enhanced Traversal and
// returns the Hasse diagram. The read lock is held for the entire
// classification (spec §5: "classification takes a read lock for its
// entire duration").
func (r *Reasoner) Classify(ctx context.Context) (*classify.Hierarchy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()

	start := now()
	h, err := r.classifierLocked().Classify(ctx, r.snapshot())
	if err != nil {
		return nil, err
	}
	r.logger().Debug("classification complete",
		zap.Int("classes", r.registry.ClassCount()),
		zap.Duration("elapsed", now().Sub(start)))
	return h, nil
}

// PropertyHierarchy computes the object/data property analog of
// Classify's output, straight from the closed role hierarchy — role
// subsumption is asserted, transitively-closed structure, so no
// tableau invocation is involved.
func (r *Reasoner) PropertyHierarchy() *classify.PropertyHierarchy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return classify.BuildPropertyHierarchy(r.ontology.Store, r.registry)
}

// GetInstances is spec §4.9's get_instances(class, direct): direct
// instances come straight from the ABox index; transitive (direct ==
// false) instances additionally walk every subclass's direct
// instances via the classified hierarchy, deduplicated. On an
// inconsistent ontology every individual is an instance of every
// class (spec §7).
func (r *Reasoner) GetInstances(ctx context.Context, class expr.ExprID, direct bool) ([]entity.IndividualID, error) {
	r.mu.RLock()
	version := r.ontology.Store.Version()
	r.mu.RUnlock()

	if !direct {
		if v, ok := r.caches.Instances(version, now(), class); ok {
			r.cfg.Observer.OnCacheHit("instances")
			return v, nil
		}
		r.cfg.Observer.OnCacheMiss("instances")

		consistent, err := r.IsConsistent(ctx)
		if err != nil {
			return nil, err
		}
		if !consistent {
			r.mu.RLock()
			defer r.mu.RUnlock()
			return r.registry.AllIndividuals(), nil
		}
	}

	r.mu.RLock()
	directInstances := r.ontology.Store.DirectInstancesOf(class)
	arena := r.arena
	r.mu.RUnlock()

	if direct {
		out := make([]entity.IndividualID, len(directInstances))
		copy(out, directInstances)
		return out, nil
	}

	if arena.Tag(class) != expr.TagNamedClass {
		return directInstances, nil
	}
	cls := arena.ClassOf(class)

	h, err := r.Classify(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[entity.IndividualID]bool{}
	var all []entity.IndividualID
	addAll := func(inds []entity.IndividualID) {
		for _, i := range inds {
			if !seen[i] {
				seen[i] = true
				all = append(all, i)
			}
		}
	}
	addAll(directInstances)

	var walk func(entity.ClassID)
	visited := map[entity.ClassID]bool{}
	walk = func(c entity.ClassID) {
		if visited[c] {
			return
		}
		visited[c] = true
		for _, eq := range h.Equivalents(c) {
			addAll(r.ontology.Store.DirectInstancesOf(arena.NamedClass(eq)))
		}
		for _, child := range h.DirectChildren(c) {
			addAll(r.ontology.Store.DirectInstancesOf(arena.NamedClass(child)))
			walk(child)
		}
	}
	walk(cls)

	r.caches.PutInstances(version, now(), class, all)
	return all, nil
}

// IsInstanceOf is spec §4.9's is_instance_of. Beyond the materialized
// hierarchy walk, a class-expression membership test falls back to the
// tableau: a is an instance of C iff {a} ⊑ C.
func (r *Reasoner) IsInstanceOf(ctx context.Context, ind entity.IndividualID, class expr.ExprID, direct bool) (bool, error) {
	instances, err := r.GetInstances(ctx, class, direct)
	if err != nil {
		return false, err
	}
	for _, i := range instances {
		if i == ind {
			return true, nil
		}
	}
	if direct {
		return false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, cancel := withTimeout(ctx, r.cfg)
	defer cancel()
	return r.snapshot().IsSubsumedBy(ctx, r.arena.OneOf(ind), class)
}

// GetTypes is spec §4.9's get_types(individual, direct): the dual of
// GetInstances, scanning every named class's instance set for
// membership. Named classes are few relative to individuals in most
// ontologies, so this linear scan over classes (rather than an
// inverted index the ABox doesn't maintain) is the teacher's own
// trade-off of simplicity over a speculative index.
func (r *Reasoner) GetTypes(ctx context.Context, ind entity.IndividualID, direct bool) ([]entity.ClassID, error) {
	r.mu.RLock()
	arena := r.arena
	classes := r.registry.AllClasses()
	r.mu.RUnlock()

	var types []entity.ClassID
	for _, c := range classes {
		if c == entity.Nothing {
			continue
		}
		ok, err := r.IsInstanceOf(ctx, ind, arena.NamedClass(c), direct)
		if err != nil {
			return nil, err
		}
		if ok {
			types = append(types, c)
		}
	}
	return types, nil
}
