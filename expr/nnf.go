package expr

import "github.com/anusornc/owl2go/entity"

// NNF rewrites id into Negation Normal Form per spec §3.3: ¬ ends up
// directly in front of only NamedClass, ObjectHasSelf, ObjectHasValue,
// nominals (ObjectOneOf), or data restrictions; ¬∃R.C becomes ∀R.¬C;
// ¬(>=nR.C) becomes (<=(n-1)R.C); De Morgan pushes ¬ through ⊓/⊔. NNF is
// idempotent by construction: NNF is memoized per ExprID, and a node
// that is already in NNF maps to itself on the next call (spec §8).
func (a *Arena) NNF(id ExprID) ExprID {
	a.mu.RLock()
	out, ok := a.nnfMemo[id]
	a.mu.RUnlock()
	if ok {
		return out
	}
	out = a.nnf(id)
	a.mu.Lock()
	a.nnfMemo[id] = out
	// An already-normal node must be its own fixed point.
	if out != id {
		a.nnfMemo[out] = out
	}
	a.mu.Unlock()
	return out
}

func (a *Arena) nnf(id ExprID) ExprID {
	n := a.n(id)
	switch n.tag {
	case TagNamedClass, TagObjectHasSelf, TagObjectHasValue, TagOneOf,
		TagDataSomeValuesFrom, TagDataAllValuesFrom, TagDataHasValue,
		TagDataMinCardinality, TagDataMaxCardinality, TagDataExactCardinality,
		TagLiteral, TagDatatype, TagDataOneOf, TagDataIntersection,
		TagDataUnion, TagDataComplement, TagDatatypeRestriction:
		return id

	case TagIntersection:
		ops := make([]ExprID, len(n.children))
		for i, c := range n.children {
			ops[i] = a.NNF(c)
		}
		return a.Intersection(ops...)

	case TagUnion:
		ops := make([]ExprID, len(n.children))
		for i, c := range n.children {
			ops[i] = a.NNF(c)
		}
		return a.Union(ops...)

	case TagObjectSomeValuesFrom:
		return a.ObjectSomeValuesFrom(n.objProp, a.NNF(n.children[0]))
	case TagObjectAllValuesFrom:
		return a.ObjectAllValuesFrom(n.objProp, a.NNF(n.children[0]))
	case TagObjectMinCardinality:
		return a.ObjectMinCardinality(n.cardinality, n.objProp, a.NNF(n.children[0]))
	case TagObjectMaxCardinality:
		return a.ObjectMaxCardinality(n.cardinality, n.objProp, a.NNF(n.children[0]))
	case TagObjectExactCardinality:
		// (=n R.C) ≡ (≥n R.C) ⊓ (≤n R.C); decomposing here lets the
		// tableau's ≥/≤ machinery consume exact cardinalities without a
		// dedicated rule for the positive case.
		filler := a.NNF(n.children[0])
		return a.Intersection(
			a.ObjectMinCardinality(n.cardinality, n.objProp, filler),
			a.ObjectMaxCardinality(n.cardinality, n.objProp, filler),
		)

	case TagComplement:
		return a.nnfComplement(n.children[0])
	}
	return id
}

// nnfComplement computes NNF(¬inner).
func (a *Arena) nnfComplement(inner ExprID) ExprID {
	// ¬⊤ ≡ ⊥ and ¬⊥ ≡ ⊤; collapsing them here keeps ⊥ detectable as a
	// plain label-membership clash instead of a negated-atomic special case.
	if inner == Top {
		return Bottom
	}
	if inner == Bottom {
		return Top
	}
	n := a.n(inner)
	switch n.tag {
	case TagNamedClass, TagObjectHasSelf, TagObjectHasValue, TagOneOf,
		TagDataSomeValuesFrom, TagDataAllValuesFrom, TagDataHasValue,
		TagDataMinCardinality, TagDataMaxCardinality, TagDataExactCardinality:
		return a.Complement(inner)

	case TagComplement:
		// ¬¬C ≡ C
		return a.NNF(n.children[0])

	case TagIntersection:
		ops := make([]ExprID, len(n.children))
		for i, c := range n.children {
			ops[i] = a.nnfComplement(c)
		}
		return a.Union(ops...)

	case TagUnion:
		ops := make([]ExprID, len(n.children))
		for i, c := range n.children {
			ops[i] = a.nnfComplement(c)
		}
		return a.Intersection(ops...)

	case TagObjectSomeValuesFrom:
		// ¬∃R.C → ∀R.¬C
		return a.ObjectAllValuesFrom(n.objProp, a.nnfComplement(n.children[0]))

	case TagObjectAllValuesFrom:
		// ¬∀R.C → ∃R.¬C
		return a.ObjectSomeValuesFrom(n.objProp, a.nnfComplement(n.children[0]))

	case TagObjectMinCardinality:
		// ¬(>=nR.C) → (<=(n-1)R.C); (>=0 R.C) is a tautology, so its
		// negation is unsatisfiable.
		filler := a.NNF(n.children[0])
		if n.cardinality == 0 {
			return Bottom
		}
		return a.ObjectMaxCardinality(n.cardinality-1, n.objProp, filler)

	case TagObjectMaxCardinality:
		// ¬(<=nR.C) → (>=(n+1)R.C)
		filler := a.NNF(n.children[0])
		return a.ObjectMinCardinality(n.cardinality+1, n.objProp, filler)

	case TagObjectExactCardinality:
		// ¬(=nR.C) → (<=(n-1)R.C) ⊔ (>=(n+1)R.C)
		filler := a.NNF(n.children[0])
		minPart := a.ObjectMinCardinality(n.cardinality+1, n.objProp, filler)
		if n.cardinality == 0 {
			return minPart
		}
		maxPart := a.ObjectMaxCardinality(n.cardinality-1, n.objProp, filler)
		return a.Union(maxPart, minPart)

	case TagLiteral, TagDatatype, TagDataOneOf, TagDataIntersection,
		TagDataUnion, TagDataComplement, TagDatatypeRestriction:
		return a.Complement(inner)
	}
	return a.Complement(inner)
}

// IsNegatedAtomic reports whether id is ¬A for some named class A, the
// shape the tableau's clash detection looks for (spec §4.5.2 clash (a)).
func (a *Arena) IsNegatedAtomic(id ExprID) (entity.ClassID, bool) {
	n := a.n(id)
	if n.tag != TagComplement {
		return 0, false
	}
	inner := a.n(n.children[0])
	if inner.tag != TagNamedClass {
		return 0, false
	}
	return entity.ClassID(inner.children[0]), true
}
