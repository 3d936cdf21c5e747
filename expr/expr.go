// Package expr implements the Expression Arena (spec §3.3, §3.6, §4.2):
// hash-consed class expressions, object/data property expressions, data
// ranges, and literals. Every variant is stored once; structurally equal
// expressions share one ExprID, so expression equality is handle
// identity, exactly as the teacher's SymbolTable interns strings once
// and the spec requires ("Hash-consing: for all structurally equal
// expressions e1, e2, intern(e1) == intern(e2)").
package expr

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/iri"
)

// ExprID identifies one hash-consed node in the arena: a class
// expression, a data range, or a literal.
type ExprID uint32

// Tag discriminates the variant stored at an ExprID. The set is closed —
// no open polymorphism is needed (spec §9 design note) — so every
// consumer switches on Tag exhaustively.
type Tag uint8

const (
	TagNamedClass Tag = iota
	TagIntersection
	TagUnion
	TagComplement
	TagOneOf
	TagObjectSomeValuesFrom
	TagObjectAllValuesFrom
	TagObjectHasValue
	TagObjectHasSelf
	TagObjectMinCardinality
	TagObjectMaxCardinality
	TagObjectExactCardinality
	TagDataSomeValuesFrom
	TagDataAllValuesFrom
	TagDataHasValue
	TagDataMinCardinality
	TagDataMaxCardinality
	TagDataExactCardinality

	// Data range variants.
	TagDatatype
	TagDataOneOf
	TagDataIntersection
	TagDataUnion
	TagDataComplement
	TagDatatypeRestriction

	// Literal.
	TagLiteral
)

// Top and Bottom are always the first two interned named classes,
// mirroring entity.Thing / entity.Nothing.
const (
	Top    ExprID = 0
	Bottom ExprID = 1
)

// Facet identifies one of the fixed XSD restriction facets (spec §3.6).
type Facet string

const (
	FacetMinInclusive Facet = "minInclusive"
	FacetMaxInclusive Facet = "maxInclusive"
	FacetMinExclusive Facet = "minExclusive"
	FacetMaxExclusive Facet = "maxExclusive"
	FacetLength       Facet = "length"
	FacetMinLength    Facet = "minLength"
	FacetMaxLength    Facet = "maxLength"
	FacetPattern      Facet = "pattern"
)

// FacetRestriction pairs one facet with its literal value.
type FacetRestriction struct {
	Facet Facet
	Value ExprID // a TagLiteral node
}

// ObjectPropertyExpr is either a named object property or its inverse.
// It is small and finite-valued enough that it does not need its own
// arena slot; it is carried by value on restriction nodes instead.
type ObjectPropertyExpr struct {
	Property entity.PropertyID
	Inverse  bool
}

func (p ObjectPropertyExpr) key() string {
	if p.Inverse {
		return fmt.Sprintf("inv(%d)", p.Property)
	}
	return fmt.Sprintf("%d", p.Property)
}

// node is the arena-internal representation of one Expr.
type node struct {
	tag Tag

	// Children holds operand ExprIDs for intersection/union/complement,
	// the filler for object/data restrictions, or the DataOneOf/OneOf
	// member list (individuals are carried in individuals instead).
	children []ExprID

	objProp ObjectPropertyExpr
	dataProp entity.PropertyID

	individuals []entity.IndividualID // ObjectOneOf members
	cardinality uint32                // Min/Max/ExactCardinality n

	// Literal payload (TagLiteral only).
	lexical    string
	datatype   iri.Handle
	langTag    string

	// Named datatype (TagDatatype only).
	namedDatatype iri.Handle

	// DatatypeRestriction facets (TagDatatypeRestriction only): base is
	// children[0], facets hold the restriction list.
	facets []FacetRestriction
}

func (n *node) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|", n.tag)
	switch n.tag {
	case TagNamedClass:
		fmt.Fprintf(&b, "%d", n.children[0])
	case TagIntersection, TagUnion:
		ids := append([]ExprID(nil), n.children...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(&b, "%d,", id)
		}
	case TagComplement:
		fmt.Fprintf(&b, "%d", n.children[0])
	case TagOneOf:
		ids := append([]entity.IndividualID(nil), n.individuals...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(&b, "%d,", id)
		}
	case TagObjectSomeValuesFrom, TagObjectAllValuesFrom:
		fmt.Fprintf(&b, "%s|%d", n.objProp.key(), n.children[0])
	case TagObjectHasValue:
		fmt.Fprintf(&b, "%s|%d", n.objProp.key(), n.individuals[0])
	case TagObjectHasSelf:
		fmt.Fprintf(&b, "%s", n.objProp.key())
	case TagObjectMinCardinality, TagObjectMaxCardinality, TagObjectExactCardinality:
		filler := ExprID(0)
		if len(n.children) > 0 {
			filler = n.children[0]
		}
		fmt.Fprintf(&b, "%s|%d|%d", n.objProp.key(), n.cardinality, filler)
	case TagDataSomeValuesFrom, TagDataAllValuesFrom:
		fmt.Fprintf(&b, "%d|%d", n.dataProp, n.children[0])
	case TagDataHasValue:
		fmt.Fprintf(&b, "%d|%d", n.dataProp, n.children[0])
	case TagDataMinCardinality, TagDataMaxCardinality, TagDataExactCardinality:
		filler := ExprID(0)
		if len(n.children) > 0 {
			filler = n.children[0]
		}
		fmt.Fprintf(&b, "%d|%d|%d", n.dataProp, n.cardinality, filler)
	case TagDatatype:
		fmt.Fprintf(&b, "%d", n.namedDatatype)
	case TagDataOneOf:
		ids := append([]ExprID(nil), n.children...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(&b, "%d,", id)
		}
	case TagDataIntersection, TagDataUnion:
		ids := append([]ExprID(nil), n.children...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Fprintf(&b, "%d,", id)
		}
	case TagDataComplement:
		fmt.Fprintf(&b, "%d", n.children[0])
	case TagDatatypeRestriction:
		fmt.Fprintf(&b, "%d|", n.children[0])
		facets := append([]FacetRestriction(nil), n.facets...)
		sort.Slice(facets, func(i, j int) bool {
			if facets[i].Facet != facets[j].Facet {
				return facets[i].Facet < facets[j].Facet
			}
			return facets[i].Value < facets[j].Value
		})
		for _, f := range facets {
			fmt.Fprintf(&b, "%s=%d,", f.Facet, f.Value)
		}
	case TagLiteral:
		fmt.Fprintf(&b, "%q|%d|%s", n.lexical, n.datatype, n.langTag)
	}
	return b.String()
}

// Arena is the hash-consed store of all expressions in one ontology.
// It is safe for concurrent use: the classifier runs independent
// tableau invocations in parallel (spec §5), and each invocation
// interns fresh expressions (NNF rewrites, query conjunctions) against
// this shared arena. Interned nodes are immutable, so only the
// id-to-node table itself needs guarding.
type Arena struct {
	registry *entity.Registry

	mu    sync.RWMutex
	byKey map[string]ExprID
	nodes []*node

	nnfMemo map[ExprID]ExprID
}

// New creates an Arena with owl:Thing/owl:Nothing already interned at
// ExprID Top/Bottom, consistent with entity.Thing/entity.Nothing.
func New(reg *entity.Registry) *Arena {
	a := &Arena{
		registry: reg,
		byKey:    make(map[string]ExprID, 256),
		nnfMemo:  make(map[ExprID]ExprID, 64),
	}
	top := a.intern(&node{tag: TagNamedClass, children: []ExprID{ExprID(entity.Thing)}})
	bottom := a.intern(&node{tag: TagNamedClass, children: []ExprID{ExprID(entity.Nothing)}})
	if top != Top || bottom != Bottom {
		panic("expr: Top/Bottom must be the first two interned nodes")
	}
	return a
}

func (a *Arena) intern(n *node) ExprID {
	k := n.key()
	a.mu.Lock()
	defer a.mu.Unlock()
	if id, ok := a.byKey[k]; ok {
		return id
	}
	id := ExprID(len(a.nodes))
	a.nodes = append(a.nodes, n)
	a.byKey[k] = id
	return id
}

// n resolves id to its immutable node under the read lock; the returned
// node is never mutated after interning, so holding the lock across the
// lookup alone is enough.
func (a *Arena) n(id ExprID) *node {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.nodes[id]
}

// Tag returns the variant tag stored at id.
func (a *Arena) Tag(id ExprID) Tag { return a.n(id).tag }

// NamedClass interns NamedClass(c).
func (a *Arena) NamedClass(c entity.ClassID) ExprID {
	if c == entity.Thing {
		return Top
	}
	if c == entity.Nothing {
		return Bottom
	}
	return a.intern(&node{tag: TagNamedClass, children: []ExprID{ExprID(c)}})
}

// ClassOf returns the ClassID for a TagNamedClass node.
func (a *Arena) ClassOf(id ExprID) entity.ClassID {
	n := a.n(id)
	if n.tag != TagNamedClass {
		panic("expr: ClassOf on non-named-class node")
	}
	return entity.ClassID(n.children[0])
}

// Intersection interns ObjectIntersectionOf(operands), applying the
// collapse rules from spec §4.2: de-duplicated and sorted operands,
// single-operand collapses to the operand, empty collapses to Top.
func (a *Arena) Intersection(operands ...ExprID) ExprID {
	ops := dedupSort(operands)
	if len(ops) == 0 {
		return Top
	}
	if len(ops) == 1 {
		return ops[0]
	}
	return a.intern(&node{tag: TagIntersection, children: ops})
}

// Union interns ObjectUnionOf(operands) with the analogous collapse
// rules (empty union is Bottom).
func (a *Arena) Union(operands ...ExprID) ExprID {
	ops := dedupSort(operands)
	if len(ops) == 0 {
		return Bottom
	}
	if len(ops) == 1 {
		return ops[0]
	}
	return a.intern(&node{tag: TagUnion, children: ops})
}

// Complement interns ObjectComplementOf(c). Double negation is not
// collapsed here — NNF normalizes it away — so Complement is a pure
// structural constructor.
func (a *Arena) Complement(c ExprID) ExprID {
	return a.intern(&node{tag: TagComplement, children: []ExprID{c}})
}

// OneOf interns ObjectOneOf(individuals), n >= 1.
func (a *Arena) OneOf(individuals ...entity.IndividualID) ExprID {
	ids := append([]entity.IndividualID(nil), individuals...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return a.intern(&node{tag: TagOneOf, individuals: dedupInd(ids)})
}

func (a *Arena) ObjectSomeValuesFrom(r ObjectPropertyExpr, filler ExprID) ExprID {
	return a.intern(&node{tag: TagObjectSomeValuesFrom, objProp: r, children: []ExprID{filler}})
}

func (a *Arena) ObjectAllValuesFrom(r ObjectPropertyExpr, filler ExprID) ExprID {
	return a.intern(&node{tag: TagObjectAllValuesFrom, objProp: r, children: []ExprID{filler}})
}

func (a *Arena) ObjectHasValue(r ObjectPropertyExpr, ind entity.IndividualID) ExprID {
	return a.intern(&node{tag: TagObjectHasValue, objProp: r, individuals: []entity.IndividualID{ind}})
}

func (a *Arena) ObjectHasSelf(r ObjectPropertyExpr) ExprID {
	return a.intern(&node{tag: TagObjectHasSelf, objProp: r})
}

// ObjectMinCardinality interns (>= n R . filler). filler may be Top (the
// unqualified case) and is stored explicitly so (>= n R) and (>= n R.Top)
// share one node, matching the spec's "filler?" optionality.
func (a *Arena) ObjectMinCardinality(n uint32, r ObjectPropertyExpr, filler ExprID) ExprID {
	return a.intern(&node{tag: TagObjectMinCardinality, objProp: r, cardinality: n, children: []ExprID{filler}})
}

func (a *Arena) ObjectMaxCardinality(n uint32, r ObjectPropertyExpr, filler ExprID) ExprID {
	return a.intern(&node{tag: TagObjectMaxCardinality, objProp: r, cardinality: n, children: []ExprID{filler}})
}

func (a *Arena) ObjectExactCardinality(n uint32, r ObjectPropertyExpr, filler ExprID) ExprID {
	return a.intern(&node{tag: TagObjectExactCardinality, objProp: r, cardinality: n, children: []ExprID{filler}})
}

func (a *Arena) DataSomeValuesFrom(p entity.PropertyID, rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataSomeValuesFrom, dataProp: p, children: []ExprID{rng}})
}

func (a *Arena) DataAllValuesFrom(p entity.PropertyID, rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataAllValuesFrom, dataProp: p, children: []ExprID{rng}})
}

func (a *Arena) DataHasValue(p entity.PropertyID, lit ExprID) ExprID {
	return a.intern(&node{tag: TagDataHasValue, dataProp: p, children: []ExprID{lit}})
}

func (a *Arena) DataMinCardinality(n uint32, p entity.PropertyID, rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataMinCardinality, dataProp: p, cardinality: n, children: []ExprID{rng}})
}

func (a *Arena) DataMaxCardinality(n uint32, p entity.PropertyID, rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataMaxCardinality, dataProp: p, cardinality: n, children: []ExprID{rng}})
}

func (a *Arena) DataExactCardinality(n uint32, p entity.PropertyID, rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataExactCardinality, dataProp: p, cardinality: n, children: []ExprID{rng}})
}

// Datatype interns a named datatype data range (e.g. xsd:integer).
func (a *Arena) Datatype(name iri.Handle) ExprID {
	return a.intern(&node{tag: TagDatatype, namedDatatype: name})
}

func (a *Arena) DataOneOf(literals ...ExprID) ExprID {
	return a.intern(&node{tag: TagDataOneOf, children: dedupSort(literals)})
}

func (a *Arena) DataIntersectionOf(ranges ...ExprID) ExprID {
	return a.intern(&node{tag: TagDataIntersection, children: dedupSort(ranges)})
}

func (a *Arena) DataUnionOf(ranges ...ExprID) ExprID {
	return a.intern(&node{tag: TagDataUnion, children: dedupSort(ranges)})
}

func (a *Arena) DataComplementOf(rng ExprID) ExprID {
	return a.intern(&node{tag: TagDataComplement, children: []ExprID{rng}})
}

func (a *Arena) DatatypeRestriction(base ExprID, facets ...FacetRestriction) ExprID {
	fs := append([]FacetRestriction(nil), facets...)
	sort.Slice(fs, func(i, j int) bool {
		if fs[i].Facet != fs[j].Facet {
			return fs[i].Facet < fs[j].Facet
		}
		return fs[i].Value < fs[j].Value
	})
	return a.intern(&node{tag: TagDatatypeRestriction, children: []ExprID{base}, facets: fs})
}

// Literal interns a (lexical, datatype, languageTag?) triple (spec
// §3.6). Two literals are equal iff they hash-cons to the same node,
// which here is a syntactic equality over the triple — value-space
// equality for the purposes of the datatype oracle's SAT checks is
// computed separately in package datatype, since it requires parsing.
func (a *Arena) Literal(lexical string, datatype iri.Handle, lang string) ExprID {
	return a.intern(&node{tag: TagLiteral, lexical: lexical, datatype: datatype, langTag: lang})
}

// LiteralValue returns the (lexical, datatype, lang) triple for a
// TagLiteral node.
func (a *Arena) LiteralValue(id ExprID) (lexical string, datatype iri.Handle, lang string) {
	n := a.n(id)
	return n.lexical, n.datatype, n.langTag
}

// Children exposes a node's operand list (intersection/union operands,
// restriction fillers, data-range members) for consumers that need to
// walk the structure, e.g. the normalizer and the tableau dispatcher.
func (a *Arena) Children(id ExprID) []ExprID { return a.n(id).children }

// Individuals exposes an ObjectOneOf/ObjectHasValue node's individual list.
func (a *Arena) Individuals(id ExprID) []entity.IndividualID { return a.n(id).individuals }

// ObjectProperty exposes the property expression carried by an object
// restriction node.
func (a *Arena) ObjectProperty(id ExprID) ObjectPropertyExpr { return a.n(id).objProp }

// DataProperty exposes the data property carried by a data restriction node.
func (a *Arena) DataProperty(id ExprID) entity.PropertyID { return a.n(id).dataProp }

// Cardinality exposes the cardinality bound n of a cardinality node.
func (a *Arena) Cardinality(id ExprID) uint32 { return a.n(id).cardinality }

// Facets exposes the facet list of a DatatypeRestriction node.
func (a *Arena) Facets(id ExprID) []FacetRestriction { return a.n(id).facets }

// NamedDatatype exposes the datatype IRI of a TagDatatype node.
func (a *Arena) NamedDatatype(id ExprID) iri.Handle { return a.n(id).namedDatatype }

func dedupSort(ids []ExprID) []ExprID {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]ExprID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:1]
	for _, id := range sorted[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

func dedupInd(ids []entity.IndividualID) []entity.IndividualID {
	if len(ids) == 0 {
		return nil
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}
