package classify

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anusornc/owl2go/axiom"
	"github.com/anusornc/owl2go/datatype"
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/iri"
	"github.com/anusornc/owl2go/tableau"
)

type fixture struct {
	in     *iri.Interner
	reg    *entity.Registry
	a      *expr.Arena
	store  *axiom.Store
	norm   *axiom.Normalizer
	oracle *datatype.Oracle
}

func newFixture() *fixture {
	in := iri.New()
	reg := entity.New(in)
	a := expr.New(reg)
	store := axiom.New()
	return &fixture{
		in:     in,
		reg:    reg,
		a:      a,
		store:  store,
		norm:   axiom.NewNormalizer(a, reg, store),
		oracle: datatype.New(a, in, false),
	}
}

func (f *fixture) class(s string) entity.ClassID {
	return f.reg.Class(f.in.MustIntern(s))
}

func (f *fixture) classify(t *testing.T) *Hierarchy {
	t.Helper()
	r := tableau.New(f.a, f.reg, f.store, f.oracle, f.norm, tableau.DefaultConfig())
	c := New(f.a, f.reg, f.store, DefaultConfig())
	h, err := c.Classify(context.Background(), r)
	require.NoError(t, err)
	return h
}

func TestEmptyOntologyHierarchyIsThingOverNothing(t *testing.T) {
	f := newFixture()
	h := f.classify(t)

	assert.ElementsMatch(t, []entity.ClassID{entity.Nothing}, h.DirectChildren(entity.Thing))
	assert.ElementsMatch(t, []entity.ClassID{entity.Thing}, h.DirectParents(entity.Nothing))
}

func TestTransitiveChainYieldsLinearHierarchy(t *testing.T) {
	f := newFixture()
	a := f.class("http://example.org/A")
	b := f.class("http://example.org/B")
	c := f.class("http://example.org/C")
	f.norm.SubClassOf(f.a.NamedClass(a), f.a.NamedClass(b))
	f.norm.SubClassOf(f.a.NamedClass(b), f.a.NamedClass(c))

	h := f.classify(t)

	assert.ElementsMatch(t, []entity.ClassID{b}, h.DirectParents(a))
	assert.ElementsMatch(t, []entity.ClassID{c}, h.DirectParents(b))
	assert.ElementsMatch(t, []entity.ClassID{entity.Thing}, h.DirectParents(c))
	assert.ElementsMatch(t, []entity.ClassID{b, c, entity.Thing}, h.Ancestors(a))
	assert.ElementsMatch(t, []entity.ClassID{a, b, entity.Nothing}, h.Descendants(c))
}

func TestSiblingsShareOneParent(t *testing.T) {
	f := newFixture()
	cat := f.class("http://example.org/Cat")
	dog := f.class("http://example.org/Dog")
	animal := f.class("http://example.org/Animal")
	f.norm.SubClassOf(f.a.NamedClass(cat), f.a.NamedClass(animal))
	f.norm.SubClassOf(f.a.NamedClass(dog), f.a.NamedClass(animal))

	h := f.classify(t)

	assert.ElementsMatch(t, []entity.ClassID{animal}, h.DirectParents(cat))
	assert.ElementsMatch(t, []entity.ClassID{animal}, h.DirectParents(dog))
	assert.ElementsMatch(t, []entity.ClassID{cat, dog}, h.DirectChildren(animal))
}

func TestEquivalentClassesCollapse(t *testing.T) {
	f := newFixture()
	person := f.class("http://example.org/Person")
	human := f.class("http://example.org/Human")
	f.norm.EquivalentClasses([]expr.ExprID{f.a.NamedClass(person), f.a.NamedClass(human)})

	h := f.classify(t)

	assert.Contains(t, h.Equivalents(person), human)
	assert.Contains(t, h.Equivalents(human), person)
}

func TestUnsatisfiableClassCollapsesIntoNothing(t *testing.T) {
	f := newFixture()
	c := f.class("http://example.org/C")
	d := f.class("http://example.org/D")
	bad := f.class("http://example.org/Bad")
	f.norm.DisjointClasses([]expr.ExprID{f.a.NamedClass(c), f.a.NamedClass(d)})
	f.norm.SubClassOf(f.a.NamedClass(bad), f.a.NamedClass(c))
	f.norm.SubClassOf(f.a.NamedClass(bad), f.a.NamedClass(d))

	h := f.classify(t)

	assert.Contains(t, h.Equivalents(bad), entity.Nothing)
}

func TestInconsistentOntologyClassifiesTrivially(t *testing.T) {
	f := newFixture()
	c := f.a.NamedClass(f.class("http://example.org/C"))
	d := f.a.NamedClass(f.class("http://example.org/D"))
	f.norm.DisjointClasses([]expr.ExprID{c, d})
	alice := f.reg.NamedIndividual(f.in.MustIntern("http://example.org/alice"))
	f.norm.ClassAssertion(c, alice)
	f.norm.ClassAssertion(d, alice)

	h := f.classify(t)

	// Spec §7: ⊤ ≡ ⊥ and every class is equivalent to both.
	assert.Contains(t, h.Equivalents(entity.Thing), entity.Nothing)
	assert.Contains(t, h.Equivalents(f.a.ClassOf(c)), entity.Nothing)
}

func TestClassificationIsIdempotent(t *testing.T) {
	f := newFixture()
	a := f.class("http://example.org/A")
	b := f.class("http://example.org/B")
	c := f.class("http://example.org/C")
	f.norm.SubClassOf(f.a.NamedClass(a), f.a.NamedClass(b))
	f.norm.SubClassOf(f.a.NamedClass(b), f.a.NamedClass(c))

	h1 := f.classify(t)
	h2 := f.classify(t)

	if diff := cmp.Diff(snapshot(f, h1), snapshot(f, h2)); diff != "" {
		t.Errorf("two classify() runs diverged (-first +second):\n%s", diff)
	}
}

// snapshot flattens a Hierarchy into sorted per-class edge lists so two
// runs compare structurally regardless of map iteration order.
func snapshot(f *fixture, h *Hierarchy) map[entity.ClassID][][]entity.ClassID {
	out := make(map[entity.ClassID][][]entity.ClassID)
	for _, cls := range f.reg.AllClasses() {
		parents := h.DirectParents(cls)
		children := h.DirectChildren(cls)
		ancestors := h.Ancestors(cls)
		for _, s := range [][]entity.ClassID{parents, children, ancestors} {
			sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
		}
		out[cls] = [][]entity.ClassID{parents, children, ancestors}
	}
	return out
}

func TestObjectPropertyHierarchyReducesTransitively(t *testing.T) {
	f := newFixture()
	prop := func(s string) expr.ObjectPropertyExpr {
		return expr.ObjectPropertyExpr{Property: f.reg.ObjectProperty(f.in.MustIntern(s))}
	}
	hasPart := prop("http://example.org/hasPart")
	hasComponent := prop("http://example.org/hasComponent")
	hasDirectComponent := prop("http://example.org/hasDirectComponent")

	require.NoError(t, f.store.AddRoleChain(axiom.RoleChain{Chain: []expr.ObjectPropertyExpr{hasDirectComponent}, Super: hasComponent}))
	require.NoError(t, f.store.AddRoleChain(axiom.RoleChain{Chain: []expr.ObjectPropertyExpr{hasComponent}, Super: hasPart}))

	ph := BuildPropertyHierarchy(f.store, f.reg)

	parents := ph.ObjectParents[hasDirectComponent]
	assert.ElementsMatch(t, []expr.ObjectPropertyExpr{hasComponent}, parents,
		"hasPart is reachable through hasComponent and must not appear as a direct parent")
}
