package axiom

import (
	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
)

// Store holds every normalized axiom in typed vectors, offering O(1)
// retrieval by kind and amortized O(1) insertion, plus the three
// secondary indexes spec §3.7 requires: class→direct-instances,
// property→subject-pairs, property→object-pairs. Every insertion bumps
// version, the generation stamp package cache polls to invalidate
// derived results — lifted from the teacher's single version-less
// AxiomStore by adding the counter the spec's incremental-cache story
// needs on top of it.
type Store struct {
	version uint64

	subClassOf           []SubClassOf
	equivalentClasses     []EquivalentClasses
	disjointClasses       []DisjointClasses
	disjointUnion         []DisjointUnion

	roleChains            []RoleChain
	roleCharacteristics   []RoleCharacteristicAxiom
	equivalentProperties  []EquivalentProperties
	disjointProperties    []DisjointProperties
	propertyDomains       []PropertyDomain
	propertyRanges        []PropertyRange
	dataPropertyFunctional []DataPropertyFunctional
	dataPropertyDisjoint  []DataPropertyDisjoint
	dataPropertyDomains   []DataPropertyDomain
	dataPropertyRanges    []DataPropertyRange

	classAssertions          []ClassAssertion
	objectPropertyAssertions []ObjectPropertyAssertion
	dataPropertyAssertions   []DataPropertyAssertion
	sameIndividual           []SameIndividual
	differentIndividuals     []DifferentIndividuals
	annotations              []Annotation

	// Secondary indexes (spec §3.7).
	classDirectInstances map[expr.ExprID][]entity.IndividualID
	propertySubjects     map[propKey][]entity.IndividualID
	propertyObjects      map[propKey][]entity.IndividualID

	roles *RoleHierarchy
}

// propKey identifies an object or data property expression for the
// property-keyed secondary indexes, collapsing Inverse into the key so
// R and InverseOf(R) index to distinct buckets, matching how the
// tableau treats them as distinct navigable directions.
type propKey struct {
	id      uint32
	inverse bool
	isData  bool
}

func objKey(p expr.ObjectPropertyExpr) propKey {
	return propKey{id: uint32(p.Property), inverse: p.Inverse}
}

func dataKey(p entity.PropertyID) propKey {
	return propKey{id: uint32(p), isData: true}
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		classDirectInstances: make(map[expr.ExprID][]entity.IndividualID, 64),
		propertySubjects:     make(map[propKey][]entity.IndividualID, 32),
		propertyObjects:      make(map[propKey][]entity.IndividualID, 32),
		roles:                newRoleHierarchy(),
	}
}

// Roles exposes the closed sub-property/chain hierarchy for the
// tableau's ∀+ and chain rules and the classifier's property hierarchy.
func (s *Store) Roles() *RoleHierarchy { return s.roles }

// Version returns the current generation stamp. It increases
// monotonically on every Add* call and never otherwise.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) bump() { s.version++ }

// --- TBox ---

func (s *Store) AddSubClassOf(a SubClassOf) {
	s.subClassOf = append(s.subClassOf, a)
	s.bump()
}

func (s *Store) AddEquivalentClasses(a EquivalentClasses) {
	s.equivalentClasses = append(s.equivalentClasses, a)
	s.bump()
}

func (s *Store) AddDisjointClasses(a DisjointClasses) {
	s.disjointClasses = append(s.disjointClasses, a)
	s.bump()
}

func (s *Store) AddDisjointUnion(a DisjointUnion) {
	s.disjointUnion = append(s.disjointUnion, a)
	s.bump()
}

func (s *Store) SubClassOfAxioms() []SubClassOf             { return s.subClassOf }
func (s *Store) EquivalentClassesAxioms() []EquivalentClasses { return s.equivalentClasses }
func (s *Store) DisjointClassesAxioms() []DisjointClasses   { return s.disjointClasses }
func (s *Store) DisjointUnionAxioms() []DisjointUnion       { return s.disjointUnion }

// --- RBox ---

// AddRoleChain records a chain axiom (length 1 is a plain sub-property
// axiom). It fails with UnsupportedConstruct if the chain would make
// the role hierarchy irregular (spec §4.3 (v)).
func (s *Store) AddRoleChain(a RoleChain) error {
	if err := s.roles.AddChain(a); err != nil {
		return err
	}
	if len(a.Chain) == 1 {
		s.roles.AddSubPropertyOf(a.Chain[0], a.Super)
	}
	s.roleChains = append(s.roleChains, a)
	s.bump()
	return nil
}

// AddRoleCharacteristic records a role characteristic. Transitive is
// additionally folded into the chain closure as R∘R⊑R, the way the
// teacher's SetTransitive calls AddRoleChain(r, r, r) under the hood.
func (s *Store) AddRoleCharacteristic(a RoleCharacteristicAxiom) {
	s.roleCharacteristics = append(s.roleCharacteristics, a)
	if a.Trait == Transitive {
		_ = s.roles.AddChain(RoleChain{Chain: []expr.ObjectPropertyExpr{a.Role, a.Role}, Super: a.Role})
	}
	s.bump()
}

// IsTransitive reports whether role p has an asserted Transitive
// characteristic.
func (s *Store) IsTransitive(p expr.ObjectPropertyExpr) bool {
	for _, c := range s.roleCharacteristics {
		if c.Trait == Transitive && c.Role == p {
			return true
		}
	}
	return false
}

func (s *Store) AddEquivalentProperties(a EquivalentProperties) {
	s.equivalentProperties = append(s.equivalentProperties, a)
	s.bump()
}

func (s *Store) AddDisjointProperties(a DisjointProperties) {
	s.disjointProperties = append(s.disjointProperties, a)
	s.bump()
}

func (s *Store) AddPropertyDomain(a PropertyDomain) {
	s.propertyDomains = append(s.propertyDomains, a)
	s.bump()
}

func (s *Store) AddPropertyRange(a PropertyRange) {
	s.propertyRanges = append(s.propertyRanges, a)
	s.bump()
}

func (s *Store) AddDataPropertyFunctional(a DataPropertyFunctional) {
	s.dataPropertyFunctional = append(s.dataPropertyFunctional, a)
	s.bump()
}

func (s *Store) AddDataPropertyDisjoint(a DataPropertyDisjoint) {
	s.dataPropertyDisjoint = append(s.dataPropertyDisjoint, a)
	s.bump()
}

func (s *Store) AddDataPropertyDomain(a DataPropertyDomain) {
	s.dataPropertyDomains = append(s.dataPropertyDomains, a)
	s.bump()
}

func (s *Store) AddDataPropertyRange(a DataPropertyRange) {
	s.dataPropertyRanges = append(s.dataPropertyRanges, a)
	s.bump()
}

func (s *Store) RoleChainAxioms() []RoleChain                       { return s.roleChains }
func (s *Store) RoleCharacteristicAxioms() []RoleCharacteristicAxiom { return s.roleCharacteristics }
func (s *Store) EquivalentPropertiesAxioms() []EquivalentProperties { return s.equivalentProperties }
func (s *Store) DisjointPropertiesAxioms() []DisjointProperties     { return s.disjointProperties }
func (s *Store) PropertyDomainAxioms() []PropertyDomain             { return s.propertyDomains }
func (s *Store) PropertyRangeAxioms() []PropertyRange               { return s.propertyRanges }
func (s *Store) DataPropertyFunctionalAxioms() []DataPropertyFunctional {
	return s.dataPropertyFunctional
}
func (s *Store) DataPropertyDisjointAxioms() []DataPropertyDisjoint { return s.dataPropertyDisjoint }
func (s *Store) DataPropertyDomainAxioms() []DataPropertyDomain     { return s.dataPropertyDomains }
func (s *Store) DataPropertyRangeAxioms() []DataPropertyRange       { return s.dataPropertyRanges }

// --- ABox ---

func (s *Store) AddClassAssertion(a ClassAssertion) {
	s.classAssertions = append(s.classAssertions, a)
	s.classDirectInstances[a.Class] = append(s.classDirectInstances[a.Class], a.Individual)
	s.bump()
}

func (s *Store) AddObjectPropertyAssertion(a ObjectPropertyAssertion) {
	s.objectPropertyAssertions = append(s.objectPropertyAssertions, a)
	k := objKey(a.Property)
	s.propertySubjects[k] = append(s.propertySubjects[k], a.Subject)
	s.propertyObjects[k] = append(s.propertyObjects[k], a.Object)
	s.bump()
}

func (s *Store) AddDataPropertyAssertion(a DataPropertyAssertion) {
	s.dataPropertyAssertions = append(s.dataPropertyAssertions, a)
	k := dataKey(a.Property)
	s.propertySubjects[k] = append(s.propertySubjects[k], a.Subject)
	s.bump()
}

func (s *Store) AddSameIndividual(a SameIndividual) {
	s.sameIndividual = append(s.sameIndividual, a)
	s.bump()
}

func (s *Store) AddDifferentIndividuals(a DifferentIndividuals) {
	s.differentIndividuals = append(s.differentIndividuals, a)
	s.bump()
}

func (s *Store) AddAnnotation(a Annotation) {
	s.annotations = append(s.annotations, a)
	// Annotations are logically inert (spec §3.5): recorded for
	// round-trip, but they must never invalidate reasoning caches.
}

func (s *Store) ClassAssertions() []ClassAssertion                     { return s.classAssertions }
func (s *Store) ObjectPropertyAssertions() []ObjectPropertyAssertion   { return s.objectPropertyAssertions }
func (s *Store) DataPropertyAssertions() []DataPropertyAssertion       { return s.dataPropertyAssertions }
func (s *Store) SameIndividualAxioms() []SameIndividual                { return s.sameIndividual }
func (s *Store) DifferentIndividualsAxioms() []DifferentIndividuals    { return s.differentIndividuals }
func (s *Store) Annotations() []Annotation                             { return s.annotations }

// DirectInstancesOf returns individuals directly class-asserted into c,
// the class→direct-instances secondary index.
func (s *Store) DirectInstancesOf(c expr.ExprID) []entity.IndividualID {
	return s.classDirectInstances[c]
}

// SubjectsOfObjectProperty returns individuals appearing as subject of p.
func (s *Store) SubjectsOfObjectProperty(p expr.ObjectPropertyExpr) []entity.IndividualID {
	return s.propertySubjects[objKey(p)]
}

// ObjectsOfObjectProperty returns individuals appearing as object of p.
func (s *Store) ObjectsOfObjectProperty(p expr.ObjectPropertyExpr) []entity.IndividualID {
	return s.propertyObjects[objKey(p)]
}

// SubjectsOfDataProperty returns individuals with an asserted value of
// data property p.
func (s *Store) SubjectsOfDataProperty(p entity.PropertyID) []entity.IndividualID {
	return s.propertySubjects[dataKey(p)]
}

// AxiomCount reports the total number of logically active (non-inert)
// axioms, mirroring the teacher's ontology.axiom_count() convention.
func (s *Store) AxiomCount() int {
	return len(s.subClassOf) + len(s.equivalentClasses) + len(s.disjointClasses) +
		len(s.disjointUnion) + len(s.roleChains) + len(s.roleCharacteristics) +
		len(s.equivalentProperties) + len(s.disjointProperties) +
		len(s.propertyDomains) + len(s.propertyRanges) +
		len(s.dataPropertyFunctional) + len(s.dataPropertyDisjoint) +
		len(s.dataPropertyDomains) + len(s.dataPropertyRanges) +
		len(s.classAssertions) + len(s.objectPropertyAssertions) +
		len(s.dataPropertyAssertions) + len(s.sameIndividual) +
		len(s.differentIndividuals)
}
