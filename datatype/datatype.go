// Package datatype implements the Datatype Oracle (spec §3.6, §4.6):
// satisfiability of conjunctions of data-range restrictions over the
// fixed XSD lattice rooted at rdfs:Literal. The oracle is a closed type
// switch over the supported datatypes, following the teacher's
// closed-dispatch idiom (spec §9: "no open polymorphism is needed").
package datatype

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/anusornc/owl2go/entity"
	"github.com/anusornc/owl2go/expr"
	"github.com/anusornc/owl2go/internal/errs"
	"github.com/anusornc/owl2go/iri"
)

// Name identifies one of the fixed XSD datatypes this oracle understands.
type Name string

const (
	String            Name = "http://www.w3.org/2001/XMLSchema#string"
	Boolean           Name = "http://www.w3.org/2001/XMLSchema#boolean"
	Decimal           Name = "http://www.w3.org/2001/XMLSchema#decimal"
	Integer           Name = "http://www.w3.org/2001/XMLSchema#integer"
	Long              Name = "http://www.w3.org/2001/XMLSchema#long"
	Int               Name = "http://www.w3.org/2001/XMLSchema#int"
	Short             Name = "http://www.w3.org/2001/XMLSchema#short"
	Byte              Name = "http://www.w3.org/2001/XMLSchema#byte"
	PositiveInteger   Name = "http://www.w3.org/2001/XMLSchema#positiveInteger"
	NonNegativeInteger Name = "http://www.w3.org/2001/XMLSchema#nonNegativeInteger"
	NegativeInteger   Name = "http://www.w3.org/2001/XMLSchema#negativeInteger"
	NonPositiveInteger Name = "http://www.w3.org/2001/XMLSchema#nonPositiveInteger"
	Float             Name = "http://www.w3.org/2001/XMLSchema#float"
	Double            Name = "http://www.w3.org/2001/XMLSchema#double"
	DateTime          Name = "http://www.w3.org/2001/XMLSchema#dateTime"
	Date              Name = "http://www.w3.org/2001/XMLSchema#date"
	AnyURI            Name = "http://www.w3.org/2001/XMLSchema#anyURI"
	HexBinary         Name = "http://www.w3.org/2001/XMLSchema#hexBinary"
	Base64Binary      Name = "http://www.w3.org/2001/XMLSchema#base64Binary"
	RDFSLiteral       Name = "http://www.w3.org/2000/01/rdf-schema#Literal"
)

var numericSupertypes = map[Name]bool{
	Decimal: true, Integer: true, Long: true, Int: true, Short: true, Byte: true,
	PositiveInteger: true, NonNegativeInteger: true, NegativeInteger: true,
	NonPositiveInteger: true, Float: true, Double: true,
}

var knownDatatypes = func() map[Name]bool {
	m := map[Name]bool{}
	for _, n := range []Name{
		String, Boolean, Decimal, Integer, Long, Int, Short, Byte,
		PositiveInteger, NonNegativeInteger, NegativeInteger, NonPositiveInteger,
		Float, Double, DateTime, Date, AnyURI, HexBinary, Base64Binary, RDFSLiteral,
	} {
		m[n] = true
	}
	return m
}()

// Constraint pins one data-property value, through a data range, at a
// single tableau node (spec §4.6: "a set of constraints on a shared
// anonymous data value").
type Constraint struct {
	Property entity.PropertyID
	Range    expr.ExprID
	Negated  bool
}

// Oracle decides SAT/UNSAT for a set of Constraints sharing one
// anonymous value, per datatype property (constraints on different data
// properties never interact — only same-property constraints are
// conjoined onto the one shared value space).
type Oracle struct {
	arena  *expr.Arena
	in     *iri.Interner
	strict bool
}

// New creates an Oracle reading literals from arena and resolving named
// datatype IRIs through in. strict mirrors Config.DatatypeStrict (spec
// §6): true rejects unknown datatypes with UnsupportedConstruct, false
// treats them as an unconstrained range.
func New(arena *expr.Arena, in *iri.Interner, strict bool) *Oracle {
	return &Oracle{arena: arena, in: in, strict: strict}
}

// Satisfiable decides whether the conjunction of constraints (restricted
// to range membership) is jointly satisfiable. Negated is applied to
// DataOneOf ranges as an exclusion set; a negated named datatype or
// datatype restriction is treated as unconstrained, so a contradiction
// such as D together with ¬D is not detected.
func (o *Oracle) Satisfiable(constraints []Constraint) (bool, error) {
	byProp := map[entity.PropertyID][]Constraint{}
	for _, c := range constraints {
		byProp[c.Property] = append(byProp[c.Property], c)
	}
	for _, cs := range byProp {
		ok, err := o.satisfiableOneProperty(cs)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (o *Oracle) satisfiableOneProperty(constraints []Constraint) (bool, error) {
	var facets []facetBound
	base := Name("")
	for _, c := range constraints {
		fb, dtName, err := o.toFacetBound(c.Range, c.Negated)
		if err != nil {
			return false, err
		}
		if base == "" {
			base = dtName
		} else if base != dtName && dtName != "" {
			// Two incompatible named datatypes pinned on the same value: unsatisfiable.
			return false, nil
		}
		facets = append(facets, fb...)
	}
	return intersectFacets(base, facets)
}

// facetBound is a resolved, datatype-independent bound derived from one
// data range, after accounting for negation.
type facetBound struct {
	kind  expr.Facet
	value string
	// oneOf, when non-nil, restricts the value space to this finite set
	// (possibly itself already complemented into an exclusion set via
	// exclude).
	oneOf   []string
	exclude []string
}

func (o *Oracle) toFacetBound(id expr.ExprID, negated bool) ([]facetBound, Name, error) {
	switch o.arena.Tag(id) {
	case expr.TagDatatype:
		name := Name(o.resolveDatatypeIRI(id))
		if !knownDatatypes[name] {
			if o.strict {
				return nil, "", errs.Unsupported(string(name))
			}
			return nil, "", nil
		}
		if negated {
			return nil, "", nil
		}
		return nil, name, nil

	case expr.TagDatatypeRestriction:
		children := o.arena.Children(id)
		base := Name(o.resolveDatatypeIRI(children[0]))
		var bounds []facetBound
		for _, f := range o.arena.Facets(id) {
			lex, _, _ := o.arena.LiteralValue(f.Value)
			bounds = append(bounds, facetBound{kind: f.Facet, value: lex})
		}
		if negated {
			// A negated restriction, DataComplementOf over a restriction
			// included, is treated as unconstrained: no complement of the
			// facet range is computed.
			return nil, "", nil
		}
		return bounds, base, nil

	case expr.TagDataOneOf:
		var values []string
		for _, lit := range o.arena.Children(id) {
			lex, _, _ := o.arena.LiteralValue(lit)
			values = append(values, lex)
		}
		if negated {
			return []facetBound{{exclude: values}}, "", nil
		}
		return []facetBound{{oneOf: values}}, "", nil

	case expr.TagDataComplement:
		inner := o.arena.Children(id)[0]
		return o.toFacetBound(inner, !negated)

	case expr.TagDataIntersection:
		var all []facetBound
		var base Name
		for _, c := range o.arena.Children(id) {
			fb, dt, err := o.toFacetBound(c, negated)
			if err != nil {
				return nil, "", err
			}
			if dt != "" {
				base = dt
			}
			all = append(all, fb...)
		}
		return all, base, nil

	case expr.TagDataUnion:
		// A disjunctive range collapses to "unconstrained" for this
		// oracle's conservative SAT check: any one disjunct being
		// satisfiable is enough, and the unqualified absence of a facet
		// bound is always satisfiable, so unions never themselves cause
		// UNSAT.
		return nil, "", nil

	default:
		return nil, "", errs.Unsupported("data range")
	}
}

func (o *Oracle) resolveDatatypeIRI(id expr.ExprID) string {
	if o.arena.Tag(id) != expr.TagDatatype {
		return ""
	}
	h := o.arena.NamedDatatype(id)
	return o.in.String(h)
}

// intersectFacets checks whether the accumulated facet bounds for one
// base datatype are jointly satisfiable.
func intersectFacets(base Name, bounds []facetBound) (bool, error) {
	var minInc, maxInc, minExc, maxExc *float64
	var minLen, maxLen, exactLen *int
	var pattern *regexp.Regexp
	var oneOf, exclude map[string]bool

	parseNum := func(s string) (float64, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}

	for _, b := range bounds {
		if b.oneOf != nil {
			if oneOf == nil {
				oneOf = map[string]bool{}
				for _, v := range b.oneOf {
					oneOf[v] = true
				}
			} else {
				next := map[string]bool{}
				for _, v := range b.oneOf {
					if oneOf[v] {
						next[v] = true
					}
				}
				oneOf = next
			}
			continue
		}
		if b.exclude != nil {
			if exclude == nil {
				exclude = map[string]bool{}
			}
			for _, v := range b.exclude {
				exclude[v] = true
			}
			continue
		}
		switch b.kind {
		case expr.FacetMinInclusive:
			if f, ok := parseNum(b.value); ok {
				minInc = maxFloatPtr(minInc, f)
			}
		case expr.FacetMaxInclusive:
			if f, ok := parseNum(b.value); ok {
				maxInc = minFloatPtr(maxInc, f)
			}
		case expr.FacetMinExclusive:
			if f, ok := parseNum(b.value); ok {
				minExc = maxFloatPtr(minExc, f)
			}
		case expr.FacetMaxExclusive:
			if f, ok := parseNum(b.value); ok {
				maxExc = minFloatPtr(maxExc, f)
			}
		case expr.FacetLength:
			n, err := strconv.Atoi(b.value)
			if err == nil {
				exactLen = &n
			}
		case expr.FacetMinLength:
			n, err := strconv.Atoi(b.value)
			if err == nil {
				minLen = maxIntPtr(minLen, n)
			}
		case expr.FacetMaxLength:
			n, err := strconv.Atoi(b.value)
			if err == nil {
				maxLen = minIntPtr(maxLen, n)
			}
		case expr.FacetPattern:
			re, err := regexp.Compile(b.value)
			if err != nil {
				return false, errors.Wrapf(err, "compiling pattern facet %q", b.value)
			}
			pattern = re
		}
	}

	if oneOf != nil {
		for v := range exclude {
			delete(oneOf, v)
		}
		for v := range oneOf {
			if !valueSatisfiesNumericBounds(base, v, minInc, maxInc, minExc, maxExc) {
				continue
			}
			if !valueSatisfiesLength(v, minLen, maxLen, exactLen) {
				continue
			}
			if pattern != nil && !pattern.MatchString(v) {
				continue
			}
			return true, nil
		}
		return false, nil
	}

	if minInc != nil && maxInc != nil && *minInc > *maxInc {
		return false, nil
	}
	if minInc != nil && maxExc != nil && *minInc >= *maxExc {
		return false, nil
	}
	if minExc != nil && maxInc != nil && *minExc >= *maxInc {
		return false, nil
	}
	if minExc != nil && maxExc != nil && *minExc >= *maxExc {
		return false, nil
	}
	if exactLen != nil {
		if minLen != nil && *minLen > *exactLen {
			return false, nil
		}
		if maxLen != nil && *maxLen < *exactLen {
			return false, nil
		}
	}
	if minLen != nil && maxLen != nil && *minLen > *maxLen {
		return false, nil
	}

	switch base {
	case PositiveInteger:
		if maxInc != nil && *maxInc < 1 {
			return false, nil
		}
	case NonNegativeInteger:
		if maxInc != nil && *maxInc < 0 {
			return false, nil
		}
	case NegativeInteger:
		if minInc != nil && *minInc > -1 {
			return false, nil
		}
	case NonPositiveInteger:
		if minInc != nil && *minInc > 0 {
			return false, nil
		}
	}

	return true, nil
}

func valueSatisfiesNumericBounds(base Name, v string, minInc, maxInc, minExc, maxExc *float64) bool {
	if !numericSupertypes[base] {
		return true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	if minInc != nil && f < *minInc {
		return false
	}
	if maxInc != nil && f > *maxInc {
		return false
	}
	if minExc != nil && f <= *minExc {
		return false
	}
	if maxExc != nil && f >= *maxExc {
		return false
	}
	return true
}

func valueSatisfiesLength(v string, minLen, maxLen, exactLen *int) bool {
	n := len(v)
	if exactLen != nil && n != *exactLen {
		return false
	}
	if minLen != nil && n < *minLen {
		return false
	}
	if maxLen != nil && n > *maxLen {
		return false
	}
	return true
}

func maxFloatPtr(cur *float64, v float64) *float64 {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}

func minFloatPtr(cur *float64, v float64) *float64 {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

func maxIntPtr(cur *int, v int) *int {
	if cur == nil || v > *cur {
		return &v
	}
	return cur
}

func minIntPtr(cur *int, v int) *int {
	if cur == nil || v < *cur {
		return &v
	}
	return cur
}

// ValidateLiteral checks an interned literal's lexical form against its
// declared datatype at the ingestion boundary. A malformed lexical form
// for a known datatype is always rejected (its value space is empty);
// an unknown datatype is rejected only in strict mode, mirroring
// Satisfiable's treatment of unknown named ranges.
func (o *Oracle) ValidateLiteral(lit expr.ExprID) error {
	lexical, dt, _ := o.arena.LiteralValue(lit)
	name := Name(o.in.String(dt))
	if !knownDatatypes[name] {
		if o.strict {
			return errs.Unsupported(string(name))
		}
		return nil
	}
	if err := ParseLexical(name, lexical); err != nil {
		return errs.Wrap(errs.UnsupportedConstruct, err)
	}
	return nil
}

// ParseLexical validates that a literal's lexical form is well-formed
// for its datatype, wrapping parse failures with context before they
// become UnsupportedConstruct at the boundary (spec §2 domain stack).
func ParseLexical(name Name, lexical string) error {
	switch name {
	case Integer, Long, Int, Short, Byte, PositiveInteger, NonNegativeInteger,
		NegativeInteger, NonPositiveInteger:
		if _, err := strconv.ParseInt(strings.TrimSpace(lexical), 10, 64); err != nil {
			return errors.Wrapf(err, "parsing %s lexical form %q", name, lexical)
		}
	case Decimal, Float, Double:
		if _, err := strconv.ParseFloat(strings.TrimSpace(lexical), 64); err != nil {
			return errors.Wrapf(err, "parsing %s lexical form %q", name, lexical)
		}
	case Boolean:
		if lexical != "true" && lexical != "false" {
			return errors.Errorf("invalid boolean lexical form %q", lexical)
		}
	case DateTime:
		if _, err := time.Parse(time.RFC3339, lexical); err != nil {
			return errors.Wrapf(err, "parsing dateTime lexical form %q", lexical)
		}
	case Date:
		if _, err := time.Parse("2006-01-02", lexical); err != nil {
			return errors.Wrapf(err, "parsing date lexical form %q", lexical)
		}
	}
	return nil
}
