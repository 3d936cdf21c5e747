package axiom

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anusornc/owl2go/iri"
)

func TestOntologyIRIRoundTrip(t *testing.T) {
	o := NewOntology(New())
	_, ok := o.IRI()
	assert.False(t, ok, "a fresh ontology has no IRI set")

	in := iri.New()
	h := in.MustIntern("http://example.org/onto")
	o.SetIRI(h)
	got, ok := o.IRI()
	assert.True(t, ok)
	assert.Equal(t, h, got)
}

func TestOntologyImportsAccumulate(t *testing.T) {
	o := NewOntology(New())
	in := iri.New()
	a := in.MustIntern("http://example.org/a")
	b := in.MustIntern("http://example.org/b")

	o.AddImport(a)
	o.AddImport(b)
	assert.Equal(t, []iri.Handle{a, b}, o.Imports())
}
