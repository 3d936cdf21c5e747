package iri

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anusornc/owl2go/internal/errs"
)

func TestInternIdempotent(t *testing.T) {
	in := New()
	a, err := in.Intern("http://example.org/A")
	require.NoError(t, err)
	b, err := in.Intern("http://example.org/A")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := in.Intern("http://example.org/B")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestInternRejectsRelativeIRI(t *testing.T) {
	in := New()
	_, err := in.Intern("not-an-iri")
	require.Error(t, err)
	assert.True(t, errs.IsKind(err, errs.InvalidIRI))
}

func TestStringRoundTrip(t *testing.T) {
	in := New()
	h := in.MustIntern("http://example.org/Thing")
	assert.Equal(t, "http://example.org/Thing", in.String(h))
}

func TestNamespaceAndLocalName(t *testing.T) {
	in := New()
	h := in.MustIntern("http://example.org/onto#Widget")
	assert.Equal(t, "http://example.org/onto#", in.Namespace(h))
	assert.Equal(t, "Widget", in.LocalName(h))
}

func TestInternConcurrentSameString(t *testing.T) {
	in := New()
	const n = 50
	results := make(chan Handle, n)
	for i := 0; i < n; i++ {
		go func() {
			h, err := in.Intern("http://example.org/Concurrent")
			require.NoError(t, err)
			results <- h
		}()
	}
	first := <-results
	for i := 1; i < n; i++ {
		assert.Equal(t, first, <-results)
	}
}
