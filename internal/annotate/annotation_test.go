package annotate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/genespan/internal/cache"
	"github.com/inodb/genespan/internal/query"
)

func TestAnnotation_Label(t *testing.T) {
	q := &query.Query{Chrom: "chr3", Pos: 134200000}

	found := &Annotation{Query: q, Gene: &cache.GeneSpan{Name: "ANAPC13", Start: 134196546, Stop: 134204162}}
	assert.True(t, found.Found())
	assert.Equal(t, "ANAPC13", found.Label())

	missing := &Annotation{Query: q}
	assert.False(t, missing.Found())
	assert.Equal(t, NotFound, missing.Label())
	assert.Equal(t, "NO-ANNOTATION", missing.Label())
}

func TestStats_Add(t *testing.T) {
	var s Stats
	s.add(&Annotation{Gene: &cache.GeneSpan{Name: "A"}})
	s.add(&Annotation{})
	s.add(&Annotation{})

	assert.Equal(t, Stats{Queries: 3, Annotated: 1, Unannotated: 2}, s)
}
