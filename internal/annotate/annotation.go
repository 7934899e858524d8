// Package annotate provides gene name annotation of genomic coordinates.
package annotate

import (
	"github.com/inodb/genespan/internal/cache"
	"github.com/inodb/genespan/internal/query"
)

// NotFound is reported when a query's chromosome is unknown or no gene span
// contains its position.
const NotFound = "NO-ANNOTATION"

// Annotation represents the gene found for a single coordinate query.
type Annotation struct {
	Query *query.Query    // Source query
	Gene  *cache.GeneSpan // Containing gene span, nil if none
}

// Found returns true if a gene span contains the queried position.
func (a *Annotation) Found() bool {
	return a.Gene != nil
}

// Label returns the gene name, or NotFound when no gene was found.
func (a *Annotation) Label() string {
	if a.Gene == nil {
		return NotFound
	}
	return a.Gene.Name
}

// Stats counts the outcome of an annotation run.
type Stats struct {
	Queries     int // Queries read
	Annotated   int // Queries with a containing gene
	Unannotated int // Queries reported as NotFound
}

func (s *Stats) add(a *Annotation) {
	s.Queries++
	if a.Found() {
		s.Annotated++
	} else {
		s.Unannotated++
	}
}
