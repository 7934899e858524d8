// Package query provides coordinate query file parsing.
package query

import "fmt"

// Query is a single chromosome position to annotate.
type Query struct {
	Chrom string // Chromosome name exactly as given (e.g., "chr12")
	Pos   int64  // Genomic position
	Line  int    // Source line number
}

// Location returns the query formatted as chrom:pos.
func (q *Query) Location() string {
	return fmt.Sprintf("%s:%d", q.Chrom, q.Pos)
}
