// Package cache provides gene span loading and per-chromosome lookup.
package cache

import "fmt"

// GeneSpan is the merged genomic extent of one gene on one chromosome.
type GeneSpan struct {
	Name  string // Gene identifier as found in the annotation source
	Start int64  // Smallest start of all records for the gene (1-based)
	Stop  int64  // Largest stop of all records for the gene (inclusive)
}

// Contains returns true if the given position is within the span boundaries.
func (g *GeneSpan) Contains(pos int64) bool {
	return pos >= g.Start && pos <= g.Stop
}

// Length returns the number of bases covered by the span.
func (g *GeneSpan) Length() int64 {
	return g.Stop - g.Start + 1
}

// Extend widens the span so that it also covers [start, stop].
func (g *GeneSpan) Extend(start, stop int64) {
	g.Start = min(g.Start, start)
	g.Stop = max(g.Stop, stop)
}

func (g *GeneSpan) String() string {
	return fmt.Sprintf("%s:%d-%d", g.Name, g.Start, g.Stop)
}
