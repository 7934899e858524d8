package duckdb

import (
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genespan/internal/cache"
)

// SpanRow is a merged gene span as stored in the gene_spans table.
type SpanRow struct {
	Chrom string
	Span  cache.GeneSpan
}

// WriteGeneSpans replaces the gene_spans table with every span in idx.
func (s *Store) WriteGeneSpans(idx *cache.Index) error {
	if _, err := s.db.Exec("DELETE FROM gene_spans"); err != nil {
		return fmt.Errorf("clear gene spans: %w", err)
	}

	return s.appendRows("gene_spans", func(a *goduckdb.Appender) error {
		for _, chrom := range idx.Chromosomes() {
			var appendErr error
			idx.Tree(chrom).Walk(func(g *cache.GeneSpan) {
				if appendErr != nil {
					return
				}
				appendErr = a.AppendRow(chrom, g.Name, g.Start, g.Stop)
			})
			if appendErr != nil {
				return fmt.Errorf("append gene span: %w", appendErr)
			}
		}
		return nil
	})
}

// GeneSpanCount returns the number of rows in gene_spans.
func (s *Store) GeneSpanCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM gene_spans").Scan(&n); err != nil {
		return 0, fmt.Errorf("count gene spans: %w", err)
	}
	return n, nil
}

// LookupGeneSpans returns the stored spans of a gene on every chromosome.
func (s *Store) LookupGeneSpans(name string) ([]SpanRow, error) {
	rows, err := s.db.Query(`SELECT chrom, gene_name, start_pos, stop_pos
		FROM gene_spans
		WHERE gene_name=?
		ORDER BY chrom, start_pos`, name)
	if err != nil {
		return nil, fmt.Errorf("query gene spans: %w", err)
	}
	defer rows.Close()

	var out []SpanRow
	for rows.Next() {
		var r SpanRow
		if err := rows.Scan(&r.Chrom, &r.Span.Name, &r.Span.Start, &r.Span.Stop); err != nil {
			return nil, fmt.Errorf("scan gene span: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gene spans: %w", err)
	}
	return out, nil
}
