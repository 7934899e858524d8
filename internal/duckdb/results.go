package duckdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genespan/internal/annotate"
)

// StartRun records a new annotation run and returns its id.
func (s *Store) StartRun(coord, anno FileFingerprint) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO annotation_runs
		(run_id, coord_path, coord_size, anno_path, anno_size, anno_modtime, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, coord.Path, coord.Size, anno.Path, anno.Size,
		anno.ModTime.UTC(), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert annotation run: %w", err)
	}
	return runID, nil
}

// resultRow is one buffered annotation_results row.
type resultRow struct {
	seq       int64
	chrom     string
	pos       int64
	geneName  string
	annotated bool
}

// ResultWriter stores annotations of one run in annotation_results.
// Rows are buffered and appended on Flush.
type ResultWriter struct {
	store   *Store
	runID   string
	nextSeq int64
	pending []resultRow
}

// NewResultWriter creates a writer for the given run.
func NewResultWriter(s *Store, runID string) *ResultWriter {
	return &ResultWriter{store: s, runID: runID}
}

// Write buffers a single annotation.
func (w *ResultWriter) Write(ann *annotate.Annotation) error {
	row := resultRow{
		seq:       w.nextSeq,
		chrom:     ann.Query.Chrom,
		pos:       ann.Query.Pos,
		annotated: ann.Found(),
	}
	if ann.Found() {
		row.geneName = ann.Gene.Name
	}
	w.pending = append(w.pending, row)
	w.nextSeq++
	return nil
}

// Flush appends buffered rows to DuckDB.
func (w *ResultWriter) Flush() error {
	if len(w.pending) == 0 {
		return nil
	}

	err := w.store.appendRows("annotation_results", func(a *goduckdb.Appender) error {
		for _, r := range w.pending {
			if err := a.AppendRow(w.runID, r.seq, r.chrom, r.pos, r.geneName, r.annotated); err != nil {
				return fmt.Errorf("append annotation result: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	w.pending = w.pending[:0]
	return nil
}

// StoredResult is an annotation read back from annotation_results.
type StoredResult struct {
	Chrom    string
	Pos      int64
	GeneName string // empty when not annotated
}

// Label returns the gene name, or annotate.NotFound when not annotated.
func (r StoredResult) Label() string {
	if r.GeneName == "" {
		return annotate.NotFound
	}
	return r.GeneName
}

// RunResults returns the stored annotations of a run in query order.
func (s *Store) RunResults(runID string) ([]StoredResult, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, gene_name
		FROM annotation_results
		WHERE run_id=?
		ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query annotation results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var r StoredResult
		if err := rows.Scan(&r.Chrom, &r.Pos, &r.GeneName); err != nil {
			return nil, fmt.Errorf("scan annotation result: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate annotation results: %w", err)
	}
	return out, nil
}

// RunCount returns the number of recorded annotation runs.
func (s *Store) RunCount() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM annotation_runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count annotation runs: %w", err)
	}
	return n, nil
}
