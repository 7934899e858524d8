package annotate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/genespan/internal/cache"
	"github.com/inodb/genespan/internal/query"
)

// GeneLookup defines the interface for finding the gene at a position.
type GeneLookup interface {
	FindGene(chrom string, pos int64) *cache.GeneSpan
}

// Annotator annotates coordinate queries with the gene that contains them.
type Annotator struct {
	index   GeneLookup
	workers int
	logger  *zap.Logger
	stats   Stats
}

// NewAnnotator creates a new annotator over a built gene index.
func NewAnnotator(idx GeneLookup) *Annotator {
	return &Annotator{
		index:   idx,
		workers: 1,
		logger:  zap.NewNop(),
	}
}

// SetWorkers sets the number of annotation workers. Values below 2 annotate
// synchronously on the calling goroutine.
func (a *Annotator) SetWorkers(n int) {
	a.workers = n
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Stats returns the counts of the last AnnotateAll run.
func (a *Annotator) Stats() Stats {
	return a.stats
}

// Annotate looks up a single query. It never modifies the index.
func (a *Annotator) Annotate(q *query.Query) *Annotation {
	return &Annotation{
		Query: q,
		Gene:  a.index.FindGene(q.Chrom, q.Pos),
	}
}

// AnnotateAll annotates every query from parser and writes one annotation
// per query, in input order. A parse error stops the run.
func (a *Annotator) AnnotateAll(parser query.Parser, writer AnnotationWriter) error {
	a.stats = Stats{}

	var err error
	if a.workers > 1 {
		err = a.annotateParallel(parser, writer)
	} else {
		err = a.annotateSequential(parser, writer)
	}
	if err != nil {
		return err
	}

	if a.stats.Queries == 0 {
		a.logger.Info("0 queries processed")
	}
	a.logger.Info("annotation complete",
		zap.Int("queries", a.stats.Queries),
		zap.Int("annotated", a.stats.Annotated),
		zap.Int("unannotated", a.stats.Unannotated))

	return writer.Flush()
}

func (a *Annotator) annotateSequential(parser query.Parser, writer AnnotationWriter) error {
	for {
		q, err := parser.Next()
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		if q == nil {
			return nil
		}

		if err := a.emit(a.Annotate(q), writer); err != nil {
			return err
		}
	}
}

func (a *Annotator) annotateParallel(parser query.Parser, writer AnnotationWriter) error {
	items := make(chan WorkItem, 2*a.workers)
	var parseErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			q, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read query: %w", err)
				return
			}
			if q == nil {
				return
			}
			items <- WorkItem{Seq: seq, Query: q}
			seq++
		}
	}()

	results := a.ParallelAnnotate(items, a.workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		return a.emit(r.Ann, writer)
	}); err != nil {
		return err
	}

	return parseErr
}

func (a *Annotator) emit(ann *Annotation, writer AnnotationWriter) error {
	a.stats.add(ann)
	if !ann.Found() {
		a.logger.Debug("no annotation",
			zap.String("chrom", ann.Query.Chrom),
			zap.Int64("pos", ann.Query.Pos))
	}
	if err := writer.Write(ann); err != nil {
		return fmt.Errorf("write annotation: %w", err)
	}
	return nil
}

// AnnotationWriter defines the interface for writing annotations.
type AnnotationWriter interface {
	Write(ann *Annotation) error
	Flush() error
}
