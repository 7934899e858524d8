// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"

	"github.com/inodb/genespan/internal/annotate"
)

// TabWriter writes annotations as chrom<TAB>pos<TAB>gene lines.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// Write writes a single annotation.
func (tw *TabWriter) Write(ann *annotate.Annotation) error {
	tw.w.WriteString(ann.Query.Chrom)
	tw.w.WriteByte('\t')
	tw.w.WriteString(strconv.FormatInt(ann.Query.Pos, 10))
	tw.w.WriteByte('\t')
	tw.w.WriteString(ann.Label())
	return tw.w.WriteByte('\n')
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
