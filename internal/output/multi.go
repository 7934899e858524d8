package output

import "github.com/inodb/genespan/internal/annotate"

// MultiWriter duplicates annotations to several writers.
type MultiWriter struct {
	writers []annotate.AnnotationWriter
}

// NewMultiWriter creates a writer that writes to all of writers in order.
func NewMultiWriter(writers ...annotate.AnnotationWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write writes ann to every writer, stopping at the first error.
func (m *MultiWriter) Write(ann *annotate.Annotation) error {
	for _, w := range m.writers {
		if err := w.Write(ann); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes every writer, stopping at the first error.
func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
