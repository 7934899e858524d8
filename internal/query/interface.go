// Package query provides coordinate query file parsing.
package query

// Parser is the interface for readers that produce coordinate queries.
type Parser interface {
	// Next reads the next query.
	// Returns nil, nil when there are no more queries.
	Next() (*Query, error)

	// Close closes the parser and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
