package query

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// TextParser reads chrom/position query lines from a text file.
type TextParser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
}

// NewParser creates a new query parser for the given file.
// Supports plain and gzipped files; "-" reads from stdin.
func NewParser(path string) (*TextParser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coordinate file: %w", err)
	}

	p := &TextParser{file: file}
	br := bufio.NewReader(file)

	// Check for gzip magic number (0x1f, 0x8b)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read coordinate file: %w", err)
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = br
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *TextParser {
	return &TextParser{reader: bufio.NewReader(r)}
}

// Next reads the next query from the file.
// Returns nil, nil when there are no more queries.
func (p *TextParser) Next() (*Query, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read coordinate line: %w", err)
		}
		if err == io.EOF && line == "" {
			return nil, nil
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			if err == io.EOF {
				return nil, nil
			}
			continue // Skip empty lines
		}

		return p.parseLine(line)
	}
}

// parseLine parses a "chrom<TAB>position" line into a Query.
func (p *TextParser) parseLine(line string) (*Query, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 2 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[1]),
		}
	}

	return &Query{Chrom: fields[0], Pos: pos, Line: p.lineNumber}, nil
}

// LineNumber returns the current line number being processed.
func (p *TextParser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *TextParser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during query parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("coordinate parse error at line %d: %s", e.Line, e.Message)
}
