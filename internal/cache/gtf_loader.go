package cache

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
)

// Column positions of the whitespace-split GTF record.
const (
	fieldChrom    = 0
	fieldStart    = 3
	fieldStop     = 4
	fieldGeneName = 9

	minFields = fieldGeneName + 1
)

// GTFLoader collects merged gene spans from a GTF-like annotation file.
type GTFLoader struct {
	path   string
	logger *zap.Logger
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress messages.
func (l *GTFLoader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load collects all spans from the file and builds the chromosome index.
func (l *GTFLoader) Load() (*Index, error) {
	spans, err := l.Collect()
	if err != nil {
		return nil, err
	}
	idx := NewIndex(spans)
	l.logger.Info("built gene index",
		zap.Int("chromosomes", len(idx.trees)),
		zap.Int("genes", idx.GeneCount()))
	return idx, nil
}

// Collect reads the whole file and returns merged spans per chromosome.
// Any open, read or parse failure fails the whole collection.
func (l *GTFLoader) Collect() (Spans, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}
	defer f.Close()

	reader, closeFn, err := openMaybeGzip(f)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	spans, err := l.CollectFrom(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", l.path, err)
	}
	return spans, nil
}

// CollectFrom parses GTF records from r and merges them into spans.
func (l *GTFLoader) CollectFrom(r io.Reader) (Spans, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long attribute columns
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	spans := make(Spans)
	lineNum := 0
	records := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		rec, err := parseRecord(line)
		if err != nil {
			return nil, &ParseError{Line: lineNum, Message: err.Error()}
		}
		spans.Merge(rec.chrom, rec.gene, rec.start, rec.stop)
		records++
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan annotation file: %w", err)
	}

	l.logger.Debug("collected gene spans",
		zap.Int("records", records),
		zap.Int("chromosomes", len(spans)))
	return spans, nil
}

// gtfRecord holds the fields of a GTF line that the collector uses.
type gtfRecord struct {
	chrom string
	start int64
	stop  int64
	gene  string
}

// parseRecord extracts chromosome, coordinates and gene name from a line.
func parseRecord(line string) (*gtfRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < minFields {
		return nil, fmt.Errorf("expected at least %d fields, found %d", minFields, len(fields))
	}

	start, err := strconv.ParseInt(fields[fieldStart], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid start: %s", fields[fieldStart])
	}

	stop, err := strconv.ParseInt(fields[fieldStop], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid stop: %s", fields[fieldStop])
	}

	if start > stop {
		return nil, fmt.Errorf("start %d is after stop %d", start, stop)
	}

	return &gtfRecord{
		chrom: fields[fieldChrom],
		start: start,
		stop:  stop,
		gene:  normalizeGeneName(fields[fieldGeneName]),
	}, nil
}

// normalizeGeneName strips one trailing semicolon and then one layer of
// surrounding double quotes, e.g. `"KRAS";` -> `KRAS`.
func normalizeGeneName(token string) string {
	token = strings.TrimSuffix(token, ";")
	if len(token) >= 2 && token[0] == '"' && token[len(token)-1] == '"' {
		token = token[1 : len(token)-1]
	}
	return token
}

// openMaybeGzip wraps r in a gzip reader when it starts with the gzip magic
// number. The returned close function releases the gzip reader, if any.
func openMaybeGzip(r io.Reader) (io.Reader, func() error, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("read annotation file: %w", err)
	}

	// Check for gzip magic number (0x1f, 0x8b)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, fmt.Errorf("open gzip reader: %w", err)
		}
		return gz, gz.Close, nil
	}
	return br, func() error { return nil }, nil
}

// ParseError represents an error in an annotation record with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation parse error at line %d: %s", e.Line, e.Message)
}
