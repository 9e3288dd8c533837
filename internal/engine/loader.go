package engine

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/zeebo/xxh3"
)

// Fixed column layout of the stop-and-frisk export (0-indexed).
const (
	colYear        = 0
	colDescription = 2
	colArrested    = 13
	colFrisked     = 16
	colGender      = 52
	colRace        = 66
	colLocation    = 71

	// MinColumns is the narrowest header that still reaches colLocation.
	MinColumns = colLocation + 1

	maxLineSize = 1 << 20
)

var sep = []byte{','}

var defaultLogger = log.New("engine")

// LoadStats summarises one Load call.
type LoadStats struct {
	Rows     int
	Skipped  int
	Years    int
	Checksum uint64 // xxh3 of the bytes consumed
	Elapsed  time.Duration
}

type loadConfig struct {
	skipMalformed bool
	logger        *log.Logger
}

type LoadOption func(*loadConfig)

// WithSkipMalformed drops malformed rows with a warning instead of failing the load.
func WithSkipMalformed(skip bool) LoadOption {
	return func(c *loadConfig) { c.skipMalformed = skip }
}

func WithLogger(l *log.Logger) LoadOption {
	return func(c *loadConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// --- 1. ROW DECODER ---

// parseYear accepts only plain decimal digits.
func parseYear(b []byte) (int, bool) {
	if len(b) == 0 || len(b) > 9 {
		return 0, false
	}
	n := 0
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func isYes(b []byte) bool {
	return len(b) == 1 && b[0] == 'Y'
}

func decodeRow(line []byte, width int) (int, Record, error) {
	fields := bytes.Split(line, sep)
	if len(fields) != width {
		return 0, Record{}, fmt.Errorf("%w: got %d fields, want %d", ErrRowWidth, len(fields), width)
	}
	year, ok := parseYear(fields[colYear])
	if !ok {
		return 0, Record{}, fmt.Errorf("%w: %q", ErrBadYear, fields[colYear])
	}
	rec := NewRecord(
		string(fields[colDescription]),
		isYes(fields[colArrested]),
		isYes(fields[colFrisked]),
		string(fields[colGender]),
		string(fields[colRace]),
		string(fields[colLocation]),
	)
	return year, rec, nil
}

// --- 2. MAIN LOADER ---

// Load reads a header line followed by comma-delimited rows and appends every
// row to the YearGroup of its year. The header's field count fixes the row
// width. A malformed row aborts the load with a *ParseError unless
// WithSkipMalformed is set. Rows are staged and only added to s once the
// whole input decodes, so a failed Load leaves s as it was.
func (s *Store) Load(r io.Reader, opts ...LoadOption) (LoadStats, error) {
	cfg := loadConfig{logger: defaultLogger}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	cfg.logger.Info("Loading stop records...")

	var stats LoadStats
	staged := NewStore()
	hasher := xxh3.New()
	sc := bufio.NewScanner(io.TeeReader(r, hasher))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	// A. Header
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return stats, fmt.Errorf("read header: %w", err)
		}
		return stats, fmt.Errorf("%w: empty input", ErrHeader)
	}
	width := bytes.Count(sc.Bytes(), sep) + 1
	if width < MinColumns {
		return stats, fmt.Errorf("%w: %d columns, need at least %d", ErrHeader, width, MinColumns)
	}

	// B. Rows
	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := sc.Bytes() // ScanLines drops the trailing \r
		if len(line) == 0 {
			continue
		}

		year, rec, err := decodeRow(line, width)
		if err != nil {
			perr := &ParseError{Line: lineNo, Err: err}
			if !cfg.skipMalformed {
				return LoadStats{}, perr
			}
			cfg.logger.Warnf("skipping malformed row: %v", perr)
			stats.Skipped++
			continue
		}

		staged.insert(year, rec)
		stats.Rows++
	}
	if err := sc.Err(); err != nil {
		return LoadStats{}, fmt.Errorf("read line %d: %w", lineNo+1, err)
	}

	s.merge(staged)
	stats.Years = len(s.groups)
	stats.Checksum = hasher.Sum64()
	stats.Elapsed = time.Since(start)

	cfg.logger.Infof("Load Complete. Rows: %d. Skipped: %d. Years: %d. Time: %v",
		stats.Rows, stats.Skipped, stats.Years, stats.Elapsed)
	return stats, nil
}

// LoadFile opens path and loads it with Load.
func (s *Store) LoadFile(path string, opts ...LoadOption) (LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadStats{}, fmt.Errorf("open data file: %w", err)
	}
	defer f.Close()
	return s.Load(f, opts...)
}
