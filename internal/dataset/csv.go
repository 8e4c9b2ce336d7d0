package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/johnnynunez/ClassyVision/internal/errhandling"
	"github.com/johnnynunez/ClassyVision/internal/transforms"
	"github.com/johnnynunez/ClassyVision/pkg/classy"
)

// CSVSource presents rows of one or more CSV files as (features, label)
// pairs. Files are matched by a glob pattern and loaded lazily: only the
// row index (per-file counts) is built up front, and each Get opens the
// owning file and reads the single requested row. All columns must be
// numeric; one column is designated as the label and the remaining columns,
// in header order, form the feature vector.
type CSVSource struct {
	paths       []string
	header      []string
	labelColumn string
	labelIdx    int
	cumCounts   []int
	total       int
}

// NewCSVSource creates a CSV-backed source from a glob pattern.
// labelColumn selects the label column by header name; empty means the
// last column. Every file must share the header of the first file.
func NewCSVSource(pattern, labelColumn string) (*CSVSource, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errhandling.NewInvalidConfigError(fmt.Sprintf("invalid csv pattern %q", pattern), err)
	}
	if len(paths) == 0 {
		return nil, errhandling.NewInvalidConfigError(fmt.Sprintf("no CSV files match pattern %q", pattern), nil)
	}

	s := &CSVSource{paths: paths, labelColumn: labelColumn}
	if err := s.readHeader(); err != nil {
		return nil, err
	}
	if err := s.buildIndex(); err != nil {
		return nil, err
	}
	return s, nil
}

// readHeader reads the first file's header and resolves the label column.
func (s *CSVSource) readHeader() error {
	file, err := os.Open(s.paths[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.paths[0], err)
	}
	defer file.Close()

	header, err := csv.NewReader(file).Read()
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", s.paths[0], err)
	}
	if len(header) < 2 {
		return errhandling.NewInvalidConfigError(
			fmt.Sprintf("%s needs at least two columns, got %d", s.paths[0], len(header)), nil)
	}

	s.header = make([]string, len(header))
	for i, col := range header {
		s.header[i] = strings.TrimSpace(strings.ToLower(col))
	}

	if s.labelColumn == "" {
		s.labelIdx = len(s.header) - 1
		s.labelColumn = s.header[s.labelIdx]
		return nil
	}

	s.labelIdx = -1
	for i, col := range s.header {
		if col == strings.ToLower(s.labelColumn) {
			s.labelIdx = i
			break
		}
	}
	if s.labelIdx < 0 {
		return errhandling.NewInvalidConfigError(
			fmt.Sprintf("label column %q not found in CSV header", s.labelColumn), nil)
	}
	return nil
}

// buildIndex counts data rows per file and builds cumulative counts so a
// global index maps to (file, row) in one pass.
func (s *CSVSource) buildIndex() error {
	s.cumCounts = make([]int, len(s.paths)+1)
	for i, path := range s.paths {
		count, err := countRows(path)
		if err != nil {
			return fmt.Errorf("counting rows in %s: %w", path, err)
		}
		s.cumCounts[i+1] = s.cumCounts[i] + count
	}
	s.total = s.cumCounts[len(s.paths)]
	if s.total == 0 {
		return errhandling.NewInvalidConfigError("CSV files contain no data rows", nil)
	}
	return nil
}

// countRows counts the data rows of a CSV file, excluding the header.
func countRows(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	count := -1 // header
	for {
		if _, err := reader.Read(); err == io.EOF {
			break
		} else if err != nil {
			return 0, err
		}
		count++
	}
	if count < 0 {
		count = 0
	}
	return count, nil
}

// Length implements Source.
func (s *CSVSource) Length() int {
	return s.total
}

// Get implements Source.
func (s *CSVSource) Get(index int) (classy.Sample, error) {
	if index < 0 || index >= s.total {
		return classy.Sample{}, errhandling.NewIndexOutOfRangeError(index, s.total)
	}

	fileIdx, rowIdx := s.locate(index)
	record, err := s.readRow(fileIdx, rowIdx)
	if err != nil {
		return classy.Sample{}, err
	}
	if len(record) != len(s.header) {
		return classy.Sample{}, fmt.Errorf("%s row %d has %d columns, header has %d",
			s.paths[fileIdx], rowIdx, len(record), len(s.header))
	}

	features := make([]float32, 0, len(record)-1)
	var label float32
	for i, cell := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 32)
		if err != nil {
			return classy.Sample{}, fmt.Errorf("parsing column %q in %s row %d: %w",
				s.header[i], s.paths[fileIdx], rowIdx, err)
		}
		if i == s.labelIdx {
			label = float32(v)
		} else {
			features = append(features, float32(v))
		}
	}
	return classy.Pair(features, label), nil
}

// locate maps a global index to (file index, row index within file).
func (s *CSVSource) locate(index int) (fileIdx, rowIdx int) {
	for i := range s.paths {
		if index < s.cumCounts[i+1] {
			return i, index - s.cumCounts[i]
		}
	}
	return len(s.paths) - 1, index - s.cumCounts[len(s.paths)-1]
}

// readRow reads a single data row (0-based, header excluded) from a file.
func (s *CSVSource) readRow(fileIdx, rowIdx int) ([]string, error) {
	file, err := os.Open(s.paths[fileIdx])
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.paths[fileIdx], err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	for skip := 0; skip <= rowIdx; skip++ {
		if _, err := reader.Read(); err != nil {
			return nil, fmt.Errorf("skipping to row %d in %s: %w", rowIdx, s.paths[fileIdx], err)
		}
	}
	record, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading row %d in %s: %w", rowIdx, s.paths[fileIdx], err)
	}
	return record, nil
}

// NewCSVFromConfig builds a CSV-backed dataset from its declarative
// configuration. Required extra key: "pattern" (glob). Optional:
// "label_column" (header name, default last column).
func NewCSVFromConfig(cfg *classy.DatasetConfig, transform transforms.Transform) (*Dataset, error) {
	rawPattern, ok := cfg.Extra["pattern"]
	if !ok {
		return nil, errhandling.NewMissingKeyError("csv", "pattern")
	}
	pattern, ok := rawPattern.(string)
	if !ok || pattern == "" {
		return nil, errhandling.NewInvalidConfigError("csv pattern must be a non-empty string", nil)
	}

	labelColumn := ""
	if raw, ok := cfg.Extra["label_column"]; ok {
		labelColumn, ok = raw.(string)
		if !ok {
			return nil, errhandling.NewInvalidConfigError("csv label_column must be a string", nil)
		}
	}

	source, err := NewCSVSource(pattern, labelColumn)
	if err != nil {
		return nil, err
	}
	return New(cfg.Name, source, transform, cfg.BatchsizePerReplica, cfg.Shuffle, cfg.NumSamples, cfg.DropLast)
}
