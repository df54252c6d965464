package matrix

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/pmf-io/matrix-formatter/internal/config"
)

// Result is one formatted matrix payload. Body holds the gzip stream when
// Compressed is set.
type Result struct {
	Body       []byte
	Format     string
	Compressed bool
}

// BatchItem pairs one matrix's formatting outcome with its error, so a batch
// continues past individual failures.
type BatchItem struct {
	Result Result
	Err    error
}

// Formatter renders matrices according to the resolved matrix and output
// settings. It holds the snapshot by reference and performs no configuration
// lookups of its own.
type Formatter struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFormatter constructs a formatter bound to the snapshot.
func NewFormatter(cfg *config.Config, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{cfg: cfg, logger: logger}
}

// Format renders m using the configured default output format.
func (f *Formatter) Format(m Matrix) (Result, error) {
	return f.FormatAs(m, f.cfg.Output().Format())
}

// FormatAs renders m in the requested format. The format name is matched
// case-insensitively; anything other than json or csv fails with
// ErrUnsupportedFormat.
func (f *Formatter) FormatAs(m Matrix, format string) (Result, error) {
	if err := f.validateSize(m); err != nil {
		return Result{}, err
	}
	precision := f.cfg.Matrix().DefaultPrecision()

	var (
		body []byte
		err  error
	)
	normalized := strings.ToLower(format)
	switch normalized {
	case "json":
		body, err = encodeJSON(m, precision)
	case "csv":
		body, err = encodeCSV(m, precision)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Result{}, fmt.Errorf("encode %s: %w", normalized, err)
	}

	result := Result{Body: body, Format: normalized}
	if f.cfg.Output().Compression() {
		compressed, err := compress(body)
		if err != nil {
			return Result{}, fmt.Errorf("compress output: %w", err)
		}
		result.Body = compressed
		result.Compressed = true
	}
	return result, nil
}

// FormatAll renders a batch sequentially. The parallel settings are inert:
// they are reported in the log line but no worker pool runs against them.
// Per-matrix failures are recorded in the returned items without aborting
// the batch.
func (f *Formatter) FormatAll(matrices []Matrix) []BatchItem {
	f.logger.Info("formatting batch",
		zap.Int("matrices", len(matrices)),
		zap.Int("workers", f.cfg.Parallel().Workers()),
		zap.Int("chunk_size", f.cfg.Parallel().ChunkSize()),
	)

	items := make([]BatchItem, 0, len(matrices))
	for i, m := range matrices {
		result, err := f.Format(m)
		if err != nil {
			f.logger.Error("matrix formatting failed", zap.Int("index", i), zap.Error(err))
		} else if f.cfg.Debug().Enabled() {
			f.logger.Debug("matrix processed", zap.Int("index", i), zap.Int("elements", m.Elements()))
		}
		items = append(items, BatchItem{Result: result, Err: err})
	}
	return items
}

func (f *Formatter) validateSize(m Matrix) error {
	maxSize := f.cfg.Matrix().MaxSize()
	if m.Elements() > maxSize {
		f.logger.Warn("matrix rejected",
			zap.Int("elements", m.Elements()),
			zap.Int("max_size", maxSize),
		)
		return fmt.Errorf("%w: %d elements, limit %d", ErrMatrixTooLarge, m.Elements(), maxSize)
	}
	return nil
}

type jsonPayload struct {
	Matrix [][]float64 `json:"matrix"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Format string      `json:"format"`
}

func encodeJSON(m Matrix, precision int) ([]byte, error) {
	rounded := make([][]float64, m.Rows)
	for i, row := range m.Data {
		out := make([]float64, len(row))
		for j, v := range row {
			out[j] = roundTo(v, precision)
		}
		rounded[i] = out
	}
	return json.MarshalIndent(jsonPayload{
		Matrix: rounded,
		Rows:   m.Rows,
		Cols:   m.Cols,
		Format: "json",
	}, "", "  ")
}

func encodeCSV(m Matrix, precision int) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	record := make([]string, m.Cols)
	for _, row := range m.Data {
		for j, v := range row {
			record[j] = strconv.FormatFloat(roundTo(v, precision), 'f', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func roundTo(v float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
