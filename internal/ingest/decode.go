package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"

	"github.com/relbench/relbench/internal/models"
)

// ErrUnsupportedFormat is returned for files no decoder is registered for.
var ErrUnsupportedFormat = errors.New("unsupported prediction file format")

// Decoded is the raw content of one prediction file. Columns is nil for
// formats without a header (JSON), where each row carries its own keys.
type Decoded struct {
	Columns []string
	Rows    []map[string]any
}

type decodeFunc func(r io.Reader) (*Decoded, error)

var decoders = map[string]decodeFunc{
	".parquet": decodeParquet,
	".csv":     decodeCSV,
	".jsonl":   decodeJSONLines,
	".ndjson":  decodeJSONLines,
	".json":    decodeJSON,
}

// SupportedExtensions lists the file extensions Decode understands, before
// any compression suffix.
func SupportedExtensions() []string {
	return []string{".parquet", ".csv", ".jsonl", ".ndjson", ".json"}
}

// Decode reads a prediction file, picking the decoder from name's extension.
// A trailing .gz or .zst is decompressed first.
func Decode(name string, r io.Reader) (*Decoded, error) {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))

	switch ext {
	case ".gz":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: opening gzip stream: %w", name, err)
		}
		defer zr.Close()
		return Decode(strings.TrimSuffix(name, path.Ext(name)), zr)
	case ".zst", ".zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: opening zstd stream: %w", name, err)
		}
		defer zr.Close()
		return Decode(strings.TrimSuffix(name, path.Ext(name)), zr)
	case ".pkl", ".pickle":
		return nil, fmt.Errorf("%s: %w: pickle files cannot be read outside Python, export the table with DataFrame.to_parquet", name, ErrUnsupportedFormat)
	}

	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", name, ErrUnsupportedFormat, ext)
	}
	d, err := decode(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func decodeJSON(r io.Reader) (*Decoded, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding JSON array: %w", err)
	}
	return &Decoded{Rows: rows}, nil
}

func decodeJSONLines(r io.Reader) (*Decoded, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var rows []map[string]any
	line := 0
	for scanner.Scan() {
		line++
		text := bytes.TrimSpace(scanner.Bytes())
		if len(text) == 0 {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal(text, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Decoded{Rows: rows}, nil
}

func decodeCSV(r io.Reader) (*Decoded, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Decoded{}, nil
		}
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	columns := append([]string(nil), header...)

	var rows []map[string]any
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, cell := range record {
			row[columns[i]] = parseCell(columns[i], cell)
		}
		rows = append(rows, row)
	}
	return &Decoded{Columns: columns, Rows: rows}, nil
}

// numericColumns are the only CSV columns whose cells are parsed as numbers.
// Key columns such as user keep their text so "01" and "1" stay distinct.
var numericColumns = map[string]bool{
	models.ColumnSeed:        true,
	models.ColumnPredictions: true,
	models.ColumnTargets:     true,
}

// parseCell infers a numeric column's type: numbers become float64, a
// bracketed list of numbers (how pandas writes list cells) becomes []any.
// Cells of other columns, and cells that fail to parse, stay strings.
func parseCell(column, cell string) any {
	if !numericColumns[column] {
		return cell
	}
	s := strings.TrimSpace(cell)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		inner := strings.TrimSpace(s[1 : len(s)-1])
		if inner == "" {
			return []any{}
		}
		var out []any
		for _, part := range strings.Split(inner, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return cell
			}
			out = append(out, f)
		}
		return out
	}
	return cell
}

func decodeParquet(r io.Reader) (*Decoded, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening parquet file: %w", err)
	}

	// Leaf columns are addressed by index; nested list columns
	// (predictions.list.element) collapse onto their top-level name.
	leaves := f.Schema().Columns()
	names := make([]string, len(leaves))
	var columns []string
	seen := make(map[string]bool)
	for i, p := range leaves {
		names[i] = p[0]
		if !seen[p[0]] {
			seen[p[0]] = true
			columns = append(columns, p[0])
		}
	}

	reader := parquet.NewReader(f)
	defer reader.Close()

	var rows []map[string]any
	buf := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			rows = append(rows, parquetRow(row, names))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return &Decoded{Columns: columns, Rows: rows}, nil
}

func parquetRow(row parquet.Row, names []string) map[string]any {
	out := make(map[string]any, len(names))
	for _, v := range row {
		col := v.Column()
		if col < 0 || col >= len(names) {
			continue
		}
		name := names[col]
		val := parquetValue(v)
		if prev, ok := out[name]; ok {
			if list, isList := prev.([]any); isList {
				out[name] = append(list, val)
			} else {
				out[name] = []any{prev, val}
			}
			continue
		}
		out[name] = val
	}
	return out
}

func parquetValue(v parquet.Value) any {
	if v.IsNull() {
		return nil
	}
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean()
	case parquet.Int32:
		return int64(v.Int32())
	case parquet.Int64:
		return v.Int64()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Double:
		return v.Double()
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return nil
	}
}
