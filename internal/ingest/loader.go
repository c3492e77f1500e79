package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/relbench/relbench/internal/models"
	"github.com/relbench/relbench/internal/validation"
	"golang.org/x/sync/errgroup"
)

// ErrNoFiles is returned by Load when the pattern matches nothing.
var ErrNoFiles = errors.New("no files found")

// DefaultWorkers bounds how many files are decoded at once.
const DefaultWorkers = 4

// Loader reads every file matching a pattern from a Source into one table.
type Loader struct {
	source  Source
	workers int
	logger  *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithWorkers sets the number of files decoded concurrently.
func WithWorkers(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns a Loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{
		source:  src,
		workers: DefaultWorkers,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes every file matching pattern and concatenates their records in
// file-name order. Any unreadable or malformed file fails the whole load.
func (l *Loader) Load(ctx context.Context, pattern string) (*models.Table, error) {
	paths, err := l.source.Glob(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w matching %s in %s", ErrNoFiles, pattern, l.source)
	}

	results := make([][]models.PredictionRecord, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, p := range paths {
		// Logged here so the log follows path order, not worker scheduling.
		l.logger.Info("Reading "+p, "path", p)
		g.Go(func() error {
			recs, err := l.loadFile(gctx, p)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	table := &models.Table{
		Records: make([]models.PredictionRecord, 0, total),
		Files:   paths,
	}
	for _, r := range results {
		table.Records = append(table.Records, r...)
	}
	return table, nil
}

// FileCheck is the outcome of validating one file.
type FileCheck struct {
	Path string
	Rows int
	Err  error
}

// Check validates every file matching pattern without stopping at the first
// failure. It returns ErrNoFiles when nothing matches.
func (l *Loader) Check(ctx context.Context, pattern string) ([]FileCheck, error) {
	paths, err := l.source.Glob(ctx, pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w matching %s in %s", ErrNoFiles, pattern, l.source)
	}

	checks := make([]FileCheck, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, p := range paths {
		g.Go(func() error {
			recs, err := l.loadFile(gctx, p)
			checks[i] = FileCheck{Path: p, Rows: len(recs), Err: err}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return checks, nil
}

func (l *Loader) loadFile(ctx context.Context, name string) ([]models.PredictionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc, err := l.source.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	decoded, err := Decode(name, rc)
	if err != nil {
		return nil, err
	}
	if decoded.Columns != nil {
		if err := validation.CheckColumns(name, decoded.Columns); err != nil {
			return nil, err
		}
	}
	if err := validation.ValidateRows(name, decoded.Rows); err != nil {
		return nil, err
	}

	records := make([]models.PredictionRecord, 0, len(decoded.Rows))
	for i, row := range decoded.Rows {
		rec, err := toRecord(row)
		if err != nil {
			return nil, &models.SchemaError{File: name, Row: i + 1, Problems: []string{err.Error()}}
		}
		records = append(records, rec)
	}
	l.logger.Debug("decoded file", "path", name, "rows", len(records))
	return records, nil
}
