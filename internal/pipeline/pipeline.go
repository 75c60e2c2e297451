package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dgallion1/awaketiger/internal/doctree"
	"github.com/dgallion1/awaketiger/internal/metrics"
	"github.com/dgallion1/awaketiger/internal/parser"
	"github.com/dgallion1/awaketiger/internal/report"
	"github.com/dgallion1/awaketiger/internal/scan"
	"github.com/dgallion1/awaketiger/internal/source"
	"github.com/dgallion1/awaketiger/internal/stockcode"
	"github.com/rs/zerolog"
)

// ScanJob describes one screening run.
type ScanJob struct {
	Input  string // disclosure feed document
	Output string // rendered table

	Codes           string // stock code index JSON
	Listing         string // optional listing to rebuild Codes from first
	ListingEncoding string

	Quarters     scan.Quarters
	Variant      report.Variant
	LinkTemplate string

	MetricsFile string // optional node_exporter textfile
}

// Summary reports what a scan produced.
type Summary struct {
	Blocks    int
	Rows      int
	Outcomes  map[scan.Outcome]int
	IndexSize int
}

// RunScan executes the whole run: index, parse, screen, render, write.
// Every step completes before the next; any failure aborts with no output.
func RunScan(ctx context.Context, job ScanJob, now time.Time) (Summary, error) {
	log := zerolog.Ctx(ctx)

	renderer, err := report.NewRenderer(job.Variant, job.LinkTemplate)
	if err != nil {
		return Summary{}, err
	}

	var idx *stockcode.Index
	if job.Listing != "" {
		idx, err = BuildIndex(ctx, job.Listing, job.ListingEncoding, job.Codes)
	} else {
		idx, err = LoadIndex(job.Codes)
	}
	if err != nil {
		return Summary{}, err
	}

	root, err := ParseDocument(job.Input)
	if err != nil {
		return Summary{}, err
	}

	res := scan.NewScanner(job.Quarters).Scan(ctx, root)
	rows := report.BuildRows(res.Matches, idx)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, rows); err != nil {
		return Summary{}, err
	}
	if err := source.WriteFile(job.Output, buf.Bytes()); err != nil {
		return Summary{}, err
	}

	if job.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(res, now)
		if err := rec.WriteTextfile(job.MetricsFile); err != nil {
			return Summary{}, err
		}
	}

	log.Info().Str("output", job.Output).Int("rows", len(rows)).Msg("report written")
	return Summary{
		Blocks:    res.Blocks,
		Rows:      len(rows),
		Outcomes:  res.Outcomes,
		IndexSize: idx.Len(),
	}, nil
}

// ParseDocument reads and parses an input document, choosing the parser
// from the extension under any compression suffix.
func ParseDocument(path string) (*doctree.Node, error) {
	p, err := parser.ForFile(source.BaseName(path))
	if err != nil {
		return nil, err
	}
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	root, err := p.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

// BuildIndex reads a listing, builds the index and persists it to codesPath.
func BuildIndex(ctx context.Context, listingPath, encoding, codesPath string) (*stockcode.Index, error) {
	data, err := source.ReadText(listingPath, encoding)
	if err != nil {
		return nil, err
	}
	rows, err := stockcode.ParseListing(bytes.NewReader(data), source.BaseName(listingPath))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", listingPath, err)
	}
	idx := stockcode.Build(rows)

	var buf bytes.Buffer
	if err := idx.Save(&buf); err != nil {
		return nil, err
	}
	if err := source.WriteFile(codesPath, buf.Bytes()); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("listing", listingPath).
		Str("codes", codesPath).
		Int("rows", len(rows)-1).
		Int("companies", idx.Len()).
		Msg("stock code index rebuilt")
	return idx, nil
}

// LoadIndex reads a persisted index.
func LoadIndex(path string) (*stockcode.Index, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	idx, err := stockcode.Load(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return idx, nil
}
