package stockcode

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseListing reads a listing by filename extension: .csv as comma
// separated values, anything else as an HTML table (the exchange download
// is an HTML page served as .xls).
func ParseListing(r io.Reader, filename string) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSVListing(r)
	default:
		return ParseHTMLListing(r)
	}
}

// ParseHTMLListing returns the first two cells of every <tr>, header row
// included. Rows with fewer than two cells are dropped.
func ParseHTMLListing(r io.Reader) ([]Row, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse listing html: %w", err)
	}

	var rows []Row
	doc.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		rows = append(rows, Row{
			Name: cells.Eq(0).Text(),
			Code: cells.Eq(1).Text(),
		})
	})

	if len(rows) < 2 {
		return nil, ErrEmptyListing
	}
	return rows, nil
}

// ParseCSVListing returns the first two columns of every record, header
// included.
func ParseCSVListing(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse listing csv: %w", err)
	}

	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if len(rec) < 2 {
			continue
		}
		rows = append(rows, Row{Name: rec[0], Code: rec[1]})
	}

	if len(rows) < 2 {
		return nil, ErrEmptyListing
	}
	return rows, nil
}
