package report

import (
	"strings"

	"github.com/dgallion1/awaketiger/internal/doctree"
	"github.com/dgallion1/awaketiger/internal/scan"
)

// CodeLookup resolves a company annotation line to a stock code or sentinel.
type CodeLookup interface {
	LookupAnnotation(annotation string) string
}

// BuildRow turns a passing block into an output row.
func BuildRow(m scan.Match, codes CodeLookup) doctree.OutputRow {
	b := m.Block
	return doctree.OutputRow{
		Seq:          m.Seq,
		Date:         b.Date(),
		Company:      b.Company(),
		ReportType:   b.ReportType(),
		Body:         strings.Join(b.Body(), "\n"),
		TrailingLink: b.TrailingLink(),
		LinkText:     b.LinkText(),
		StockCode:    codes.LookupAnnotation(b.Company()),
	}
}

// BuildRows keeps match order.
func BuildRows(matches []scan.Match, codes CodeLookup) []doctree.OutputRow {
	rows := make([]doctree.OutputRow, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, BuildRow(m, codes))
	}
	return rows
}
