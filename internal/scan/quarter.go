package scan

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/awaketiger/internal/doctree"
)

var (
	ErrShortBlock = errors.New("text block too short")
	ErrNotReport  = errors.New("title is not a financial report")
	ErrNoQuarters = errors.New("no target quarter lines")
)

// reportPattern matches the report-type line of earnings disclosures:
// business reports, financial-statement basis, operating results, or
// revenue/profit structure changes.
var reportPattern = regexp.MustCompile(`: (.*?기보고서|.*?재무제표기준|영업|매출액또는손익구조)`)

var labelPattern = regexp.MustCompile(`^(\d+)\.([1-4])Q$`)

// QuarterLabel selects one fiscal quarter, e.g. "2023.2Q".
type QuarterLabel string

// ParseQuarter validates s as a <year>.<N>Q label.
func ParseQuarter(s string) (QuarterLabel, error) {
	if !labelPattern.MatchString(s) {
		return "", fmt.Errorf("invalid quarter label %q: want <year>.<1-4>Q", s)
	}
	return QuarterLabel(s), nil
}

// YearAgo returns the same quarter one year earlier.
func (q QuarterLabel) YearAgo() (QuarterLabel, error) {
	m := labelPattern.FindStringSubmatch(string(q))
	if m == nil {
		return "", fmt.Errorf("invalid quarter label %q", q)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return "", fmt.Errorf("invalid quarter year %q: %w", m[1], err)
	}
	return QuarterLabel(fmt.Sprintf("%d.%sQ", year-1, m[2])), nil
}

// Quarters is the pair of labels compared in one run.
type Quarters struct {
	Current QuarterLabel
	Prior   QuarterLabel
}

// DefaultQuarters returns the most recently reported quarter as of now and
// the same quarter a year before. January through March still reports the
// previous year's fourth quarter.
func DefaultQuarters(now time.Time) Quarters {
	year := now.Year()
	var q int
	switch now.Month() {
	case time.January, time.February, time.March:
		year--
		q = 4
	case time.April, time.May, time.June:
		q = 1
	case time.July, time.August, time.September:
		q = 2
	default:
		q = 3
	}
	return Quarters{
		Current: QuarterLabel(fmt.Sprintf("%d.%dQ", year, q)),
		Prior:   QuarterLabel(fmt.Sprintf("%d.%dQ", year-1, q)),
	}
}

// Validate checks both labels are well formed.
func (q Quarters) Validate() error {
	if _, err := ParseQuarter(string(q.Current)); err != nil {
		return fmt.Errorf("current quarter: %w", err)
	}
	if _, err := ParseQuarter(string(q.Prior)); err != nil {
		return fmt.Errorf("prior quarter: %w", err)
	}
	return nil
}

// QuarterRecord maps a quarter label to the tokens of its figure line.
type QuarterRecord map[QuarterLabel][]string

// IsReport reports whether a title line names a financial report.
func IsReport(title string) bool {
	return reportPattern.MatchString(title)
}

// ExtractQuarters gates the block on its report-type line and then collects,
// for each label, the tokens of the first line starting with it. Lines may
// appear anywhere in the block and in any order.
func ExtractQuarters(block doctree.TextBlock, labels ...QuarterLabel) (QuarterRecord, error) {
	if !block.Valid() {
		return nil, ErrShortBlock
	}
	if !IsReport(block.ReportType()) {
		return nil, ErrNotReport
	}

	rec := make(QuarterRecord, len(labels))
	for _, line := range block.Lines {
		for _, label := range labels {
			if !strings.HasPrefix(line, string(label)) {
				continue
			}
			if _, seen := rec[label]; !seen {
				rec[label] = splitTokens(line)
			}
			break
		}
	}

	if len(rec) == 0 {
		return nil, ErrNoQuarters
	}
	return rec, nil
}

func splitTokens(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '/'
	})
}
