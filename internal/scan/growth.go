package scan

import (
	"regexp"
	"strconv"
)

// Token columns on a quarter line. Column 0 is the label itself.
const (
	RevenueCol = 1
	ProfitCol  = 2
)

var nonFigure = regexp.MustCompile(`[^\-0-9]`)

// ParseFigure keeps only digits and minus signs and parses the rest as an
// integer. A token with nothing left parses as 0.
//
// Parentheses are stripped like any other character, so "(500)" reads as
// 500 rather than -500.
func ParseFigure(token string) (int64, error) {
	s := nonFigure.ReplaceAllString(token, "")
	if s == "" || s == "-" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// PassesGrowthTest reports whether both revenue and profit of current are
// strictly greater than those of prior. Missing labels, missing columns and
// unparseable figures fail the test.
func PassesGrowthTest(rec QuarterRecord, current, prior QuarterLabel) bool {
	cur, ok := rec[current]
	if !ok {
		return false
	}
	pre, ok := rec[prior]
	if !ok {
		return false
	}

	for _, col := range []int{RevenueCol, ProfitCol} {
		delta, ok := columnDelta(cur, pre, col)
		if !ok || delta <= 0 {
			return false
		}
	}
	return true
}

func columnDelta(cur, pre []string, col int) (int64, bool) {
	if col >= len(cur) || col >= len(pre) {
		return 0, false
	}
	a, err := ParseFigure(cur[col])
	if err != nil {
		return 0, false
	}
	b, err := ParseFigure(pre[col])
	if err != nil {
		return 0, false
	}
	return a - b, true
}
