package scan

import (
	"context"
	"errors"

	"github.com/dgallion1/awaketiger/internal/doctree"
	"github.com/rs/zerolog"
)

// Outcome classifies what happened to one candidate block.
type Outcome string

const (
	OutcomeShort      Outcome = "short"
	OutcomeNotReport  Outcome = "not_report"
	OutcomeNoQuarters Outcome = "no_quarters"
	OutcomeDeclined   Outcome = "declined"
	OutcomePassed     Outcome = "passed"
)

// Match is a block that passed the growth test.
type Match struct {
	Seq     int // 1-based, no gaps, document order
	Block   doctree.TextBlock
	Figures QuarterRecord
}

// Result is the outcome of scanning one document.
type Result struct {
	Matches  []Match
	Blocks   int
	Outcomes map[Outcome]int
}

// Scanner filters disclosure messages for year-over-year growth.
type Scanner struct {
	quarters Quarters
}

func NewScanner(q Quarters) *Scanner {
	return &Scanner{quarters: q}
}

// Scan runs traversal, extraction and the growth test over a whole tree.
// Sequence numbers are assigned only to passing blocks.
func (s *Scanner) Scan(ctx context.Context, root *doctree.Node) Result {
	log := zerolog.Ctx(ctx)

	blocks := ExtractCandidates(root)
	res := Result{
		Blocks:   len(blocks),
		Outcomes: make(map[Outcome]int),
	}

	seq := 0
	for _, b := range blocks {
		rec, outcome := s.evaluate(b)
		res.Outcomes[outcome]++

		switch outcome {
		case OutcomeNotReport:
			log.Debug().Str("title", b.ReportType()).Str("company", b.Company()).Msg("title does not match report pattern")
		case OutcomePassed:
			seq++
			res.Matches = append(res.Matches, Match{Seq: seq, Block: b, Figures: rec})
		}
	}

	log.Info().
		Int("blocks", res.Blocks).
		Int("matches", len(res.Matches)).
		Str("current", string(s.quarters.Current)).
		Str("prior", string(s.quarters.Prior)).
		Msg("scan complete")
	return res
}

func (s *Scanner) evaluate(b doctree.TextBlock) (QuarterRecord, Outcome) {
	rec, err := ExtractQuarters(b, s.quarters.Current, s.quarters.Prior)
	switch {
	case errors.Is(err, ErrShortBlock):
		return nil, OutcomeShort
	case errors.Is(err, ErrNotReport):
		return nil, OutcomeNotReport
	case err != nil:
		return nil, OutcomeNoQuarters
	}
	if !PassesGrowthTest(rec, s.quarters.Current, s.quarters.Prior) {
		return rec, OutcomeDeclined
	}
	return rec, OutcomePassed
}
