package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/awaketiger/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_ObserveAndWrite(t *testing.T) {
	rec := NewRecorder()
	rec.Observe(scan.Result{
		Blocks:   4,
		Matches:  []scan.Match{{Seq: 1}},
		Outcomes: map[scan.Outcome]int{scan.OutcomePassed: 1, scan.OutcomeNotReport: 3},
	}, time.Unix(1700000000, 0))

	families, err := rec.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 4.0, values["awaketiger_blocks_total"])
	assert.Equal(t, 1.0, values["awaketiger_rows_total"])
	assert.Equal(t, 3.0, values["awaketiger_candidates_total/not_report"])
	assert.Equal(t, 1.0, values["awaketiger_candidates_total/passed"])
	assert.Equal(t, 1700000000.0, values["awaketiger_last_run_timestamp_seconds"])

	path := filepath.Join(t.TempDir(), "awaketiger.prom")
	require.NoError(t, rec.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `awaketiger_candidates_total{outcome="passed"} 1`)
}
