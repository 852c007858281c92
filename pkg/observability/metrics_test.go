package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/affanshahid/finny/pkg/matcher"
)

func TestObserve(t *testing.T) {
	m := NewMetrics()

	m.Observe(matcher.OutcomeMatched, "hbl")
	m.Observe(matcher.OutcomeMatched, "hbl")
	m.Observe(matcher.OutcomeMatched, "meezan")
	m.Observe(matcher.OutcomeFailed, "hbl")
	m.Observe(matcher.OutcomeUnmatched, "")

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{name: "matched", got: testutil.ToFloat64(m.MessagesTotal.WithLabelValues("matched")), want: 3},
		{name: "failed", got: testutil.ToFloat64(m.MessagesTotal.WithLabelValues("failed")), want: 1},
		{name: "unmatched", got: testutil.ToFloat64(m.MessagesTotal.WithLabelValues("unmatched")), want: 1},
		{name: "hbl hits", got: testutil.ToFloat64(m.MatcherHitsTotal.WithLabelValues("hbl")), want: 2},
		{name: "meezan hits", got: testutil.ToFloat64(m.MatcherHitsTotal.WithLabelValues("meezan")), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	assert.Equal(t, 2, testutil.CollectAndCount(m.MatcherHitsTotal))
}

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Observe(matcher.OutcomeMatched, "hbl")
	m.Time(time.Now().Add(-time.Second))

	path := filepath.Join(t.TempDir(), "finny.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `finny_messages_total{outcome="matched"} 1`)
	assert.Contains(t, string(data), `finny_matcher_hits_total{matcher="hbl"} 1`)
	assert.Contains(t, string(data), "finny_parse_duration_seconds_count 1")
}

func TestMetricsAreIsolated(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.Observe(matcher.OutcomeMatched, "hbl")

	assert.Equal(t, float64(0), testutil.ToFloat64(b.MessagesTotal.WithLabelValues("matched")))
}
