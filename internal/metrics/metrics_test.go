package metrics

import (
	"testing"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.BracketGenerated(bracket.SingleElimination)
	r.BracketGenerated(bracket.SingleElimination)
	r.BracketGenerated(bracket.RoundRobin)
	r.ScoreRecorded()
	r.ScoreRejected("tie")
	r.TournamentCompleted()
	r.BrokenLink()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.bracketsGenerated.WithLabelValues("single_elimination")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.bracketsGenerated.WithLabelValues("round_robin")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scoresRecorded))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.scoreRejections.WithLabelValues("tie")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tournamentsCompleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.brokenLinks))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.BracketGenerated(bracket.RoundRobin)
		r.ScoreRecorded()
		r.ScoreRejected("invalid")
		r.TournamentCompleted()
		r.BrokenLink()
	})
}
