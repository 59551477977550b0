package metrics

import (
	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rec_tournaments"

// Recorder counts bracket lifecycle events. A nil *Recorder is valid and records nothing.
type Recorder struct {
	bracketsGenerated    *prometheus.CounterVec
	scoresRecorded       prometheus.Counter
	scoreRejections      *prometheus.CounterVec
	tournamentsCompleted prometheus.Counter
	brokenLinks          prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		bracketsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_generated_total",
			Help:      "Brackets generated, by tournament format.",
		}, []string{"format"}),
		scoresRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scores_recorded_total",
			Help:      "Match scores accepted.",
		}),
		scoreRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_rejections_total",
			Help:      "Score submissions rejected, by reason.",
		}, []string{"reason"}),
		tournamentsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tournaments_completed_total",
			Help:      "Tournaments that reached completion.",
		}),
		brokenLinks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broken_progression_links_total",
			Help:      "Winner propagations skipped because the next match was missing.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			r.bracketsGenerated,
			r.scoresRecorded,
			r.scoreRejections,
			r.tournamentsCompleted,
			r.brokenLinks,
		)
	}
	return r
}

func (r *Recorder) BracketGenerated(format bracket.Format) {
	if r == nil {
		return
	}
	r.bracketsGenerated.WithLabelValues(string(format)).Inc()
}

func (r *Recorder) ScoreRecorded() {
	if r == nil {
		return
	}
	r.scoresRecorded.Inc()
}

func (r *Recorder) ScoreRejected(reason string) {
	if r == nil {
		return
	}
	r.scoreRejections.WithLabelValues(reason).Inc()
}

func (r *Recorder) TournamentCompleted() {
	if r == nil {
		return
	}
	r.tournamentsCompleted.Inc()
}

func (r *Recorder) BrokenLink() {
	if r == nil {
		return
	}
	r.brokenLinks.Inc()
}
