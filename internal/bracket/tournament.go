package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentPending   TournamentStatus = "pending"
	TournamentActive    TournamentStatus = "active"
	TournamentPaused    TournamentStatus = "paused"
	TournamentCompleted TournamentStatus = "completed"
)

type Format string

const (
	SingleElimination Format = "single_elimination"
	DoubleElimination Format = "double_elimination"
	RoundRobin        Format = "round_robin"
)

// ParseFormat accepts the stored tag as well as the short form used by older forms.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case SingleElimination, DoubleElimination, RoundRobin:
		return Format(s), nil
	}
	switch s {
	case "single":
		return SingleElimination, nil
	case "double":
		return DoubleElimination, nil
	}
	return "", ErrUnsupportedFormat
}

const DefaultAutoNavigateDelay = 10

type Tournament struct {
	ID     uuid.UUID        `db:"id"`
	Name   string           `db:"name"`
	Format Format           `db:"format"`
	Status TournamentStatus `db:"status"`

	// Display settings for the public bracket screen
	IsDefault         bool `db:"is_default"`
	AutoNavigate      bool `db:"auto_navigate"`
	AutoNavigateDelay int  `db:"auto_navigate_delay"`

	CreatedAt time.Time `db:"created_at"`
}

// CanTransition reports whether an admin may move the tournament to the given status.
// Completion is never a manual transition, it happens when the last match is scored.
func (t *Tournament) CanTransition(to TournamentStatus) bool {
	switch t.Status {
	case TournamentPending:
		return to == TournamentActive
	case TournamentActive:
		return to == TournamentPaused
	case TournamentPaused:
		return to == TournamentActive
	}
	return false
}

func (t *Tournament) AcceptsScores() bool {
	return t.Status == TournamentActive
}
