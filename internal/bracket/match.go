package bracket

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
)

// Slot names which side of a match a team occupies.
type Slot string

const (
	SlotTeam1 Slot = "team1"
	SlotTeam2 Slot = "team2"
)

type Match struct {
	ID           uuid.UUID `db:"id"`
	TournamentID uuid.UUID `db:"tournament_id"`

	// Position in the bracket, round 1 is the first round played
	RoundNumber  int `db:"round_number"`
	MatchInRound int `db:"match_in_round"`

	Team1ID    *uuid.UUID `db:"team1_id"`
	Team2ID    *uuid.UUID `db:"team2_id"`
	Team1Score *int       `db:"team1_score"`
	Team2Score *int       `db:"team2_score"`
	WinnerID   *uuid.UUID `db:"winner_id"`

	Status MatchStatus `db:"status"`

	NextMatchID   *uuid.UUID `db:"next_match_id"`
	NextMatchSlot *Slot      `db:"next_match_slot"`

	IsBye bool `db:"is_bye"`

	CreatedAt time.Time `db:"created_at"`
}

func (m *Match) IsCompleted() bool {
	return m.Status == MatchCompleted
}

// Playable means both teams are known and no result has been recorded.
func (m *Match) Playable() bool {
	return m.Status != MatchCompleted && m.Team1ID != nil && m.Team2ID != nil
}

func (m *Match) IsWinner(teamID uuid.UUID) bool {
	return m.IsCompleted() && m.WinnerID != nil && *m.WinnerID == teamID
}

func (m *Match) HasTeam(teamID uuid.UUID) bool {
	return (m.Team1ID != nil && *m.Team1ID == teamID) || (m.Team2ID != nil && *m.Team2ID == teamID)
}

func (m *Match) setTeam(slot Slot, teamID uuid.UUID) {
	id := teamID
	switch slot {
	case SlotTeam1:
		m.Team1ID = &id
	case SlotTeam2:
		m.Team2ID = &id
	}
}
