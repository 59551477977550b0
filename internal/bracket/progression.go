package bracket

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Progression applies recorded scores to an already loaded bracket.
// It never touches storage: callers hand in the tournament's full match set and
// persist whatever the outcome reports as changed.
type Progression struct {
	logger *slog.Logger
}

func NewProgression(logger *slog.Logger) *Progression {
	if logger == nil {
		logger = slog.Default()
	}
	return &Progression{logger: logger}
}

type ScoreOutcome struct {
	// The scored match, now completed
	Match Match
	// The match the winner moved into, nil for the final or round robin
	Advanced *Match
	// Set when the progression link pointed at a match outside the set
	BrokenLink bool
	// Every match of the tournament is completed after this score
	TournamentCompleted bool
}

func (p *Progression) RecordScore(t Tournament, matches []Match, matchID uuid.UUID, team1Score, team2Score int) (*ScoreOutcome, error) {
	bracketMatches := make([]Match, len(matches))
	copy(bracketMatches, matches)

	index := make(map[uuid.UUID]int, len(bracketMatches))
	for i := range bracketMatches {
		index[bracketMatches[i].ID] = i
	}

	i, ok := index[matchID]
	if !ok || bracketMatches[i].TournamentID != t.ID {
		return nil, ErrMatchNotFound
	}
	match := &bracketMatches[i]

	if match.IsCompleted() {
		return nil, ErrAlreadyCompleted
	}
	if !t.AcceptsScores() {
		return nil, fmt.Errorf("%w: status is %s", ErrTournamentNotActive, t.Status)
	}
	if match.Team1ID == nil || match.Team2ID == nil {
		return nil, ErrTeamsNotAssigned
	}
	if team1Score < 0 || team2Score < 0 {
		return nil, ErrInvalidScore
	}
	if team1Score == team2Score {
		return nil, ErrTieNotAllowed
	}

	s1, s2 := team1Score, team2Score
	match.Team1Score = &s1
	match.Team2Score = &s2

	winner := *match.Team1ID
	if s2 > s1 {
		winner = *match.Team2ID
	}
	match.WinnerID = &winner
	match.Status = MatchCompleted

	outcome := &ScoreOutcome{}

	if match.NextMatchID != nil {
		nextIdx, ok := index[*match.NextMatchID]
		if !ok {
			p.logger.Warn("skipping winner propagation",
				"error", ErrBrokenProgressionLink,
				"match_id", match.ID,
				"next_match_id", *match.NextMatchID,
			)
			outcome.BrokenLink = true
		} else {
			slot := SlotTeam1
			if match.NextMatchSlot != nil {
				slot = *match.NextMatchSlot
			}
			next := &bracketMatches[nextIdx]
			next.setTeam(slot, winner)
			advanced := *next
			outcome.Advanced = &advanced
		}
	}

	outcome.Match = *match
	outcome.TournamentCompleted = allCompleted(bracketMatches)

	return outcome, nil
}

func allCompleted(matches []Match) bool {
	for i := range matches {
		if !matches[i].IsCompleted() {
			return false
		}
	}
	return len(matches) > 0
}

// ParseScore converts a submitted score field into a non-negative integer.
func ParseScore(raw string) (int, error) {
	score, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidScore, raw)
	}
	if score < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidScore, score)
	}
	return score, nil
}
