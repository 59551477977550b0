package bracket

import (
	"sort"

	"github.com/google/uuid"
)

type Standing struct {
	TeamID        uuid.UUID
	Played        int
	Wins          int
	Losses        int
	PointsFor     int
	PointsAgainst int
}

func (s Standing) PointDiff() int {
	return s.PointsFor - s.PointsAgainst
}

// Standings tallies completed round robin matches. Teams are ordered by wins, then
// point difference, then points scored; remaining ties keep the input order.
func Standings(teamIDs []uuid.UUID, matches []Match) []Standing {
	table := make([]Standing, len(teamIDs))
	pos := make(map[uuid.UUID]int, len(teamIDs))
	for i, id := range teamIDs {
		table[i] = Standing{TeamID: id}
		pos[id] = i
	}

	for _, m := range matches {
		if !m.IsCompleted() || m.IsBye || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}
		if m.Team1Score == nil || m.Team2Score == nil || m.WinnerID == nil {
			continue
		}
		i1, ok1 := pos[*m.Team1ID]
		i2, ok2 := pos[*m.Team2ID]
		if !ok1 || !ok2 {
			continue
		}

		tally(&table[i1], *m.Team1Score, *m.Team2Score, *m.WinnerID == *m.Team1ID)
		tally(&table[i2], *m.Team2Score, *m.Team1Score, *m.WinnerID == *m.Team2ID)
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Wins != b.Wins {
			return a.Wins > b.Wins
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
		return a.PointsFor > b.PointsFor
	})

	return table
}

func tally(s *Standing, scored, conceded int, won bool) {
	s.Played++
	s.PointsFor += scored
	s.PointsAgainst += conceded
	if won {
		s.Wins++
	} else {
		s.Losses++
	}
}
