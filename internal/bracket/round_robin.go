package bracket

import "github.com/google/uuid"

type RoundRobinStrategy struct{}

func NewRoundRobin() *RoundRobinStrategy {
	return &RoundRobinStrategy{}
}

func (s *RoundRobinStrategy) Format() Format {
	return RoundRobin
}

// Generate pairs every team with every other team once, in input order.
// Fewer than 2 teams is a no-op rather than an error.
func (s *RoundRobinStrategy) Generate(tournamentID uuid.UUID, teamIDs []uuid.UUID) ([]Match, error) {
	n := len(teamIDs)
	if n < 2 {
		return []Match{}, nil
	}

	matches := make([]Match, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			team1 := teamIDs[i]
			team2 := teamIDs[j]
			matches = append(matches, Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				RoundNumber:  1,
				MatchInRound: len(matches) + 1,
				Team1ID:      &team1,
				Team2ID:      &team2,
				Status:       MatchPending,
			})
		}
	}

	return matches, nil
}
