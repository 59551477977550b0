package bracket

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

type SingleEliminationStrategy struct {
	shuffler Shuffler
}

func NewSingleElimination(shuffler Shuffler) *SingleEliminationStrategy {
	if shuffler == nil {
		shuffler = DefaultShuffler()
	}
	return &SingleEliminationStrategy{shuffler: shuffler}
}

func (s *SingleEliminationStrategy) Format() Format {
	return SingleElimination
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// Standard seed pairing: 1 plays the last seed, 2 plays the second to last and so on,
// ordered so the top two seeds can only meet in the final.
// Every pair sums to bracketSize-1, so with more than half the slots filled no pair is empty.
func generateRound1Pairs(bracketSize int) [][2]int {
	if bracketSize == 0 {
		return [][2]int{}
	}

	rounds := []int{0}
	for len(rounds) < bracketSize {
		var nextRound []int
		currentCount := len(rounds) * 2

		for _, seed := range rounds {
			nextRound = append(nextRound, seed)
			nextRound = append(nextRound, (currentCount-1)-seed)
		}
		rounds = nextRound
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(rounds); i += 2 {
		matchup := [2]int{rounds[i], rounds[i+1]}
		pairs = append(pairs, matchup)
	}

	return pairs
}

// node is a match under construction. Links are indexes into the node slice until
// every match has its final ID.
type node struct {
	match Match
	next  int
	slot  Slot
}

func (s *SingleEliminationStrategy) Generate(tournamentID uuid.UUID, teamIDs []uuid.UUID) ([]Match, error) {
	n := len(teamIDs)
	if n < 2 {
		return nil, fmt.Errorf("%w: single elimination got %d", ErrInsufficientTeams, n)
	}

	seeded := make([]uuid.UUID, n)
	copy(seeded, teamIDs)
	s.shuffler.Shuffle(n, func(i, j int) {
		seeded[i], seeded[j] = seeded[j], seeded[i]
	})

	bracketSize := calcBracketSize(n)
	totalRounds := int(math.Log2(float64(bracketSize)))

	nodes := make([]node, 0, bracketSize-1)
	rounds := make([][]int, totalRounds)

	for _, pair := range generateRound1Pairs(bracketSize) {
		team1 := seedAt(seeded, pair[0])
		team2 := seedAt(seeded, pair[1])
		if team1 == nil && team2 == nil {
			continue
		}

		m := Match{
			RoundNumber:  1,
			MatchInRound: len(rounds[0]) + 1,
			Team1ID:      team1,
			Team2ID:      team2,
			Status:       MatchPending,
		}

		// One side empty means the other side advances without playing
		if team1 == nil || team2 == nil {
			winner := team1
			if winner == nil {
				winner = team2
			}
			w := *winner
			m.WinnerID = &w
			m.Status = MatchCompleted
			m.IsBye = true
		}

		rounds[0] = append(rounds[0], len(nodes))
		nodes = append(nodes, node{match: m, next: -1})
	}

	for r := 1; r < totalRounds; r++ {
		count := (len(rounds[r-1]) + 1) / 2
		for i := 0; i < count; i++ {
			rounds[r] = append(rounds[r], len(nodes))
			nodes = append(nodes, node{
				match: Match{
					RoundNumber:  r + 1,
					MatchInRound: i + 1,
					Status:       MatchPending,
				},
				next: -1,
			})
		}
	}

	for r := 0; r < totalRounds-1; r++ {
		for i, idx := range rounds[r] {
			nodes[idx].next = rounds[r+1][i/2]
			if i%2 == 0 {
				nodes[idx].slot = SlotTeam1
			} else {
				nodes[idx].slot = SlotTeam2
			}
		}
	}

	return finalizeNodes(tournamentID, nodes), nil
}

// finalizeNodes assigns IDs, resolves index links into match links and pushes
// the winners of already completed matches forward. Nodes are in round order so
// a bye feeding another bye is resolved in the same pass.
func finalizeNodes(tournamentID uuid.UUID, nodes []node) []Match {
	for i := range nodes {
		nodes[i].match.ID = uuid.New()
		nodes[i].match.TournamentID = tournamentID
	}

	for i := range nodes {
		if nodes[i].next < 0 {
			continue
		}
		nextID := nodes[nodes[i].next].match.ID
		slot := nodes[i].slot
		nodes[i].match.NextMatchID = &nextID
		nodes[i].match.NextMatchSlot = &slot
	}

	for i := range nodes {
		m := &nodes[i].match
		if !m.IsCompleted() || m.WinnerID == nil || nodes[i].next < 0 {
			continue
		}
		nodes[nodes[i].next].match.setTeam(nodes[i].slot, *m.WinnerID)
	}

	matches := make([]Match, len(nodes))
	for i := range nodes {
		matches[i] = nodes[i].match
	}
	return matches
}

func seedAt(seeded []uuid.UUID, idx int) *uuid.UUID {
	if idx >= len(seeded) {
		return nil
	}
	id := seeded[idx]
	return &id
}
