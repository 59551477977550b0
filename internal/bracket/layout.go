package bracket

import (
	"sort"

	"github.com/google/uuid"
)

type BracketData struct {
	Rounds    map[int][]Match
	RoundNums []int
	TeamMap   map[uuid.UUID]Team
}

// PrepareBracketData groups matches by round for display, each round ordered by position.
func PrepareBracketData(teams []Team, matches []Match) BracketData {
	teamMap := make(map[uuid.UUID]Team, len(teams))
	for _, t := range teams {
		teamMap[t.ID] = t
	}

	rounds := make(map[int][]Match)
	var roundNums []int

	for _, m := range matches {
		if _, exists := rounds[m.RoundNumber]; !exists {
			roundNums = append(roundNums, m.RoundNumber)
		}
		rounds[m.RoundNumber] = append(rounds[m.RoundNumber], m)
	}

	sort.Ints(roundNums)
	for _, r := range roundNums {
		sort.Slice(rounds[r], func(i, j int) bool {
			return rounds[r][i].MatchInRound < rounds[r][j].MatchInRound
		})
	}

	return BracketData{
		Rounds:    rounds,
		RoundNums: roundNums,
		TeamMap:   teamMap,
	}
}

// SortMatches orders matches by round then position, the order the store returns them in.
func SortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RoundNumber != matches[j].RoundNumber {
			return matches[i].RoundNumber < matches[j].RoundNumber
		}
		return matches[i].MatchInRound < matches[j].MatchInRound
	})
}

// NextPlayable returns the earliest match that has both teams and no result.
func NextPlayable(matches []Match) *Match {
	ordered := make([]Match, len(matches))
	copy(ordered, matches)
	SortMatches(ordered)

	for i := range ordered {
		if ordered[i].Playable() {
			return &ordered[i]
		}
	}
	return nil
}

// Champion is the winner of the final, the one match without a progression link.
// Round robin brackets have no final and never report a champion.
func Champion(matches []Match) (uuid.UUID, bool) {
	var final *Match
	for i := range matches {
		if matches[i].NextMatchID != nil {
			continue
		}
		if final != nil {
			return uuid.Nil, false
		}
		final = &matches[i]
	}

	if final == nil || !final.IsCompleted() || final.WinnerID == nil {
		return uuid.Nil, false
	}
	return *final.WinnerID, true
}

// Referenced returns the distinct team IDs that appear in any slot, in first-seen order.
func Referenced(matches []Match) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id *uuid.UUID) {
		if id == nil || seen[*id] {
			return
		}
		seen[*id] = true
		ids = append(ids, *id)
	}

	for i := range matches {
		add(matches[i].Team1ID)
		add(matches[i].Team2ID)
	}
	return ids
}
