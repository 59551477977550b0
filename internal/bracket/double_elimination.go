package bracket

import "github.com/google/uuid"

// DoubleEliminationStrategy reserves the format tag. A real implementation needs a
// winners bracket, a losers bracket fed by winners-bracket losers and a grand final
// with a possible reset; until then it produces no matches and callers report
// ErrFormatNotImplemented instead of falling back to single elimination.
type DoubleEliminationStrategy struct{}

func NewDoubleElimination() *DoubleEliminationStrategy {
	return &DoubleEliminationStrategy{}
}

func (s *DoubleEliminationStrategy) Format() Format {
	return DoubleElimination
}

func (s *DoubleEliminationStrategy) Generate(_ uuid.UUID, _ []uuid.UUID) ([]Match, error) {
	return []Match{}, nil
}
