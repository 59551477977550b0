package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// Strategy builds the full match graph for one tournament format.
type Strategy interface {
	Format() Format
	Generate(tournamentID uuid.UUID, teamIDs []uuid.UUID) ([]Match, error)
}

type Builder struct {
	strategies map[Format]Strategy
}

// NewBuilder registers the built-in formats. A nil shuffler falls back to DefaultShuffler.
func NewBuilder(shuffler Shuffler) *Builder {
	if shuffler == nil {
		shuffler = DefaultShuffler()
	}

	b := &Builder{strategies: make(map[Format]Strategy)}
	b.Register(NewSingleElimination(shuffler))
	b.Register(NewRoundRobin())
	b.Register(NewDoubleElimination())
	return b
}

func (b *Builder) Register(s Strategy) {
	b.strategies[s.Format()] = s
}

// Build returns the strategy's matches unmodified. Nothing is persisted here.
func (b *Builder) Build(tournamentID uuid.UUID, format Format, teamIDs []uuid.UUID) ([]Match, error) {
	strategy, ok := b.strategies[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return strategy.Generate(tournamentID, teamIDs)
}
