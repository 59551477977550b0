package bracket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStrategy struct {
	format  Format
	matches []Match
}

func (s fixedStrategy) Format() Format { return s.format }

func (s fixedStrategy) Generate(_ uuid.UUID, _ []uuid.UUID) ([]Match, error) {
	return s.matches, nil
}

func TestBuild(t *testing.T) {
	b := NewBuilder(testShuffler())
	tournamentID := uuid.New()

	testCases := []struct {
		name        string
		format      Format
		numTeams    int
		wantMatches int
		wantErr     error
	}{
		{"Single elimination", SingleElimination, 6, 7, nil},
		{"Round robin", RoundRobin, 5, 10, nil},
		{"Round robin below two teams", RoundRobin, 1, 0, nil},
		{"Double elimination is a stub", DoubleElimination, 8, 0, nil},
		{"Single elimination below two teams", SingleElimination, 1, 0, ErrInsufficientTeams},
		{"Unknown format", Format("ladder"), 4, 0, ErrUnsupportedFormat},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			matches, err := b.Build(tournamentID, tc.format, newTeamIDs(tc.numTeams))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, matches, tc.wantMatches)
		})
	}
}

func TestBuild_CustomStrategy(t *testing.T) {
	b := NewBuilder(nil)
	custom := fixedStrategy{format: Format("exhibition"), matches: []Match{{ID: uuid.New()}}}
	b.Register(custom)

	matches, err := b.Build(uuid.New(), custom.format, nil)
	require.NoError(t, err)
	assert.Equal(t, custom.matches, matches, "strategy output is returned untouched")
}
