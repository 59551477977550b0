package service

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/db"
	"github.com/AdamBeresnev/rec-tournaments/internal/metrics"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.OpenMemory()
	require.NoError(t, err, "Failed to connect to in-memory DB")

	err = db.RunMigrations(database.DB)
	require.NoError(t, err, "Failed to apply migrations")

	t.Cleanup(func() { database.Close() })
	return database
}

func setupServices(t *testing.T, recorder *metrics.Recorder) *Services {
	t.Helper()
	return New(setupTestDB(t), rand.New(rand.NewPCG(1, 2)), nil, recorder)
}

func registerTeams(t *testing.T, svc *Services, n int) []uuid.UUID {
	t.Helper()

	faker := gofakeit.New(uint64(n))
	ids := make([]uuid.UUID, n)
	for i := range ids {
		team, err := svc.Teams.RegisterTeam(context.Background(), faker.Company()+" "+uuid.NewString()[:8], "")
		require.NoError(t, err)
		ids[i] = team.ID
	}
	return ids
}

func createStarted(t *testing.T, svc *Services, format bracket.Format, teamIDs []uuid.UUID) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id, err := svc.Tournaments.CreateTournament(ctx, "Summer League", format, teamIDs)
	require.NoError(t, err)
	require.NoError(t, svc.Tournaments.StartTournament(ctx, id))
	return id
}

func TestCreateTournament(t *testing.T) {
	testCases := []struct {
		name        string
		tName       string
		format      bracket.Format
		numTeams    int
		extraTeam   bool
		duplicate   bool
		wantMatches int
		wantByes    int
		wantErr     error
	}{
		{
			name:        "Single elimination, power of 2",
			format:      bracket.SingleElimination,
			numTeams:    4,
			wantMatches: 3,
		},
		{
			name:        "Single elimination with a bye",
			format:      bracket.SingleElimination,
			numTeams:    3,
			wantMatches: 3,
			wantByes:    1,
		},
		{
			name:        "Single elimination, 6 teams",
			format:      bracket.SingleElimination,
			numTeams:    6,
			wantMatches: 7,
			wantByes:    2,
		},
		{
			name:        "Round robin",
			format:      bracket.RoundRobin,
			numTeams:    4,
			wantMatches: 6,
		},
		{
			name:        "Round robin with one team",
			format:      bracket.RoundRobin,
			numTeams:    1,
			wantMatches: 0,
		},
		{
			name:     "Single elimination needs two teams",
			format:   bracket.SingleElimination,
			numTeams: 1,
			wantErr:  bracket.ErrInsufficientTeams,
		},
		{
			name:     "Double elimination is reserved",
			format:   bracket.DoubleElimination,
			numTeams: 4,
			wantErr:  bracket.ErrFormatNotImplemented,
		},
		{
			name:     "Unknown format",
			format:   bracket.Format("swiss"),
			numTeams: 4,
			wantErr:  bracket.ErrUnsupportedFormat,
		},
		{
			name:     "Blank name",
			tName:    "   ",
			format:   bracket.SingleElimination,
			numTeams: 2,
			wantErr:  ErrNameRequired,
		},
		{
			name:      "Unknown team",
			format:    bracket.SingleElimination,
			numTeams:  2,
			extraTeam: true,
			wantErr:   ErrTeamNotFound,
		},
		{
			name:      "Team picked twice",
			format:    bracket.SingleElimination,
			numTeams:  2,
			duplicate: true,
			wantErr:   ErrDuplicateTeam,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			svc := setupServices(t, nil)

			teamIDs := registerTeams(t, svc, tc.numTeams)
			if tc.extraTeam {
				teamIDs = append(teamIDs, uuid.New())
			}
			if tc.duplicate {
				teamIDs = append(teamIDs, teamIDs[0])
			}

			name := "Test Tournament"
			if tc.tName != "" {
				name = tc.tName
			}

			id, err := svc.Tournaments.CreateTournament(ctx, name, tc.format, teamIDs)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)

				tournaments, err := svc.Tournaments.ListTournaments(ctx)
				require.NoError(t, err)
				assert.Empty(t, tournaments, "nothing should be stored for a rejected tournament")
				return
			}
			require.NoError(t, err)

			data, err := svc.Tournaments.GetTournamentData(ctx, id)
			require.NoError(t, err)

			assert.Equal(t, bracket.TournamentPending, data.Tournament.Status)
			assert.Equal(t, tc.format, data.Tournament.Format)
			assert.Len(t, data.Matches, tc.wantMatches)

			byes := 0
			for _, m := range data.Matches {
				if m.IsBye {
					byes++
					assert.Equal(t, bracket.MatchCompleted, m.Status)
					assert.NotNil(t, m.WinnerID)
				}
			}
			assert.Equal(t, tc.wantByes, byes)
		})
	}
}

func TestGetTournamentData(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 5)
	id := createStarted(t, svc, bracket.SingleElimination, teamIDs)

	data, err := svc.Tournaments.GetTournamentData(ctx, id)
	require.NoError(t, err)

	assert.Len(t, data.Teams, 5)
	assert.Equal(t, []int{1, 2, 3}, data.Bracket.RoundNums)
	assert.Len(t, data.Bracket.Rounds[1], 4)
	assert.Len(t, data.Bracket.Rounds[2], 2)
	assert.Len(t, data.Bracket.Rounds[3], 1)
	require.NotNil(t, data.NextMatchID)
	assert.Nil(t, data.ChampionID)
	assert.Nil(t, data.Standings)

	for i := 1; i < len(data.Matches); i++ {
		prev, cur := data.Matches[i-1], data.Matches[i]
		assert.True(t, prev.RoundNumber < cur.RoundNumber ||
			(prev.RoundNumber == cur.RoundNumber && prev.MatchInRound < cur.MatchInRound),
			"matches should be ordered by round then position")
	}

	_, err = svc.Tournaments.GetTournamentData(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestTournamentTransitions(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 2)
	id, err := svc.Tournaments.CreateTournament(ctx, "Transitions", bracket.SingleElimination, teamIDs)
	require.NoError(t, err)

	steps := []struct {
		name    string
		apply   func(context.Context, uuid.UUID) error
		want    bracket.TournamentStatus
		wantErr error
	}{
		{"Pause before start", svc.Tournaments.PauseTournament, bracket.TournamentPending, bracket.ErrInvalidStatusTransition},
		{"Resume before start", svc.Tournaments.ResumeTournament, bracket.TournamentPending, bracket.ErrInvalidStatusTransition},
		{"Start", svc.Tournaments.StartTournament, bracket.TournamentActive, nil},
		{"Start twice", svc.Tournaments.StartTournament, bracket.TournamentActive, bracket.ErrInvalidStatusTransition},
		{"Pause", svc.Tournaments.PauseTournament, bracket.TournamentPaused, nil},
		{"Pause twice", svc.Tournaments.PauseTournament, bracket.TournamentPaused, bracket.ErrInvalidStatusTransition},
		{"Start while paused", svc.Tournaments.StartTournament, bracket.TournamentPaused, bracket.ErrInvalidStatusTransition},
		{"Resume", svc.Tournaments.ResumeTournament, bracket.TournamentActive, nil},
		{"Resume while active", svc.Tournaments.ResumeTournament, bracket.TournamentActive, bracket.ErrInvalidStatusTransition},
	}

	for _, step := range steps {
		err := step.apply(ctx, id)
		if step.wantErr != nil {
			assert.ErrorIs(t, err, step.wantErr, step.name)
		} else {
			assert.NoError(t, err, step.name)
		}

		tournament, err := svc.Tournaments.GetTournament(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, step.want, tournament.Status, step.name)
	}

	assert.ErrorIs(t, svc.Tournaments.StartTournament(ctx, uuid.New()), ErrTournamentNotFound)
}

func TestRegenerateBracket(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 4)
	id := createStarted(t, svc, bracket.SingleElimination, teamIDs)

	before, err := svc.Tournaments.GetTournamentData(ctx, id)
	require.NoError(t, err)

	require.NoError(t, svc.Tournaments.RegenerateBracket(ctx, id, nil))

	after, err := svc.Tournaments.GetTournamentData(ctx, id)
	require.NoError(t, err)
	require.Len(t, after.Matches, len(before.Matches))
	assert.NotEqual(t, before.Matches[0].ID, after.Matches[0].ID)
	assert.ElementsMatch(t, teamIDs, bracket.Referenced(after.Matches))

	// A different team selection replaces the field
	extra := registerTeams(t, svc, 1)
	require.NoError(t, svc.Tournaments.RegenerateBracket(ctx, id, append(teamIDs, extra...)))

	after, err = svc.Tournaments.GetTournamentData(ctx, id)
	require.NoError(t, err)
	assert.Len(t, after.Matches, 7)

	next := after.NextMatchID
	require.NotNil(t, next)
	_, err = svc.Matches.RecordScore(ctx, *next, 21, 10)
	require.NoError(t, err)

	err = svc.Tournaments.RegenerateBracket(ctx, id, nil)
	assert.ErrorIs(t, err, ErrBracketInProgress)

	assert.ErrorIs(t, svc.Tournaments.RegenerateBracket(ctx, uuid.New(), nil), ErrTournamentNotFound)
}

func TestDeleteTournament(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 3)
	id := createStarted(t, svc, bracket.SingleElimination, teamIDs)

	require.NoError(t, svc.Tournaments.DeleteTournament(ctx, id))

	_, err := svc.Tournaments.GetTournament(ctx, id)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	next, err := svc.Tournaments.NextPlayable(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, next, "matches should be deleted with the tournament")

	assert.ErrorIs(t, svc.Tournaments.DeleteTournament(ctx, id), ErrTournamentNotFound)

	// Teams outlive the tournament
	teams, err := svc.Teams.ListTeams(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 3)
}

func TestDefaultTournament(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 2)
	first, err := svc.Tournaments.CreateTournament(ctx, "First", bracket.SingleElimination, teamIDs)
	require.NoError(t, err)
	second, err := svc.Tournaments.CreateTournament(ctx, "Second", bracket.RoundRobin, teamIDs)
	require.NoError(t, err)

	_, err = svc.Tournaments.GetDefaultTournament(ctx)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	require.NoError(t, svc.Tournaments.SetDefaultTournament(ctx, first))
	require.NoError(t, svc.Tournaments.SetDefaultTournament(ctx, second))

	def, err := svc.Tournaments.GetDefaultTournament(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, def.ID)

	assert.ErrorIs(t, svc.Tournaments.SetDefaultTournament(ctx, uuid.New()), ErrTournamentNotFound)

	def, err = svc.Tournaments.GetDefaultTournament(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, def.ID, "a failed switch keeps the previous default")
}

func TestUpdateDisplaySettings(t *testing.T) {
	ctx := context.Background()
	svc := setupServices(t, nil)

	teamIDs := registerTeams(t, svc, 2)
	id, err := svc.Tournaments.CreateTournament(ctx, "Display", bracket.SingleElimination, teamIDs)
	require.NoError(t, err)

	tournament, err := svc.Tournaments.GetTournament(ctx, id)
	require.NoError(t, err)
	assert.False(t, tournament.AutoNavigate)
	assert.Equal(t, bracket.DefaultAutoNavigateDelay, tournament.AutoNavigateDelay)

	require.NoError(t, svc.Tournaments.UpdateDisplaySettings(ctx, id, true, 25))

	tournament, err = svc.Tournaments.GetTournament(ctx, id)
	require.NoError(t, err)
	assert.True(t, tournament.AutoNavigate)
	assert.Equal(t, 25, tournament.AutoNavigateDelay)

	assert.ErrorIs(t, svc.Tournaments.UpdateDisplaySettings(ctx, id, true, -1), ErrInvalidDisplaySettings)
	assert.ErrorIs(t, svc.Tournaments.UpdateDisplaySettings(ctx, uuid.New(), false, 5), ErrTournamentNotFound)
}
