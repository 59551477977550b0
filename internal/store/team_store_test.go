package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/utils"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	s := NewTeamStore(database)

	team := &bracket.Team{
		ID:         uuid.New(),
		Name:       "Net Results",
		ExternalID: utils.StringOrNil("sheet-42"),
	}
	require.NoError(t, s.CreateTeam(ctx, team))

	fetched, err := s.GetTeam(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, team.Name, fetched.Name)
	require.NotNil(t, fetched.ExternalID)
	assert.Equal(t, "sheet-42", *fetched.ExternalID)

	byName, err := s.GetTeamByName(ctx, "NET RESULTS")
	require.NoError(t, err)
	assert.Equal(t, team.ID, byName.ID)
}

func TestCreateTeam_DuplicateName(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	s := NewTeamStore(database)

	require.NoError(t, s.CreateTeam(ctx, &bracket.Team{ID: uuid.New(), Name: "Spikers"}))

	err := s.CreateTeam(ctx, &bracket.Team{ID: uuid.New(), Name: "spikers"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestGetTeamsByIDs(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	s := NewTeamStore(database)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		team := &bracket.Team{ID: uuid.New(), Name: gofakeit.Company() + " " + uuid.NewString()[:4]}
		require.NoError(t, s.CreateTeam(ctx, team))
		ids = append(ids, team.ID)
	}

	teams, err := s.GetTeamsByIDs(ctx, []uuid.UUID{ids[0], ids[2], uuid.New()})
	require.NoError(t, err)
	require.Len(t, teams, 2)

	got := []uuid.UUID{teams[0].ID, teams[1].ID}
	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[2]}, got)

	teams, err = s.GetTeamsByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestParticipants(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	s := NewTeamStore(database)

	team := &bracket.Team{ID: uuid.New(), Name: "Block Party"}
	require.NoError(t, s.CreateTeam(ctx, team))

	solo := &bracket.Participant{
		ID:            uuid.New(),
		FirstName:     gofakeit.FirstName(),
		LastName:      gofakeit.LastName(),
		NeedsTeammate: true,
	}
	member := &bracket.Participant{
		ID:        uuid.New(),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		TeamID:    &team.ID,
	}
	require.NoError(t, s.CreateParticipant(ctx, solo))
	require.NoError(t, s.CreateParticipant(ctx, member))

	waiting, err := s.ListParticipantsNeedingTeammate(ctx)
	require.NoError(t, err)
	require.Len(t, waiting, 1)
	assert.Equal(t, solo.ID, waiting[0].ID)

	require.NoError(t, s.AssignParticipant(ctx, solo.ID, team.ID))

	waiting, err = s.ListParticipantsNeedingTeammate(ctx)
	require.NoError(t, err)
	assert.Empty(t, waiting)

	roster, err := s.GetTeamRoster(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)

	all, err := s.ListParticipants(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	assert.Error(t, s.AssignParticipant(ctx, uuid.New(), team.ID))
}
