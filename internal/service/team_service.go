package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/store"
	"github.com/AdamBeresnev/rec-tournaments/internal/utils"
	"github.com/google/uuid"
)

type TeamService struct {
	store  *store.TeamStore
	logger *slog.Logger
}

func NewTeamService(store *store.TeamStore, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{store: store, logger: logger}
}

// RegisterTeam creates a team. Names are unique ignoring case.
func (s *TeamService) RegisterTeam(ctx context.Context, name, externalID string) (*bracket.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team %w", ErrNameRequired)
	}

	team := &bracket.Team{
		ID:         uuid.New(),
		Name:       name,
		ExternalID: utils.StringOrNil(externalID),
	}

	if err := s.store.CreateTeam(ctx, team); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %q", ErrTeamNameConflict, name)
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.logger.InfoContext(ctx, "team registered", "team_id", team.ID, "name", team.Name)
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id uuid.UUID) (*bracket.Team, error) {
	team, err := s.store.GetTeam(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTeamNotFound)
	}
	return team, nil
}

// ResolveTeam looks a team up by ID, or by name when ref is not an ID.
func (s *TeamService) ResolveTeam(ctx context.Context, ref string) (*bracket.Team, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return s.GetTeam(ctx, id)
	}

	team, err := s.store.GetTeamByName(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", notFound(err, ErrTeamNotFound), ref)
	}
	return team, nil
}

func (s *TeamService) ListTeams(ctx context.Context) ([]bracket.Team, error) {
	return s.store.ListTeams(ctx)
}

type ParticipantInput struct {
	FirstName     string
	LastName      string
	TeamID        *uuid.UUID
	NeedsTeammate bool
}

func (s *TeamService) RegisterParticipant(ctx context.Context, input ParticipantInput) (*bracket.Participant, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" || last == "" {
		return nil, fmt.Errorf("participant %w", ErrNameRequired)
	}

	if input.TeamID != nil {
		if _, err := s.GetTeam(ctx, *input.TeamID); err != nil {
			return nil, err
		}
	}

	participant := &bracket.Participant{
		ID:            uuid.New(),
		FirstName:     first,
		LastName:      last,
		TeamID:        input.TeamID,
		NeedsTeammate: input.NeedsTeammate && input.TeamID == nil,
	}

	if err := s.store.CreateParticipant(ctx, participant); err != nil {
		return nil, fmt.Errorf("failed to create participant: %w", err)
	}
	return participant, nil
}

// AssignParticipant puts a participant on a team and clears their teammate request.
func (s *TeamService) AssignParticipant(ctx context.Context, participantID, teamID uuid.UUID) error {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return err
	}
	if err := s.store.AssignParticipant(ctx, participantID, teamID); err != nil {
		return notFound(err, ErrParticipantNotFound)
	}

	s.logger.InfoContext(ctx, "participant assigned", "participant_id", participantID, "team_id", teamID)
	return nil
}

func (s *TeamService) ParticipantsNeedingTeammate(ctx context.Context) ([]bracket.Participant, error) {
	return s.store.ListParticipantsNeedingTeammate(ctx)
}

func (s *TeamService) TeamRoster(ctx context.Context, teamID uuid.UUID) ([]bracket.Participant, error) {
	if _, err := s.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}
	return s.store.GetTeamRoster(ctx, teamID)
}
