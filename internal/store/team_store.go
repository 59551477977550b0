package store

import (
	"context"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TeamStore struct {
	db *sqlx.DB
}

const (
	teamColumns        = `id, name, external_id, created_at`
	participantColumns = `id, first_name, last_name, team_id, needs_teammate, created_at`

	getTeamQuery = "SELECT " + teamColumns + " FROM teams WHERE id = ?"
	// name is COLLATE NOCASE so this lookup ignores case
	getTeamByNameQuery = "SELECT " + teamColumns + " FROM teams WHERE name = ?"
	listTeamsQuery     = "SELECT " + teamColumns + " FROM teams ORDER BY name ASC"
	getTeamsByIDsQuery = "SELECT " + teamColumns + " FROM teams WHERE id IN (?) ORDER BY name ASC"
	createTeamQuery    = `
		INSERT INTO teams (id, name, external_id) VALUES
		(:id, :name, :external_id)
	`

	createParticipantQuery = `
		INSERT INTO participants (id, first_name, last_name, team_id, needs_teammate) VALUES
		(:id, :first_name, :last_name, :team_id, :needs_teammate)
	`
	listParticipantsQuery = "SELECT " + participantColumns + " FROM participants ORDER BY last_name ASC, first_name ASC"
	teamRosterQuery       = "SELECT " + participantColumns + " FROM participants WHERE team_id = ? ORDER BY last_name ASC, first_name ASC"
	needsTeammateQuery    = `
		SELECT ` + participantColumns + ` FROM participants
		WHERE needs_teammate = 1
		ORDER BY created_at ASC
	`
	assignParticipantQuery = `UPDATE participants SET team_id = ?, needs_teammate = 0 WHERE id = ?`
)

func NewTeamStore(db *sqlx.DB) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) CreateTeam(ctx context.Context, team *bracket.Team) error {
	_, err := s.db.NamedExecContext(ctx, createTeamQuery, team)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *TeamStore) GetTeam(ctx context.Context, id uuid.UUID) (*bracket.Team, error) {
	var team bracket.Team
	if err := s.db.GetContext(ctx, &team, getTeamQuery, id); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamStore) GetTeamByName(ctx context.Context, name string) (*bracket.Team, error) {
	var team bracket.Team
	if err := s.db.GetContext(ctx, &team, getTeamByNameQuery, name); err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *TeamStore) ListTeams(ctx context.Context) ([]bracket.Team, error) {
	var teams []bracket.Team
	err := s.db.SelectContext(ctx, &teams, listTeamsQuery)
	return teams, err
}

// GetTeamsByIDs returns the teams that exist among ids. Missing IDs are silently absent.
func (s *TeamStore) GetTeamsByIDs(ctx context.Context, ids []uuid.UUID) ([]bracket.Team, error) {
	if len(ids) == 0 {
		return []bracket.Team{}, nil
	}

	query, args, err := sqlx.In(getTeamsByIDsQuery, ids)
	if err != nil {
		return nil, err
	}

	var teams []bracket.Team
	err = s.db.SelectContext(ctx, &teams, s.db.Rebind(query), args...)
	return teams, err
}

func (s *TeamStore) CreateParticipant(ctx context.Context, participant *bracket.Participant) error {
	_, err := s.db.NamedExecContext(ctx, createParticipantQuery, participant)
	return err
}

func (s *TeamStore) ListParticipants(ctx context.Context) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := s.db.SelectContext(ctx, &participants, listParticipantsQuery)
	return participants, err
}

func (s *TeamStore) GetTeamRoster(ctx context.Context, teamID uuid.UUID) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := s.db.SelectContext(ctx, &participants, teamRosterQuery, teamID)
	return participants, err
}

func (s *TeamStore) ListParticipantsNeedingTeammate(ctx context.Context) ([]bracket.Participant, error) {
	var participants []bracket.Participant
	err := s.db.SelectContext(ctx, &participants, needsTeammateQuery)
	return participants, err
}

func (s *TeamStore) AssignParticipant(ctx context.Context, participantID, teamID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, assignParticipantQuery, teamID, participantID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}
