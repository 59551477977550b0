package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentStore struct {
	db *sqlx.DB
}

const (
	tournamentColumns = `id, name, format, status, is_default, auto_navigate, auto_navigate_delay, created_at`
	matchColumns      = `id, tournament_id, round_number, match_in_round, team1_id, team2_id, team1_score, team2_score,
		winner_id, status, next_match_id, next_match_slot, is_bye, created_at`

	createTournamentQuery = `
		INSERT INTO tournaments (id, name, format, status, is_default, auto_navigate, auto_navigate_delay)
		VALUES (:id, :name, :format, :status, :is_default, :auto_navigate, :auto_navigate_delay)
	`
	getTournamentQuery   = "SELECT " + tournamentColumns + " FROM tournaments WHERE id = ?"
	listTournamentsQuery = "SELECT " + tournamentColumns + " FROM tournaments ORDER BY created_at DESC, name ASC"
	getDefaultQuery      = "SELECT " + tournamentColumns + " FROM tournaments WHERE is_default = 1"

	// Matches go in without links first so no row references one that does not exist yet
	createMatchesQuery = `
		INSERT INTO matches (id, tournament_id, round_number, match_in_round, team1_id, team2_id,
			team1_score, team2_score, winner_id, status, is_bye)
		VALUES (:id, :tournament_id, :round_number, :match_in_round, :team1_id, :team2_id,
			:team1_score, :team2_score, :winner_id, :status, :is_bye)
	`
	linkMatchQuery = `
		UPDATE matches SET next_match_id = :next_match_id, next_match_slot = :next_match_slot
		WHERE id = :id
	`
	getMatchQuery   = "SELECT " + matchColumns + " FROM matches WHERE id = ?"
	getMatchesQuery = "SELECT " + matchColumns + " FROM matches WHERE tournament_id = ? ORDER BY round_number ASC, match_in_round ASC"

	// A completed match never takes a second score
	recordResultQuery = `
		UPDATE matches SET team1_score = :team1_score, team2_score = :team2_score,
			winner_id = :winner_id, status = :status
		WHERE id = :id AND status <> 'completed'
	`
	updateMatchTeamsQuery = `UPDATE matches SET team1_id = :team1_id, team2_id = :team2_id WHERE id = :id`
)

func NewTournamentStore(db *sqlx.DB) *TournamentStore {
	return &TournamentStore{db: db}
}

func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, tournament *bracket.Tournament) error {
	_, err := tx.NamedExecContext(ctx, createTournamentQuery, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, s.db, id)
}

func (s *TournamentStore) GetTournamentTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Tournament, error) {
	return getTournament(ctx, tx, id)
}

func getTournament(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := sqlx.GetContext(ctx, q, &tournament, getTournamentQuery, id); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	var tournaments []bracket.Tournament
	err := s.db.SelectContext(ctx, &tournaments, listTournamentsQuery)
	return tournaments, err
}

// GetDefaultTournament returns sql.ErrNoRows when no tournament is marked default.
func (s *TournamentStore) GetDefaultTournament(ctx context.Context) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	if err := s.db.GetContext(ctx, &tournament, getDefaultQuery); err != nil {
		return nil, err
	}
	return &tournament, nil
}

func (s *TournamentStore) SetDefaultTournament(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, "UPDATE tournaments SET is_default = 0 WHERE is_default = 1 AND id <> ?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "UPDATE tournaments SET is_default = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TournamentStore) UpdateTournamentStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, status bracket.TournamentStatus) error {
	res, err := tx.ExecContext(ctx, "UPDATE tournaments SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TournamentStore) UpdateDisplaySettings(ctx context.Context, tournament *bracket.Tournament) error {
	res, err := s.db.NamedExecContext(ctx,
		`UPDATE tournaments SET auto_navigate = :auto_navigate, auto_navigate_delay = :auto_navigate_delay WHERE id = :id`,
		tournament)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// DeleteTournament removes the tournament; its matches go with it through the cascade.
func (s *TournamentStore) DeleteTournament(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (s *TournamentStore) CreateMatches(ctx context.Context, tx *sqlx.Tx, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	if _, err := tx.NamedExecContext(ctx, createMatchesQuery, matches); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}

	for i := range matches {
		if matches[i].NextMatchID == nil {
			continue
		}
		if _, err := tx.NamedExecContext(ctx, linkMatchQuery, &matches[i]); err != nil {
			return fmt.Errorf("failed to link match %s: %w", matches[i].ID, err)
		}
	}
	return nil
}

func (s *TournamentStore) DeleteMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM matches WHERE tournament_id = ?", tournamentID)
	return err
}

func (s *TournamentStore) GetMatch(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, s.db, id)
}

func (s *TournamentStore) GetMatchTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*bracket.Match, error) {
	return getMatch(ctx, tx, id)
}

func getMatch(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*bracket.Match, error) {
	var match bracket.Match
	if err := sqlx.GetContext(ctx, q, &match, getMatchQuery, id); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *TournamentStore) GetMatches(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := s.db.SelectContext(ctx, &matches, getMatchesQuery, tournamentID)
	return matches, err
}

func (s *TournamentStore) GetMatchesTx(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) ([]bracket.Match, error) {
	var matches []bracket.Match
	err := tx.SelectContext(ctx, &matches, getMatchesQuery, tournamentID)
	return matches, err
}

// RecordMatchResult writes scores, winner and status. It reports
// bracket.ErrAlreadyCompleted if another writer got there first.
func (s *TournamentStore) RecordMatchResult(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	res, err := tx.NamedExecContext(ctx, recordResultQuery, match)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return bracket.ErrAlreadyCompleted
	}
	return nil
}

func (s *TournamentStore) UpdateMatchTeams(ctx context.Context, tx *sqlx.Tx, match *bracket.Match) error {
	res, err := tx.NamedExecContext(ctx, updateMatchTeamsQuery, match)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// CountPlayedMatches counts completed matches that were actually played, byes excluded.
func (s *TournamentStore) CountPlayedMatches(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID) (int, error) {
	var count int
	err := tx.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM matches WHERE tournament_id = ? AND status = 'completed' AND is_bye = 0", tournamentID)
	return count, err
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
