package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/metrics"
	"github.com/AdamBeresnev/rec-tournaments/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type TournamentService struct {
	db      *sqlx.DB
	store   *store.TournamentStore
	teams   *store.TeamStore
	builder *bracket.Builder
	logger  *slog.Logger
	metrics *metrics.Recorder
	tracer  trace.Tracer
}

func NewTournamentService(
	db *sqlx.DB,
	store *store.TournamentStore,
	teams *store.TeamStore,
	builder *bracket.Builder,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *TournamentService {
	if builder == nil {
		builder = bracket.NewBuilder(bracket.DefaultShuffler())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		db:      db,
		store:   store,
		teams:   teams,
		builder: builder,
		logger:  logger,
		metrics: recorder,
		tracer:  newTracer(),
	}
}

type TournamentData struct {
	Tournament *bracket.Tournament
	Teams      []bracket.Team
	Matches    []bracket.Match
	Bracket    bracket.BracketData

	NextMatchID *uuid.UUID
	ChampionID  *uuid.UUID
	// Only filled for round robin
	Standings []bracket.Standing
}

func (s *TournamentService) GetTournamentData(ctx context.Context, id uuid.UUID) (*TournamentData, error) {
	ctx, span := s.tracer.Start(ctx, "TournamentService.GetTournamentData",
		trace.WithAttributes(attribute.String("tournament_id", id.String())))
	defer span.End()

	var (
		tournament *bracket.Tournament
		matches    []bracket.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := s.store.GetTournament(gCtx, id)
		if err != nil {
			return notFound(err, ErrTournamentNotFound)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		m, err := s.store.GetMatches(gCtx, id)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		matches = m
		return nil
	})
	if err := g.Wait(); err != nil {
		recordSpanError(span, err)
		return nil, err
	}

	teamIDs := bracket.Referenced(matches)
	teams, err := s.teams.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}

	data := &TournamentData{
		Tournament: tournament,
		Teams:      teams,
		Matches:    matches,
		Bracket:    bracket.PrepareBracketData(teams, matches),
	}

	if next := bracket.NextPlayable(matches); next != nil {
		data.NextMatchID = &next.ID
	}

	switch tournament.Format {
	case bracket.RoundRobin:
		data.Standings = bracket.Standings(teamIDs, matches)
	case bracket.SingleElimination:
		if champion, ok := bracket.Champion(matches); ok {
			data.ChampionID = &champion
		}
	}

	return data, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]bracket.Tournament, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTournamentNotFound)
	}
	return t, nil
}

// CreateTournament stores a pending tournament together with its generated bracket.
func (s *TournamentService) CreateTournament(ctx context.Context, name string, format bracket.Format, teamIDs []uuid.UUID) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "TournamentService.CreateTournament",
		trace.WithAttributes(attribute.String("format", string(format)), attribute.Int("teams", len(teamIDs))))
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, fmt.Errorf("tournament %w", ErrNameRequired)
	}

	if err := s.checkTeams(ctx, teamIDs); err != nil {
		recordSpanError(span, err)
		return uuid.Nil, err
	}

	tournament := bracket.Tournament{
		ID:                uuid.New(),
		Name:              name,
		Format:            format,
		Status:            bracket.TournamentPending,
		AutoNavigateDelay: bracket.DefaultAutoNavigateDelay,
	}

	matches, err := s.generate(tournament.ID, format, teamIDs)
	if err != nil {
		recordSpanError(span, err)
		return uuid.Nil, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	if err := s.store.CreateTournament(ctx, tx, &tournament); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create matches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	s.metrics.BracketGenerated(format)
	s.logger.InfoContext(ctx, "tournament created",
		"tournament_id", tournament.ID,
		"format", format,
		"teams", len(teamIDs),
		"matches", len(matches),
	)

	return tournament.ID, nil
}

// RegenerateBracket throws away the current bracket and draws a new one. With no
// teamIDs the teams already in the bracket are redrawn. Refused once any real
// match has a result.
func (s *TournamentService) RegenerateBracket(ctx context.Context, id uuid.UUID, teamIDs []uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "TournamentService.RegenerateBracket",
		trace.WithAttributes(attribute.String("tournament_id", id.String())))
	defer span.End()

	if len(teamIDs) > 0 {
		if err := s.checkTeams(ctx, teamIDs); err != nil {
			recordSpanError(span, err)
			return err
		}
	}

	unlock := locks.lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return notFound(err, ErrTournamentNotFound)
	}
	if tournament.Status == bracket.TournamentCompleted {
		return ErrBracketInProgress
	}

	played, err := s.store.CountPlayedMatches(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("failed to count played matches: %w", err)
	}
	if played > 0 {
		return ErrBracketInProgress
	}

	if len(teamIDs) == 0 {
		current, err := s.store.GetMatchesTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		teamIDs = bracket.Referenced(current)
	}

	matches, err := s.generate(id, tournament.Format, teamIDs)
	if err != nil {
		recordSpanError(span, err)
		return err
	}

	if err := s.store.DeleteMatchesTx(ctx, tx, id); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
		return fmt.Errorf("failed to create matches: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.metrics.BracketGenerated(tournament.Format)
	s.logger.InfoContext(ctx, "bracket regenerated", "tournament_id", id, "matches", len(matches))
	return nil
}

// StartTournament opens a pending tournament for scores.
func (s *TournamentService) StartTournament(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, bracket.TournamentPending, bracket.TournamentActive)
}

func (s *TournamentService) PauseTournament(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, bracket.TournamentActive, bracket.TournamentPaused)
}

// ResumeTournament reopens a paused tournament. It never starts a pending one.
func (s *TournamentService) ResumeTournament(ctx context.Context, id uuid.UUID) error {
	return s.transition(ctx, id, bracket.TournamentPaused, bracket.TournamentActive)
}

func (s *TournamentService) transition(ctx context.Context, id uuid.UUID, from, to bracket.TournamentStatus) error {
	ctx, span := s.tracer.Start(ctx, "TournamentService.transition",
		trace.WithAttributes(attribute.String("tournament_id", id.String()), attribute.String("to", string(to))))
	defer span.End()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return notFound(err, ErrTournamentNotFound)
	}

	if tournament.Status != from || !tournament.CanTransition(to) {
		err := fmt.Errorf("%w: %s to %s", bracket.ErrInvalidStatusTransition, tournament.Status, to)
		recordSpanError(span, err)
		return err
	}

	if err := s.store.UpdateTournamentStatusTx(ctx, tx, id, to); err != nil {
		return fmt.Errorf("failed to update tournament status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tournament status changed", "tournament_id", id, "from", tournament.Status, "to", to)
	return nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	unlock := locks.lock(id)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.DeleteTournament(ctx, tx, id); err != nil {
		return notFound(err, ErrTournamentNotFound)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "tournament deleted", "tournament_id", id)
	return nil
}

func (s *TournamentService) SetDefaultTournament(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.SetDefaultTournament(ctx, tx, id); err != nil {
		return notFound(err, ErrTournamentNotFound)
	}
	return tx.Commit()
}

func (s *TournamentService) GetDefaultTournament(ctx context.Context) (*bracket.Tournament, error) {
	t, err := s.store.GetDefaultTournament(ctx)
	if err != nil {
		return nil, notFound(err, ErrTournamentNotFound)
	}
	return t, nil
}

func (s *TournamentService) UpdateDisplaySettings(ctx context.Context, id uuid.UUID, autoNavigate bool, delaySeconds int) error {
	if delaySeconds < 0 {
		return ErrInvalidDisplaySettings
	}

	t := &bracket.Tournament{ID: id, AutoNavigate: autoNavigate, AutoNavigateDelay: delaySeconds}
	if err := s.store.UpdateDisplaySettings(ctx, t); err != nil {
		return notFound(err, ErrTournamentNotFound)
	}
	return nil
}

// NextPlayable returns the first match in bracket order that is ready to be scored, or nil.
func (s *TournamentService) NextPlayable(ctx context.Context, id uuid.UUID) (*bracket.Match, error) {
	matches, err := s.store.GetMatches(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	return bracket.NextPlayable(matches), nil
}

func (s *TournamentService) generate(id uuid.UUID, format bracket.Format, teamIDs []uuid.UUID) ([]bracket.Match, error) {
	matches, err := s.builder.Build(id, format, teamIDs)
	if err != nil {
		return nil, err
	}
	if format == bracket.DoubleElimination && len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", bracket.ErrFormatNotImplemented, format)
	}
	return matches, nil
}

// checkTeams makes sure every selected team exists and none is picked twice.
func (s *TournamentService) checkTeams(ctx context.Context, teamIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(teamIDs))
	for _, id := range teamIDs {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateTeam, id)
		}
		seen[id] = true
	}

	teams, err := s.teams.GetTeamsByIDs(ctx, teamIDs)
	if err != nil {
		return fmt.Errorf("failed to get teams: %w", err)
	}
	if len(teams) == len(teamIDs) {
		return nil
	}

	found := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		found[t.ID] = true
	}
	for _, id := range teamIDs {
		if !found[id] {
			return fmt.Errorf("%w: %s", ErrTeamNotFound, id)
		}
	}
	return nil
}

// notFound swaps sql.ErrNoRows for the given domain error and leaves anything else alone.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}
