package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/metrics"
	"github.com/AdamBeresnev/rec-tournaments/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type MatchService struct {
	db          *sqlx.DB
	store       *store.TournamentStore
	teams       *store.TeamStore
	progression *bracket.Progression
	logger      *slog.Logger
	metrics     *metrics.Recorder
	tracer      trace.Tracer
}

func NewMatchService(
	db *sqlx.DB,
	store *store.TournamentStore,
	teams *store.TeamStore,
	logger *slog.Logger,
	recorder *metrics.Recorder,
) *MatchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchService{
		db:          db,
		store:       store,
		teams:       teams,
		progression: bracket.NewProgression(logger),
		logger:      logger,
		metrics:     recorder,
		tracer:      newTracer(),
	}
}

type MatchData struct {
	Match       *bracket.Match
	Team1       *bracket.Team
	Team2       *bracket.Team
	NextMatchID *uuid.UUID
}

func (s *MatchService) GetMatchViewData(ctx context.Context, matchID uuid.UUID) (*MatchData, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, notFound(err, bracket.ErrMatchNotFound)
	}

	var team1, team2 *bracket.Team
	if match.Team1ID != nil {
		t, err := s.teams.GetTeam(ctx, *match.Team1ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get team 1: %w", err)
		}
		team1 = t
	}
	if match.Team2ID != nil {
		t, err := s.teams.GetTeam(ctx, *match.Team2ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get team 2: %w", err)
		}
		team2 = t
	}

	matches, err := s.store.GetMatches(ctx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next match: %w", err)
	}

	var nextMatchID *uuid.UUID
	if next := bracket.NextPlayable(matches); next != nil {
		nextMatchID = &next.ID
	}

	return &MatchData{
		Match:       match,
		Team1:       team1,
		Team2:       team2,
		NextMatchID: nextMatchID,
	}, nil
}

// RecordScoreInput parses raw score fields before recording them.
func (s *MatchService) RecordScoreInput(ctx context.Context, matchID uuid.UUID, rawTeam1, rawTeam2 string) (*bracket.ScoreOutcome, error) {
	team1Score, err := bracket.ParseScore(rawTeam1)
	if err != nil {
		s.metrics.ScoreRejected(rejectionReason(err))
		return nil, err
	}
	team2Score, err := bracket.ParseScore(rawTeam2)
	if err != nil {
		s.metrics.ScoreRejected(rejectionReason(err))
		return nil, err
	}
	return s.RecordScore(ctx, matchID, team1Score, team2Score)
}

// RecordScore completes a match and moves its winner forward. The load, the
// progression and every write share one transaction.
func (s *MatchService) RecordScore(ctx context.Context, matchID uuid.UUID, team1Score, team2Score int) (*bracket.ScoreOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "MatchService.RecordScore",
		trace.WithAttributes(attribute.String("match_id", matchID.String())))
	defer span.End()

	outcome, err := s.recordScore(ctx, matchID, team1Score, team2Score)
	if err != nil {
		recordSpanError(span, err)
		s.metrics.ScoreRejected(rejectionReason(err))
		s.logger.WarnContext(ctx, "score rejected", "match_id", matchID, "error", err)
		return nil, err
	}

	s.metrics.ScoreRecorded()
	if outcome.BrokenLink {
		s.metrics.BrokenLink()
	}
	if outcome.TournamentCompleted {
		s.metrics.TournamentCompleted()
		s.logger.InfoContext(ctx, "tournament completed", "tournament_id", outcome.Match.TournamentID)
	}

	s.logger.InfoContext(ctx, "score recorded",
		"tournament_id", outcome.Match.TournamentID,
		"match_id", matchID,
		"team1_score", team1Score,
		"team2_score", team2Score,
	)
	return outcome, nil
}

func (s *MatchService) recordScore(ctx context.Context, matchID uuid.UUID, team1Score, team2Score int) (*bracket.ScoreOutcome, error) {
	match, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, notFound(err, bracket.ErrMatchNotFound)
	}

	unlock := locks.lock(match.TournamentID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	tournament, err := s.store.GetTournamentTx(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, notFound(err, ErrTournamentNotFound)
	}

	matches, err := s.store.GetMatchesTx(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}

	outcome, err := s.progression.RecordScore(*tournament, matches, matchID, team1Score, team2Score)
	if err != nil {
		return nil, err
	}

	if err := s.store.RecordMatchResult(ctx, tx, &outcome.Match); err != nil {
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	if outcome.Advanced != nil {
		if err := s.store.UpdateMatchTeams(ctx, tx, outcome.Advanced); err != nil {
			return nil, fmt.Errorf("failed to update next match: %w", err)
		}
	}

	if outcome.TournamentCompleted {
		if err := s.store.UpdateTournamentStatusTx(ctx, tx, tournament.ID, bracket.TournamentCompleted); err != nil {
			return nil, fmt.Errorf("failed to update tournament status: %w", err)
		}
	}

	return outcome, tx.Commit()
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, bracket.ErrMatchNotFound):
		return "match_not_found"
	case errors.Is(err, bracket.ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, bracket.ErrTournamentNotActive):
		return "tournament_not_active"
	case errors.Is(err, bracket.ErrTeamsNotAssigned):
		return "teams_not_assigned"
	case errors.Is(err, bracket.ErrInvalidScore):
		return "invalid_score"
	case errors.Is(err, bracket.ErrTieNotAllowed):
		return "tie"
	}
	return "error"
}
