package service

import (
	"log/slog"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/metrics"
	"github.com/AdamBeresnev/rec-tournaments/internal/store"
	"github.com/jmoiron/sqlx"
)

type Services struct {
	Tournaments *TournamentService
	Matches     *MatchService
	Teams       *TeamService
}

// New wires every service against one database. A nil shuffler draws from the
// global random source and a nil recorder disables metrics.
func New(db *sqlx.DB, shuffler bracket.Shuffler, logger *slog.Logger, recorder *metrics.Recorder) *Services {
	if shuffler == nil {
		shuffler = bracket.DefaultShuffler()
	}
	if logger == nil {
		logger = slog.Default()
	}

	tournamentStore := store.NewTournamentStore(db)
	teamStore := store.NewTeamStore(db)

	return &Services{
		Tournaments: NewTournamentService(db, tournamentStore, teamStore, bracket.NewBuilder(shuffler), logger, recorder),
		Matches:     NewMatchService(db, tournamentStore, teamStore, logger, recorder),
		Teams:       NewTeamService(teamStore, logger),
	}
}
