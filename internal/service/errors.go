package service

import "errors"

var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrParticipantNotFound = errors.New("participant not found")

	ErrNameRequired           = errors.New("name is required")
	ErrDuplicateTeam          = errors.New("team selected more than once")
	ErrInvalidDisplaySettings = errors.New("auto navigation delay must not be negative")

	ErrTeamNameConflict  = errors.New("team name is already in use")
	ErrBracketInProgress = errors.New("bracket already has recorded results")
)
