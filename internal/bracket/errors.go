package bracket

import "errors"

var (
	// Bracket construction
	ErrUnsupportedFormat    = errors.New("unsupported tournament format")
	ErrInsufficientTeams    = errors.New("at least 2 teams are required")
	ErrFormatNotImplemented = errors.New("tournament format is not supported yet")

	// Score entry
	ErrMatchNotFound         = errors.New("match not found")
	ErrTeamsNotAssigned      = errors.New("match is still waiting on its teams")
	ErrInvalidScore          = errors.New("scores must be non-negative whole numbers")
	ErrTieNotAllowed         = errors.New("ties are not allowed")
	ErrAlreadyCompleted      = errors.New("match already has a recorded score")
	ErrTournamentNotActive   = errors.New("tournament is not accepting scores")
	ErrBrokenProgressionLink = errors.New("next match in progression does not exist")

	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")
)
