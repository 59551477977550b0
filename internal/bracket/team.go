package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
	ExternalID *string   `db:"external_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type Participant struct {
	ID            uuid.UUID  `db:"id"`
	FirstName     string     `db:"first_name"`
	LastName      string     `db:"last_name"`
	TeamID        *uuid.UUID `db:"team_id"`
	NeedsTeammate bool       `db:"needs_teammate"`
	CreatedAt     time.Time  `db:"created_at"`
}

func (p *Participant) FullName() string {
	return p.FirstName + " " + p.LastName
}
