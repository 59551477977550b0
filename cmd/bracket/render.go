package main

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/AdamBeresnev/rec-tournaments/internal/utils"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

// tournamentAction builds a subcommand that takes a tournament ID, falling back to
// the default tournament when none is given.
func (a *app) tournamentAction(name, usage string, run func(c *cli.Context, id uuid.UUID) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "[TOURNAMENT_ID]",
		Action: func(c *cli.Context) error {
			id, err := a.tournamentID(c)
			if err != nil {
				return err
			}
			return run(c, id)
		},
	}
}

func (a *app) tournamentID(c *cli.Context) (uuid.UUID, error) {
	if c.NArg() == 0 {
		t, err := a.services.Tournaments.GetDefaultTournament(c.Context)
		if err != nil {
			return uuid.Nil, fmt.Errorf("no tournament given and no default set: %w", err)
		}
		return t.ID, nil
	}

	id, err := uuid.Parse(c.Args().First())
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid tournament ID %q: %w", c.Args().First(), err)
	}
	return id, nil
}

func (a *app) show(ctx context.Context, id uuid.UUID) error {
	data, err := a.services.Tournaments.GetTournamentData(ctx, id)
	if err != nil {
		return err
	}

	t := data.Tournament
	fmt.Fprintf(a.out, "%s [%s, %s]\n", t.Name, t.Format, t.Status)

	name := func(teamID *uuid.UUID) string {
		if teamID == nil {
			return "TBD"
		}
		if team, ok := data.Bracket.TeamMap[*teamID]; ok {
			return team.Name
		}
		return teamID.String()
	}

	for _, r := range data.Bracket.RoundNums {
		fmt.Fprintf(a.out, "Round %d\n", r)
		for _, m := range data.Bracket.Rounds[r] {
			result := ""
			switch {
			case m.IsBye:
				result = "bye"
			case m.IsCompleted():
				result = fmt.Sprintf("%d - %d", utils.OrZero(m.Team1Score), utils.OrZero(m.Team2Score))
			case data.NextMatchID != nil && *data.NextMatchID == m.ID:
				result = "up next"
			}
			fmt.Fprintf(a.out, "  %2d. %-20s vs %-20s %-10s %s\n", m.MatchInRound, name(m.Team1ID), name(m.Team2ID), result, m.ID)
		}
	}

	if len(data.Standings) > 0 {
		fmt.Fprintln(a.out, "Standings")
		for i, s := range data.Standings {
			fmt.Fprintf(a.out, "  %d. %-20s %d-%d  %+d\n", i+1, name(&s.TeamID), s.Wins, s.Losses, s.PointDiff())
		}
	}

	if data.ChampionID != nil {
		fmt.Fprintf(a.out, "Champion: %s\n", name(data.ChampionID))
	}
	if t.Status == bracket.TournamentPending {
		fmt.Fprintln(a.out, "Not started yet, run `bracket tournament start` to open scoring")
	}
	return nil
}
