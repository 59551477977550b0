package main

import (
	"errors"
	"fmt"

	"github.com/AdamBeresnev/rec-tournaments/internal/bracket"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

func (a *app) teamCommand() *cli.Command {
	return &cli.Command{
		Name:  "team",
		Usage: "register and list teams",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register a team",
				ArgsUsage: "NAME",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "external-id", Usage: "identifier from the signup sheet"},
				},
				Action: func(c *cli.Context) error {
					team, err := a.services.Teams.RegisterTeam(c.Context, c.Args().First(), c.String("external-id"))
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "Registered %s (%s)\n", team.Name, team.ID)
					return nil
				},
			},
			{
				Name:  "list",
				Usage: "list registered teams",
				Action: func(c *cli.Context) error {
					teams, err := a.services.Teams.ListTeams(c.Context)
					if err != nil {
						return err
					}
					for _, t := range teams {
						fmt.Fprintf(a.out, "%s  %s\n", t.ID, t.Name)
					}
					return nil
				},
			},
			{
				Name:      "roster",
				Usage:     "show the participants on a team",
				ArgsUsage: "TEAM",
				Action: func(c *cli.Context) error {
					team, err := a.services.Teams.ResolveTeam(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					roster, err := a.services.Teams.TeamRoster(c.Context, team.ID)
					if err != nil {
						return err
					}
					fmt.Fprintf(a.out, "%s\n", team.Name)
					for _, p := range roster {
						fmt.Fprintf(a.out, "  %s\n", p.FullName())
					}
					return nil
				},
			},
		},
	}
}

func (a *app) tournamentCommand() *cli.Command {
	return &cli.Command{
		Name:    "tournament",
		Aliases: []string{"t"},
		Usage:   "create and run tournaments",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "create a tournament and draw its bracket",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "format", Value: string(bracket.SingleElimination), Usage: "single_elimination, double_elimination or round_robin"},
					&cli.StringSliceFlag{Name: "team", Usage: "team name or ID, repeat for each team"},
					&cli.BoolFlag{Name: "start", Usage: "start the tournament right away"},
				},
				Action: func(c *cli.Context) error {
					format, err := bracket.ParseFormat(c.String("format"))
					if err != nil {
						return err
					}

					teamIDs := make([]uuid.UUID, 0, len(c.StringSlice("team")))
					for _, ref := range c.StringSlice("team") {
						team, err := a.services.Teams.ResolveTeam(c.Context, ref)
						if err != nil {
							return err
						}
						teamIDs = append(teamIDs, team.ID)
					}

					id, err := a.services.Tournaments.CreateTournament(c.Context, c.String("name"), format, teamIDs)
					if err != nil {
						return err
					}
					if c.Bool("start") {
						if err := a.services.Tournaments.StartTournament(c.Context, id); err != nil {
							return err
						}
					}

					fmt.Fprintf(a.out, "Created tournament %s\n", id)
					return a.show(c.Context, id)
				},
			},
			{
				Name:  "list",
				Usage: "list tournaments",
				Action: func(c *cli.Context) error {
					tournaments, err := a.services.Tournaments.ListTournaments(c.Context)
					if err != nil {
						return err
					}
					for _, t := range tournaments {
						marker := " "
						if t.IsDefault {
							marker = "*"
						}
						fmt.Fprintf(a.out, "%s %s  %-20s %-18s %s\n", marker, t.ID, t.Name, t.Format, t.Status)
					}
					return nil
				},
			},
			a.tournamentAction("show", "print the bracket", func(c *cli.Context, id uuid.UUID) error {
				return a.show(c.Context, id)
			}),
			a.tournamentAction("start", "open the tournament for scores", func(c *cli.Context, id uuid.UUID) error {
				return a.services.Tournaments.StartTournament(c.Context, id)
			}),
			a.tournamentAction("pause", "stop accepting scores", func(c *cli.Context, id uuid.UUID) error {
				return a.services.Tournaments.PauseTournament(c.Context, id)
			}),
			a.tournamentAction("resume", "accept scores again", func(c *cli.Context, id uuid.UUID) error {
				return a.services.Tournaments.ResumeTournament(c.Context, id)
			}),
			a.tournamentAction("regenerate", "redraw the bracket before any match is played", func(c *cli.Context, id uuid.UUID) error {
				if err := a.services.Tournaments.RegenerateBracket(c.Context, id, nil); err != nil {
					return err
				}
				return a.show(c.Context, id)
			}),
			a.tournamentAction("default", "show this tournament on the public screen", func(c *cli.Context, id uuid.UUID) error {
				return a.services.Tournaments.SetDefaultTournament(c.Context, id)
			}),
			a.tournamentAction("delete", "delete the tournament and its matches", func(c *cli.Context, id uuid.UUID) error {
				return a.services.Tournaments.DeleteTournament(c.Context, id)
			}),
		},
	}
}

func (a *app) scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "record a match result",
		ArgsUsage: "MATCH_ID TEAM1_SCORE TEAM2_SCORE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 3 {
				return cli.Exit("expected MATCH_ID TEAM1_SCORE TEAM2_SCORE", 2)
			}
			matchID, err := uuid.Parse(c.Args().Get(0))
			if err != nil {
				return fmt.Errorf("%w: %q", bracket.ErrMatchNotFound, c.Args().Get(0))
			}

			outcome, err := a.services.Matches.RecordScoreInput(c.Context, matchID, c.Args().Get(1), c.Args().Get(2))
			if errors.Is(err, bracket.ErrTieNotAllowed) {
				return cli.Exit("Ties are not allowed, play it out", 1)
			}
			if err != nil {
				return err
			}

			if outcome.TournamentCompleted {
				fmt.Fprintln(a.out, "Final score recorded, tournament complete")
			} else {
				fmt.Fprintln(a.out, "Score recorded")
			}
			return a.show(c.Context, outcome.Match.TournamentID)
		},
	}
}
