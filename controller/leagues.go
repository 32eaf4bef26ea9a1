package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mistertach/tennis-ladder/ladder"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
)

func (c *controller) CreateLeague(ctx context.Context, nl model.NewLeague) (*model.League, error) {
	players, err := validateNewLeague(&nl)
	if err != nil {
		return nil, err
	}

	if err := c.db.SavePlayers(ctx, players); err != nil {
		return nil, fmt.Errorf("error saving players of %s: %w", nl.Title, err)
	}
	c.shuffle(players)

	startDate := nl.StartDate
	if startDate.IsZero() {
		startDate = c.clock.Now().UTC().Truncate(24 * time.Hour)
	}

	l := &model.League{
		Title:         nl.Title,
		StartDate:     startDate,
		DurationWeeks: nl.DurationWeeks,
		CurrentWeek:   1,
		Status:        model.STATUS_ACTIVE,
		GamesPerMatch: nl.GamesPerMatch,
		Tiers:         seedTiers(players, 1),
	}
	if err := c.db.AddLeague(ctx, l); err != nil {
		return nil, fmt.Errorf("error adding league %s: %w", nl.Title, err)
	}

	c.log.WithFields(logrus.Fields{
		"league":  l.ID,
		"title":   l.Title,
		"tiers":   len(l.Tiers),
		"players": len(players),
	}).Info("created league")
	return l, nil
}

func (c *controller) CreateLeagueFromCSV(ctx context.Context, nl model.NewLeague, r io.Reader) (*model.League, error) {
	players, err := readRoster(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	nl.Players = append(nl.Players, players...)
	return c.CreateLeague(ctx, nl)
}

// validateNewLeague normalizes nl and returns its normalized players.
func validateNewLeague(nl *model.NewLeague) ([]model.Player, error) {
	nl.Title = strings.TrimSpace(nl.Title)
	if nl.Title == "" {
		return nil, fmt.Errorf("%w: league title must be provided", ErrInvalidInput)
	}
	if nl.DurationWeeks <= 0 {
		return nil, fmt.Errorf("%w: duration must be at least 1 week, got %d", ErrInvalidInput, nl.DurationWeeks)
	}
	if nl.GamesPerMatch <= 0 {
		return nil, fmt.Errorf("%w: games per match must be at least 1, got %d", ErrInvalidInput, nl.GamesPerMatch)
	}

	n := len(nl.Players)
	if n == 0 || n%model.TierSize != 0 {
		return nil, fmt.Errorf("%w: the number of players must be a multiple of %d, got %d", ErrInvalidInput, model.TierSize, n)
	}

	players := make([]model.Player, 0, n)
	seen := make(map[string]bool, n)
	for _, p := range nl.Players {
		p.Normalize()
		if p.Name == "" || p.ID == "" {
			return nil, fmt.Errorf("%w: every player needs a name", ErrInvalidInput)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("%w: player %s is listed more than once", ErrInvalidInput, p.ID)
		}
		seen[p.ID] = true
		players = append(players, p)
	}
	return players, nil
}

// seedTiers splits the players, in order, into tiers of model.TierSize with the first
// week's members, empty scores and round robin.
func seedTiers(players []model.Player, week int) []model.Tier {
	tiers := make([]model.Tier, 0, len(players)/model.TierSize)
	for start := 0; start < len(players); start += model.TierSize {
		t := model.Tier{Number: len(tiers) + 1}

		chunk := players[start:min(start+model.TierSize, len(players))]
		ids := make([]string, 0, len(chunk))
		for i, p := range chunk {
			ids = append(ids, p.ID)
			t.Members = append(t.Members, model.Membership{UserID: p.ID, Name: p.Name, Week: week, Rank: i + 1})
			t.Scores = append(t.Scores, model.WeeklyScore{UserID: p.ID, Week: week})
		}
		t.Matches = ladder.RoundRobin(0, ids, week)
		tiers = append(tiers, t)
	}
	return tiers
}

func (c *controller) GetLeague(ctx context.Context, id int32, week int) (*model.League, error) {
	if week < 0 {
		return nil, fmt.Errorf("%w: week must be 1 or more, got %d", ErrInvalidInput, week)
	}

	if week == 0 {
		l, err := c.db.GetLeague(ctx, id)
		if err != nil {
			return nil, err
		}
		week = l.CurrentWeek
	}
	return c.db.GetLeagueWeek(ctx, id, week)
}

func (c *controller) ListLeagues(ctx context.Context) ([]model.League, error) {
	return c.db.ListLeagues(ctx)
}

func (c *controller) DeleteLeague(ctx context.Context, id int32) error {
	if err := c.db.DeleteLeague(ctx, id); err != nil {
		return err
	}
	c.log.WithField("league", id).Info("deleted league")
	return nil
}
