package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/mistertach/tennis-ladder/ladder"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
)

func (c *controller) ReportGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if gamesWon < 0 {
		return fmt.Errorf("%w: games won can't be negative, got %d", ErrInvalidInput, gamesWon)
	}
	return c.db.SaveGamesWon(ctx, key, gamesWon)
}

func (c *controller) SetSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return c.db.SaveSubNeeded(ctx, key, subNeeded)
}

func (c *controller) SetNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return c.db.SaveNoShow(ctx, key, noShow)
}

func (c *controller) SetSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return c.db.SaveSubDetails(ctx, key, strings.TrimSpace(name), strings.TrimSpace(contact))
}

func validateKey(key model.ScoreKey) error {
	if strings.TrimSpace(key.UserID) == "" {
		return fmt.Errorf("%w: user id must be provided", ErrInvalidInput)
	}
	if key.Week < 1 {
		return fmt.Errorf("%w: week must be 1 or more, got %d", ErrInvalidInput, key.Week)
	}
	return nil
}

func (c *controller) ScheduleMatches(ctx context.Context, leagueID int32, week int) (int, error) {
	if week < 1 {
		return 0, fmt.Errorf("%w: week must be 1 or more, got %d", ErrInvalidInput, week)
	}

	l, err := c.db.GetLeagueWeek(ctx, leagueID, week)
	if err != nil {
		return 0, err
	}

	matches := make([]model.Match, 0, len(l.Tiers)*6)
	for _, t := range l.Tiers {
		ids := make([]string, 0, len(t.Members))
		for _, m := range byRank(t.Members) {
			ids = append(ids, m.UserID)
		}
		matches = append(matches, ladder.RoundRobin(t.ID, ids, week)...)
	}
	if len(matches) == 0 {
		return 0, nil
	}

	created, err := c.db.AddMatches(ctx, matches)
	if err != nil {
		return 0, fmt.Errorf("error scheduling matches of week %d: %w", week, err)
	}

	c.log.WithFields(logrus.Fields{
		"league":  leagueID,
		"week":    week,
		"created": created,
	}).Info("scheduled matches")
	return int(created), nil
}

func (c *controller) ReportMatch(ctx context.Context, matchID int32, score1, score2 int) (*model.Match, error) {
	if score1 < 0 || score2 < 0 {
		return nil, fmt.Errorf("%w: scores can't be negative, got %d-%d", ErrInvalidInput, score1, score2)
	}

	m, err := c.db.ReportMatch(ctx, matchID, score1, score2)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"match":  matchID,
		"tier":   m.TierID,
		"week":   m.Round,
		"score":  fmt.Sprintf("%d-%d", score1, score2),
		"winner": m.WinnerID,
	}).Info("reported match")
	return m, nil
}
