package controller

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
)

func (c *controller) SwapMember(ctx context.Context, leagueID, tierID int32, oldUserID, newUserID string) (model.Result, error) {
	oldUserID = strings.TrimSpace(oldUserID)
	newUserID = strings.TrimSpace(newUserID)
	if oldUserID == "" || newUserID == "" {
		return model.Result{}, fmt.Errorf("%w: both players must be provided", ErrInvalidInput)
	}
	if oldUserID == newUserID {
		return model.Result{}, fmt.Errorf("%w: can't swap %s with themselves", ErrInvalidInput, oldUserID)
	}

	if _, err := c.db.GetPlayer(ctx, newUserID); err != nil {
		return model.Result{}, err
	}

	var result model.Result
	err := c.db.RunInLeagueTx(ctx, leagueID, func(tx db.LeagueTx) error {
		l, err := tx.GetLeague(ctx)
		if err != nil {
			return err
		}
		if l.TierByID(tierID) == nil {
			return db.ErrTierNotFound
		}

		week := l.CurrentWeek
		if err := tx.LoadWeek(ctx, l, week); err != nil {
			return err
		}

		var old *model.Membership
		for _, t := range l.Tiers {
			for i := range t.Members {
				m := &t.Members[i]
				if m.UserID == newUserID {
					result = model.Rejected(fmt.Sprintf("%s already plays in week %d", newUserID, week))
					return nil
				}
				if m.TierID == tierID && m.UserID == oldUserID {
					old = m
				}
			}
		}
		if old == nil {
			return db.ErrMemberNotFound
		}

		if err := tx.DeleteMember(ctx, *old); err != nil {
			return err
		}
		if err := tx.DeleteScore(ctx, model.ScoreKey{TierID: tierID, UserID: oldUserID, Week: week}); err != nil {
			return err
		}

		replacement := model.Membership{TierID: tierID, UserID: newUserID, Week: week, Rank: old.Rank}
		if err := tx.InsertMembers(ctx, []model.Membership{replacement}); err != nil {
			return err
		}
		score := model.WeeklyScore{TierID: tierID, UserID: newUserID, Week: week}
		if err := tx.InsertScores(ctx, []model.WeeklyScore{score}); err != nil {
			return err
		}

		c.log.WithFields(logrus.Fields{
			"league": leagueID,
			"tier":   tierID,
			"week":   week,
			"old":    oldUserID,
			"new":    newUserID,
		}).Info("swapped member")
		result = model.Succeeded()
		return nil
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("error swapping %s for %s: %w", oldUserID, newUserID, err)
	}
	return result, nil
}

func (c *controller) MoveRank(ctx context.Context, leagueID, tierID int32, userID string, dir model.Direction) (model.Result, error) {
	var step int
	switch dir {
	case model.DIRECTION_UP:
		step = -1
	case model.DIRECTION_DOWN:
		step = 1
	default:
		return model.Result{}, fmt.Errorf("%w: direction must be up or down, got '%s'", ErrInvalidInput, dir)
	}

	var result model.Result
	err := c.db.RunInLeagueTx(ctx, leagueID, func(tx db.LeagueTx) error {
		l, err := tx.GetLeague(ctx)
		if err != nil {
			return err
		}
		if l.TierByID(tierID) == nil {
			return db.ErrTierNotFound
		}

		week := l.CurrentWeek
		if err := tx.LoadWeek(ctx, l, week); err != nil {
			return err
		}

		ranking := globalRanking(l)
		idx := slices.IndexFunc(ranking, func(m model.Membership) bool {
			return m.TierID == tierID && m.UserID == userID
		})
		if idx == -1 {
			return db.ErrMemberNotFound
		}

		other := idx + step
		if other < 0 || other >= len(ranking) {
			result = model.Rejected(ReasonMoveOutOfBounds)
			return nil
		}

		a, b := ranking[idx], ranking[other]
		if err := tx.MoveMember(ctx, a, b.TierID, b.Rank); err != nil {
			return err
		}
		if err := tx.MoveMember(ctx, b, a.TierID, a.Rank); err != nil {
			return err
		}
		if a.TierID != b.TierID {
			if err := tx.MoveScore(ctx, model.ScoreKey{TierID: a.TierID, UserID: a.UserID, Week: week}, b.TierID); err != nil {
				return err
			}
			if err := tx.MoveScore(ctx, model.ScoreKey{TierID: b.TierID, UserID: b.UserID, Week: week}, a.TierID); err != nil {
				return err
			}
		}

		c.log.WithFields(logrus.Fields{
			"league":    leagueID,
			"week":      week,
			"user":      userID,
			"direction": dir,
			"swapped":   b.UserID,
		}).Info("moved player")
		result = model.Succeeded()
		return nil
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("error moving %s %s: %w", userID, dir, err)
	}
	return result, nil
}

// globalRanking lists the members of the loaded week across the whole league, tier
// by tier and by rank within each tier.
func globalRanking(l *model.League) []model.Membership {
	result := make([]model.Membership, 0, len(l.Tiers)*model.TierSize)
	for _, t := range l.Tiers {
		result = append(result, byRank(t.Members)...)
	}
	return result
}

func byRank(members []model.Membership) []model.Membership {
	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b model.Membership) int {
		return cmp.Compare(a.Rank, b.Rank)
	})
	return sorted
}

func (c *controller) UpdateTierSchedule(ctx context.Context, leagueID, tierID int32, s model.Schedule) error {
	l, err := c.db.GetLeague(ctx, leagueID)
	if err != nil {
		return err
	}
	if l.TierByID(tierID) == nil {
		return db.ErrTierNotFound
	}

	s.Day = strings.TrimSpace(s.Day)
	s.Time = strings.TrimSpace(s.Time)
	s.Court = strings.TrimSpace(s.Court)
	return c.db.UpdateTierSchedule(ctx, tierID, s)
}

func (c *controller) UpdateLeagueStatus(ctx context.Context, leagueID int32, status model.LeagueStatus) error {
	parsed := model.ParseLeagueStatus(string(status))
	if parsed == model.STATUS_UNKNOWN {
		return fmt.Errorf("%w: status must be one of %s, %s or %s, got '%s'", ErrInvalidInput,
			model.STATUS_DRAFT, model.STATUS_ACTIVE, model.STATUS_COMPLETED, status)
	}
	status = parsed

	if err := c.db.UpdateLeagueStatus(ctx, leagueID, status); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"league": leagueID, "status": status}).Info("updated league status")
	return nil
}
