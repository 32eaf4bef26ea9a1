package controller

import (
	"context"
	"fmt"

	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/ladder"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
)

func (c *controller) GenerateNextWeek(ctx context.Context, leagueID int32, opts model.GenerateOptions) (model.Result, error) {
	var result model.Result
	err := c.db.RunInLeagueTx(ctx, leagueID, func(tx db.LeagueTx) error {
		l, err := tx.GetLeague(ctx)
		if err != nil {
			return err
		}
		if err := tx.LoadWeek(ctx, l, l.CurrentWeek); err != nil {
			return err
		}

		result, err = c.writeNextWeek(ctx, tx, l, opts)
		return err
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("error generating next week of league %d: %w", leagueID, err)
	}
	return result, nil
}

// writeNextWeek materializes the week after l.CurrentWeek. The data of the current week
// must already be loaded into l.
func (c *controller) writeNextWeek(ctx context.Context, tx db.LeagueTx, l *model.League, opts model.GenerateOptions) (model.Result, error) {
	current := l.CurrentWeek
	next := current + 1
	logger := c.log.WithFields(logrus.Fields{
		"league":    l.ID,
		"week":      next,
		"rainDelay": opts.RainDelay,
		"force":     opts.Force,
	})

	exists, err := tx.WeekExists(ctx, next)
	if err != nil {
		return model.Result{}, err
	}
	if exists && !opts.Force {
		logger.Info("next week already generated")
		return model.Rejected(ReasonAlreadyGenerated), nil
	}

	var buckets ladder.Buckets
	if opts.RainDelay {
		buckets = ladder.CopyBuckets(l.Tiers, current)
	} else {
		buckets = ladder.PlanBuckets(l.Tiers, current)
	}
	if buckets.Size() == 0 {
		return model.Rejected(fmt.Sprintf("there are no players in week %d", current)), nil
	}

	if exists {
		if err := tx.DeleteWeek(ctx, l.TierIDs(), next); err != nil {
			return model.Result{}, err
		}
	}

	members, scores := buckets.Rows(l.Tiers, next)
	if err := tx.InsertMembers(ctx, members); err != nil {
		return model.Result{}, err
	}
	if err := tx.InsertScores(ctx, scores); err != nil {
		return model.Result{}, err
	}

	// Rebuilding a week that was already there doesn't move the league forward
	if !exists {
		if err := tx.AdvanceWeek(ctx); err != nil {
			return model.Result{}, err
		}
	}

	logger.WithField("players", len(members)).Info("generated week")
	return model.Succeeded(), nil
}

func (c *controller) RegenerateCurrentWeek(ctx context.Context, leagueID int32) (model.Result, error) {
	var result model.Result
	err := c.db.RunInLeagueTx(ctx, leagueID, func(tx db.LeagueTx) error {
		l, err := tx.GetLeague(ctx)
		if err != nil {
			return err
		}

		current := l.CurrentWeek
		if current <= 1 {
			result = model.Rejected(ReasonNoPreviousWeek)
			return nil
		}

		previous := current - 1
		if err := tx.LoadWeek(ctx, l, previous); err != nil {
			return err
		}

		buckets := ladder.PlanBuckets(l.Tiers, previous)
		if buckets.Size() == 0 {
			result = model.Rejected(fmt.Sprintf("there are no players in week %d", previous))
			return nil
		}

		if err := tx.DeleteWeek(ctx, l.TierIDs(), current); err != nil {
			return err
		}
		members, scores := buckets.Rows(l.Tiers, current)
		if err := tx.InsertMembers(ctx, members); err != nil {
			return err
		}
		if err := tx.InsertScores(ctx, scores); err != nil {
			return err
		}

		c.log.WithFields(logrus.Fields{
			"league":  leagueID,
			"week":    current,
			"players": len(members),
		}).Info("regenerated week")
		result = model.Succeeded()
		return nil
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("error regenerating current week of league %d: %w", leagueID, err)
	}
	return result, nil
}

func (c *controller) TriggerAutoGeneration(ctx context.Context, leagueID int32, targetWeek int) (model.Result, error) {
	if targetWeek-1 < 1 {
		return model.Rejected(fmt.Sprintf("there is no week before week %d", targetWeek)), nil
	}

	// Shared by every caller waiting on key, only the transaction timeout bounds it.
	key := fmt.Sprintf("%d-%d", leagueID, targetWeek)
	shared := context.WithoutCancel(ctx)
	v, err, _ := c.autoGen.Do(key, func() (any, error) {
		return c.autoGenerate(shared, leagueID, targetWeek)
	})
	if err != nil {
		return model.Result{}, err
	}
	return v.(model.Result), nil
}

// autoGenerate does all of its checks while holding the league lock, so a caller that
// lost the race sees the week as already generated.
func (c *controller) autoGenerate(ctx context.Context, leagueID int32, targetWeek int) (model.Result, error) {
	var result model.Result
	err := c.db.RunInLeagueTx(ctx, leagueID, func(tx db.LeagueTx) error {
		l, err := tx.GetLeague(ctx)
		if err != nil {
			return err
		}

		current := l.CurrentWeek
		switch {
		case targetWeek <= current:
			result = model.Rejected(ReasonAlreadyGenerated)
			return nil
		case targetWeek > current+1:
			result = model.Rejected(fmt.Sprintf("week %d can't be generated before week %d", targetWeek, current+1))
			return nil
		}

		if err := tx.LoadWeek(ctx, l, current); err != nil {
			return err
		}
		if !ladder.WeekComplete(l.Tiers, current) {
			result = model.Rejected(fmt.Sprintf("week %d is not complete", current))
			return nil
		}

		result, err = c.writeNextWeek(ctx, tx, l, model.GenerateOptions{})
		return err
	})
	if err != nil {
		return model.Result{}, fmt.Errorf("error auto generating week %d of league %d: %w", targetWeek, leagueID, err)
	}
	return result, nil
}

func (c *controller) IsWeekComplete(ctx context.Context, leagueID int32, week int) (bool, error) {
	if week < 1 {
		return false, fmt.Errorf("%w: week must be 1 or more, got %d", ErrInvalidInput, week)
	}

	l, err := c.db.GetLeagueWeek(ctx, leagueID, week)
	if err != nil {
		return false, err
	}
	return ladder.WeekComplete(l.Tiers, week), nil
}

func (c *controller) GetStandings(ctx context.Context, leagueID int32, week int) ([]model.TierStandings, error) {
	l, err := c.GetLeague(ctx, leagueID, week)
	if err != nil {
		return nil, err
	}

	result := make([]model.TierStandings, 0, len(l.Tiers))
	for i, t := range l.Tiers {
		result = append(result, model.TierStandings{
			TierID:    t.ID,
			Tier:      t.Number,
			Standings: ladder.ComputeStandings(t.Members, t.Scores, t.Matches, i+1, len(l.Tiers)),
		})
	}
	return result, nil
}
