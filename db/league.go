package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mistertach/tennis-ladder/model"
)

const leagueColumns = `id, title, start_date, duration_weeks, current_week, status, games_per_match, created`

func (db *postgresDB) AddLeague(ctx context.Context, l *model.League) error {
	const insertLeague = `INSERT INTO leagues (
		title,
		start_date,
		duration_weeks,
		current_week,
		status,
		games_per_match,
		created
	) VALUES (
		@title,
		@startDate,
		@durationWeeks,
		@currentWeek,
		@status,
		@gamesPerMatch,
		@created
	) RETURNING id`

	const insertTier = `INSERT INTO tiers (league_id, tier, day, time, court)
		VALUES (@leagueID, @tier, @day, @time, @court) RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if l.CurrentWeek == 0 {
		l.CurrentWeek = 1
	}
	if l.Status == model.STATUS_UNKNOWN {
		l.Status = model.STATUS_DRAFT
	}
	l.Created = db.clock.Now().UTC()

	args := pgx.NamedArgs{
		"title": l.Title,
		"startDate": pgtype.Date{
			Time:  l.StartDate,
			Valid: true,
		},
		"durationWeeks": l.DurationWeeks,
		"currentWeek":   l.CurrentWeek,
		"status":        string(l.Status),
		"gamesPerMatch": l.GamesPerMatch,
		"created": pgtype.Timestamptz{
			Time:             l.Created,
			InfinityModifier: pgtype.Finite,
			Valid:            true,
		},
	}
	if err := tx.QueryRow(ctx, insertLeague, args).Scan(&l.ID); err != nil {
		return fmt.Errorf("error inserting league %s: %w", l.Title, err)
	}

	ltx := &leagueTx{tx: tx, leagueID: l.ID}
	for i := range l.Tiers {
		t := &l.Tiers[i]
		t.LeagueID = l.ID
		args := pgx.NamedArgs{
			"leagueID": l.ID,
			"tier":     t.Number,
			"day":      t.Schedule.Day,
			"time":     t.Schedule.Time,
			"court":    t.Schedule.Court,
		}
		if err := tx.QueryRow(ctx, insertTier, args).Scan(&t.ID); err != nil {
			return fmt.Errorf("error inserting tier %d: %w", t.Number, err)
		}

		for j := range t.Members {
			t.Members[j].TierID = t.ID
		}
		for j := range t.Scores {
			t.Scores[j].TierID = t.ID
		}
		for j := range t.Matches {
			t.Matches[j].TierID = t.ID
		}

		if err := ltx.InsertMembers(ctx, t.Members); err != nil {
			return err
		}
		if err := ltx.InsertScores(ctx, t.Scores); err != nil {
			return err
		}
		if _, err := insertMatches(ctx, tx, t.Matches); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing league: %w", err)
	}
	return nil
}

func (db *postgresDB) ListLeagues(ctx context.Context) ([]model.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues ORDER BY start_date DESC, id DESC`

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying leagues: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.League, error) {
		l, err := scanLeague(row)
		if err != nil {
			return model.League{}, err
		}
		return *l, nil
	})
}

func (db *postgresDB) GetLeague(ctx context.Context, id int32) (*model.League, error) {
	return getLeague(ctx, db.pool, id)
}

func (db *postgresDB) GetLeagueWeek(ctx context.Context, id int32, week int) (*model.League, error) {
	l, err := getLeague(ctx, db.pool, id)
	if err != nil {
		return nil, err
	}
	if err := loadWeek(ctx, db.pool, l, week); err != nil {
		return nil, err
	}
	return l, nil
}

func (db *postgresDB) DeleteLeague(ctx context.Context, id int32) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM leagues WHERE id=@id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting league %d: %w", id, err)
	}
	return rowsAffectedOr(tag, ErrLeagueNotFound)
}

func (db *postgresDB) UpdateLeagueStatus(ctx context.Context, id int32, status model.LeagueStatus) error {
	args := pgx.NamedArgs{
		"id":     id,
		"status": string(status),
	}
	tag, err := db.pool.Exec(ctx, `UPDATE leagues SET status=@status WHERE id=@id`, args)
	if err != nil {
		return fmt.Errorf("error updating status of league %d: %w", id, err)
	}
	return rowsAffectedOr(tag, ErrLeagueNotFound)
}

func (db *postgresDB) UpdateTierSchedule(ctx context.Context, tierID int32, s model.Schedule) error {
	const update = `UPDATE tiers SET day=@day, time=@time, court=@court WHERE id=@id`

	args := pgx.NamedArgs{
		"id":    tierID,
		"day":   s.Day,
		"time":  s.Time,
		"court": s.Court,
	}
	tag, err := db.pool.Exec(ctx, update, args)
	if err != nil {
		return fmt.Errorf("error updating schedule of tier %d: %w", tierID, err)
	}
	return rowsAffectedOr(tag, ErrTierNotFound)
}

func getLeague(ctx context.Context, q querier, id int32) (*model.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id=@id`

	l, err := scanLeague(q.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("error scanning league %d: %w", id, err)
	}

	const tierQuery = `SELECT id, league_id, tier, day, time, court FROM tiers
		WHERE league_id=@id ORDER BY tier`

	rows, err := q.Query(ctx, tierQuery, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("error querying tiers of league %d: %w", id, err)
	}
	l.Tiers, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Tier, error) {
		var t model.Tier
		err := row.Scan(&t.ID, &t.LeagueID, &t.Number, &t.Schedule.Day, &t.Schedule.Time, &t.Schedule.Court)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning tiers of league %d: %w", id, err)
	}

	return l, nil
}

func scanLeague(row pgx.Row) (*model.League, error) {
	var l model.League
	var status string
	var startDate pgtype.Date
	var created pgtype.Timestamptz

	err := row.Scan(
		&l.ID,
		&l.Title,
		&startDate,
		&l.DurationWeeks,
		&l.CurrentWeek,
		&status,
		&l.GamesPerMatch,
		&created)
	if err != nil {
		return nil, err
	}

	l.Status = model.ParseLeagueStatus(status)
	l.StartDate = startDate.Time
	l.Created = created.Time
	return &l, nil
}

// loadWeek fills the tiers of the league with the members, scores and matches of week.
func loadWeek(ctx context.Context, q querier, l *model.League, week int) error {
	tiers := make(map[int32]*model.Tier, len(l.Tiers))
	for i := range l.Tiers {
		t := &l.Tiers[i]
		t.Members = make([]model.Membership, 0, model.TierSize)
		t.Scores = make([]model.WeeklyScore, 0, model.TierSize)
		t.Matches = make([]model.Match, 0, model.TierSize)
		tiers[t.ID] = t
	}

	args := pgx.NamedArgs{
		"leagueID": l.ID,
		"week":     week,
	}

	members, err := queryMembers(ctx, q, args)
	if err != nil {
		return err
	}
	for _, m := range members {
		if t, found := tiers[m.TierID]; found {
			t.Members = append(t.Members, m)
		}
	}

	scores, err := queryScores(ctx, q, args)
	if err != nil {
		return err
	}
	for _, s := range scores {
		if t, found := tiers[s.TierID]; found {
			t.Scores = append(t.Scores, s)
		}
	}

	matches, err := queryMatches(ctx, q, args)
	if err != nil {
		return err
	}
	for _, m := range matches {
		if t, found := tiers[m.TierID]; found {
			t.Matches = append(t.Matches, m)
		}
	}

	return nil
}
