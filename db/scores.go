package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mistertach/tennis-ladder/model"
)

func (db *postgresDB) SaveGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error {
	const upsert = `INSERT INTO weekly_scores (tier_id, user_id, week, games_won)
		VALUES (@tierID, @userID, @week, @gamesWon)
		ON CONFLICT (tier_id, user_id, week) DO UPDATE SET games_won=EXCLUDED.games_won, no_show=false`

	return db.upsertScore(ctx, upsert, key, pgx.NamedArgs{"gamesWon": gamesWon})
}

func (db *postgresDB) SaveSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error {
	const upsert = `INSERT INTO weekly_scores (tier_id, user_id, week, sub_needed)
		VALUES (@tierID, @userID, @week, @subNeeded)
		ON CONFLICT (tier_id, user_id, week) DO UPDATE SET sub_needed=EXCLUDED.sub_needed`

	return db.upsertScore(ctx, upsert, key, pgx.NamedArgs{"subNeeded": subNeeded})
}

func (db *postgresDB) SaveNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error {
	// A no-show counts as zero games won, clearing the flag leaves the games untouched.
	const upsert = `INSERT INTO weekly_scores (tier_id, user_id, week, no_show, games_won)
		VALUES (@tierID, @userID, @week, @noShow, CASE WHEN @noShow THEN 0 END)
		ON CONFLICT (tier_id, user_id, week) DO UPDATE SET
			no_show=EXCLUDED.no_show,
			games_won=CASE WHEN EXCLUDED.no_show THEN 0 ELSE weekly_scores.games_won END`

	return db.upsertScore(ctx, upsert, key, pgx.NamedArgs{"noShow": noShow})
}

func (db *postgresDB) SaveSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error {
	// Entering the details of a sub implies one is needed when the row doesn't exist yet.
	const upsert = `INSERT INTO weekly_scores (tier_id, user_id, week, sub_needed, sub_name, sub_contact)
		VALUES (@tierID, @userID, @week, true, @subName, @subContact)
		ON CONFLICT (tier_id, user_id, week) DO UPDATE SET
			sub_name=EXCLUDED.sub_name,
			sub_contact=EXCLUDED.sub_contact`

	args := pgx.NamedArgs{
		"subName":    nullString(name),
		"subContact": nullString(contact),
	}
	return db.upsertScore(ctx, upsert, key, args)
}

// upsertScore runs the statement with the key added to args. The score can only be
// created for a member of the tier that week.
func (db *postgresDB) upsertScore(ctx context.Context, upsert string, key model.ScoreKey, args pgx.NamedArgs) error {
	const memberExists = `SELECT EXISTS (
		SELECT 1 FROM tier_members WHERE tier_id=@tierID AND user_id=@userID AND week=@week)`

	args["tierID"] = key.TierID
	args["userID"] = key.UserID
	args["week"] = key.Week

	var exists bool
	if err := db.pool.QueryRow(ctx, memberExists, args).Scan(&exists); err != nil {
		return fmt.Errorf("error checking membership of %s: %w", key.UserID, err)
	}
	if !exists {
		return ErrMemberNotFound
	}

	if _, err := db.pool.Exec(ctx, upsert, args); err != nil {
		return fmt.Errorf("error saving score of %s for week %d: %w", key.UserID, key.Week, err)
	}
	return nil
}

func queryScores(ctx context.Context, q querier, args pgx.NamedArgs) ([]model.WeeklyScore, error) {
	const query = `SELECT s.tier_id, s.user_id, s.week, s.games_won, s.sub_needed, s.no_show, s.sub_name, s.sub_contact
		FROM weekly_scores AS s
		INNER JOIN tiers AS t ON t.id=s.tier_id
		WHERE t.league_id=@leagueID AND s.week=@week
		ORDER BY s.tier_id, s.user_id`

	rows, err := q.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying scores: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.WeeklyScore, error) {
		var s model.WeeklyScore
		var gamesWon pgtype.Int4
		var subName, subContact sql.NullString

		err := row.Scan(&s.TierID, &s.UserID, &s.Week, &gamesWon, &s.SubNeeded, &s.NoShow, &subName, &subContact)
		if err != nil {
			return s, err
		}

		s.GamesWon = intOrNil(gamesWon)
		s.SubName = valueOrEmpty(subName)
		s.SubContact = valueOrEmpty(subContact)
		return s, nil
	})
}
