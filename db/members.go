package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mistertach/tennis-ladder/model"
)

// leagueTx implements LeagueTx on top of a transaction that holds the league's advisory lock.
type leagueTx struct {
	tx       pgx.Tx
	leagueID int32
}

func (t *leagueTx) GetLeague(ctx context.Context) (*model.League, error) {
	return getLeague(ctx, t.tx, t.leagueID)
}

func (t *leagueTx) LoadWeek(ctx context.Context, l *model.League, week int) error {
	return loadWeek(ctx, t.tx, l, week)
}

func (t *leagueTx) WeekExists(ctx context.Context, week int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tier_members WHERE league_id=@leagueID AND week=@week)`

	args := pgx.NamedArgs{
		"leagueID": t.leagueID,
		"week":     week,
	}
	var exists bool
	if err := t.tx.QueryRow(ctx, query, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking if week %d exists: %w", week, err)
	}
	return exists, nil
}

func (t *leagueTx) DeleteWeek(ctx context.Context, tierIDs []int32, week int) error {
	args := pgx.NamedArgs{
		"tierIDs": tierIDs,
		"week":    week,
	}

	if _, err := t.tx.Exec(ctx, `DELETE FROM tier_members WHERE tier_id = ANY(@tierIDs) AND week=@week`, args); err != nil {
		return fmt.Errorf("error deleting members of week %d: %w", week, err)
	}
	if _, err := t.tx.Exec(ctx, `DELETE FROM weekly_scores WHERE tier_id = ANY(@tierIDs) AND week=@week`, args); err != nil {
		return fmt.Errorf("error deleting scores of week %d: %w", week, err)
	}
	return nil
}

func (t *leagueTx) InsertMembers(ctx context.Context, members []model.Membership) error {
	if len(members) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(members))
	for _, m := range members {
		rows = append(rows, []any{m.TierID, t.leagueID, m.UserID, int32(m.Week), int32(m.Rank), int32(m.Points)})
	}

	columns := []string{"tier_id", "league_id", "user_id", "week", "rank", "points"}
	n, err := t.tx.CopyFrom(ctx, pgx.Identifier{"tier_members"}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("error inserting members: %w", err)
	}
	if int(n) != len(members) {
		return fmt.Errorf("expected to insert %d members, inserted %d", len(members), n)
	}
	return nil
}

func (t *leagueTx) InsertScores(ctx context.Context, scores []model.WeeklyScore) error {
	const insert = `INSERT INTO weekly_scores (tier_id, user_id, week, games_won, sub_needed, no_show, sub_name, sub_contact)
		VALUES (@tierID, @userID, @week, @gamesWon, @subNeeded, @noShow, @subName, @subContact)
		ON CONFLICT (tier_id, user_id, week) DO NOTHING`

	if len(scores) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, s := range scores {
		batch.Queue(insert, pgx.NamedArgs{
			"tierID":     s.TierID,
			"userID":     s.UserID,
			"week":       s.Week,
			"gamesWon":   nullInt(s.GamesWon),
			"subNeeded":  s.SubNeeded,
			"noShow":     s.NoShow,
			"subName":    nullString(s.SubName),
			"subContact": nullString(s.SubContact),
		})
	}

	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("error inserting scores: %w", err)
	}
	return nil
}

func (t *leagueTx) AdvanceWeek(ctx context.Context) error {
	const update = `UPDATE leagues SET current_week = current_week + 1 WHERE id=@id`

	tag, err := t.tx.Exec(ctx, update, pgx.NamedArgs{"id": t.leagueID})
	if err != nil {
		return fmt.Errorf("error advancing week of league %d: %w", t.leagueID, err)
	}
	return rowsAffectedOr(tag, ErrLeagueNotFound)
}

func (t *leagueTx) MoveMember(ctx context.Context, from model.Membership, toTierID int32, toRank int) error {
	const update = `UPDATE tier_members SET tier_id=@toTierID, rank=@toRank
		WHERE tier_id=@tierID AND user_id=@userID AND week=@week`

	args := pgx.NamedArgs{
		"toTierID": toTierID,
		"toRank":   toRank,
		"tierID":   from.TierID,
		"userID":   from.UserID,
		"week":     from.Week,
	}
	tag, err := t.tx.Exec(ctx, update, args)
	if err != nil {
		return fmt.Errorf("error moving member %s: %w", from.UserID, err)
	}
	return rowsAffectedOr(tag, ErrMemberNotFound)
}

// The score may not have been created yet, so nothing being updated isn't an error.
func (t *leagueTx) MoveScore(ctx context.Context, key model.ScoreKey, toTierID int32) error {
	const update = `UPDATE weekly_scores SET tier_id=@toTierID
		WHERE tier_id=@tierID AND user_id=@userID AND week=@week`

	args := pgx.NamedArgs{
		"toTierID": toTierID,
		"tierID":   key.TierID,
		"userID":   key.UserID,
		"week":     key.Week,
	}
	if _, err := t.tx.Exec(ctx, update, args); err != nil {
		return fmt.Errorf("error moving score of %s: %w", key.UserID, err)
	}
	return nil
}

func (t *leagueTx) DeleteMember(ctx context.Context, m model.Membership) error {
	const del = `DELETE FROM tier_members WHERE tier_id=@tierID AND user_id=@userID AND week=@week`

	args := pgx.NamedArgs{
		"tierID": m.TierID,
		"userID": m.UserID,
		"week":   m.Week,
	}
	tag, err := t.tx.Exec(ctx, del, args)
	if err != nil {
		return fmt.Errorf("error deleting member %s: %w", m.UserID, err)
	}
	return rowsAffectedOr(tag, ErrMemberNotFound)
}

func (t *leagueTx) DeleteScore(ctx context.Context, key model.ScoreKey) error {
	const del = `DELETE FROM weekly_scores WHERE tier_id=@tierID AND user_id=@userID AND week=@week`

	args := pgx.NamedArgs{
		"tierID": key.TierID,
		"userID": key.UserID,
		"week":   key.Week,
	}
	if _, err := t.tx.Exec(ctx, del, args); err != nil {
		return fmt.Errorf("error deleting score of %s: %w", key.UserID, err)
	}
	return nil
}

func queryMembers(ctx context.Context, q querier, args pgx.NamedArgs) ([]model.Membership, error) {
	const query = `SELECT m.tier_id, m.user_id, p.name, m.week, m.rank, m.points
		FROM tier_members AS m
		INNER JOIN players AS p ON p.id=m.user_id
		WHERE m.league_id=@leagueID AND m.week=@week
		ORDER BY m.tier_id, m.rank`

	rows, err := q.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying members: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Membership, error) {
		var m model.Membership
		err := row.Scan(&m.TierID, &m.UserID, &m.Name, &m.Week, &m.Rank, &m.Points)
		return m, err
	})
}
