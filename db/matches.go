package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/mistertach/tennis-ladder/model"
)

const matchColumns = `m.id, m.tier_id, m.player1_id, m.player2_id, m.round, m.slot, m.score_player1, m.score_player2, m.status, m.winner_id`

func (db *postgresDB) AddMatches(ctx context.Context, matches []model.Match) (int64, error) {
	return insertMatches(ctx, db.pool, matches)
}

func (db *postgresDB) GetMatch(ctx context.Context, id int32) (*model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches AS m WHERE m.id=@id`

	m, err := scanMatch(db.pool.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("error scanning match %d: %w", id, err)
	}
	return m, nil
}

func (db *postgresDB) ReportMatch(ctx context.Context, id int32, score1, score2 int) (*model.Match, error) {
	const update = `UPDATE matches SET
		score_player1=@score1,
		score_player2=@score2,
		status=@status,
		winner_id=@winnerID
	WHERE id=@id`

	const addPoints = `UPDATE tier_members SET points = points + @points
		WHERE league_id=(SELECT league_id FROM tiers WHERE id=@tierID)
		AND user_id=@userID AND week=@week`

	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + matchColumns + ` FROM matches AS m WHERE m.id=@id FOR UPDATE`
	m, err := scanMatch(tx.QueryRow(ctx, query, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("error scanning match %d: %w", id, err)
	}
	alreadyReported := m.Status == model.MATCH_COMPLETED

	m.ScorePlayer1 = &score1
	m.ScorePlayer2 = &score2
	m.Status = model.MATCH_COMPLETED
	m.WinnerID = m.Winner()

	args := pgx.NamedArgs{
		"id":       id,
		"score1":   score1,
		"score2":   score2,
		"status":   string(m.Status),
		"winnerID": nullString(m.WinnerID),
	}
	if _, err := tx.Exec(ctx, update, args); err != nil {
		return nil, fmt.Errorf("error updating match %d: %w", id, err)
	}

	// Correcting a score does not hand out the points a second time
	if !alreadyReported {
		points1, points2 := model.PointsAwarded(score1, score2)
		batch := &pgx.Batch{}
		for _, p := range []struct {
			userID string
			points int
		}{{m.Player1ID, points1}, {m.Player2ID, points2}} {
			batch.Queue(addPoints, pgx.NamedArgs{
				"points": p.points,
				"tierID": m.TierID,
				"userID": p.userID,
				"week":   m.Round,
			})
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return nil, fmt.Errorf("error adding points for match %d: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("error committing match %d: %w", id, err)
	}
	return m, nil
}

// insertMatches skips matches that already exist and returns how many were created.
func insertMatches(ctx context.Context, q querier, matches []model.Match) (int64, error) {
	const insert = `INSERT INTO matches (tier_id, player1_id, player2_id, round, slot, status)
		VALUES (@tierID, @player1ID, @player2ID, @round, @slot, @status)
		ON CONFLICT (tier_id, player1_id, player2_id, round) DO NOTHING`

	if len(matches) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, m := range matches {
		status := m.Status
		if status == "" {
			status = model.MATCH_SCHEDULED
		}
		batch.Queue(insert, pgx.NamedArgs{
			"tierID":    m.TierID,
			"player1ID": m.Player1ID,
			"player2ID": m.Player2ID,
			"round":     m.Round,
			"slot":      m.Slot,
			"status":    string(status),
		})
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var created int64
	for range matches {
		tag, err := results.Exec()
		if err != nil {
			return created, fmt.Errorf("error inserting matches: %w", err)
		}
		created += tag.RowsAffected()
	}
	return created, results.Close()
}

func queryMatches(ctx context.Context, q querier, args pgx.NamedArgs) ([]model.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches AS m
		INNER JOIN tiers AS t ON t.id=m.tier_id
		WHERE t.league_id=@leagueID AND m.round=@week
		ORDER BY m.tier_id, m.slot, m.id`

	rows, err := q.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("error querying matches: %w", err)
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Match, error) {
		m, err := scanMatch(row)
		if err != nil {
			return model.Match{}, err
		}
		return *m, nil
	})
}

func scanMatch(row pgx.Row) (*model.Match, error) {
	var m model.Match
	var score1, score2 pgtype.Int4
	var status string
	var winnerID sql.NullString

	err := row.Scan(
		&m.ID,
		&m.TierID,
		&m.Player1ID,
		&m.Player2ID,
		&m.Round,
		&m.Slot,
		&score1,
		&score2,
		&status,
		&winnerID)
	if err != nil {
		return nil, err
	}

	m.ScorePlayer1 = intOrNil(score1)
	m.ScorePlayer2 = intOrNil(score2)
	m.Status = model.MatchStatus(status)
	m.WinnerID = valueOrEmpty(winnerID)
	return &m, nil
}
