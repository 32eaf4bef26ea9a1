package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/mistertach/tennis-ladder/model"
)

func (db *postgresDB) SavePlayers(ctx context.Context, players []model.Player) error {
	const upsert = `INSERT INTO players (id, name, email, level)
		VALUES (@id, @name, @email, @level)
		ON CONFLICT (id) DO UPDATE SET
			name=EXCLUDED.name,
			email=COALESCE(EXCLUDED.email, players.email),
			level=EXCLUDED.level`

	if len(players) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, p := range players {
		if p.ID == "" {
			return errors.New("SavePlayers - player id is empty")
		}
		batch.Queue(upsert, pgx.NamedArgs{
			"id":    p.ID,
			"name":  p.Name,
			"email": nullString(p.Email),
			"level": p.Level,
		})
	}

	if err := db.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("error saving players: %w", err)
	}
	return nil
}

func (db *postgresDB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	const query = `SELECT id, name, email, level FROM players WHERE id=@id`

	rows, err := db.pool.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("error querying player %s: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, func(row pgx.CollectableRow) (model.Player, error) {
		var p model.Player
		var email sql.NullString
		err := row.Scan(&p.ID, &p.Name, &email, &p.Level)
		p.Email = valueOrEmpty(email)
		return p, err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("error scanning player %s: %w", id, err)
	}
	return &p, nil
}
