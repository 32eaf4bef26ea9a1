package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPlayerNotFound error = errors.New("player not found")
	ErrLeagueNotFound error = errors.New("league not found")
	ErrTierNotFound   error = errors.New("tier not found")
	ErrMemberNotFound error = errors.New("member not found")
	ErrMatchNotFound  error = errors.New("match not found")
)

const (
	DefaultLockTimeout = 5 * time.Second
	DefaultTxTimeout   = 20 * time.Second

	// First key of the advisory locks taken on leagues, the league id is the second.
	leagueLockClass int32 = 7283
)

type Option func(db *postgresDB)

// WithLockTimeout limits how long a transaction waits on a lock held by another one.
func WithLockTimeout(d time.Duration) Option {
	return func(db *postgresDB) {
		db.lockTimeout = d
	}
}

// WithTxTimeout limits how long a whole transaction can take.
func WithTxTimeout(d time.Duration) Option {
	return func(db *postgresDB) {
		db.txTimeout = d
	}
}

func New(ctx context.Context, connString string, clock clock.Clock, opts ...Option) (DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	db := &postgresDB{
		pool:        pool,
		clock:       clock,
		lockTimeout: DefaultLockTimeout,
		txTimeout:   DefaultTxTimeout,
	}
	for _, o := range opts {
		o(db)
	}
	return db, nil
}

type postgresDB struct {
	pool        *pgxpool.Pool
	clock       clock.Clock
	lockTimeout time.Duration
	txTimeout   time.Duration
}

// querier is satisfied by both the pool and a transaction, so reads can be shared
// between the two.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// begin starts a transaction with the configured lock timeout. The caller's context
// should already carry the transaction deadline.
func (db *postgresDB) begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := db.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	timeout := fmt.Sprintf("%dms", db.lockTimeout.Milliseconds())
	if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', @timeout, true)`, pgx.NamedArgs{"timeout": timeout}); err != nil {
		tx.Rollback(ctx)
		return nil, fmt.Errorf("error setting lock timeout: %w", err)
	}
	return tx, nil
}

func (db *postgresDB) RunInLeagueTx(ctx context.Context, leagueID int32, fn func(tx LeagueTx) error) error {
	ctx, cancel := context.WithTimeout(ctx, db.txTimeout)
	defer cancel()

	tx, err := db.begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	args := pgx.NamedArgs{
		"class":    leagueLockClass,
		"leagueID": leagueID,
	}
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(@class::int, @leagueID::int)`, args); err != nil {
		return fmt.Errorf("error locking league %d: %w", leagueID, err)
	}

	if err := fn(&leagueTx{tx: tx, leagueID: leagueID}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing league %d transaction: %w", leagueID, err)
	}
	return nil
}

func rowsAffectedOr(tag pgconn.CommandTag, notFound error) error {
	if tag.RowsAffected() == 0 {
		return notFound
	}
	return nil
}

func valueOrEmpty(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	return sql.NullString{
		String: s,
		Valid:  s != "",
	}
}

func intOrNil(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

func nullInt(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}
}
