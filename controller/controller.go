package controller

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"

	"github.com/itbasis/go-clock"
	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidInput is wrapped by every error caused by a bad argument from the caller.
var ErrInvalidInput = errors.New("invalid input")

// Reasons given when an operation is refused.
const (
	ReasonAlreadyGenerated = "next week already generated"
	ReasonNoPreviousWeek   = "cannot regenerate week 1: there is no week 0"
	ReasonMoveOutOfBounds  = "cannot move player further in that direction"
)

// C encapsulates business logic without worrying about any web layers
type C interface {
	// Builds the rosters of the week after the league's current week from this week's
	// results, or copies them unchanged on a rain delay. Refused if the next week already
	// exists unless forced, in which case it is rebuilt without advancing the week again.
	GenerateNextWeek(ctx context.Context, leagueID int32, opts model.GenerateOptions) (model.Result, error)
	// Rebuilds the rosters of the current week from the results of the week before.
	RegenerateCurrentWeek(ctx context.Context, leagueID int32) (model.Result, error)
	// Generates targetWeek if it is the week after the current one and every score of the
	// current week has been reported. Concurrent calls are safe, only one generates.
	TriggerAutoGeneration(ctx context.Context, leagueID int32, targetWeek int) (model.Result, error)
	IsWeekComplete(ctx context.Context, leagueID int32, week int) (bool, error)
	// Standings of every tier for the week, 0 means the current week.
	GetStandings(ctx context.Context, leagueID int32, week int) ([]model.TierStandings, error)

	// Replaces oldUserID with newUserID in the tier for the current week. The new player
	// takes over the rank and starts with an empty score.
	SwapMember(ctx context.Context, leagueID, tierID int32, oldUserID, newUserID string) (model.Result, error)
	// Swaps the player with their neighbor in the league wide ranking of the current week.
	MoveRank(ctx context.Context, leagueID, tierID int32, userID string, dir model.Direction) (model.Result, error)
	UpdateTierSchedule(ctx context.Context, leagueID, tierID int32, s model.Schedule) error
	UpdateLeagueStatus(ctx context.Context, leagueID int32, status model.LeagueStatus) error

	// Registers a league, shuffling the players into tiers and scheduling the first week.
	CreateLeague(ctx context.Context, nl model.NewLeague) (*model.League, error)
	// Same as CreateLeague, with the players read from a CSV file.
	CreateLeagueFromCSV(ctx context.Context, nl model.NewLeague, r io.Reader) (*model.League, error)
	// Returns the league with the data of week, 0 means the current week.
	GetLeague(ctx context.Context, id int32, week int) (*model.League, error)
	ListLeagues(ctx context.Context) ([]model.League, error)
	DeleteLeague(ctx context.Context, id int32) error

	ReportGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error
	SetSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error
	SetNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error
	SetSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error
	// Creates the round robin of every tier for the week. Returns how many matches were
	// created, the ones that already exist are skipped.
	ScheduleMatches(ctx context.Context, leagueID int32, week int) (int, error)
	ReportMatch(ctx context.Context, matchID int32, score1, score2 int) (*model.Match, error)
}

type Option func(c *controller)

// WithRand sets the source used to shuffle players into tiers.
func WithRand(r *rand.Rand) Option {
	return func(c *controller) {
		c.rand = r
	}
}

type controller struct {
	clock clock.Clock
	db    db.DB
	log   *logrus.Logger

	randMu sync.Mutex
	rand   *rand.Rand

	autoGen singleflight.Group
}

func New(clock clock.Clock, db db.DB, log *logrus.Logger, opts ...Option) (C, error) {
	if db == nil {
		return nil, errors.New("db is required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &controller{
		clock: clock,
		db:    db,
		log:   log,
	}
	for _, o := range opts {
		o(c)
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewPCG(uint64(clock.Now().UnixNano()), 0x7e115))
	}
	return c, nil
}

func (c *controller) shuffle(players []model.Player) {
	c.randMu.Lock()
	defer c.randMu.Unlock()

	c.rand.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}
