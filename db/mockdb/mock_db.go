package mockdb

import (
	"context"

	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/stretchr/testify/mock"
)

// DB mocks db.DB. RunInLeagueTx records the call and then runs fn against Tx, which
// must be set by the test when transactions are expected.
type DB struct {
	mock.Mock
	Tx *Tx
}

func (m *DB) SavePlayers(ctx context.Context, players []model.Player) error {
	args := m.Called(ctx, players)
	return args.Error(0)
}

func (m *DB) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	args := m.Called(ctx, id)

	var p *model.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*model.Player)
	}
	return p, args.Error(1)
}

func (m *DB) AddLeague(ctx context.Context, l *model.League) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *DB) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := m.Called(ctx)

	var r []model.League
	if args.Get(0) != nil {
		r = args.Get(0).([]model.League)
	}
	return r, args.Error(1)
}

func (m *DB) GetLeague(ctx context.Context, id int32) (*model.League, error) {
	args := m.Called(ctx, id)
	return league(args)
}

func (m *DB) GetLeagueWeek(ctx context.Context, id int32, week int) (*model.League, error) {
	args := m.Called(ctx, id, week)
	return league(args)
}

func (m *DB) DeleteLeague(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DB) UpdateLeagueStatus(ctx context.Context, id int32, status model.LeagueStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *DB) UpdateTierSchedule(ctx context.Context, tierID int32, s model.Schedule) error {
	args := m.Called(ctx, tierID, s)
	return args.Error(0)
}

func (m *DB) SaveGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error {
	args := m.Called(ctx, key, gamesWon)
	return args.Error(0)
}

func (m *DB) SaveSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error {
	args := m.Called(ctx, key, subNeeded)
	return args.Error(0)
}

func (m *DB) SaveNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error {
	args := m.Called(ctx, key, noShow)
	return args.Error(0)
}

func (m *DB) SaveSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error {
	args := m.Called(ctx, key, name, contact)
	return args.Error(0)
}

func (m *DB) AddMatches(ctx context.Context, matches []model.Match) (int64, error) {
	args := m.Called(ctx, matches)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DB) GetMatch(ctx context.Context, id int32) (*model.Match, error) {
	args := m.Called(ctx, id)
	return match(args)
}

func (m *DB) ReportMatch(ctx context.Context, id int32, score1, score2 int) (*model.Match, error) {
	args := m.Called(ctx, id, score1, score2)
	return match(args)
}

func (m *DB) RunInLeagueTx(ctx context.Context, leagueID int32, fn func(tx db.LeagueTx) error) error {
	args := m.Called(ctx, leagueID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

// Tx mocks db.LeagueTx.
type Tx struct {
	mock.Mock
}

func (m *Tx) GetLeague(ctx context.Context) (*model.League, error) {
	args := m.Called(ctx)
	return league(args)
}

// LoadWeek copies the tiers of the league given to Return, if any, into l.
func (m *Tx) LoadWeek(ctx context.Context, l *model.League, week int) error {
	args := m.Called(ctx, l, week)
	if loaded, ok := args.Get(0).(*model.League); ok {
		l.Tiers = loaded.Tiers
	}
	return args.Error(1)
}

func (m *Tx) WeekExists(ctx context.Context, week int) (bool, error) {
	args := m.Called(ctx, week)
	return args.Bool(0), args.Error(1)
}

func (m *Tx) DeleteWeek(ctx context.Context, tierIDs []int32, week int) error {
	args := m.Called(ctx, tierIDs, week)
	return args.Error(0)
}

func (m *Tx) InsertMembers(ctx context.Context, members []model.Membership) error {
	args := m.Called(ctx, members)
	return args.Error(0)
}

func (m *Tx) InsertScores(ctx context.Context, scores []model.WeeklyScore) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

func (m *Tx) AdvanceWeek(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Tx) MoveMember(ctx context.Context, from model.Membership, toTierID int32, toRank int) error {
	args := m.Called(ctx, from, toTierID, toRank)
	return args.Error(0)
}

func (m *Tx) MoveScore(ctx context.Context, key model.ScoreKey, toTierID int32) error {
	args := m.Called(ctx, key, toTierID)
	return args.Error(0)
}

func (m *Tx) DeleteMember(ctx context.Context, member model.Membership) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *Tx) DeleteScore(ctx context.Context, key model.ScoreKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func league(args mock.Arguments) (*model.League, error) {
	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}

func match(args mock.Arguments) (*model.Match, error) {
	var r *model.Match
	if args.Get(0) != nil {
		r = args.Get(0).(*model.Match)
	}
	return r, args.Error(1)
}
