package mockcontroller

import (
	"context"
	"io"

	"github.com/mistertach/tennis-ladder/model"
	"github.com/stretchr/testify/mock"
)

type C struct {
	mock.Mock
}

func (c *C) GenerateNextWeek(ctx context.Context, leagueID int32, opts model.GenerateOptions) (model.Result, error) {
	args := c.Called(ctx, leagueID, opts)
	return result(args)
}

func (c *C) RegenerateCurrentWeek(ctx context.Context, leagueID int32) (model.Result, error) {
	args := c.Called(ctx, leagueID)
	return result(args)
}

func (c *C) TriggerAutoGeneration(ctx context.Context, leagueID int32, targetWeek int) (model.Result, error) {
	args := c.Called(ctx, leagueID, targetWeek)
	return result(args)
}

func (c *C) IsWeekComplete(ctx context.Context, leagueID int32, week int) (bool, error) {
	args := c.Called(ctx, leagueID, week)
	return args.Bool(0), args.Error(1)
}

func (c *C) GetStandings(ctx context.Context, leagueID int32, week int) ([]model.TierStandings, error) {
	args := c.Called(ctx, leagueID, week)

	var res []model.TierStandings
	if args.Get(0) != nil {
		res = args.Get(0).([]model.TierStandings)
	}
	return res, args.Error(1)
}

func (c *C) SwapMember(ctx context.Context, leagueID, tierID int32, oldUserID, newUserID string) (model.Result, error) {
	args := c.Called(ctx, leagueID, tierID, oldUserID, newUserID)
	return result(args)
}

func (c *C) MoveRank(ctx context.Context, leagueID, tierID int32, userID string, dir model.Direction) (model.Result, error) {
	args := c.Called(ctx, leagueID, tierID, userID, dir)
	return result(args)
}

func (c *C) UpdateTierSchedule(ctx context.Context, leagueID, tierID int32, s model.Schedule) error {
	args := c.Called(ctx, leagueID, tierID, s)
	return args.Error(0)
}

func (c *C) UpdateLeagueStatus(ctx context.Context, leagueID int32, status model.LeagueStatus) error {
	args := c.Called(ctx, leagueID, status)
	return args.Error(0)
}

func (c *C) CreateLeague(ctx context.Context, nl model.NewLeague) (*model.League, error) {
	args := c.Called(ctx, nl)
	return league(args)
}

func (c *C) CreateLeagueFromCSV(ctx context.Context, nl model.NewLeague, r io.Reader) (*model.League, error) {
	args := c.Called(ctx, nl, r)
	return league(args)
}

func (c *C) GetLeague(ctx context.Context, id int32, week int) (*model.League, error) {
	args := c.Called(ctx, id, week)
	return league(args)
}

func (c *C) ListLeagues(ctx context.Context) ([]model.League, error) {
	args := c.Called(ctx)

	var res []model.League
	if args.Get(0) != nil {
		res = args.Get(0).([]model.League)
	}
	return res, args.Error(1)
}

func (c *C) DeleteLeague(ctx context.Context, id int32) error {
	args := c.Called(ctx, id)
	return args.Error(0)
}

func (c *C) ReportGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error {
	args := c.Called(ctx, key, gamesWon)
	return args.Error(0)
}

func (c *C) SetSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error {
	args := c.Called(ctx, key, subNeeded)
	return args.Error(0)
}

func (c *C) SetNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error {
	args := c.Called(ctx, key, noShow)
	return args.Error(0)
}

func (c *C) SetSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error {
	args := c.Called(ctx, key, name, contact)
	return args.Error(0)
}

func (c *C) ScheduleMatches(ctx context.Context, leagueID int32, week int) (int, error) {
	args := c.Called(ctx, leagueID, week)
	return args.Int(0), args.Error(1)
}

func (c *C) ReportMatch(ctx context.Context, matchID int32, score1, score2 int) (*model.Match, error) {
	args := c.Called(ctx, matchID, score1, score2)

	var m *model.Match
	if args.Get(0) != nil {
		m = args.Get(0).(*model.Match)
	}
	return m, args.Error(1)
}

func result(args mock.Arguments) (model.Result, error) {
	var r model.Result
	if args.Get(0) != nil {
		r = args.Get(0).(model.Result)
	}
	return r, args.Error(1)
}

func league(args mock.Arguments) (*model.League, error) {
	var l *model.League
	if args.Get(0) != nil {
		l = args.Get(0).(*model.League)
	}
	return l, args.Error(1)
}
