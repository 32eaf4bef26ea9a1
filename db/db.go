package db

import (
	"context"

	"github.com/mistertach/tennis-ladder/model"
)

type DB interface {
	// Inserts or updates the players by id.
	SavePlayers(ctx context.Context, players []model.Player) error
	GetPlayer(ctx context.Context, id string) (*model.Player, error)

	// Inserts the league along with its tiers and everything loaded into them (members,
	// scores and matches) in a single transaction. The ids of the league and its tiers
	// are set on success.
	AddLeague(ctx context.Context, l *model.League) error
	ListLeagues(ctx context.Context) ([]model.League, error)
	// Returns the league and its tiers, without any weekly data.
	GetLeague(ctx context.Context, id int32) (*model.League, error)
	// Returns the league with the members, scores and matches of the given week loaded
	// into its tiers.
	GetLeagueWeek(ctx context.Context, id int32, week int) (*model.League, error)
	DeleteLeague(ctx context.Context, id int32) error
	UpdateLeagueStatus(ctx context.Context, id int32, status model.LeagueStatus) error
	UpdateTierSchedule(ctx context.Context, tierID int32, s model.Schedule) error

	// Sets the games won and clears the no-show flag, creating the score row if needed.
	SaveGamesWon(ctx context.Context, key model.ScoreKey, gamesWon int) error
	SaveSubNeeded(ctx context.Context, key model.ScoreKey, subNeeded bool) error
	// Marking a no-show also sets the games won to 0.
	SaveNoShow(ctx context.Context, key model.ScoreKey, noShow bool) error
	SaveSubDetails(ctx context.Context, key model.ScoreKey, name, contact string) error

	// Inserts the matches, skipping the ones that already exist. Returns how many were created.
	AddMatches(ctx context.Context, matches []model.Match) (int64, error)
	GetMatch(ctx context.Context, id int32) (*model.Match, error)
	// Records the score of a match. The first time a match is reported the points are
	// added to both players' memberships for the week of the match. Returns the updated match.
	ReportMatch(ctx context.Context, id int32, score1, score2 int) (*model.Match, error)

	// Runs fn in a transaction that holds the lock of the league. Only one such
	// transaction runs at a time for a league. If fn returns an error the transaction
	// is rolled back.
	RunInLeagueTx(ctx context.Context, leagueID int32, fn func(tx LeagueTx) error) error
}

// LeagueTx are the operations available while holding a league's lock.
type LeagueTx interface {
	// Returns the locked league and its tiers, without any weekly data.
	GetLeague(ctx context.Context) (*model.League, error)
	// Loads the members, scores and matches of week into the tiers of l.
	LoadWeek(ctx context.Context, l *model.League, week int) error
	WeekExists(ctx context.Context, week int) (bool, error)
	// Deletes the members and scores of the week for the tiers.
	DeleteWeek(ctx context.Context, tierIDs []int32, week int) error
	// Bulk inserts the members. Any conflict with an existing row fails the transaction.
	InsertMembers(ctx context.Context, members []model.Membership) error
	// Bulk inserts the scores, skipping the ones that already exist.
	InsertScores(ctx context.Context, scores []model.WeeklyScore) error
	AdvanceWeek(ctx context.Context) error

	// Moves a member to a different tier and rank within the same week.
	MoveMember(ctx context.Context, from model.Membership, toTierID int32, toRank int) error
	// Points the score of the member for the week at a different tier.
	MoveScore(ctx context.Context, key model.ScoreKey, toTierID int32) error
	DeleteMember(ctx context.Context, m model.Membership) error
	DeleteScore(ctx context.Context, key model.ScoreKey) error
}
