package testutils

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/mistertach/tennis-ladder/containers"
	"github.com/mistertach/tennis-ladder/db"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/sirupsen/logrus"
)

const (
	IDFederer  = "rfederer"
	IDNadal    = "rnadal"
	IDDjokovic = "ndjokovic"
	IDMurray   = "amurray"
	IDSerena   = "swilliams"
	IDVenus    = "vwilliams"
	IDGraf     = "sgraf"
	IDSeles    = "mseles"
)

var (
	Federer  = model.Player{ID: IDFederer, Name: "Roger Federer", Email: "roger@example.com", Level: "ADVANCED"}
	Nadal    = model.Player{ID: IDNadal, Name: "Rafael Nadal", Email: "rafa@example.com", Level: "ADVANCED"}
	Djokovic = model.Player{ID: IDDjokovic, Name: "Novak Djokovic", Email: "novak@example.com", Level: "ADVANCED"}
	Murray   = model.Player{ID: IDMurray, Name: "Andy Murray", Email: "andy@example.com", Level: "ADVANCED"}
	Serena   = model.Player{ID: IDSerena, Name: "Serena Williams", Email: "serena@example.com", Level: "INTERMEDIATE"}
	Venus    = model.Player{ID: IDVenus, Name: "Venus Williams", Email: "venus@example.com", Level: "INTERMEDIATE"}
	Graf     = model.Player{ID: IDGraf, Name: "Steffi Graf", Email: "steffi@example.com", Level: "INTERMEDIATE"}
	Seles    = model.Player{ID: IDSeles, Name: "Monica Seles", Email: "monica@example.com", Level: "INTERMEDIATE"}
)

// A counter to give every generated player a unique id, so tests sharing a db don't
// step on each other.
var playerCtr = int32(0)

type TestDB struct {
	container *containers.DBContainer
	DB        db.DB
	Clock     *clock.Mock
}

func NewTestDB() *TestDB {
	container := containers.NewDBContainer()
	clock := clock.NewMock()
	clock.Set(time.Date(2024, 9, 2, 18, 0, 0, 0, time.UTC))

	db, err := db.New(context.Background(), container.ConnectionString(), clock,
		db.WithLockTimeout(2*time.Second), db.WithTxTimeout(10*time.Second))
	if err != nil {
		logrus.Fatalf("error connecting to db in test container: %v", err)
	}

	if err := InsertTestPlayers(db); err != nil {
		logrus.Fatalf("error populating db in test container: %v", err)
	}

	return &TestDB{
		container: container,
		DB:        db,
		Clock:     clock,
	}
}

func (db *TestDB) Shutdown() {
	db.container.Shutdown()
}

func InsertTestPlayers(db db.DB) error {
	players := []model.Player{
		Federer,
		Nadal,
		Djokovic,
		Murray,
		Serena,
		Venus,
		Graf,
		Seles,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.SavePlayers(ctx, players)
}

// NewPlayers returns n players that are not in the db yet.
func NewPlayers(n int) []model.Player {
	players := make([]model.Player, 0, n)
	for i := 0; i < n; i++ {
		id := atomic.AddInt32(&playerCtr, 1)
		players = append(players, model.Player{
			Name:  fmt.Sprintf("Test Player %d", id),
			Email: fmt.Sprintf("player%d@example.com", id),
		})
	}
	return players
}

// NewLeague returns a league ready to be registered with the given number of tiers.
func NewLeague(title string, tiers int) model.NewLeague {
	return model.NewLeague{
		Title:         title,
		StartDate:     time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC),
		DurationWeeks: 8,
		GamesPerMatch: 8,
		Players:       NewPlayers(tiers * model.TierSize),
	}
}
