package seed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mistertach/tennis-ladder/controller/mockcontroller"
	"github.com/mistertach/tennis-ladder/model"
	"github.com/mistertach/tennis-ladder/testutils"
	"github.com/stretchr/testify/mock"
)

const seedYAML = `leagues:
  - title: Tuesday Ladder
    startDate: 2024-09-03
    durationWeeks: 10
    gamesPerMatch: 8
    players:
      - name: Roger Federer
        email: roger@example.com
        level: advanced
      - name: Rafael Nadal
      - id: nole
        name: Novak Djokovic
      - name: Andy Murray
  - title: Thursday Ladder
    durationWeeks: 6
    gamesPerMatch: 6
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Leagues) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(f.Leagues))
	}

	l := f.Leagues[0]
	if l.Title != "Tuesday Ladder" || l.DurationWeeks != 10 || l.GamesPerMatch != 8 {
		t.Errorf("unexpected league: %+v", l)
	}
	if !l.StartDate.Equal(time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start date: %v", l.StartDate)
	}
	if len(l.Players) != 4 {
		t.Fatalf("expected 4 players, got %d", len(l.Players))
	}
	expected := model.Player{Name: "Roger Federer", Email: "roger@example.com", Level: "advanced"}
	if l.Players[0] != expected {
		t.Errorf("expected: %+v, got: %+v", expected, l.Players[0])
	}
	if l.Players[2].ID != "nole" {
		t.Errorf("expected the id to be kept, got %+v", l.Players[2])
	}
	if !f.Leagues[1].StartDate.IsZero() {
		t.Errorf("expected no start date, got %v", f.Leagues[1].StartDate)
	}
}

func TestParse_errors(t *testing.T) {
	tests := map[string]string{
		"empty":         "  \n",
		"not yaml":      "leagues: [",
		"unknown key":   "leagues:\n  - title: A\n    weeks: 3\n",
		"missing title": "leagues:\n  - durationWeeks: 3\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if f, err := Parse([]byte(data)); err == nil {
				t.Errorf("expected an error, got: %+v", f)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leagues.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatalf("error writing seed file: %v", err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Leagues) != 2 {
		t.Errorf("expected 2 leagues, got %d", len(f.Leagues))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got: %v", err)
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutils.NewTestLogger()
	f, err := Parse([]byte(seedYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctrl := &mockcontroller.C{}
	ctrl.On("ListLeagues", ctx).Return([]model.League{{ID: 1, Title: "Tuesday Ladder"}}, nil)
	ctrl.On("CreateLeague", ctx, mock.MatchedBy(func(nl model.NewLeague) bool {
		return nl.Title == "Thursday Ladder"
	})).Return(&model.League{ID: 2, Title: "Thursday Ladder"}, nil)

	created, err := Apply(ctx, ctrl, f, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created != 1 {
		t.Errorf("expected 1 league to be created, got %d", created)
	}
	ctrl.AssertExpectations(t)
	ctrl.AssertNumberOfCalls(t, "CreateLeague", 1)
}

func TestApply_createFails(t *testing.T) {
	ctx := context.Background()
	logger, _ := testutils.NewTestLogger()
	f := &File{Leagues: []model.NewLeague{{Title: "Broken"}}}

	ctrl := &mockcontroller.C{}
	ctrl.On("ListLeagues", ctx).Return(nil, nil)
	ctrl.On("CreateLeague", ctx, mock.Anything).Return(nil, errors.New("invalid input"))

	created, err := Apply(ctx, ctrl, f, logger)
	if err == nil || created != 0 {
		t.Errorf("expected an error and nothing created, got: %d, %v", created, err)
	}
}
