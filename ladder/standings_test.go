package ladder

import (
	"reflect"
	"slices"
	"testing"

	"github.com/mistertach/tennis-ladder/model"
)

func members(ids ...string) []model.Membership {
	result := make([]model.Membership, 0, len(ids))
	for i, id := range ids {
		result = append(result, model.Membership{UserID: id, Name: id, Week: 1, Rank: i + 1})
	}
	return result
}

func scores(ids []string, gamesWon ...int) []model.WeeklyScore {
	result := make([]model.WeeklyScore, 0, len(ids))
	for i, id := range ids {
		g := gamesWon[i]
		result = append(result, model.WeeklyScore{UserID: id, Week: 1, GamesWon: &g})
	}
	return result
}

func reported(p1, p2 string, s1, s2 int) model.Match {
	return model.Match{Player1ID: p1, Player2ID: p2, Round: 1, ScorePlayer1: &s1, ScorePlayer2: &s2, Status: model.MATCH_COMPLETED}
}

func statuses(standings []model.Standing) []model.Movement {
	result := make([]model.Movement, 0, len(standings))
	for _, s := range standings {
		result = append(result, s.Status)
	}
	return result
}

func ranks(standings []model.Standing) []int {
	result := make([]int, 0, len(standings))
	for _, s := range standings {
		result = append(result, s.Rank)
	}
	return result
}

func TestComputeStandings_topTier(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	res := ComputeStandings(members(ids...), scores(ids, 21, 15, 10, 5), nil, 1, 3)

	wantStatus := []model.Movement{model.MOVE_STAY, model.MOVE_STAY, model.MOVE_DOWN, model.MOVE_DOWN}
	if got := statuses(res); !reflect.DeepEqual(wantStatus, got) {
		t.Errorf("expected statuses %v, got %v", wantStatus, got)
	}
	if got := ranks(res); !reflect.DeepEqual([]int{1, 2, 3, 4}, got) {
		t.Errorf("expected seed order to be kept, got %v", got)
	}
	for i, s := range res {
		if s.Position != i+1 {
			t.Errorf("expected %s to finish in position %d, got %d", s.UserID, i+1, s.Position)
		}
	}
}

func TestComputeStandings_headToHead(t *testing.T) {
	ids := []string{"y", "x", "c", "d"}
	m := members(ids...)
	s := scores(ids, 10, 10, 8, 2)
	matches := []model.Match{reported("x", "y", 6, 3)}

	res := ComputeStandings(m, s, matches, 2, 4)
	pos := make(map[string]int)
	for _, st := range res {
		pos[st.UserID] = st.Position
	}
	if pos["x"] != 1 || pos["y"] != 2 {
		t.Errorf("expected x to finish ahead of y after beating them, got x: %d, y: %d", pos["x"], pos["y"])
	}

	// tier 2 of 4 promotes 2 and relegates 1
	want := map[string]model.Movement{"x": model.MOVE_UP, "y": model.MOVE_UP, "c": model.MOVE_STAY, "d": model.MOVE_DOWN}
	for _, st := range res {
		if want[st.UserID] != st.Status {
			t.Errorf("expected %s to be %s, got %s", st.UserID, want[st.UserID], st.Status)
		}
	}

	// Reversing the input must not change the outcome.
	rm := slices.Clone(m)
	slices.Reverse(rm)
	rs := slices.Clone(s)
	slices.Reverse(rs)
	reversed := ComputeStandings(rm, rs, matches, 2, 4)
	if !reflect.DeepEqual(res, reversed) {
		t.Errorf("standings depend on input order:\n%v\n%v", res, reversed)
	}
}

func TestComputeStandings_headToHeadReversedPlayers(t *testing.T) {
	ids := []string{"y", "x", "c", "d"}
	// x is player 2 in the match this time
	matches := []model.Match{reported("y", "x", 2, 6)}

	res := ComputeStandings(members(ids...), scores(ids, 4, 4, 9, 1), matches, 3, 5)
	order := make([]string, len(res))
	for _, st := range res {
		order[st.Position-1] = st.UserID
	}
	if want := []string{"c", "x", "y", "d"}; !reflect.DeepEqual(want, order) {
		t.Errorf("expected performance order %v, got %v", want, order)
	}
}

func TestComputeStandings_tieWithoutMatchUsesSeed(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	unplayed := model.Match{Player1ID: "b", Player2ID: "a", Round: 1, Status: model.MATCH_SCHEDULED}
	res := ComputeStandings(members(ids...), scores(ids, 7, 7, 7, 7), []model.Match{unplayed}, 3, 5)
	for i, st := range res {
		if st.Position != i+1 {
			t.Errorf("expected %s to keep seed position %d, got %d", st.UserID, i+1, st.Position)
		}
	}
}

func TestComputeStandings_subCannotMoveUp(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	s := scores(ids, 20, 15, 10, 5)
	s[0].SubNeeded = true

	res := ComputeStandings(members(ids...), s, nil, 3, 3)
	want := []model.Movement{model.MOVE_STAY, model.MOVE_UP, model.MOVE_STAY, model.MOVE_STAY}
	if got := statuses(res); !reflect.DeepEqual(want, got) {
		t.Errorf("expected statuses %v, got %v", want, got)
	}
	for _, st := range res {
		if st.SubNeeded && st.Status == model.MOVE_UP {
			t.Errorf("%s needed a sub and was still promoted", st.UserID)
		}
	}
}

func TestComputeStandings_missingScoresAndRanks(t *testing.T) {
	m := []model.Membership{{UserID: "a"}, {UserID: "b"}, {UserID: "c"}, {UserID: "d"}}
	five := 5
	s := []model.WeeklyScore{
		{UserID: "c", GamesWon: &five},
		{UserID: "d"}, // not played yet
	}

	res := ComputeStandings(m, s, nil, 2, 3)
	if got := ranks(res); !reflect.DeepEqual([]int{1, 2, 3, 4}, got) {
		t.Errorf("expected fallback ranks from list position, got %v", got)
	}
	want := map[string]model.Movement{"c": model.MOVE_UP, "a": model.MOVE_UP, "b": model.MOVE_DOWN, "d": model.MOVE_DOWN}
	for _, st := range res {
		if st.Status != want[st.UserID] {
			t.Errorf("expected %s to be %s, got %s", st.UserID, want[st.UserID], st.Status)
		}
	}
}

func TestComputeStandings_oneStatusPerMember(t *testing.T) {
	for total := 1; total <= 5; total++ {
		for tier := 1; tier <= total; tier++ {
			for size := 0; size <= 6; size++ {
				ids := []string{"a", "b", "c", "d", "e", "f"}[:size]
				gw := []int{1, 2, 3, 4, 5, 6}[:size]
				res := ComputeStandings(members(ids...), scores(ids, gw...), nil, tier, total)
				if len(res) != size {
					t.Fatalf("expected %d standings, got %d", size, len(res))
				}

				up, down := 0, 0
				for _, st := range res {
					switch st.Status {
					case model.MOVE_UP:
						up++
					case model.MOVE_DOWN:
						down++
					case model.MOVE_STAY:
					default:
						t.Errorf("unexpected status %q", st.Status)
					}
				}
				if up+down > size {
					t.Errorf("tier %d of %d with %d members moved %d", tier, total, size, up+down)
				}
			}
		}
	}
}
