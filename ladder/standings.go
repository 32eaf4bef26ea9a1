package ladder

import (
	"cmp"
	"slices"

	"github.com/mistertach/tennis-ladder/model"
)

type entry struct {
	member       model.Membership
	originalRank int
	gamesWon     int
	subNeeded    bool
	position     int
	status       model.Movement
}

// ComputeStandings ranks the members of one tier by their performance for the week and
// decides who moves up, who moves down and who stays.
//
// Members are ordered by games won, then by the head-to-head result if the two tied
// players have a reported match against each other, and finally by their seed rank.
// The result is returned in seed order with the movement status attached.
func ComputeStandings(members []model.Membership, scores []model.WeeklyScore, matches []model.Match, tier, totalTiers int) []model.Standing {
	scoreByUser := make(map[string]*model.WeeklyScore, len(scores))
	for i := range scores {
		scoreByUser[scores[i].UserID] = &scores[i]
	}

	entries := make([]*entry, 0, len(members))
	for i, m := range members {
		e := &entry{
			member:       m,
			originalRank: m.Rank,
			status:       model.MOVE_STAY,
		}
		if e.originalRank == 0 {
			e.originalRank = i + 1
		}
		if s, found := scoreByUser[m.UserID]; found {
			if s.GamesWon != nil {
				e.gamesWon = *s.GamesWon
			}
			e.subNeeded = s.SubNeeded
		}
		entries = append(entries, e)
	}

	// Seed order, so the outcome never depends on how the members were passed in.
	slices.SortStableFunc(entries, func(a, b *entry) int {
		if c := cmp.Compare(a.originalRank, b.originalRank); c != 0 {
			return c
		}
		return cmp.Compare(a.member.UserID, b.member.UserID)
	})

	performance := slices.Clone(entries)
	slices.SortStableFunc(performance, func(a, b *entry) int {
		if a.gamesWon != b.gamesWon {
			return cmp.Compare(b.gamesWon, a.gamesWon)
		}
		if c := headToHead(matches, a.member.UserID, b.member.UserID); c != 0 {
			return c
		}
		return cmp.Compare(a.originalRank, b.originalRank)
	})

	up, down := MovementCounts(tier, totalTiers)
	up, down = ClampCounts(up, down, len(performance))

	for i, e := range performance {
		e.position = i + 1
		switch {
		case i < up:
			e.status = model.MOVE_UP
		case i >= len(performance)-down:
			e.status = model.MOVE_DOWN
		}

		// A substitute played this week, the member can't be promoted on someone else's results.
		if e.subNeeded && e.status == model.MOVE_UP {
			e.status = model.MOVE_STAY
		}
	}

	results := make([]model.Standing, 0, len(entries))
	for _, e := range entries {
		results = append(results, model.Standing{
			UserID:    e.member.UserID,
			Name:      e.member.Name,
			Rank:      e.originalRank,
			GamesWon:  e.gamesWon,
			SubNeeded: e.subNeeded,
			Position:  e.position,
			Status:    e.status,
		})
	}
	return results
}

// headToHead returns -1 if a beat b, 1 if b beat a and 0 if there is no decided match
// between the two.
func headToHead(matches []model.Match, a, b string) int {
	if a == b {
		return 0
	}
	for i := range matches {
		m := &matches[i]
		if !m.Involves(a) || !m.Involves(b) {
			continue
		}
		switch m.Winner() {
		case a:
			return -1
		case b:
			return 1
		}
	}
	return 0
}
