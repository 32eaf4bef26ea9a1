package ladder

import "github.com/mistertach/tennis-ladder/model"

// RoundRobin pairs every member of a tier with every other member exactly once using
// the circle method. The first player stays fixed while the others rotate around them.
// With an odd number of players one player sits out each slot.
func RoundRobin(tierID int32, userIDs []string, week int) []model.Match {
	players := make([]string, len(userIDs))
	copy(players, userIDs)
	if len(players)%2 == 1 {
		players = append(players, "") // bye
	}

	n := len(players)
	if n < 2 {
		return nil
	}

	matches := make([]model.Match, 0, n*(n-1)/2)
	for slot := 1; slot < n; slot++ {
		for i := 0; i < n/2; i++ {
			p1, p2 := players[i], players[n-1-i]
			if p1 == "" || p2 == "" {
				continue
			}
			matches = append(matches, model.Match{
				TierID:    tierID,
				Player1ID: p1,
				Player2ID: p2,
				Round:     week,
				Slot:      slot,
				Status:    model.MATCH_SCHEDULED,
			})
		}

		// rotate everyone but the first player one place clockwise
		last := players[n-1]
		copy(players[2:], players[1:n-1])
		players[1] = last
	}
	return matches
}
