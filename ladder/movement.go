// Package ladder holds the pure promotion and relegation rules of the league. Nothing
// in here touches the database, it only works on data that was already loaded.
package ladder

// MovementCounts returns how many players move up and down out of the tier at
// position tier (1 is the top tier) in a league with totalTiers tiers.
//
//	top tier            0 up, 2 down
//	second tier         2 up, 1 down
//	second from bottom  1 up, 2 down
//	bottom tier         2 up, 0 down
//	everything else     1 up, 1 down
//
// A league with a single tier has nowhere to move players to. In a league of three
// tiers the middle tier is both the second tier and second from bottom, so 2 go up
// and 2 go down.
func MovementCounts(tier, totalTiers int) (up, down int) {
	if totalTiers <= 1 {
		return 0, 0
	}
	if tier <= 1 {
		return 0, 2
	}
	if tier >= totalTiers {
		return 2, 0
	}

	up, down = 1, 1
	if tier == 2 {
		up = 2
	}
	if tier == totalTiers-1 {
		down = 2
	}
	return up, down
}

// ClampCounts makes sure a tier of the given size never moves more players than it
// has. While too many players would move, the larger of the two counts is reduced,
// down first when they are equal. A full tier of TierSize keeps its counts, so tiers
// stay the same size from week to week.
func ClampCounts(up, down, size int) (int, int) {
	if size <= 0 {
		return 0, 0
	}
	for up+down > size {
		if down >= up {
			down--
		} else {
			up--
		}
	}
	return up, down
}
