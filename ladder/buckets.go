package ladder

import (
	"cmp"
	"slices"

	"github.com/mistertach/tennis-ladder/model"
)

// Seat is a player headed into a tier for the following week, along with where they
// are coming from.
type Seat struct {
	UserID     string
	OriginTier int
	OriginRank int
}

// Buckets holds the incoming players for every tier of a league. Index 0 is tier 1.
type Buckets [][]Seat

func newBuckets(n int) Buckets {
	b := make(Buckets, n)
	for i := range b {
		b[i] = make([]Seat, 0, model.TierSize)
	}
	return b
}

// PlanBuckets runs the standings of every tier for the given week and seats each player
// in the tier they earned. tiers must be ordered by tier number.
func PlanBuckets(tiers []model.Tier, week int) Buckets {
	total := len(tiers)
	buckets := newBuckets(total)

	for i, t := range tiers {
		members := weekMembers(t.Members, week)
		scores := weekScores(t.Scores, week)
		matches := weekMatches(t.Matches, week)

		for _, s := range ComputeStandings(members, scores, matches, i+1, total) {
			target := i
			switch s.Status {
			case model.MOVE_UP:
				target = max(0, i-1)
			case model.MOVE_DOWN:
				target = min(total-1, i+1)
			}
			buckets[target] = append(buckets[target], Seat{
				UserID:     s.UserID,
				OriginTier: i + 1,
				OriginRank: s.Rank,
			})
		}
	}

	buckets.Sort()
	return buckets
}

// CopyBuckets keeps everybody in the tier they played in for the given week.
func CopyBuckets(tiers []model.Tier, week int) Buckets {
	buckets := newBuckets(len(tiers))
	for i, t := range tiers {
		for _, m := range weekMembers(t.Members, week) {
			buckets[i] = append(buckets[i], Seat{
				UserID:     m.UserID,
				OriginTier: i + 1,
				OriginRank: m.Rank,
			})
		}
	}

	buckets.Sort()
	return buckets
}

// Sort orders every bucket by origin tier and then origin rank. Players relegated from
// the tier above are seated ahead of players promoted from the tier below.
func (b Buckets) Sort() {
	for _, bucket := range b {
		slices.SortStableFunc(bucket, func(x, y Seat) int {
			if c := cmp.Compare(x.OriginTier, y.OriginTier); c != 0 {
				return c
			}
			return cmp.Compare(x.OriginRank, y.OriginRank)
		})
	}
}

// Size is the total number of seats in all the buckets.
func (b Buckets) Size() int {
	n := 0
	for _, bucket := range b {
		n += len(bucket)
	}
	return n
}

// Rows turns the sorted buckets into the membership rows and the empty score rows of
// week. The position within a bucket becomes the new rank. tiers must line up with b.
func (b Buckets) Rows(tiers []model.Tier, week int) ([]model.Membership, []model.WeeklyScore) {
	members := make([]model.Membership, 0, b.Size())
	scores := make([]model.WeeklyScore, 0, b.Size())

	for i, bucket := range b {
		tierID := tiers[i].ID
		for j, seat := range bucket {
			members = append(members, model.Membership{
				TierID: tierID,
				UserID: seat.UserID,
				Week:   week,
				Rank:   j + 1,
			})
			scores = append(scores, model.WeeklyScore{
				TierID: tierID,
				UserID: seat.UserID,
				Week:   week,
			})
		}
	}
	return members, scores
}

func weekMembers(members []model.Membership, week int) []model.Membership {
	result := make([]model.Membership, 0, len(members))
	for _, m := range members {
		if m.Week == week {
			result = append(result, m)
		}
	}
	return result
}

func weekScores(scores []model.WeeklyScore, week int) []model.WeeklyScore {
	result := make([]model.WeeklyScore, 0, len(scores))
	for _, s := range scores {
		if s.Week == week {
			result = append(result, s)
		}
	}
	return result
}

func weekMatches(matches []model.Match, week int) []model.Match {
	result := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.Round == week {
			result = append(result, m)
		}
	}
	return result
}
