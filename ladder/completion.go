package ladder

import "github.com/mistertach/tennis-ladder/model"

// WeekComplete is true when every member of every tier has a reported score for the
// week. Games won of 0 counts as reported, so does a no-show. Tiers without members
// that week don't hold anything up.
func WeekComplete(tiers []model.Tier, week int) bool {
	for i := range tiers {
		t := &tiers[i]
		for _, m := range weekMembers(t.Members, week) {
			s := findScore(t.Scores, m.UserID, week)
			if s == nil || !s.Reported() {
				return false
			}
		}
	}
	return true
}

func findScore(scores []model.WeeklyScore, userID string, week int) *model.WeeklyScore {
	for i := range scores {
		if scores[i].UserID == userID && scores[i].Week == week {
			return &scores[i]
		}
	}
	return nil
}
