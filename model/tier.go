package model

type Tier struct {
	ID       int32         `json:"id"`
	LeagueID int32         `json:"leagueId"`
	Number   int           `json:"tier"`
	Schedule Schedule      `json:"schedule"`
	Members  []Membership  `json:"members,omitempty"`
	Scores   []WeeklyScore `json:"scores,omitempty"`
	Matches  []Match       `json:"matches,omitempty"`
}

// Schedule is free form, it is displayed but never interpreted.
type Schedule struct {
	Day   string `json:"day"`
	Time  string `json:"time"`
	Court string `json:"court"`
}

// FindScore returns nil if the user has no score recorded in this tier.
func (t *Tier) FindScore(userID string) *WeeklyScore {
	for i := range t.Scores {
		if t.Scores[i].UserID == userID {
			return &t.Scores[i]
		}
	}
	return nil
}

type Membership struct {
	TierID int32  `json:"tierId"`
	UserID string `json:"userId"`
	Name   string `json:"name"` // Not persisted, joined from players
	Week   int    `json:"week"`
	// Seed position within the tier for the week. 0 when it was never assigned.
	Rank   int `json:"rank"`
	Points int `json:"points"`
}

// ScoreKey identifies a single weekly score row.
type ScoreKey struct {
	TierID int32  `json:"tierId"`
	UserID string `json:"userId"`
	Week   int    `json:"week"`
}

type WeeklyScore struct {
	TierID int32  `json:"tierId"`
	UserID string `json:"userId"`
	Week   int    `json:"week"`
	// nil means the games have not been played yet, which is different than 0.
	GamesWon   *int   `json:"gamesWon"`
	SubNeeded  bool   `json:"subNeeded"`
	NoShow     bool   `json:"noShow"`
	SubName    string `json:"subName,omitempty"`
	SubContact string `json:"subContact,omitempty"`
}

func (s *WeeklyScore) Key() ScoreKey {
	return ScoreKey{TierID: s.TierID, UserID: s.UserID, Week: s.Week}
}

// Reported is true once the games were entered or the player was marked as a no-show.
func (s *WeeklyScore) Reported() bool {
	return s.GamesWon != nil || s.NoShow
}
