package model

type MatchStatus string

const (
	MATCH_SCHEDULED MatchStatus = "SCHEDULED"
	MATCH_COMPLETED MatchStatus = "COMPLETED"
)

// Points handed out when a match is reported.
const (
	PointsWin  = 3
	PointsLoss = 1
	PointsDraw = 2
)

type Match struct {
	ID        int32  `json:"id"`
	TierID    int32  `json:"tierId"`
	Player1ID string `json:"player1Id"`
	Player2ID string `json:"player2Id"`
	// Round is the league week the match is played in.
	Round int `json:"round"`
	// Order of the match within the week's round robin, starting at 1.
	Slot         int         `json:"slot"`
	ScorePlayer1 *int        `json:"scorePlayer1"`
	ScorePlayer2 *int        `json:"scorePlayer2"`
	Status       MatchStatus `json:"status"`
	WinnerID     string      `json:"winnerId,omitempty"`
}

func (m *Match) Involves(userID string) bool {
	return m.Player1ID == userID || m.Player2ID == userID
}

// Winner returns the id of the player with the higher score, or "" if the match
// was not reported or ended in a draw.
func (m *Match) Winner() string {
	if m.ScorePlayer1 == nil || m.ScorePlayer2 == nil {
		return ""
	}
	switch {
	case *m.ScorePlayer1 > *m.ScorePlayer2:
		return m.Player1ID
	case *m.ScorePlayer2 > *m.ScorePlayer1:
		return m.Player2ID
	default:
		return ""
	}
}

// PointsAwarded returns the points for player 1 and player 2 given a reported score.
func PointsAwarded(score1, score2 int) (int, int) {
	switch {
	case score1 > score2:
		return PointsWin, PointsLoss
	case score2 > score1:
		return PointsLoss, PointsWin
	default:
		return PointsDraw, PointsDraw
	}
}
