package model

import "strings"

type Movement string

const (
	MOVE_UP   Movement = "UP"
	MOVE_DOWN Movement = "DOWN"
	MOVE_STAY Movement = "STAY"
)

// Standing is one member of a tier annotated with the outcome of the week.
type Standing struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Rank      int    `json:"rank"` // seed rank, the order standings are displayed in
	GamesWon  int    `json:"gamesWon"`
	SubNeeded bool   `json:"subNeeded"`
	// 1-based position after ordering by performance.
	Position int      `json:"position"`
	Status   Movement `json:"status"`
}

type TierStandings struct {
	TierID    int32      `json:"tierId"`
	Tier      int        `json:"tier"`
	Standings []Standing `json:"standings"`
}

type Direction string

const (
	DIRECTION_UNKNOWN Direction = ""
	DIRECTION_UP      Direction = "up"
	DIRECTION_DOWN    Direction = "down"
)

func ParseDirection(d string) Direction {
	switch strings.ToLower(strings.TrimSpace(d)) {
	case "up":
		return DIRECTION_UP
	case "down":
		return DIRECTION_DOWN
	default:
		return DIRECTION_UNKNOWN
	}
}
