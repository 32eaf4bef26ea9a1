package model

import (
	"strings"
	"time"
)

// Number of players that make up a tier when a league is registered.
const TierSize = 4

type LeagueStatus string

const (
	STATUS_UNKNOWN   LeagueStatus = ""
	STATUS_DRAFT     LeagueStatus = "DRAFT"
	STATUS_ACTIVE    LeagueStatus = "ACTIVE"
	STATUS_COMPLETED LeagueStatus = "COMPLETED"
)

func ParseLeagueStatus(s string) LeagueStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DRAFT":
		return STATUS_DRAFT
	case "ACTIVE":
		return STATUS_ACTIVE
	case "COMPLETED":
		return STATUS_COMPLETED
	default:
		return STATUS_UNKNOWN
	}
}

type League struct {
	ID            int32        `json:"id"`
	Title         string       `json:"title"`
	StartDate     time.Time    `json:"startDate"`
	DurationWeeks int          `json:"durationWeeks"`
	CurrentWeek   int          `json:"currentWeek"`
	Status        LeagueStatus `json:"status"`
	GamesPerMatch int          `json:"gamesPerMatch"`
	Created       time.Time    `json:"created"`
	// Tiers ordered by tier number. Only the data of a single week is loaded at a time.
	Tiers []Tier `json:"tiers,omitempty"`
}

// TierIDs returns the ids of all the tiers in the league, in tier order.
func (l *League) TierIDs() []int32 {
	ids := make([]int32, 0, len(l.Tiers))
	for _, t := range l.Tiers {
		ids = append(ids, t.ID)
	}
	return ids
}

// TierByID returns nil if the tier is not part of the league.
func (l *League) TierByID(id int32) *Tier {
	for i := range l.Tiers {
		if l.Tiers[i].ID == id {
			return &l.Tiers[i]
		}
	}
	return nil
}

// NewLeague holds everything needed to register a new league and its starting roster.
type NewLeague struct {
	Title         string    `json:"title" yaml:"title"`
	StartDate     time.Time `json:"startDate" yaml:"startDate"`
	DurationWeeks int       `json:"durationWeeks" yaml:"durationWeeks"`
	GamesPerMatch int       `json:"gamesPerMatch" yaml:"gamesPerMatch"`
	Players       []Player  `json:"players" yaml:"players"`
}

// Result is returned by operations that can be refused for a business reason. A refusal
// is not an error, callers show Reason to the user instead of logging a fault.
type Result struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

func Succeeded() Result {
	return Result{Success: true}
}

func Rejected(reason string) Result {
	return Result{Success: false, Reason: reason}
}

type GenerateOptions struct {
	// Copy the current rosters forward unchanged, used when play did not happen.
	RainDelay bool `json:"rainDelay"`
	// Wipe and rebuild the next week even if it was already generated.
	Force bool `json:"force"`
}
