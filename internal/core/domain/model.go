package domain

import (
	"time"

	"github.com/google/uuid"
)

type Community struct {
	ID                    string
	TierRoles             []string
	TierThresholds        []float64
	AnnouncementChannelID string
}

// TierRole returns the configured role for tier, or "" when none is set.
func (c Community) TierRole(tier int) string {
	if tier < 0 || tier >= len(c.TierRoles) {
		return ""
	}
	return c.TierRoles[tier]
}

// TierCount is the number of tiers the thresholds describe (thresholds + 1).
func (c Community) TierCount() int {
	return len(c.TierThresholds) + 1
}

type Member struct {
	UserID      string
	CommunityID string
	Tier        int
	Wins        int
	Losses      int
	Ties        int
	Skill       Skill
}

func (m Member) Matches() int {
	return m.Wins + m.Losses + m.Ties
}

type Team struct {
	Name      string
	Score     int
	MemberIDs []string
}

type MatchReport struct {
	CommunityID string
	Winners     Team
	Losers      Team
	Tied        bool
	MapName     string
}

type ParticipantSnapshot struct {
	UserID string `json:"userId"`
	Skill
	Tier int `json:"tier"`
}

type TeamSnapshot struct {
	Name      string                `json:"name,omitempty"`
	Score     int                   `json:"score"`
	PlayerIDs []string              `json:"playerIds"`
	Players   []ParticipantSnapshot `json:"players"`
}

type Match struct {
	ID          int64
	CommunityID string
	Winner      TeamSnapshot
	Loser       TeamSnapshot
	Tied        bool
	Date        time.Time
	MapName     *string
}

type AuditEntry struct {
	ID          uuid.UUID
	UserID      string
	CommunityID string
	MatchID     *int64
	Won         bool
	Lost        bool
	Tied        bool
	Skill       Skill
	CreatedAt   time.Time
}

type HistoryOrder int

const (
	NewestFirst HistoryOrder = iota
	OldestFirst
)

type HistoryQuery struct {
	CommunityID string
	UserID      string
	MatchID     *int64
	Order       HistoryOrder
	Limit       int
}

type TierChange struct {
	UserID    string
	OldTier   int
	NewTier   int
	FirstSeen bool
	Before    Skill
	After     Skill
}

func (t TierChange) Changed() bool  { return t.OldTier != t.NewTier }
func (t TierChange) Promoted() bool { return t.NewTier > t.OldTier }
func (t TierChange) Demoted() bool  { return t.NewTier < t.OldTier }

type MatchResult struct {
	MatchID     int64
	CommunityID string
	Tied        bool
	MapName     string
	Date        time.Time
	Winners     []string
	Losers      []string
	Changes     []TierChange
}

// RoleUpdates returns the changes that need a role assignment: tier moves and
// members rated for the first time.
func (r MatchResult) RoleUpdates() []TierChange {
	var out []TierChange
	for _, c := range r.Changes {
		if c.Changed() || c.FirstSeen {
			out = append(out, c)
		}
	}
	return out
}

type LeaderboardKind string

const (
	LeaderboardWins    LeaderboardKind = "wins"
	LeaderboardWinRate LeaderboardKind = "win-rate"
	LeaderboardRating  LeaderboardKind = "rating"
)

func (k LeaderboardKind) Valid() bool {
	switch k {
	case LeaderboardWins, LeaderboardWinRate, LeaderboardRating:
		return true
	}
	return false
}

type Standing struct {
	UserID  string
	Wins    int
	Losses  int
	Ties    int
	WinRate float64
	Rating  float64
}

type Career struct {
	Member     Member
	WinRate    float64
	Rating     float64
	RatingBand string
}
