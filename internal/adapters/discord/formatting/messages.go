package formatting

import (
	"fmt"
	"strings"

	"match-rank-tracker/internal/core/domain"
)

const (
	MsgAdminRequired      = "You need Administrator permissions to use this command."
	MsgGuildOnly          = "This command can only be used inside a server."
	MsgTeamsRequired      = "Both teams need at least one member mention."
	MsgInvalidComposition = "Invalid match: teams must be non-empty and nobody can appear twice."
	MsgReportConflict     = "The match could not be saved because of concurrent updates. Please try again."
	MsgReportError        = "Failed to record the match."
	MsgNotConfigured      = "This server has no tier thresholds configured. Use /set-thresholds first."
	MsgRatingOutOfRange   = "The match would push a rating outside the range the bot can store. Check the rating settings."
	MsgMapNameRequired    = "Map name is required."
	MsgEmptyPool          = "Every map is banned. Unban one with /unban-map."
	MsgMapError           = "Failed to update the map pool."
	MsgHistoryError       = "Failed to load history."
	MsgNoHistory          = "No rated matches yet."
	MsgStandingsError     = "Failed to load standings."
	MsgNoStandings        = "Nobody has played a rated match yet."
	MsgNoCareer           = "That member has not played a rated match yet."
	MsgMatchNotFound      = "No such match in this server."
	MsgSaveError          = "Failed to save configuration."
	MsgInvalidThresholds  = "Thresholds must be a comma separated list of strictly increasing numbers."
	MsgChannelCleared     = "Match announcements will go to the default channel."
	MsgMemberRequired     = "A member is required."
)

const DcLongTimeFormat = "2006-01-02 15:04 MST"

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func mentions(ids []string) string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = Mention(id)
	}
	return strings.Join(out, ", ")
}

func MsgMatchAnnouncement(r domain.MatchResult) string {
	var b strings.Builder

	if r.Tied {
		fmt.Fprintf(&b, "Match #%d ended in a tie", r.MatchID)
	} else {
		fmt.Fprintf(&b, "Match #%d recorded", r.MatchID)
	}
	if r.MapName != "" {
		fmt.Fprintf(&b, " on %s", r.MapName)
	}
	b.WriteString("\n")

	if r.Tied {
		fmt.Fprintf(&b, "Team 1: %s\nTeam 2: %s\n", mentions(r.Winners), mentions(r.Losers))
	} else {
		fmt.Fprintf(&b, "Winners: %s\nLosers: %s\n", mentions(r.Winners), mentions(r.Losers))
	}

	for _, c := range r.Changes {
		switch {
		case c.Promoted():
			fmt.Fprintf(&b, "%s promoted to tier %d\n", Mention(c.UserID), c.NewTier)
		case c.Demoted():
			fmt.Fprintf(&b, "%s demoted to tier %d\n", Mention(c.UserID), c.NewTier)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func MsgMatchReported(r domain.MatchResult) string {
	return fmt.Sprintf("Match #%d recorded for %d players.", r.MatchID, len(r.Changes))
}

func MsgMapBanned(name string) string {
	return fmt.Sprintf("Banned %s from the map pool.", name)
}

func MsgMapUnbanned(name string) string {
	return fmt.Sprintf("%s is back in the map pool.", name)
}

func MsgUnknownMap(name string) string {
	return fmt.Sprintf("%q is not in the map pool.", name)
}

func MsgMapBannedHere(name string) string {
	return fmt.Sprintf("%s is banned in this server. Unban it with /unban-map first.", name)
}

func MsgMapsList(maps []string) string {
	msg := "Available maps:\n"
	for _, m := range maps {
		msg += "- " + m + "\n"
	}
	return msg
}

func MsgHistory(userID string, entries []domain.AuditEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rating history for %s:\n", Mention(userID))
	for _, e := range entries {
		outcome := "tie"
		switch {
		case e.Won:
			outcome = "win"
		case e.Lost:
			outcome = "loss"
		}
		match := "-"
		if e.MatchID != nil {
			match = fmt.Sprintf("#%d", *e.MatchID)
		}
		fmt.Fprintf(&b, "%s %s %s mu %s sigma %s\n",
			e.CreatedAt.UTC().Format(DcLongTimeFormat), match, outcome,
			e.Skill.Mu.StringFixed(2), e.Skill.Sigma.StringFixed(2))
	}
	return b.String()
}

func MsgCareer(c domain.Career) string {
	m := c.Member
	return fmt.Sprintf(
		"%s\nTier %d | %d wins, %d losses, %d ties | win rate %.1f%%\nRating %.2f (%s)",
		Mention(m.UserID), m.Tier, m.Wins, m.Losses, m.Ties, c.WinRate*100, c.Rating, c.RatingBand,
	)
}

func MsgLeaderboard(kind domain.LeaderboardKind, standings []domain.Standing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard by %s:\n", kind)
	for i, s := range standings {
		fmt.Fprintf(&b, "%d. %s %d-%d-%d", i+1, Mention(s.UserID), s.Wins, s.Losses, s.Ties)
		switch kind {
		case domain.LeaderboardWinRate:
			fmt.Fprintf(&b, " (%.1f%%)", s.WinRate*100)
		case domain.LeaderboardRating:
			fmt.Fprintf(&b, " (%.2f)", s.Rating)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func MsgMatchSummary(m domain.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Match #%d, %s", m.ID, m.Date.UTC().Format(DcLongTimeFormat))
	if m.MapName != nil {
		fmt.Fprintf(&b, ", %s", *m.MapName)
	}
	b.WriteString("\n")

	label1, label2 := "Winners", "Losers"
	if m.Tied {
		label1, label2 = "Team 1", "Team 2"
		b.WriteString("Result: tie\n")
	}
	writeTeam(&b, label1, m.Winner)
	writeTeam(&b, label2, m.Loser)
	return strings.TrimRight(b.String(), "\n")
}

func writeTeam(b *strings.Builder, label string, t domain.TeamSnapshot) {
	fmt.Fprintf(b, "%s", label)
	if t.Name != "" {
		fmt.Fprintf(b, " (%s)", t.Name)
	}
	fmt.Fprintf(b, " [%d]: %s\n", t.Score, mentions(t.PlayerIDs))
}

func MsgTierRoleSet(tier int, roleID string) string {
	if roleID == "" {
		return fmt.Sprintf("Tier %d no longer has a role.", tier)
	}
	return fmt.Sprintf("Tier %d now grants <@&%s>.", tier, roleID)
}

func MsgInvalidTier(count int) string {
	return fmt.Sprintf("Tier must be between 0 and %d.", count-1)
}

func MsgThresholdsSet(thresholds []float64) string {
	parts := make([]string, len(thresholds))
	for i, t := range thresholds {
		parts[i] = fmt.Sprintf("%g", t)
	}
	return fmt.Sprintf("Tier thresholds set to %s (%d tiers).", strings.Join(parts, ", "), len(thresholds)+1)
}

func MsgChannelSet(channelID string) string {
	return fmt.Sprintf("Match announcements will be posted in <#%s>.", channelID)
}

func MsgMemberRemoved(userID string) string {
	return fmt.Sprintf("Removed %s and their rating history.", Mention(userID))
}
