package commands

import (
	"log/slog"

	"match-rank-tracker/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

var (
	adminPerms = int64(discordgo.PermissionAdministrator)
	noDMs      = false
	minZero    = 0.0
	minOne     = 1.0
)

func GetApplicationCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:                     "report-match",
			Description:              "Record the result of a finished match",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("winners", "Mentions of the winning team", true, false),
				stringOption("losers", "Mentions of the losing team", true, false),
				boolOption("tied", "The match ended in a tie"),
				stringOption("map", "Map the match was played on", false, false),
				stringOption("winners-name", "Name of the winning team", false, false),
				stringOption("losers-name", "Name of the losing team", false, false),
				intOption("winners-score", "Score of the winning team", false, &minZero),
				intOption("losers-score", "Score of the losing team", false, &minZero),
			},
		},
		{
			Name:                     "ban-map",
			Description:              "Remove a map from this server's pool",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "Map name", true, true),
			},
		},
		{
			Name:                     "unban-map",
			Description:              "Return a banned map to this server's pool",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("name", "Map name", true, true),
			},
		},
		{
			Name:         "maps",
			Description:  "List the maps that are not banned",
			DMPermission: &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				intOption("random", "Pick this many random maps instead", false, &minOne),
			},
		},
		{
			Name:         "history",
			Description:  "Show a member's rating history",
			DMPermission: &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("member", "Member to look up (defaults to you)", false),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "order",
					Description: "Sort order",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "newest first", Value: "newest"},
						{Name: "oldest first", Value: "oldest"},
					},
				},
				intOption("limit", "Number of entries", false, &minOne),
				intOption("match", "Only the entry for this match id", false, &minOne),
			},
		},
		{
			Name:         "career",
			Description:  "Show a member's record and rating",
			DMPermission: &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("member", "Member to look up (defaults to you)", false),
			},
		},
		{
			Name:         "leaderboard",
			Description:  "Show the top members",
			DMPermission: &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "by",
					Description: "Ranking criterion",
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: "rating", Value: string(domain.LeaderboardRating)},
						{Name: "wins", Value: string(domain.LeaderboardWins)},
						{Name: "win rate", Value: string(domain.LeaderboardWinRate)},
					},
				},
				intOption("limit", "Number of members", false, &minOne),
			},
		},
		{
			Name:         "match",
			Description:  "Show a recorded match",
			DMPermission: &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				intOption("id", "Match id", true, &minOne),
			},
		},
		{
			Name:                     "set-tier-role",
			Description:              "Bind a role to a tier (omit the role to clear it)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				intOption("tier", "Tier number, 0 is the lowest", true, &minZero),
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "Role granted to members of the tier",
				},
			},
		},
		{
			Name:                     "set-thresholds",
			Description:              "Set the conservative rating boundaries between tiers",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				stringOption("thresholds", "Increasing numbers, e.g. 0, 10, 20", true, false),
			},
		},
		{
			Name:                     "set-channel",
			Description:              "Choose where match results are announced (omit to reset)",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Announcement channel",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
				},
			},
		},
		{
			Name:                     "remove-member",
			Description:              "Delete a member's rating and history",
			DefaultMemberPermissions: &adminPerms,
			DMPermission:             &noDMs,
			Options: []*discordgo.ApplicationCommandOption{
				userOption("member", "Member to remove", true),
			},
		},
	}
}

func stringOption(name, description string, required, autocomplete bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionString,
		Name:         name,
		Description:  description,
		Required:     required,
		Autocomplete: autocomplete,
	}
}

func intOption(name, description string, required bool, minValue *float64) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
		MinValue:    minValue,
	}
}

func boolOption(name, description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionBoolean,
		Name:        name,
		Description: description,
	}
}

func userOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func RegisterCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) []*discordgo.ApplicationCommand {
	registered := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		result, err := session.ApplicationCommandCreate(userID, guildID, cmd)
		if err != nil {
			slog.Error("Cannot create command", "name", cmd.Name, "error", err)
			continue
		}
		registered[i] = result
		slog.Info("Registered command", "name", cmd.Name, "guild", guildID)
	}

	return registered
}

func CleanupCommands(session CommandSession, commands []*discordgo.ApplicationCommand, userID, guildID string) {
	for _, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := session.ApplicationCommandDelete(userID, guildID, cmd.ID); err != nil {
			slog.Error("Cannot delete command", "name", cmd.Name, "error", err)
		}
	}
}
