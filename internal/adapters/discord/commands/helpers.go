package commands

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Discord caps autocomplete responses at 25 choices.
const maxChoices = 25

var mentionPattern = regexp.MustCompile(`<@!?(\d+)>`)

func respond(s DiscordSession, i *discordgo.InteractionCreate, msg string, ephemeral bool) {
	var flags discordgo.MessageFlags
	if ephemeral {
		flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: msg,
			Flags:   flags,
		},
	})
	if err != nil {
		slog.Error("Failed to respond to interaction", "guild_id", i.GuildID, "error", err)
	}
}

// deferResponse acknowledges an interaction whose work may outlast the
// three second response window. Finish it with editResponse.
func deferResponse(s DiscordSession, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

func editResponse(s DiscordSession, i *discordgo.InteractionCreate, msg string) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &msg}); err != nil {
		slog.Error("Failed to edit interaction response", "guild_id", i.GuildID, "error", err)
	}
}

func respondAutocomplete(s DiscordSession, i *discordgo.InteractionCreate, choices []*discordgo.ApplicationCommandOptionChoice) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

func findOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range opts {
		if opt.Name == name {
			return opt
		}
	}
	return nil
}

func getStringOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt := findOption(opts, name); opt != nil {
		return opt.StringValue()
	}
	return ""
}

func getIntOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int64) int64 {
	if opt := findOption(opts, name); opt != nil {
		return opt.IntValue()
	}
	return fallback
}

func getBoolOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if opt := findOption(opts, name); opt != nil {
		return opt.BoolValue()
	}
	return false
}

// getIDOption reads a user, role or channel option. Their values arrive as
// snowflake strings.
func getIDOption(opts []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt := findOption(opts, name); opt != nil {
		if id, ok := opt.Value.(string); ok {
			return id
		}
	}
	return ""
}

func getFocusedOption(opts []*discordgo.ApplicationCommandInteractionDataOption) string {
	for _, opt := range opts {
		if opt.Focused {
			return opt.StringValue()
		}
	}
	return ""
}

// parseMentions extracts user ids from text such as "<@1> <@!2>", keeping
// duplicates so the rating layer can reject them.
func parseMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// parseThresholds reads a comma or space separated list of numbers.
func parseThresholds(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("no thresholds given")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid threshold %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}

func invokingUserID(i *discordgo.InteractionCreate) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	}
	return ""
}

func buildChoices(values []string, query string) []*discordgo.ApplicationCommandOptionChoice {
	var choices []*discordgo.ApplicationCommandOptionChoice
	q := strings.ToLower(query)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  v,
				Value: v,
			})
		}
		if len(choices) >= maxChoices {
			break
		}
	}
	return choices
}
