package commands

import (
	"log/slog"

	"match-rank-tracker/internal/adapters/discord/formatting"

	"github.com/bwmarrin/discordgo"
)

// CommandHandler serves one slash command, including its autocomplete requests.
type CommandHandler func(s DiscordSession, i *discordgo.InteractionCreate)

// Router dispatches interactions to handlers by command name.
type Router struct {
	routes map[string]CommandHandler
}

func NewRouter() *Router {
	return &Router{routes: make(map[string]CommandHandler)}
}

// Register binds name to handler, replacing any earlier binding.
func (r *Router) Register(name string, handler CommandHandler) {
	r.routes[name] = handler
}

func (r *Router) Handle(s DiscordSession, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
	default:
		return
	}

	name := i.ApplicationCommandData().Name
	handler, ok := r.routes[name]
	if !ok {
		slog.Warn("Unknown command", "name", name, "guild_id", i.GuildID)
		return
	}

	if i.GuildID == "" {
		if i.Type == discordgo.InteractionApplicationCommand {
			respond(s, i, formatting.MsgGuildOnly, true)
		}
		return
	}

	slog.Debug("Dispatching command", "name", name, "guild_id", i.GuildID, "type", i.Type)
	handler(s, i)
}

// HandleFunc adapts the router to a discordgo event handler.
func (r *Router) HandleFunc() func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		r.Handle(s, i)
	}
}
