package commands

import (
	"testing"

	"match-rank-tracker/internal/adapters/discord/formatting"

	"github.com/bwmarrin/discordgo"
)

func TestNewRouter(t *testing.T) {
	router := NewRouter()

	if router == nil || router.routes == nil {
		t.Fatal("expected an initialised router")
	}
	if len(router.routes) != 0 {
		t.Errorf("expected no routes, got %d", len(router.routes))
	}
}

func TestRouter_RegisterReplacesExisting(t *testing.T) {
	router := NewRouter()

	var called string
	router.Register("maps", func(s DiscordSession, i *discordgo.InteractionCreate) { called = "first" })
	router.Register("maps", func(s DiscordSession, i *discordgo.InteractionCreate) { called = "second" })

	if len(router.routes) != 1 {
		t.Fatalf("expected 1 route, got %d", len(router.routes))
	}
	router.Handle(&mockDiscordSession{}, makeInteraction("maps", discordgo.InteractionApplicationCommand))
	if called != "second" {
		t.Errorf("expected the later registration to win, got %q", called)
	}
}

func TestRouter_Handle(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		wantCalled  string
		wantReply   string
	}{
		{
			name:        "command",
			interaction: makeInteraction("maps", discordgo.InteractionApplicationCommand),
			wantCalled:  "maps",
		},
		{
			name:        "second command",
			interaction: makeInteraction("leaderboard", discordgo.InteractionApplicationCommand),
			wantCalled:  "leaderboard",
		},
		{
			name:        "autocomplete",
			interaction: makeInteraction("maps", discordgo.InteractionApplicationCommandAutocomplete),
			wantCalled:  "maps",
		},
		{
			name:        "unknown command",
			interaction: makeInteraction("track-world", discordgo.InteractionApplicationCommand),
		},
		{
			name:        "ping",
			interaction: makeInteraction("maps", discordgo.InteractionPing),
		},
		{
			name:        "component",
			interaction: makeInteraction("maps", discordgo.InteractionMessageComponent),
		},
		{
			name:        "modal",
			interaction: makeInteraction("maps", discordgo.InteractionModalSubmit),
		},
		{
			name:        "direct message",
			interaction: dmInteraction("maps", discordgo.InteractionApplicationCommand),
			wantReply:   formatting.MsgGuildOnly,
		},
		{
			name:        "direct message autocomplete",
			interaction: dmInteraction("maps", discordgo.InteractionApplicationCommandAutocomplete),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewRouter()
			var called string
			var gotInteraction *discordgo.InteractionCreate
			for _, name := range []string{"maps", "leaderboard"} {
				router.Register(name, func(s DiscordSession, i *discordgo.InteractionCreate) {
					called = name
					gotInteraction = i
				})
			}
			session := &mockDiscordSession{}

			router.Handle(session, tt.interaction)

			if called != tt.wantCalled {
				t.Errorf("expected %q to run, got %q", tt.wantCalled, called)
			}
			if called != "" && gotInteraction != tt.interaction {
				t.Error("handler should receive the original interaction")
			}
			if got := session.content(); got != tt.wantReply {
				t.Errorf("expected reply %q, got %q", tt.wantReply, got)
			}
		})
	}
}

func TestRouter_HandleFunc_ReturnsCompatibleHandler(t *testing.T) {
	router := NewRouter()

	called := false
	router.Register("history", func(s DiscordSession, i *discordgo.InteractionCreate) {
		called = true
	})

	handler := router.HandleFunc()
	handler(&discordgo.Session{}, makeInteraction("history", discordgo.InteractionApplicationCommand))

	if !called {
		t.Error("HandleFunc should dispatch to registered handler")
	}
}

func makeInteraction(name string, iType discordgo.InteractionType) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:    iType,
			GuildID: "guild-1",
			Data:    discordgo.ApplicationCommandInteractionData{Name: name},
		},
	}
}

func dmInteraction(name string, iType discordgo.InteractionType) *discordgo.InteractionCreate {
	i := makeInteraction(name, iType)
	i.GuildID = ""
	i.User = &discordgo.User{ID: "100"}
	return i
}
