package discord

import (
	"testing"

	"match-rank-tracker/internal/config"

	"github.com/bwmarrin/discordgo"
)

func TestNewSession(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		wantToken string
	}{
		{"bot token", "MTk.test.token", "Bot MTk.test.token"},
		{"plain token", "my-token-123", "Bot my-token-123"},
		{"empty token", "", "Bot "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := NewSession(&config.Config{Token: tt.token})
			if err != nil {
				t.Fatalf("NewSession: %v", err)
			}

			if session.Token != tt.wantToken {
				t.Errorf("token = %q, want %q", session.Token, tt.wantToken)
			}
			if session.Identify.Intents != discordgo.IntentsGuilds {
				t.Errorf("intents = %d, want guilds only", session.Identify.Intents)
			}
			if !session.ShouldRetryOnRateLimit {
				t.Error("rate limited requests should be retried")
			}
		})
	}
}

func TestNewSession_StateTracksGuildStructureOnly(t *testing.T) {
	session, err := NewSession(&config.Config{Token: "test-token"})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	st := session.State
	if !st.TrackRoles || !st.TrackChannels {
		t.Error("roles and channels should be cached")
	}
	if st.TrackMembers || st.TrackPresences || st.TrackVoice {
		t.Error("member, presence and voice state should not be cached")
	}
	if st.MaxMessageCount != 0 {
		t.Errorf("message cache = %d, want 0", st.MaxMessageCount)
	}
}
