package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"match-rank-tracker/internal/adapters/discord"
	"match-rank-tracker/internal/adapters/discord/commands"
	"match-rank-tracker/internal/adapters/storage/postgres"
	"match-rank-tracker/internal/config"
	"match-rank-tracker/internal/core/ports"
	"match-rank-tracker/internal/core/ranking"
	"match-rank-tracker/internal/core/services"
	"match-rank-tracker/internal/core/services/recorder"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/netutil"
)

type App struct {
	config             *config.Config
	store              ports.Repository
	discord            *discordgo.Session
	router             *commands.Router
	metricsServer      *http.Server
	registeredCommands []*discordgo.ApplicationCommand
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := postgres.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to storage", "error", err)
		return nil, err
	}

	res, err := store.Migrate(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}
	slog.Info("Database schema ready", "from", res.From, "to", res.To)

	session, err := discord.NewSession(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	handler := &commands.BotHandler{Engine: buildEngine(cfg, store, discord.NewAdapter(session, cfg))}
	router := newRouter(handler)

	session.AddHandler(commands.ReadyHandler)
	session.AddHandler(handler.GuildCreate)
	session.AddHandler(handler.GuildDelete)
	session.AddHandler(router.HandleFunc())

	return &App{
		config:  cfg,
		store:   store,
		discord: session,
		router:  router,
	}, nil
}

func buildEngine(cfg *config.Config, repo ports.Repository, notifier ports.MatchNotifier) *services.Engine {
	resolver := ranking.NewResolver(cfg.TierSigmaMultiplier)

	rec := recorder.New(recorder.Dependencies{
		Store:      repo,
		Params:     cfg.RatingParams(),
		Resolver:   resolver,
		MaxRetries: uint64(cfg.ReportMaxRetries),
		Timeout:    cfg.ReportTimeout,
	})

	return services.NewEngine(services.EngineDependencies{
		Recorder:  rec,
		Maps:      services.NewMapBanService(repo, cfg.MapPool),
		History:   services.NewHistoryService(repo),
		Standings: services.NewStandingsService(repo, resolver),
		Config:    services.NewConfigurationService(repo, cfg.DefaultTierThresholds),
		Notifier:  notifier,
	})
}

func newRouter(h *commands.BotHandler) *commands.Router {
	router := commands.NewRouter()

	router.Register("report-match", commands.WithAdmin(h.ReportMatch))
	router.Register("ban-map", commands.WithAdmin(h.BanMap))
	router.Register("unban-map", commands.WithAdmin(h.UnbanMap))
	router.Register("set-tier-role", commands.WithAdmin(h.SetTierRole))
	router.Register("set-thresholds", commands.WithAdmin(h.SetThresholds))
	router.Register("set-channel", commands.WithAdmin(h.SetChannel))
	router.Register("remove-member", commands.WithAdmin(h.RemoveMember))

	router.Register("maps", h.Maps)
	router.Register("history", h.History)
	router.Register("career", h.Career)
	router.Register("leaderboard", h.Leaderboard)
	router.Register("match", h.Match)

	return router
}

func (a *App) Run() error {
	if err := a.startMetricsServer(); err != nil {
		slog.Error("Failed to start metrics server", "error", err)
		return err
	}

	if err := a.discord.Open(); err != nil {
		slog.Error("Failed to open discord session", "error", err)
		return err
	}

	a.registeredCommands = commands.RegisterCommands(
		a.discord, commands.GetApplicationCommands(), a.discord.State.User.ID, a.config.DiscordGuildID,
	)

	return nil
}

// Scrapes and health probes need only a handful of connections.
const maxMetricsConns = 16

func (a *App) startMetricsServer() error {
	ln, err := net.Listen("tcp", a.config.MetricsAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", otelhttp.NewHandler(promhttp.Handler(), "metrics"))
	mux.HandleFunc("/healthz", a.healthz)

	a.metricsServer = &http.Server{
		Addr:              a.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("Metrics server listening", "addr", ln.Addr().String())
		if err := a.metricsServer.Serve(netutil.LimitListener(ln, maxMetricsConns)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", "error", err)
		}
	}()
	return nil
}

func (a *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if a.store == nil || a.store.Ping(ctx) != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *App) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down...")

	var errs []error

	if a.discord != nil {
		// Guild scoped commands are a development setup; global ones stay registered.
		if a.config.DiscordGuildID != "" && a.discord.State != nil && a.discord.State.User != nil {
			commands.CleanupCommands(a.discord, a.registeredCommands, a.discord.State.User.ID, a.config.DiscordGuildID)
		}
		if err := a.discord.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if a.store != nil {
		a.store.Close()
	}

	return errors.Join(errs...)
}
