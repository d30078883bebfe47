package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchesReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_rank_matches_reported_total",
		Help: "Match reports by final state",
	}, []string{"state"})

	ReportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "match_rank_report_duration_seconds",
		Help:    "Duration of match reports including retries",
		Buckets: prometheus.DefBuckets,
	})

	ReportRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "match_rank_report_retries_total",
		Help: "Match report transactions retried after a persistence conflict",
	})

	TierChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_rank_tier_changes_total",
		Help: "Tier movements produced by committed matches",
	}, []string{"direction"})

	MapBans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_rank_map_bans_total",
		Help: "Map ban ledger operations",
	}, []string{"operation"})

	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_rank_db_query_duration_seconds",
		Help:    "Duration of store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	RoleUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "match_rank_role_updates_total",
		Help: "Discord tier role assignments",
	}, []string{"action", "status"})

	DiscordMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "discord_messages_sent_total",
		Help: "Total number of Discord messages sent",
	}, []string{"channel_type", "status"})
)
