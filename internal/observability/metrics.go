package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LikesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elixir_likes_total",
			Help: "Like attempts by outcome",
		},
		[]string{"outcome"},
	)

	PostsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elixir_posts_created_total",
			Help: "Post creation attempts by result",
		},
		[]string{"result"},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elixir_uploads_total",
			Help: "Object uploads by result",
		},
		[]string{"result"},
	)

	RealtimeEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elixir_realtime_events_total",
			Help: "Realtime notifications received per table and event kind",
		},
		[]string{"table", "kind"},
	)

	FeedLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "elixir_feed_load_duration_seconds",
			Help:    "Duration of initial feed loads",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "elixir_bot_commands_total",
			Help: "Bot commands handled",
		},
		[]string{"command"},
	)
)
