package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankRequests = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "rank_requests_total",
		Help:      "Total number of ranking requests",
	})

	RankDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "archimatch",
		Name:      "rank_duration_seconds",
		Help:      "End-to-end duration of ranking requests",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	ExpansionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "query_expansion_fallbacks_total",
		Help:      "Ranking requests that proceeded with the raw query after expansion failed",
	})

	EmbeddingsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "embeddings_generated_total",
		Help:      "Embeddings generated, by task type",
	}, []string{"task_type"})

	EmbeddingFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "embedding_failures_total",
		Help:      "Embedding provider failures, by task type",
	}, []string{"task_type"})

	MatchRequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "match_requests_created_total",
		Help:      "Match requests successfully created",
	})

	MatchRequestsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "match_requests_duplicate_total",
		Help:      "Match requests rejected because the pair already exists",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "archimatch",
		Name:      "notifications_sent_total",
		Help:      "Outbound notifications, by result",
	}, []string{"result"})
)
