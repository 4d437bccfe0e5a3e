// Package metrics provides Prometheus metrics shared by the services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audslp"

var (
	// LikeToggles counts completed toggles by resulting state ("liked", "unliked").
	LikeToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Total number of like toggles by resulting state",
		},
		[]string{"result"},
	)

	// LikeErrors counts like operation failures by operation and error kind.
	LikeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_errors_total",
			Help:      "Total number of like operation errors",
		},
		[]string{"operation", "kind"},
	)

	// LikeStatusCache counts status cache lookups by outcome ("hit", "miss", "error").
	LikeStatusCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_status_cache_total",
			Help:      "Like status cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// BatchSize observes how many article ids a batch lookup resolves.
	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "like_batch_size",
			Help:      "Distribution of batch like lookup sizes",
			Buckets:   []float64{1, 5, 10, 20, 50, 100},
		},
	)

	// ArticleListCache counts article list cache lookups by outcome.
	ArticleListCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "article_list_cache_total",
			Help:      "Article list cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// FeedRenders counts rendered feed documents by document name.
	FeedRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_renders_total",
			Help:      "Feed documents rendered from the database",
		},
		[]string{"document"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "route", "status"},
	)
)
