// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// SwapTransitionsTotal counts swap-request lifecycle transitions by outcome.
	SwapTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_swap_transitions_total",
		Help: "Total number of swap-request lifecycle transitions",
	}, []string{"transition"})

	// FeedbackSubmissionsTotal counts accepted-swap feedback submissions.
	FeedbackSubmissionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skillswap_feedback_submissions_total",
		Help: "Total number of feedback submissions on accepted swaps",
	})

	// DirectoryCacheHits counts directory page loads served from cache.
	DirectoryCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skillswap_directory_cache_total",
		Help: "Directory page loads by cache outcome",
	}, []string{"outcome"})
)
