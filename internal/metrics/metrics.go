package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelRoute, LabelStatusClass},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelRoute},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Outbox Metrics
var (
	OutboxPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameOutboxPending,
			Help: HelpTextOutboxPending,
		},
	)

	OutboxRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOutboxRelayed,
			Help: HelpTextOutboxRelayed,
		},
		[]string{LabelType},
	)

	OutboxRelayLag = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameOutboxRelayLag,
			Help:    HelpTextOutboxRelayLag,
			Buckets: OutboxLagBuckets,
		},
	)

	OutboxPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameOutboxPruned,
			Help: HelpTextOutboxPruned,
		},
	)
)

// Business Metrics. Redelivered events are counted again.
var (
	CraftsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCraftsTotal,
			Help: HelpTextCraftsTotal,
		},
		[]string{LabelOutcome, LabelRarity},
	)

	CraftGoldSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCraftGoldSpent,
			Help: HelpTextCraftGoldSpent,
		},
	)

	ItemsSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameItemsSold,
			Help: HelpTextItemsSold,
		},
		[]string{LabelItem},
	)

	GoldEarned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldEarned,
			Help: HelpTextGoldEarned,
		},
	)

	SeasonTierUps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameSeasonTierUps,
			Help: HelpTextSeasonTierUps,
		},
	)

	RewardsClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRewardsClaimed,
			Help: HelpTextRewardsClaimed,
		},
		[]string{LabelTrack, LabelRewardType},
	)

	PetLevelUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePetLevelUps,
			Help: HelpTextPetLevelUps,
		},
		[]string{LabelPet},
	)

	FeedItemsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFeedItemsEmitted,
			Help: HelpTextFeedItemsEmitted,
		},
		[]string{LabelType},
	)
)

// Cache Metrics
var (
	CatalogCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameCatalogCacheLookups,
			Help: HelpTextCatalogCacheLookups,
		},
		[]string{LabelKind, LabelResult},
	)
)
