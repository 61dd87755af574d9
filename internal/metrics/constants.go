package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Outbox metric names
const (
	MetricNameOutboxPending  = "outbox_pending_events"
	MetricNameOutboxRelayed  = "outbox_relayed_total"
	MetricNameOutboxRelayLag = "outbox_relay_lag_seconds"
	MetricNameOutboxPruned   = "outbox_pruned_total"
)

// Business metric names
const (
	MetricNameCraftsTotal      = "crafts_total"
	MetricNameCraftGoldSpent   = "craft_gold_spent_total"
	MetricNameItemsSold        = "items_sold_total"
	MetricNameGoldEarned       = "gold_earned_total"
	MetricNameSeasonTierUps    = "season_tier_ups_total"
	MetricNameRewardsClaimed   = "season_rewards_claimed_total"
	MetricNamePetLevelUps      = "pet_level_ups_total"
	MetricNameFeedItemsEmitted = "feed_items_total"
)

// Cache metric names
const (
	MetricNameCatalogCacheLookups = "catalog_cache_lookups_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events delivered to subscribers"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Outbox metric help text
const (
	HelpTextOutboxPending  = "Outbox events not yet dispatched"
	HelpTextOutboxRelayed  = "Total number of outbox events handed to the event bus"
	HelpTextOutboxRelayLag = "Seconds between enqueueing an outbox event and relaying it"
	HelpTextOutboxPruned   = "Total number of dispatched outbox events removed by retention"
)

// Business metric help text
const (
	HelpTextCraftsTotal      = "Total number of crafting attempts by outcome and rarity"
	HelpTextCraftGoldSpent   = "Total gold spent on crafting"
	HelpTextItemsSold        = "Total number of items sold"
	HelpTextGoldEarned       = "Total gold earned from selling items"
	HelpTextSeasonTierUps    = "Total number of season tiers gained"
	HelpTextRewardsClaimed   = "Total number of season rewards claimed"
	HelpTextPetLevelUps      = "Total number of pet level ups"
	HelpTextFeedItemsEmitted = "Total number of feed items by type"
)

// Cache metric help text
const (
	HelpTextCatalogCacheLookups = "Catalog cache lookups by entry kind and result"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod      = "method"
	LabelRoute       = "route"
	LabelStatusClass = "status_class"
	LabelType        = "type"
	LabelItem        = "item"
	LabelOutcome     = "outcome"
	LabelRarity      = "rarity"
	LabelTrack       = "track"
	LabelRewardType  = "reward_type"
	LabelPet         = "pet"
	LabelKind        = "kind"
	LabelResult      = "result"
)

// Label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	RarityNone     = "none"
	CacheHit       = "hit"
	CacheMiss      = "miss"

	// RouteUnmatched labels requests no route matched, so unknown paths
	// cannot grow label cardinality
	RouteUnmatched = "unmatched"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// OutboxLagBuckets ranges from one poll interval to several minutes
var OutboxLagBuckets = []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgCollectorRegistered = "Event metrics collector registered"
	LogMsgMalformedPayload    = "Event payload could not be decoded for metrics"
	LogMsgMetricsRecorded     = "Metrics recorded for event"
)
