package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label value constants to prevent typos.
const (
	// HTTP endpoints
	EndpointUsers        = "users"
	EndpointUser         = "user"
	EndpointUserByEmail  = "user_by_email"
	EndpointActivities   = "activities"
	EndpointActivity     = "activity"
	EndpointUserActivity = "user_activities"
	EndpointMapActivity  = "map_activity"
	EndpointMilestones   = "milestones"
	EndpointMilestone    = "milestone"
	EndpointAchievements = "achievements"
	EndpointAchievement  = "achievement"
	EndpointUserAwards   = "user_achievements"
	EndpointUploads      = "uploads"
	EndpointHealth       = "health"

	// Geocode outcomes
	GeocodeOK         = "ok"
	GeocodeHTTPStatus = "http_status"
	GeocodeTransport  = "transport_error"
	GeocodeDecode     = "decode_error"
	GeocodeNoName     = "no_display_name"

	// Geocode cache results
	CacheHit  = "hit"
	CacheMiss = "miss"

	// Activity sources
	SourceManual = "manual"
	SourceMap    = "map"

	// Publish results
	ResultSuccess = "success"
	ResultFailure = "failure"

	// Database operations
	DBOpGetAllUsers                = "get_all_users"
	DBOpFindUserByID               = "find_user_by_id"
	DBOpFindUserByEmail            = "find_user_by_email"
	DBOpSaveUser                   = "save_user"
	DBOpUpdateUser                 = "update_user"
	DBOpDeleteUser                 = "delete_user"
	DBOpCountUsers                 = "count_users"
	DBOpGetAllActivities           = "get_all_activities"
	DBOpFindActivityByID           = "find_activity_by_id"
	DBOpFindActivitiesByUserID     = "find_activities_by_user_id"
	DBOpSaveActivity               = "save_activity"
	DBOpUpdateActivity             = "update_activity"
	DBOpDeleteActivity             = "delete_activity"
	DBOpDeleteActivitiesByUserID   = "delete_activities_by_user_id"
	DBOpTotalDistanceByUserID      = "total_distance_by_user_id"
	DBOpCountActivities            = "count_activities"
	DBOpGetAllMilestones           = "get_all_milestones"
	DBOpFindMilestoneByID          = "find_milestone_by_id"
	DBOpFindMilestoneByName        = "find_milestone_by_name"
	DBOpSaveMilestone              = "save_milestone"
	DBOpUpdateMilestone            = "update_milestone"
	DBOpDeleteMilestone            = "delete_milestone"
	DBOpGetAllAchievements         = "get_all_achievements"
	DBOpFindAchievementByID        = "find_achievement_by_id"
	DBOpFindAchievementsByDistance = "find_achievements_by_distance"
	DBOpSaveAchievement            = "save_achievement"
	DBOpUpdateAchievement          = "update_achievement"
	DBOpDeleteAchievement          = "delete_achievement"
)

// HTTP Metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "method", "status_code"},
	)
)

// Database Metrics.
var (
	DBOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_operation_duration_seconds",
			Help:    "Database operation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	DBOperationErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_operation_errors_total",
			Help: "Total number of database operation errors",
		},
		[]string{"operation"},
	)
)

// Geocoding Metrics.
var (
	GeocodeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Total number of reverse geocoding requests by outcome",
		},
		[]string{"outcome"},
	)

	GeocodeLookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geocode_lookup_duration_seconds",
			Help:    "Reverse geocoding request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
	)

	GeocodeCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_cache_total",
			Help: "Reverse geocoding cache lookups by result",
		},
		[]string{"result"},
	)

	GeocodeCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocode_cache_entries",
			Help: "Number of place names held in the reverse geocoding cache",
		},
	)

	GeocodeCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocode_circuit_breaker_state",
			Help: "Geocoder circuit breaker state (0=closed, 1=half_open, 2=open)",
		},
	)

	GeocodeCircuitOpenedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_circuit_breaker_opened_total",
			Help: "Total number of times the geocoder circuit breaker opened",
		},
	)

	GeocodeCircuitRecoveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_circuit_breaker_recovered_total",
			Help: "Total number of times the geocoder circuit breaker closed after recovery",
		},
	)

	GeocodeCircuitSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_circuit_breaker_skipped_total",
			Help: "Lookups answered with a fallback label because the circuit was open",
		},
	)
)

// Business Metrics.
var (
	ActivitiesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activities_created_total",
			Help: "Total number of activities created by source",
		},
		[]string{"source"},
	)

	ActivitiesSynthesizedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "activities_synthesized_total",
			Help: "Total number of activities estimated from map points",
		},
	)

	SynthesizedDistanceKm = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "synthesized_activity_distance_km",
			Help:    "Distance of activities synthesised from map points",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 21.1, 42.2, 100},
		},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Activity events handed to the broker by result",
		},
		[]string{"result"},
	)

	AuthorizationDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Mutations refused by the role check",
		},
		[]string{"operation"},
	)

	UsersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "users_total",
			Help: "Number of registered users",
		},
	)

	ActivitiesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "activities_total",
			Help: "Number of stored activities",
		},
	)
)
