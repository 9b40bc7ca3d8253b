// Package metrics provides the centralized Prometheus registry for the
// wagering engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	WagersPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "wagers_placed_total",
		Help:      "Total number of wagers placed",
	})
	WagersRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "wagers_rejected_total",
		Help:      "Total number of wager placements rejected, by reason",
	}, []string{"reason"})
	WagersSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "wagers_settled_total",
		Help:      "Total number of wagers settled, by outcome",
	}, []string{"outcome"})
	PayoutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "payouts_total",
		Help:      "Total currency paid out on winning wagers",
	})
	PricingRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "pricing_requests_total",
		Help:      "Total number of match pricing requests",
	})
	MatchResultsRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "match_results_recorded_total",
		Help:      "Total number of match results recorded",
	})
	SeasonRolloversTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "league_book",
		Name:      "season_rollovers_total",
		Help:      "Total number of completed season rollover passes",
	})
)

// Gauge metrics
var (
	PendingWagers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "league_book",
		Name:      "pending_wagers",
		Help:      "Number of wagers awaiting settlement",
	})
)

// Histogram metrics
var (
	SettlementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "league_book",
		Name:      "settlement_duration_seconds",
		Help:      "Duration of per-match settlement passes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(WagersPlacedTotal)
		registry.MustRegister(WagersRejectedTotal)
		registry.MustRegister(WagersSettledTotal)
		registry.MustRegister(PayoutsTotal)
		registry.MustRegister(PricingRequestsTotal)
		registry.MustRegister(MatchResultsRecordedTotal)
		registry.MustRegister(SeasonRolloversTotal)

		registry.MustRegister(PendingWagers)

		registry.MustRegister(SettlementDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordWagerPlaced records a successful wager placement.
func RecordWagerPlaced() {
	WagersPlacedTotal.Inc()
	PendingWagers.Inc()
}

// RecordWagerRejected records a rejected placement attempt.
func RecordWagerRejected(reason string) {
	WagersRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordWagerSettled records a settled wager by outcome and takes it out of
// the pending pool.
func RecordWagerSettled(outcome string) {
	WagersSettledTotal.WithLabelValues(outcome).Inc()
	PendingWagers.Dec()
}

// RecordPayout records currency paid out to a winning bettor.
func RecordPayout(amount int) {
	PayoutsTotal.Add(float64(amount))
}

// RecordPricingRequest records a match pricing request.
func RecordPricingRequest() {
	PricingRequestsTotal.Inc()
}

// RecordMatchResult records a recorded match result.
func RecordMatchResult() {
	MatchResultsRecordedTotal.Inc()
}

// RecordSeasonRollover records a completed rollover pass.
func RecordSeasonRollover() {
	SeasonRolloversTotal.Inc()
}
