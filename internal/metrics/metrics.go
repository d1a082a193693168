package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the reservation service.
type Metrics struct {
	QuotesTotal         *prometheus.CounterVec
	TransitionsTotal    *prometheus.CounterVec
	SubmissionsTotal    *prometheus.CounterVec
	AdminLoginsTotal    *prometheus.CounterVec
	SessionsSwept       prometheus.Counter
	VehicleChangesTotal *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuotesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carrental_quotes_total",
			Help: "Total number of price quotes by result",
		}, []string{"result"}),

		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carrental_wizard_transitions_total",
			Help: "Reservation wizard transitions by action and result",
		}, []string{"action", "result"}),

		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carrental_reservations_submitted_total",
			Help: "Submitted reservations by flow",
		}, []string{"flow"}),

		AdminLoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carrental_admin_logins_total",
			Help: "Admin login attempts by result",
		}, []string{"result"}),

		SessionsSwept: factory.NewCounter(prometheus.CounterOpts{
			Name: "carrental_sessions_swept_total",
			Help: "Idle reservation sessions removed by the sweeper",
		}),

		VehicleChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "carrental_admin_vehicle_changes_total",
			Help: "Fleet changes made from the admin area by operation",
		}, []string{"operation"}),
	}
}
