package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all OpenSeat metrics
const namespace = "openseat"

// Registry is the global Prometheus registry for all metrics
var Registry = prometheus.NewRegistry()

// AppInfo is a gauge that exposes application version information as labels
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// OTPIssuedTotal counts verification codes issued to registrants
var OTPIssuedTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of verification codes issued",
	},
)

// OTPVerificationsTotal counts verification attempts by outcome
var OTPVerificationsTotal = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verifications_total",
		Help:      "Total number of verification code checks",
	},
	[]string{"result"}, // result: success|invalid|expired
)

// RegistrationsTotal counts completed registrations
var RegistrationsTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of completed registrations",
	},
)

// RegistrationsDeletedTotal counts registrations removed by admins
var RegistrationsDeletedTotal = promauto.With(Registry).NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_deleted_total",
		Help:      "Total number of registrations deleted by admins",
	},
)

// SeatsTotal reports the event capacity
var SeatsTotal = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "seats_total",
		Help:      "Total seats available for the event",
	},
)

// SeatsBooked reports the current booked seat count
var SeatsBooked = promauto.With(Registry).NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "seats_booked",
		Help:      "Seats currently booked for the event",
	},
)

// Init initializes the metrics registry and sets version information
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}
