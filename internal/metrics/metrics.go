package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "availability"

var (
	once sync.Once

	vacationRequestCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vacation_request_created_total",
			Help:      "Count of vacation requests filed.",
		},
	)

	managerDecision = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manager_decision_total",
			Help:      "Count of manager decisions over vacation requests.",
		},
		[]string{"decision"},
	)

	notificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Count of notifications by sink and result.",
		},
		[]string{"sink", "result"},
	)

	emailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_total",
			Help:      "Count of e-mails by result.",
		},
		[]string{"result"},
	)

	outboxLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbox_queue_length",
			Help:      "Current number of queued outbound jobs.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of API requests by route and status code.",
		},
		[]string{"route", "code"},
	)

	outboxDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_dropped_total",
			Help:      "Count of outbound jobs dropped because the queue was full or closed.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			vacationRequestCreated,
			managerDecision,
			notificationsSent,
			emailsSent,
			outboxLength,
			outboxDropped,
			httpRequests,
		)
	})
}

func IncVacationRequestCreated() {
	vacationRequestCreated.Inc()
}

func IncManagerDecision(decision string) {
	managerDecision.WithLabelValues(decision).Inc()
}

func IncNotification(sink string, ok bool) {
	notificationsSent.WithLabelValues(sink, result(ok)).Inc()
}

func IncEmail(ok bool) {
	emailsSent.WithLabelValues(result(ok)).Inc()
}

func SetOutboxLength(n int) {
	outboxLength.Set(float64(n))
}

func IncOutboxDropped() {
	outboxDropped.Inc()
}

func IncHTTP(route string, code int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
