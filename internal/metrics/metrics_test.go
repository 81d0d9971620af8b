package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Collector, name string) float64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	families, err := reg.Gather()
	require.NoError(t, err)

	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue() + m.GetGauge().GetValue()
		}
	}
	return total
}

func TestRegisterIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := counterValue(t, managerDecision, "availability_manager_decision_total")
	IncManagerDecision("approved")
	IncManagerDecision("rejected")
	assert.Equal(t, before+2, counterValue(t, managerDecision, "availability_manager_decision_total"))

	before = counterValue(t, emailsSent, "availability_emails_total")
	IncEmail(false)
	assert.Equal(t, before+1, counterValue(t, emailsSent, "availability_emails_total"))

	before = counterValue(t, httpRequests, "availability_http_requests_total")
	IncHTTP("holidays", 200)
	assert.Equal(t, before+1, counterValue(t, httpRequests, "availability_http_requests_total"))

	SetOutboxLength(3)
	assert.Equal(t, 3.0, counterValue(t, outboxLength, "availability_outbox_queue_length"))
}
