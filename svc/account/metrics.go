package account

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Guard outcomes.
const (
	GuardAccessValid = "access_valid"
	GuardRefreshed   = "refreshed"
	GuardRejected    = "rejected"
)

// Metrics counts account flow outcomes. A nil *Metrics records nothing.
type Metrics struct {
	guard       *prometheus.CounterVec
	logins      *prometheus.CounterVec
	activations *prometheus.CounterVec
	mail        *prometheus.CounterVec
}

// NewMetrics registers the account collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		guard: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accountkit",
			Name:      "guard_decisions_total",
			Help:      "Auth guard decisions by outcome",
		}, []string{"outcome"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accountkit",
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
		activations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accountkit",
			Name:      "activations_total",
			Help:      "Account activation attempts by result",
		}, []string{"result"}),
		mail: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accountkit",
			Name:      "mail_dispatch_total",
			Help:      "Outbound account mail by template and result",
		}, []string{"template", "result"}),
	}
}

func (m *Metrics) guardDecision(outcome string) {
	if m == nil {
		return
	}
	m.guard.WithLabelValues(outcome).Inc()
}

func (m *Metrics) login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) activation(result string) {
	if m == nil {
		return
	}
	m.activations.WithLabelValues(result).Inc()
}

func (m *Metrics) mailDispatch(template string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.mail.WithLabelValues(template, result).Inc()
}
