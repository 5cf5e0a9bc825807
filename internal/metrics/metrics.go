package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the lookup and generation counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Collectors groups the counters the assistant updates per submission.
type Collectors struct {
	Classifications *prometheus.CounterVec
	WeatherLookups  *prometheus.CounterVec
	Generations     *prometheus.CounterVec
	Alerts          prometheus.Counter
}

// New registers the collectors with reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetrip",
			Name:      "classifications_total",
			Help:      "User submissions by classified intent.",
		}, []string{"kind"}),
		WeatherLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetrip",
			Name:      "weather_lookups_total",
			Help:      "Weather lookups by outcome.",
		}, []string{"outcome"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safetrip",
			Name:      "generations_total",
			Help:      "Text-generation calls by outcome.",
		}, []string{"outcome"}),
		Alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safetrip",
			Name:      "contact_alerts_total",
			Help:      "Simulated alerts sent to emergency contacts.",
		}),
	}

	if reg != nil {
		reg.MustRegister(c.Classifications, c.WeatherLookups, c.Generations, c.Alerts)
	}
	return c
}

// ObserveClassification counts one classified submission.
func (c *Collectors) ObserveClassification(kind string) {
	if c == nil {
		return
	}
	c.Classifications.WithLabelValues(kind).Inc()
}

// ObserveWeather counts one weather lookup.
func (c *Collectors) ObserveWeather(ok bool) {
	if c == nil {
		return
	}
	c.WeatherLookups.WithLabelValues(outcome(ok)).Inc()
}

// ObserveGeneration counts one text-generation call.
func (c *Collectors) ObserveGeneration(ok bool) {
	if c == nil {
		return
	}
	c.Generations.WithLabelValues(outcome(ok)).Inc()
}

// ObserveAlerts adds n simulated alerts.
func (c *Collectors) ObserveAlerts(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Alerts.Add(float64(n))
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
