package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	outcomeComputed = "computed"
	outcomeRejected = "rejected"
)

// Metrics holds the Prometheus collectors for quote computation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	quotesTotal *prometheus.CounterVec
	quoteAmount prometheus.Histogram
}

// NewMetrics creates the quote collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "insurance",
			Name:      "quotes_computed_total",
			Help:      "Number of quote requests by outcome.",
		}, []string{"outcome"}),
		quoteAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "insurance",
			Name:      "quote_amount",
			Help:      "Distribution of final quote amounts.",
			Buckets:   []float64{50, 75, 100, 150, 200, 300, 500, 1000},
		}),
	}

	for _, c := range []prometheus.Collector{m.quotesTotal, m.quoteAmount} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering quote metrics: %w", err)
		}
	}

	return m, nil
}

func (m *Metrics) observeComputed(amount decimal.Decimal) {
	if m == nil {
		return
	}

	m.quotesTotal.WithLabelValues(outcomeComputed).Inc()
	m.quoteAmount.Observe(amount.InexactFloat64())
}

func (m *Metrics) observeRejected() {
	if m == nil {
		return
	}

	m.quotesTotal.WithLabelValues(outcomeRejected).Inc()
}
