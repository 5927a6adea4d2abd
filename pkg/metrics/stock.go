package metrics

import "github.com/prometheus/client_golang/prometheus"

// StockMetrics counts stock movement outcomes.
type StockMetrics struct {
	applied  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_applied_total",
		Help: "Stock movement mutations committed, by operation.",
	}, []string{"operation"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_rejected_total",
		Help: "Stock movement mutations refused because quantity would go negative.",
	}, []string{"operation"})
	reg.MustRegister(applied, rejected)
	return &StockMetrics{applied: applied, rejected: rejected}
}

func (m *StockMetrics) IncApplied(operation string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(operation)).Inc()
}

func (m *StockMetrics) IncRejected(operation string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(operation)).Inc()
}
