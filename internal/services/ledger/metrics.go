package ledger

// MetricsCollector records ledger operation outcomes.
type MetricsCollector interface {
	RecordTransaction(txType string, amount int64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, int64) {}
func (n *NoopMetricsCollector) RecordError(string, string)      {}
