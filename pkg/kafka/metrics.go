package kafka

import "github.com/prometheus/client_golang/prometheus"

// ProducerMetrics holds the publish counters and latency histogram.
type ProducerMetrics struct {
	published *prometheus.CounterVec
	errors    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewProducerMetrics creates the producer metrics and registers them with reg.
func NewProducerMetrics(reg prometheus.Registerer) (*ProducerMetrics, error) {
	m := &ProducerMetrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kafka_producer_messages_published_total",
			Help: "Total number of Kafka messages published",
		}, []string{"topic"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kafka_producer_publish_errors_total",
			Help: "Total number of Kafka publish errors",
		}, []string{"topic"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "kafka_producer_publish_duration_seconds",
			Help:    "Duration of Kafka publish operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"topic"}),
	}
	for _, c := range []prometheus.Collector{m.published, m.errors, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *ProducerMetrics) observe(topic string, seconds float64, err error) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(topic).Observe(seconds)
	if err != nil {
		m.errors.WithLabelValues(topic).Inc()
		return
	}
	m.published.WithLabelValues(topic).Inc()
}
