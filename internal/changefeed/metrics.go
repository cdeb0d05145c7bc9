package changefeed

import "github.com/prometheus/client_golang/prometheus"

var (
	processedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "changefeed",
		Name:      "notifications_processed_total",
		Help:      "Number of change notifications successfully handled.",
	}, []string{"collection"})

	decodeErrorCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "changefeed",
		Name:      "decode_errors_total",
		Help:      "Number of malformed change notifications skipped.",
	})

	publishErrorCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fitness_tracker",
		Subsystem: "changefeed",
		Name:      "publish_errors_total",
		Help:      "Number of change notifications that failed to publish.",
	}, []string{"collection"})

	lastNotificationGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fitness_tracker",
		Subsystem: "changefeed",
		Name:      "last_notification_timestamp_seconds",
		Help:      "Unix timestamp of the most recent processed notification per collection.",
	}, []string{"collection"})
)

func init() {
	prometheus.MustRegister(processedCounter, decodeErrorCounter, publishErrorCounter, lastNotificationGauge)
}

func recordProcessed(change Change) {
	processedCounter.WithLabelValues(change.Collection).Inc()
	if !change.OccurredAt.IsZero() {
		lastNotificationGauge.WithLabelValues(change.Collection).Set(float64(change.OccurredAt.Unix()))
	}
}

func recordDecodeError() {
	decodeErrorCounter.Inc()
}

func recordPublishError(collection string) {
	publishErrorCounter.WithLabelValues(collection).Inc()
}
