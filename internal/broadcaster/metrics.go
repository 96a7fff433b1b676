package broadcaster

import "expvar"

var (
	metricPublishQueuedTotal  = expvar.NewInt("broadcaster_publish_queued_total")
	metricPublishSentTotal    = expvar.NewInt("broadcaster_publish_sent_total")
	metricPublishFailedTotal  = expvar.NewInt("broadcaster_publish_failed_total")
	metricPublishDroppedTotal = expvar.NewInt("broadcaster_publish_dropped_total")
)
