package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// IngestMetrics counts pledge-ingestion outcomes across the three write
// paths (manual, import, webhook).
type IngestMetrics struct {
	pledges      *prometheus.CounterVec
	rowErrors    *prometheus.CounterVec
	webhookAuth  *prometheus.CounterVec
	recomputes   prometheus.Counter
	droppedItems prometheus.Counter
}

// NewIngestMetrics registers the ingestion metrics on the provided registerer.
func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	if reg == nil {
		return &IngestMetrics{}
	}
	pledges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pledges_recorded_total",
		Help: "Pledges recorded, labelled by entry path.",
	}, []string{"source"})
	rowErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_row_errors_total",
		Help: "Rows skipped or failed during bulk import.",
	}, []string{"reason"})
	webhookAuth := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "webhook_auth_total",
		Help: "Webhook signature verification outcomes.",
	}, []string{"outcome"})
	recomputes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stats_recomputes_total",
		Help: "Full recomputations of cached campaign stats.",
	})
	droppedItems := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "webhook_unmatched_line_items_total",
		Help: "Webhook line items with no matching reward variant.",
	})
	reg.MustRegister(pledges, rowErrors, webhookAuth, recomputes, droppedItems)
	return &IngestMetrics{
		pledges:      pledges,
		rowErrors:    rowErrors,
		webhookAuth:  webhookAuth,
		recomputes:   recomputes,
		droppedItems: droppedItems,
	}
}

// IncPledge counts one recorded pledge for the given entry path.
func (m *IngestMetrics) IncPledge(source string) {
	if m == nil || m.pledges == nil {
		return
	}
	m.pledges.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncRowError counts one skipped/failed import row.
func (m *IngestMetrics) IncRowError(reason string) {
	if m == nil || m.rowErrors == nil {
		return
	}
	m.rowErrors.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncWebhookAuth counts a signature verification outcome.
func (m *IngestMetrics) IncWebhookAuth(outcome string) {
	if m == nil || m.webhookAuth == nil {
		return
	}
	m.webhookAuth.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRecompute counts one full stats recomputation.
func (m *IngestMetrics) IncRecompute() {
	if m == nil || m.recomputes == nil {
		return
	}
	m.recomputes.Inc()
}

// IncUnmatchedLineItem counts a webhook line item with no reward match.
func (m *IngestMetrics) IncUnmatchedLineItem() {
	if m == nil || m.droppedItems == nil {
		return
	}
	m.droppedItems.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
