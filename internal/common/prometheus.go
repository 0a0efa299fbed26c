package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	EcoActionsLoggedTotal      = "eco_actions_logged_total"
	SyncJobsTotal              = "sync_jobs_total"
	SyncJobDurationSeconds     = "sync_job_duration_seconds"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		EcoActionsLoggedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EcoActionsLoggedTotal,
			Help: "Count of all logged eco-actions",
		}, []string{"category"}),
		SyncJobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: SyncJobsTotal,
			Help: "Count of all outbound sync jobs by result",
		}, []string{"job", "status"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
		SyncJobDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: SyncJobDurationSeconds,
			Help: "Duration of outbound sync jobs",
		}, []string{"job"}),
	}
)

// PromCollectors lists every application metric, for registration.
func PromCollectors() []prometheus.Collector {
	cs := make([]prometheus.Collector, 0, len(PromCounters)+len(PromHistograms))
	for _, counter := range PromCounters {
		cs = append(cs, counter)
	}

	for _, histogram := range PromHistograms {
		cs = append(cs, histogram)
	}

	return cs
}
