package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	ContentFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "content_fetch_total", Help: "Content reads by source (remote, cache, error)."},
		[]string{"source"},
	)
	ContentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "content_save_total", Help: "Content saves by outcome (saved, local_only, invalid, error)."},
		[]string{"outcome"},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "validation_failures_total", Help: "Rejected payloads by validation code."},
		[]string{"code"},
	)
	MediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "sitedash", Name: "media_uploads_total", Help: "Image uploads by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(ContentFetches)
	reg.MustRegister(ContentSaves)
	reg.MustRegister(ValidationFailures)
	reg.MustRegister(MediaUploads)
}
