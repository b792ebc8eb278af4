package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LedgerAppends = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "ledger_appends_total", Help: "Number of records appended by log."},
		[]string{"log"},
	)
	LedgerAppendFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "ledger_append_failures_total", Help: "Number of appends that failed at the storage layer by log."},
		[]string{"log"},
	)
	LedgerMalformedLines = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "ledger_malformed_lines_total", Help: "Number of lines skipped while loading a log."},
		[]string{"log"},
	)
	DocumentsRegistered = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "documents_registered_total", Help: "Number of document registrations."},
	)
	VotesCast = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "votes_cast_total", Help: "Number of votes cast by choice."},
		[]string{"choice"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "actadigital", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(LedgerAppends)
	reg.MustRegister(LedgerAppendFailures)
	reg.MustRegister(LedgerMalformedLines)
	reg.MustRegister(DocumentsRegistered)
	reg.MustRegister(VotesCast)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
