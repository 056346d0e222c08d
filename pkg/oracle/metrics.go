package oracle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	triggersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pearscrow_oracle_triggers_total",
		Help: "Number of triggers submitted for polling.",
	})
	verdictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pearscrow_oracle_verdicts_total",
		Help: "Number of verdicts delivered by the provider.",
	})
	pollErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pearscrow_oracle_poll_errors_total",
		Help: "Number of failed polling attempts.",
	})
)
