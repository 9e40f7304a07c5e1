// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package identity

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for authentication attempt metrics.
const (
	authOutcomeSuccess       = "success"
	authOutcomeInvalid       = "invalid_credentials"
	authOutcomeNotApplicable = "not_applicable"
	authOutcomeError         = "error"
)

// AuthAttempts is the counter for authentication attempts by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "uuiduser_auth_attempts_total",
		Help: "Total number of authentication attempts by outcome",
	},
	[]string{"outcome"},
)

// RegisterMetrics registers identity package metrics with the given
// Prometheus registry. Panics if registration fails (following
// prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
}

func recordAuthAttempt(outcome string) {
	AuthAttempts.WithLabelValues(outcome).Inc()
}
