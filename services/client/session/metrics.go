// Copyright (C) 2025 Zidio Development (opensource@zidio.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "inkpress",
		Subsystem: "session",
		Name:      "login_attempts_total",
		Help:      "Login attempts by method and outcome.",
	}, []string{"method", "outcome"})

	authenticatedGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "inkpress",
		Subsystem: "session",
		Name:      "authenticated",
		Help:      "1 when an identity is active, 0 otherwise.",
	})

	restoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "inkpress",
		Subsystem: "session",
		Name:      "restore_failures_total",
		Help:      "Startup restores that found corrupt persisted state.",
	})
)
