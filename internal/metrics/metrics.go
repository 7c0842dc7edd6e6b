/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fi_dashboard"

var (
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Data store calls by backend, table, operation and result.",
	}, []string{"backend", "table", "operation", "result"})

	ModelCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "model_call_duration_seconds",
		Help:      "Latency of language model calls.",
		Buckets:   prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"kind", "result"})

	IntentsParsed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "intents_parsed_total",
		Help:      "Parsed intents by action.",
	}, []string{"action"})

	ChatActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_actions_total",
		Help:      "Pending chat actions by outcome (confirmed, failed, cancelled).",
	}, []string{"outcome"})

	MaturityNotices = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "maturity_notices_total",
		Help:      "Upcoming FD maturities reported by the watcher.",
	})
)

// ObserveStore records one store call.
func ObserveStore(backend, table, operation string, err error) {
	StoreOperations.WithLabelValues(backend, table, operation, result(err)).Inc()
}

// ObserveModelCall records the latency of one model call started at start.
func ObserveModelCall(kind string, start time.Time, err error) {
	ModelCallDuration.WithLabelValues(kind, result(err)).Observe(time.Since(start).Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
