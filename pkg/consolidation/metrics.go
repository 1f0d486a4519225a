/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package consolidation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "activityradar"
	metricsSubsystem = "consolidation"

	outcomeSuccess = "success"
	outcomePartial = "partial"
	outcomeFailure = "failure"

	dispositionAccepted = "accepted"
	dispositionSkipped  = "skipped"
	dispositionFiltered = "filtered"
)

// Metrics records consolidation activity. A nil *Metrics is a valid no-op.
type Metrics struct {
	runs             *prometheus.CounterVec
	runDuration      prometheus.Histogram
	partitions       *prometheus.CounterVec
	records          *prometheus.CounterVec
	snapshots        prometheus.Counter
	silentServices   prometheus.Counter
	lastSuccess      prometheus.Gauge
	workersInLastRun prometheus.Gauge
}

// NewMetrics registers the consolidation collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_total",
			Help:      "Consolidation runs by outcome.",
		}, []string{"outcome"}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Wall time of consolidation runs.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		partitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "partitions_total",
			Help:      "Partitions processed by result.",
		}, []string{"result"}),
		records: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "records_total",
			Help:      "Raw records read by disposition.",
		}, []string{"disposition"}),
		snapshots: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "snapshots_published_total",
			Help:      "Snapshots handed to the publisher.",
		}),
		silentServices: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "silent_services_total",
			Help:      "Never-seen snapshots emitted for known services without activity.",
		}),
		lastSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last fully successful run.",
		}),
		workersInLastRun: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "workers",
			Help:      "Worker pool size of the most recent run.",
		}),
	}
}

func (m *Metrics) observeRun(outcome string, started, finished time.Time) {
	if m == nil {
		return
	}

	m.runs.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(finished.Sub(started).Seconds())

	if outcome == outcomeSuccess {
		m.lastSuccess.Set(float64(finished.Unix()))
	}
}

func (m *Metrics) setWorkers(n int) {
	if m == nil {
		return
	}

	m.workersInLastRun.Set(float64(n))
}

func (m *Metrics) partitionDone(err error) {
	if m == nil {
		return
	}

	if err != nil {
		m.partitions.WithLabelValues(outcomeFailure).Inc()
		return
	}

	m.partitions.WithLabelValues(outcomeSuccess).Inc()
}

func (m *Metrics) recordsRead(stats PartitionStats) {
	if m == nil {
		return
	}

	m.records.WithLabelValues(dispositionAccepted).Add(float64(stats.Accepted))
	m.records.WithLabelValues(dispositionSkipped).Add(float64(stats.Skipped))
	m.records.WithLabelValues(dispositionFiltered).Add(float64(stats.Filtered))
}

func (m *Metrics) snapshotsPublished(n int) {
	if m == nil {
		return
	}

	m.snapshots.Add(float64(n))
}

func (m *Metrics) silentServicesEmitted(n int) {
	if m == nil {
		return
	}

	m.silentServices.Add(float64(n))
}
