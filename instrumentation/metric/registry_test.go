// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestInMemoryRegistry_ExportAll(t *testing.T) {
	registry := NewRegistry()
	gauge := registry.NewGauge("hello")
	gauge.Add(1)

	gaugeValue := registry.ExportAll()["hello"].(gaugeExport)
	require.EqualValues(t, gaugeValue.Value, 1)
}

func TestInMemoryRegistry_LatencySamplesAreExported(t *testing.T) {
	registry := NewRegistry()
	latency := registry.NewLatency("call-time", time.Second)
	latency.RecordSince(time.Now())
	latency.RecordSince(time.Now())

	exported := registry.ExportAll()["call-time"].(histogramExport)
	require.EqualValues(t, 2, exported.Samples)
	require.Contains(t, registry.String(), "metric call-time")
}

func TestInMemoryRegistry_ReportEveryStopsWithContext(t *testing.T) {
	registry := NewRegistry()
	registry.NewGauge("hello").Inc()

	ctx, cancel := context.WithCancel(context.Background())
	supervisor := &govnr.TreeSupervisor{}
	supervisor.Supervise(registry.ReportEvery(ctx, 5*time.Millisecond, log.DefaultTestingLogger(t)))
	time.Sleep(20 * time.Millisecond)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
	defer shutdownCancel()
	supervisor.WaitUntilShutdown(shutdownCtx)
	require.NoError(t, shutdownCtx.Err(), "reporter did not shut down in time")
}

func TestInMemoryRegistry_GetFindsMetricByName(t *testing.T) {
	registry := NewRegistry()
	gauge := registry.NewGauge("hello")

	require.Equal(t, gauge, registry.Get("hello"))
	require.Nil(t, registry.Get("missing"))
}
