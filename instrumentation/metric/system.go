// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"context"
	"fmt"
	"github.com/c9s/goprocinfo/linux"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"os"
	"time"
)

type cpuSample struct {
	processTicks int64
	totalTicks   uint64
}

// SystemReporter samples the process resident memory and cpu share from procfs.
type SystemReporter struct {
	logger         log.Logger
	procDir        string
	pid            uint64
	rssBytes       *Gauge
	cpuUtilization *Gauge
	previous       *cpuSample
}

func NewSystemReporter(metricFactory Factory, logger log.Logger) *SystemReporter {
	return &SystemReporter{
		logger:         logger,
		procDir:        "/proc",
		pid:            uint64(os.Getpid()),
		rssBytes:       metricFactory.NewGauge("OS.Process.Memory.Bytes"),
		cpuUtilization: metricFactory.NewGauge("OS.Process.CPU.PerCent"),
	}
}

// ReportEvery samples on every tick until ctx is done. Hosts without procfs report nothing.
func (r *SystemReporter) ReportEvery(ctx context.Context, interval time.Duration) govnr.ShutdownWaiter {
	ticker := time.NewTicker(interval)
	return govnr.Forever(ctx, "system metrics reporter", logfields.GovnrErrorer(r.logger), func() {
		for {
			select {
			case <-ticker.C:
				r.Sample()
			case <-ctx.Done():
				ticker.Stop()
				return
			}
		}
	})
}

func (r *SystemReporter) Sample() {
	if _, err := os.Stat(r.procDir); os.IsNotExist(err) {
		return
	}

	if rss, err := r.readRssBytes(); err != nil {
		r.logger.Error("failed to read process memory", log.Error(err))
	} else {
		r.rssBytes.Update(rss)
	}

	current, err := r.readCpuSample()
	if err != nil {
		r.logger.Error("failed to read process cpu", log.Error(err))
		return
	}
	// procfs counters are cumulative, a share needs two samples
	if r.previous != nil && current.totalTicks > r.previous.totalTicks {
		r.cpuUtilization.Update(cpuPercent(r.previous, current))
	}
	r.previous = current
}

func cpuPercent(from *cpuSample, to *cpuSample) int64 {
	process := float64(to.processTicks - from.processTicks)
	total := float64(to.totalTicks - from.totalTicks)
	return int64(process / total * 100)
}

func (r *SystemReporter) readRssBytes() (int64, error) {
	statm, err := linux.ReadProcessStatm(fmt.Sprintf("%s/%d/statm", r.procDir, r.pid))
	if err != nil {
		return 0, errors.Wrap(err, "statm")
	}
	return int64(statm.Resident) * int64(os.Getpagesize()), nil
}

func (r *SystemReporter) readCpuSample() (*cpuSample, error) {
	process, err := linux.ReadProcessStat(fmt.Sprintf("%s/%d/stat", r.procDir, r.pid))
	if err != nil {
		return nil, errors.Wrap(err, "process stat")
	}
	stat, err := linux.ReadStat(r.procDir + "/stat")
	if err != nil {
		return nil, errors.Wrap(err, "stat")
	}

	all := stat.CPUStatAll
	return &cpuSample{
		processTicks: int64(process.Utime) + process.Cutime + int64(process.Stime) + process.Cstime,
		totalTicks:   all.User + all.Nice + all.System + all.Idle,
	}, nil
}
