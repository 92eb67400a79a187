// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"fmt"
	"github.com/orbs-network/scribe/log"
	"sync/atomic"
)

// Gauge holds the current value of a counter together with the highest value it has reached.
type Gauge struct {
	namedMetric
	current atomic.Int64
	peak    atomic.Int64
}

type gaugeExport struct {
	Name  string
	Value int64
	Peak  int64
}

func (g *Gauge) Inc() {
	g.Add(1)
}

func (g *Gauge) Dec() {
	g.Add(-1)
}

func (g *Gauge) Add(delta int64) {
	g.raisePeak(g.current.Add(delta))
}

func (g *Gauge) Update(value int64) {
	g.current.Store(value)
	g.raisePeak(value)
}

func (g *Gauge) Value() int64 {
	return g.current.Load()
}

func (g *Gauge) Peak() int64 {
	return g.peak.Load()
}

func (g *Gauge) raisePeak(candidate int64) {
	for {
		peak := g.peak.Load()
		if candidate <= peak || g.peak.CompareAndSwap(peak, candidate) {
			return
		}
	}
}

func (g *Gauge) Export() exportedMetric {
	return gaugeExport{Name: g.name, Value: g.Value(), Peak: g.Peak()}
}

func (g *Gauge) String() string {
	return fmt.Sprintf("metric %s: %d\n", g.name, g.Value())
}

func (e gaugeExport) LogRow() []*log.Field {
	return []*log.Field{
		log.String("metric", e.Name),
		log.String("metric-type", "gauge"),
		log.Int64("gauge", e.Value),
		log.Int64("gauge-peak", e.Peak),
	}
}
