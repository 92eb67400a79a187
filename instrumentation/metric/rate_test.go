// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package metric

import (
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestRate_StaysZeroWithoutEvents(t *testing.T) {
	start := time.Now()
	rate := newRateWithStart("VirtualMachine.Transactions.Rate", start)

	rate.maybeRotateAsOf(start.Add(5 * time.Second))
	require.Zero(t, rate.export().Rate)
}

func TestRate_FirstTickSeedsAverage(t *testing.T) {
	start := time.Now()
	rate := newRateWithStart("VirtualMachine.Transactions.Rate", start)

	for i := 0; i < 40; i++ {
		rate.Measure(1)
	}
	rate.maybeRotateAsOf(start.Add(tickInterval + 100*time.Millisecond))

	require.EqualValues(t, 40, rate.export().Rate, "a single tick should be reported as is")
}

func TestRate_DecaysWhenEventsStop(t *testing.T) {
	start := time.Now()
	rate := newRateWithStart("VirtualMachine.Transactions.Rate", start)
	rate.Measure(40)
	rate.maybeRotateAsOf(start.Add(tickInterval + 100*time.Millisecond))
	peak := rate.export().Rate

	rate.maybeRotateAsOf(start.Add(8 * tickInterval))
	require.Less(t, rate.export().Rate, peak, "idle ticks should pull the average down")
}

func TestRate_LogRowNamesTheMetric(t *testing.T) {
	row := newRate("VirtualMachine.Transactions.Rate").export().LogRow()
	require.Len(t, row, 4)
	require.Equal(t, "metric", row[0].Key)
	require.Equal(t, "VirtualMachine.Transactions.Rate", row[0].Value())
}
