// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package memory

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
	"sync"
)

type metrics struct {
	numberOfKeys     *metric.Gauge
	numberOfAccounts *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		numberOfKeys:     m.NewGauge("StateStoragePersistence.TotalNumberOfKeys.Count"),
		numberOfAccounts: m.NewGauge("StateStoragePersistence.TotalNumberOfAccounts.Count"),
	}
}

type InMemoryStatePersistence struct {
	metrics   *metrics
	mutex     sync.RWMutex
	fullState adapter.ChainState
}

func NewStatePersistence(metricFactory metric.Factory) *InMemoryStatePersistence {
	return &InMemoryStatePersistence{
		metrics:   newMetrics(metricFactory),
		mutex:     sync.RWMutex{},
		fullState: adapter.ChainState{},
	}
}

func (sp *InMemoryStatePersistence) reportSize() {
	sp.metrics.numberOfKeys.Update(int64(sp.fullState.Len()))
	sp.metrics.numberOfAccounts.Update(int64(len(sp.fullState)))
}

func (sp *InMemoryStatePersistence) Write(diff adapter.ChainState) error {
	sp.mutex.Lock()
	defer sp.mutex.Unlock()

	for account, records := range diff {
		for slot, value := range records {
			sp._writeOneRecord(account, slot, value)
		}
	}
	sp.reportSize()
	return nil
}

func (sp *InMemoryStatePersistence) _writeOneRecord(account common.Address, slot common.Hash, value common.Hash) {
	if isZeroValue(value) {
		delete(sp.fullState[account], slot)
		if len(sp.fullState[account]) == 0 {
			delete(sp.fullState, account)
		}
		return
	}

	sp.fullState.Set(account, slot, value)
}

func (sp *InMemoryStatePersistence) Read(account common.Address, slot common.Hash) (common.Hash, bool, error) {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	value, ok := sp.fullState.Get(account, slot)
	return value, ok, nil
}

func (sp *InMemoryStatePersistence) Dump() string {
	sp.mutex.RLock()
	defer sp.mutex.RUnlock()

	return adapter.DumpChainState(sp.fullState)
}

func isZeroValue(value common.Hash) bool {
	return value == common.Hash{}
}
