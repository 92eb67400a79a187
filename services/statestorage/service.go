// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package statestorage

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"time"
)

var LogTag = log.Service("state-storage")

type StateStorage interface {
	ReadSlot(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error)
	CommitStateDiff(ctx context.Context, diff adapter.ChainState) error
	Dump() string
}

type metrics struct {
	commitTime     *metric.Histogram
	committedSlots *metric.Rate
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		commitTime:     m.NewLatency("StateStorage.CommitStateDiff.Time.Millis", 10*time.Second),
		committedSlots: m.NewRate("StateStorage.CommittedSlots.Rate"),
	}
}

type service struct {
	logger      log.Logger
	persistence adapter.StatePersistence
	metrics     *metrics
}

func NewStateStorage(persistence adapter.StatePersistence, parentLogger log.Logger, metricFactory metric.Factory) StateStorage {
	return &service{
		logger:      parentLogger.WithTags(LogTag),
		persistence: persistence,
		metrics:     newMetrics(metricFactory),
	}
}

// ReadSlot returns the zero word for slots that were never written.
func (s *service) ReadSlot(ctx context.Context, account common.Address, slot common.Hash) (common.Hash, error) {
	value, _, err := s.persistence.Read(account, slot)
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "failed reading slot %s of account %s", slot.Hex(), account.Hex())
	}
	return value, nil
}

func (s *service) CommitStateDiff(ctx context.Context, diff adapter.ChainState) error {
	if len(diff) == 0 {
		return nil
	}

	start := time.Now()
	defer s.metrics.commitTime.RecordSince(start)

	if err := s.persistence.Write(diff); err != nil {
		return errors.Wrap(err, "failed committing state diff")
	}

	s.metrics.committedSlots.Measure(int64(diff.Len()))
	s.logger.Info("committed state diff", log.Int("accounts", len(diff)), log.Int("slots", diff.Len()))
	return nil
}

func (s *service) Dump() string {
	return s.persistence.Dump()
}
