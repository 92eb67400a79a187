// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package bootstrap

import (
	"context"
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	stateStorageAdapter "github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
	leveldbAdapter "github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter/leveldb"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"io"
)

type Node struct {
	NodeLogic
	logger    log.Logger
	ctxCancel context.CancelFunc
	closer    io.Closer
}

func NewNode(nodeConfig config.ProxyConfig, logger log.Logger) (*Node, error) {
	if err := config.ValidateProxyConfig(nodeConfig); err != nil {
		return nil, errors.Wrap(err, "invalid node config")
	}

	metricRegistry := metric.NewRegistry()
	statePersistence, closer, err := newStatePersistence(nodeConfig, metricRegistry)
	if err != nil {
		return nil, err
	}

	ctx, ctxCancel := context.WithCancel(context.Background())
	nodeLogic := NewNodeLogic(ctx, statePersistence, logger, metricRegistry, nodeConfig)

	logger.Info("node started", log.String("state-storage-backend", nodeConfig.StateStorageBackend()))
	return &Node{
		NodeLogic: nodeLogic,
		logger:    logger,
		ctxCancel: ctxCancel,
		closer:    closer,
	}, nil
}

// GracefulShutdown stops background work, waits for it within shutdownContext and then closes persistence.
func (n *Node) GracefulShutdown(shutdownContext context.Context) {
	n.ctxCancel()
	n.WaitUntilShutdown(shutdownContext)

	if n.closer == nil {
		return
	}
	if err := n.closer.Close(); err != nil {
		n.logger.Error("failed closing state persistence", log.Error(err))
	}
}

func newStatePersistence(cfg config.StateStorageConfig, metricFactory metric.Factory) (stateStorageAdapter.StatePersistence, io.Closer, error) {
	switch cfg.StateStorageBackend() {
	case config.STATE_STORAGE_BACKEND_LEVELDB:
		persistence, err := leveldbAdapter.NewStatePersistence(cfg.StateStorageDataDir(), int(cfg.StateStorageReadCacheSize()), metricFactory)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed opening state at %s", cfg.StateStorageDataDir())
		}
		return persistence, persistence, nil
	case config.STATE_STORAGE_BACKEND_MEMORY:
		return memory.NewStatePersistence(metricFactory), nil, nil
	}
	return nil, nil, errors.Errorf("unknown state storage backend '%s'", cfg.StateStorageBackend())
}
