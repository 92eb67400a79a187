// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package bootstrap

import (
	"context"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/notifier"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/proxy"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage"
	stateStorageAdapter "github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
)

type NodeLogic interface {
	govnr.ShutdownWaiter
	VirtualMachine() virtualmachine.VirtualMachine
	StateStorage() statestorage.StateStorage
	Notifier() *notifier.Notifier
	ProxyContract() *types.ContractInfo
}

type nodeLogic struct {
	govnr.TreeSupervisor
	virtualMachine virtualmachine.VirtualMachine
	stateStorage   statestorage.StateStorage
	notifier       *notifier.Notifier
	proxyContract  *types.ContractInfo
}

func NewNodeLogic(
	ctx context.Context,
	statePersistence stateStorageAdapter.StatePersistence,
	logger log.Logger,
	metricRegistry metric.Registry,
	nodeConfig config.ProxyConfig,
) NodeLogic {

	stateStorageService := statestorage.NewStateStorage(statePersistence, logger, metricRegistry)
	processorService := native.NewNativeProcessor(logger, metricRegistry)
	virtualMachineService := virtualmachine.NewVirtualMachine(stateStorageService, processorService, logger, metricRegistry)

	notifierService := notifier.NewNotifier(ctx, nodeConfig, logger, metricRegistry)
	virtualMachineService.RegisterCommittedLogsHandler(notifierService)

	n := &nodeLogic{
		virtualMachine: virtualMachineService,
		stateStorage:   stateStorageService,
		notifier:       notifierService,
		proxyContract:  proxy.NewContract(nodeConfig, logger, metricRegistry),
	}
	n.Supervise(notifierService)
	n.Supervise(metricRegistry.ReportEvery(ctx, nodeConfig.MetricsReportInterval(), logger))
	n.Supervise(metric.NewSystemReporter(metricRegistry, logger).ReportEvery(ctx, nodeConfig.MetricsReportInterval()))

	return n
}

func (n *nodeLogic) VirtualMachine() virtualmachine.VirtualMachine {
	return n.virtualMachine
}

func (n *nodeLogic) StateStorage() statestorage.StateStorage {
	return n.stateStorage
}

func (n *nodeLogic) Notifier() *notifier.Notifier {
	return n.notifier
}

func (n *nodeLogic) ProxyContract() *types.ContractInfo {
	return n.proxyContract
}
