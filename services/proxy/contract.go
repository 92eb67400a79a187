// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
)

const CONTRACT_NAME = "UpgradeableProxy"

var LogTag = log.Service("proxy")

type metrics struct {
	upgrades     *metric.Gauge
	adminChanges *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		upgrades:     m.NewGauge("Proxy.Upgrades.Count"),
		adminChanges: m.NewGauge("Proxy.AdminChanges.Count"),
	}
}

type contract struct {
	*types.BaseContract
	config  config.UpgradeControllerConfig
	logger  log.Logger
	metrics *metrics
}

func NewContract(cfg config.UpgradeControllerConfig, parentLogger log.Logger, metricFactory metric.Factory) *types.ContractInfo {
	logger := parentLogger.WithTags(LogTag)
	m := newMetrics(metricFactory)

	return &types.ContractInfo{
		Name: CONTRACT_NAME,
		Abi:  ProxyAbi,
		Constructor: &types.MethodInfo{
			Name:           "constructor",
			Access:         types.ACCESS_SCOPE_READ_WRITE,
			Implementation: (*contract).constructor,
		},
		Methods: map[string]types.MethodInfo{
			"implementation": {
				Name:           "implementation",
				Access:         types.ACCESS_SCOPE_READ_ONLY,
				Implementation: (*contract).implementation,
			},
			"getImplementationSlot": {
				Name:           "getImplementationSlot",
				Access:         types.ACCESS_SCOPE_READ_ONLY,
				Implementation: (*contract).getImplementationSlot,
			},
			"getCurrentAdmin": {
				Name:           "getCurrentAdmin",
				Access:         types.ACCESS_SCOPE_READ_ONLY,
				Implementation: (*contract).getCurrentAdmin,
			},
			"getAdminSlot": {
				Name:           "getAdminSlot",
				Access:         types.ACCESS_SCOPE_READ_ONLY,
				Implementation: (*contract).getAdminSlot,
			},
			"upgradeToAndCall": {
				Name:           "upgradeToAndCall",
				Access:         types.ACCESS_SCOPE_READ_WRITE,
				Implementation: (*contract).upgradeToAndCall,
			},
			"changeAdmin": {
				Name:           "changeAdmin",
				Access:         types.ACCESS_SCOPE_READ_WRITE,
				Implementation: (*contract).changeAdmin,
			},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &contract{
				BaseContract: base,
				config:       cfg,
				logger:       logger,
				metrics:      m,
			}
		},
	}
}

func (c *contract) slots(ctx types.Context) *ReservedSlotStore {
	return NewReservedSlotStore(c.Storage(ctx))
}

// constructor mirrors the deployment of an admin-managed proxy: point at the logic first, then hand control to the deployer
func (c *contract) constructor(ctx types.Context, logic common.Address, data []byte) error {
	if err := c.upgradeToAndCallUnchecked(ctx, logic, data); err != nil {
		return err
	}

	deployer, err := c.Address.GetCallerAddress(ctx)
	if err != nil {
		return err
	}
	return c.setAdmin(ctx, deployer)
}

func (c *contract) implementation(ctx types.Context) (common.Address, error) {
	return c.slots(ctx).Read(IMPLEMENTATION_SLOT)
}

func (c *contract) getImplementationSlot(ctx types.Context) ([32]byte, error) {
	return IMPLEMENTATION_SLOT, nil
}

func (c *contract) getCurrentAdmin(ctx types.Context) (common.Address, error) {
	return c.slots(ctx).Read(ADMIN_SLOT)
}

func (c *contract) getAdminSlot(ctx types.Context) ([32]byte, error) {
	return ADMIN_SLOT, nil
}
