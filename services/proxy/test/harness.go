// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package test

import (
	"context"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/orbs-proxy-go/config"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV2"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/proxy"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

var (
	Admin    = common.HexToAddress("0x00000000000000000000000000000000000000ad")
	Stranger = common.HexToAddress("0x00000000000000000000000000000000000000e5")
	VoterA   = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	VoterB   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

type harness struct {
	t             *testing.T
	ctx           context.Context
	vm            virtualmachine.VirtualMachine
	stateStorage  statestorage.StateStorage
	registry      metric.Registry
	logs          *logsCollector
	proxyContract *types.ContractInfo

	v1 common.Address
	v2 common.Address
}

type logsCollector struct {
	sync.Mutex
	committed []*ethtypes.Log
}

func (c *logsCollector) HandleCommittedLogs(ctx context.Context, logs []*ethtypes.Log) {
	c.Lock()
	defer c.Unlock()
	c.committed = append(c.committed, logs...)
}

func (c *logsCollector) count() int {
	c.Lock()
	defer c.Unlock()
	return len(c.committed)
}

func newHarness(t *testing.T) *harness {
	return newHarnessWithConfig(t, config.ForTests())
}

func newHarnessWithConfig(t *testing.T, cfg config.UpgradeControllerConfig) *harness {
	logger := log.DefaultTestingLogger(t)
	registry := metric.NewRegistry()

	stateStorage := statestorage.NewStateStorage(memory.NewStatePersistence(registry), logger, registry)
	processor := native.NewNativeProcessor(logger, registry)
	vm := virtualmachine.NewVirtualMachine(stateStorage, processor, logger, registry)

	h := &harness{
		t:             t,
		ctx:           context.Background(),
		vm:            vm,
		stateStorage:  stateStorage,
		registry:      registry,
		logs:          &logsCollector{},
		proxyContract: proxy.NewContract(cfg, logger, registry),
	}
	vm.RegisterCommittedLogsHandler(h.logs)

	h.v1 = h.deployModule(votev1.Contract())
	h.v2 = h.deployModule(votev2.Contract())
	return h
}

func (h *harness) deployModule(contract *types.ContractInfo) common.Address {
	output, err := h.vm.DeployContract(h.ctx, &virtualmachine.DeployContractInput{
		Deployer: Admin,
		Contract: contract,
	})
	require.NoError(h.t, err, "module deployment should succeed")
	return output.Address
}

func (h *harness) deployProxy(implementation common.Address, initData []byte) *proxy.Client {
	address, _, err := proxy.Deploy(h.ctx, h.vm, h.proxyContract, Admin, implementation, initData)
	require.NoError(h.t, err, "proxy deployment should succeed")
	return proxy.NewClient(h.vm, address)
}

// deployVotingProxy deploys a proxy on V1 that ran initialize()
func (h *harness) deployVotingProxy() *proxy.Client {
	return h.deployProxy(h.v1, mustPack(h.t, votev1.Abi, "initialize"))
}

func (h *harness) send(client *proxy.Client, caller common.Address, contractAbi abi.ABI, method string, args ...interface{}) (*virtualmachine.Receipt, error) {
	return client.Send(h.ctx, caller, mustPack(h.t, contractAbi, method, args...))
}

func (h *harness) vote(client *proxy.Client, voters ...common.Address) {
	for _, voter := range voters {
		_, err := h.send(client, voter, votev1.Abi, "vote")
		require.NoError(h.t, err, "vote should succeed")
	}
}

func (h *harness) query(client *proxy.Client, contractAbi abi.ABI, method string, args ...interface{}) interface{} {
	returnData, err := client.Query(h.ctx, Stranger, mustPack(h.t, contractAbi, method, args...))
	require.NoError(h.t, err, "query should succeed")
	values, err := contractAbi.Unpack(method, returnData)
	require.NoError(h.t, err)
	require.Len(h.t, values, 1)
	return values[0]
}

func (h *harness) voters(client *proxy.Client) []common.Address {
	return h.query(client, votev1.Abi, "voters").([]common.Address)
}

func (h *harness) voted(client *proxy.Client, voter common.Address) bool {
	return h.query(client, votev1.Abi, "voted", voter).(bool)
}

func (h *harness) implementation(client *proxy.Client) common.Address {
	implementation, err := client.Implementation(h.ctx)
	require.NoError(h.t, err)
	return implementation
}

func (h *harness) admin(client *proxy.Client) common.Address {
	admin, err := client.CurrentAdmin(h.ctx)
	require.NoError(h.t, err)
	return admin
}

func (h *harness) readSlot(account common.Address, slot common.Hash) common.Hash {
	value, err := h.stateStorage.ReadSlot(h.ctx, account, slot)
	require.NoError(h.t, err)
	return value
}

func (h *harness) gauge(name string) int64 {
	gauge, ok := h.registry.Get(name).(*metric.Gauge)
	require.True(h.t, ok, "gauge %s should be registered", name)
	return gauge.Value()
}

func mustPack(t *testing.T, contractAbi abi.ABI, method string, args ...interface{}) []byte {
	calldata, err := contractAbi.Pack(method, args...)
	require.NoError(t, err)
	return calldata
}
