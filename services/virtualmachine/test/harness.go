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
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

var Deployer = common.HexToAddress("0x00000000000000000000000000000000000000d0")
var User = common.HexToAddress("0x00000000000000000000000000000000000000d1")

type harness struct {
	t            *testing.T
	vm           virtualmachine.VirtualMachine
	stateStorage statestorage.StateStorage
	logs         *logsCollector
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

func newHarness(t *testing.T) *harness {
	logger := log.DefaultTestingLogger(t)
	registry := metric.NewRegistry()

	stateStorage := statestorage.NewStateStorage(memory.NewStatePersistence(registry), logger, registry)
	processor := native.NewNativeProcessor(logger, registry)
	vm := virtualmachine.NewVirtualMachine(stateStorage, processor, logger, registry)

	h := &harness{t: t, vm: vm, stateStorage: stateStorage, logs: &logsCollector{}}
	vm.RegisterCommittedLogsHandler(h.logs)
	return h
}

func (h *harness) deploy(contract *types.ContractInfo) common.Address {
	output, err := h.vm.DeployContract(context.Background(), &virtualmachine.DeployContractInput{
		Deployer: Deployer,
		Contract: contract,
	})
	require.NoError(h.t, err, "deployment should succeed")
	return output.Address
}

func (h *harness) send(target common.Address, contractAbi abi.ABI, method string, args ...interface{}) (*virtualmachine.Receipt, error) {
	calldata, err := contractAbi.Pack(method, args...)
	require.NoError(h.t, err)
	return h.vm.RunTransaction(context.Background(), &virtualmachine.RunTransactionInput{
		Caller:   User,
		Target:   target,
		Calldata: calldata,
	})
}

func (h *harness) query(target common.Address, contractAbi abi.ABI, method string, args ...interface{}) []interface{} {
	calldata, err := contractAbi.Pack(method, args...)
	require.NoError(h.t, err)
	receipt, err := h.vm.RunLocalMethod(context.Background(), &virtualmachine.RunTransactionInput{
		Caller:   User,
		Target:   target,
		Calldata: calldata,
	})
	require.NoError(h.t, err, "query should succeed")

	values, err := contractAbi.Unpack(method, receipt.ReturnData)
	require.NoError(h.t, err)
	return values
}

func (h *harness) slotZero(account common.Address) int64 {
	value, err := h.stateStorage.ReadSlot(context.Background(), account, common.Hash{})
	require.NoError(h.t, err)
	return value.Big().Int64()
}

func mustPack(t *testing.T, contractAbi abi.ABI, method string, args ...interface{}) []byte {
	calldata, err := contractAbi.Pack(method, args...)
	require.NoError(t, err)
	return calldata
}
