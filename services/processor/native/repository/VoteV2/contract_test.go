// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package votev2

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter/memory"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

var voterA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
var voterB = common.HexToAddress("0x00000000000000000000000000000000000000b2")
var voterC = common.HexToAddress("0x00000000000000000000000000000000000000c3")

type harness struct {
	t       *testing.T
	vm      virtualmachine.VirtualMachine
	address common.Address
}

func newHarness(t *testing.T) *harness {
	logger := log.DefaultTestingLogger(t)
	registry := metric.NewRegistry()
	stateStorage := statestorage.NewStateStorage(memory.NewStatePersistence(registry), logger, registry)
	vm := virtualmachine.NewVirtualMachine(stateStorage, native.NewNativeProcessor(logger, registry), logger, registry)

	output, err := vm.DeployContract(context.Background(), &virtualmachine.DeployContractInput{Deployer: voterA, Contract: Contract()})
	require.NoError(t, err)
	return &harness{t: t, vm: vm, address: output.Address}
}

func (h *harness) send(caller common.Address, method string, args ...interface{}) (*virtualmachine.Receipt, error) {
	calldata, err := Abi.Pack(method, args...)
	require.NoError(h.t, err)
	return h.vm.RunTransaction(context.Background(), &virtualmachine.RunTransactionInput{Caller: caller, Target: h.address, Calldata: calldata})
}

func (h *harness) query(method string, args ...interface{}) interface{} {
	calldata, err := Abi.Pack(method, args...)
	require.NoError(h.t, err)
	receipt, err := h.vm.RunLocalMethod(context.Background(), &virtualmachine.RunTransactionInput{Caller: voterA, Target: h.address, Calldata: calldata})
	require.NoError(h.t, err)
	values, err := Abi.Unpack(method, receipt.ReturnData)
	require.NoError(h.t, err)
	require.Len(h.t, values, 1)
	return values[0]
}

func (h *harness) vote(voters ...common.Address) {
	for _, voter := range voters {
		_, err := h.send(voter, "vote")
		require.NoError(h.t, err)
	}
}

func TestWithdrawVoteKeepsOrderOfRemainingVoters(t *testing.T) {
	h := newHarness(t)
	h.vote(voterA, voterB, voterC)

	receipt, err := h.send(voterA, "withdrawVote")
	require.NoError(t, err)

	require.Equal(t, []common.Address{voterB, voterC}, h.query("voters"))
	require.Equal(t, false, h.query("voted", voterA))
	require.Equal(t, true, h.query("voted", voterB))
	require.EqualValues(t, 1, h.query("withdrawals").(*big.Int).Uint64())

	require.Len(t, receipt.Logs, 1)
	require.Equal(t, Abi.Events["VoteWithdrawn"].ID, receipt.Logs[0].Topics[0])
	require.Equal(t, common.BytesToHash(voterA.Bytes()), receipt.Logs[0].Topics[1])
}

func TestWithdrawVoteClearsStaleArrayTail(t *testing.T) {
	h := newHarness(t)
	h.vote(voterA, voterB)

	_, err := h.send(voterB, "withdrawVote")
	require.NoError(t, err)
	_, err = h.send(voterA, "withdrawVote")
	require.NoError(t, err)

	require.Empty(t, h.query("voters"))
	require.EqualValues(t, 2, h.query("withdrawals").(*big.Int).Uint64())
}

func TestWithdrawWithoutVoteFails(t *testing.T) {
	h := newHarness(t)
	h.vote(voterA)

	_, err := h.send(voterB, "withdrawVote")
	require.True(t, errors.Is(err, ErrNotVoted), "expected not voted, got %v", err)
	require.Equal(t, []common.Address{voterA}, h.query("voters"))
	require.EqualValues(t, 0, h.query("withdrawals").(*big.Int).Uint64())
}

func TestVoteAgainAfterWithdrawal(t *testing.T) {
	h := newHarness(t)
	h.vote(voterA, voterB)

	_, err := h.send(voterA, "vote")
	require.True(t, errors.Is(err, votev1.ErrAlreadyVoted))

	_, err = h.send(voterA, "withdrawVote")
	require.NoError(t, err)
	h.vote(voterA)

	require.Equal(t, []common.Address{voterB, voterA}, h.query("voters"))
}

func TestInitializeV2RunsOnceAndAfterV1(t *testing.T) {
	h := newHarness(t)

	_, err := h.send(voterA, "initialize")
	require.NoError(t, err)
	_, err = h.send(voterA, "initializeV2")
	require.NoError(t, err)

	_, err = h.send(voterA, "initializeV2")
	require.True(t, errors.Is(err, votev1.ErrAlreadyInitialized))
	_, err = h.send(voterA, "initialize")
	require.True(t, errors.Is(err, votev1.ErrAlreadyInitialized), "v1 initializer must not run after v2")
}

func TestVersionIsTwo(t *testing.T) {
	h := newHarness(t)
	require.EqualValues(t, 2, h.query("version").(*big.Int).Uint64())
}

func TestLayoutExtendsV1(t *testing.T) {
	require.NoError(t, layout.CheckAppendOnly(votev1.Layout, Layout))
	require.Error(t, layout.CheckAppendOnly(Layout, votev1.Layout), "dropping the appended field is not compatible")
	require.Equal(t, common.BigToHash(big.NewInt(4)), WITHDRAWALS_SLOT)
}
