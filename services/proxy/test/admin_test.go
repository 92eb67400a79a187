// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/proxy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSlotGettersReturnDerivedSlots(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()

	implementationSlot, err := client.ImplementationSlot(h.ctx)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0x360894a13ba1a3210667c828492db98dca3e2076cc3735a920a3ca505d382bbc"), implementationSlot)
	require.Equal(t, proxy.SlotFor("eip1967.proxy.implementation"), implementationSlot)

	adminSlot, err := client.AdminSlot(h.ctx)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xb53127684a568b3173ae13b9f8a6016e243e63b6e8ee1178d6a717850b5d6103"), adminSlot)

	require.Equal(t, common.BytesToHash(h.v1.Bytes()), h.readSlot(client.Address(), implementationSlot), "implementation should be stored at its reserved slot")
	require.Equal(t, common.BytesToHash(Admin.Bytes()), h.readSlot(client.Address(), adminSlot), "admin should be stored at its reserved slot")
}

func TestDeployPointsAtImplementationAndMakesDeployerAdmin(t *testing.T) {
	h := newHarness(t)

	address, receipt, err := proxy.Deploy(h.ctx, h.vm, h.proxyContract, Admin, h.v1, mustPack(t, votev1.Abi, "initialize"))
	require.NoError(t, err)
	client := proxy.NewClient(h.vm, address)

	require.Equal(t, h.v1, h.implementation(client))
	require.Equal(t, Admin, h.admin(client))

	require.Len(t, receipt.Logs, 2, "deployment should announce the implementation and the admin")
	implementation, ok := proxy.ParseUpgraded(receipt.Logs[0])
	require.True(t, ok)
	require.Equal(t, h.v1, implementation)

	previousAdmin, newAdmin, ok := proxy.ParseAdminChanged(receipt.Logs[1])
	require.True(t, ok)
	require.Equal(t, common.Address{}, previousAdmin)
	require.Equal(t, Admin, newAdmin)
}

func TestDeployWithInvalidImplementationFails(t *testing.T) {
	h := newHarness(t)

	_, _, err := proxy.Deploy(h.ctx, h.vm, h.proxyContract, Admin, Stranger, nil)
	require.True(t, errors.Is(err, proxy.ErrInvalidImplementation), "expected invalid implementation, got %v", err)
}

func TestAdminCanHandOverControl(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()

	receipt, err := client.ChangeAdmin(h.ctx, Admin, VoterA)
	require.NoError(t, err)
	require.Equal(t, VoterA, h.admin(client))

	require.Len(t, receipt.Logs, 1)
	previousAdmin, newAdmin, ok := proxy.ParseAdminChanged(receipt.Logs[0])
	require.True(t, ok)
	require.Equal(t, Admin, previousAdmin)
	require.Equal(t, VoterA, newAdmin)

	_, err = client.UpgradeToAndCall(h.ctx, Admin, h.v2, nil)
	require.True(t, errors.Is(err, proxy.ErrUnauthorized), "previous admin should lose control, got %v", err)

	_, err = client.UpgradeToAndCall(h.ctx, VoterA, h.v2, nil)
	require.NoError(t, err, "new admin should be able to upgrade")
	require.Equal(t, h.v2, h.implementation(client))
}

func TestNonAdminCannotChangeAdmin(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()
	stateBefore := h.stateStorage.Dump()

	_, err := client.ChangeAdmin(h.ctx, Stranger, Stranger)
	require.True(t, errors.Is(err, proxy.ErrUnauthorized), "expected unauthorized, got %v", err)

	require.Equal(t, Admin, h.admin(client))
	require.Equal(t, stateBefore, h.stateStorage.Dump())
}

func TestChangeAdminToZeroAddressFails(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()

	_, err := client.ChangeAdmin(h.ctx, Admin, common.Address{})
	require.True(t, errors.Is(err, proxy.ErrInvalidAdmin), "expected invalid admin, got %v", err)
	require.Equal(t, Admin, h.admin(client))
}

func TestAdminCanUseBusinessSurface(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()

	_, err := h.send(client, Admin, votev1.Abi, "vote")
	require.NoError(t, err, "the admin may still use the business surface")
	require.Equal(t, []common.Address{Admin}, h.voters(client))
}

func TestDirectModuleCallsUseModuleStorage(t *testing.T) {
	h := newHarness(t)
	client := h.deployVotingProxy()
	direct := proxy.NewClient(h.vm, h.v1)

	h.vote(direct, VoterA)

	require.Equal(t, []common.Address{VoterA}, h.voters(direct))
	require.Empty(t, h.voters(client), "votes cast on the module itself should not reach the proxy")
	require.False(t, h.voted(client, VoterA))
}
