// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package bootstrap

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV2"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/proxy"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/pkg/errors"
)

// VotingDeployment is a proxy running VoteV1 with VoteV2 deployed and ready to upgrade to.
type VotingDeployment struct {
	V1    common.Address
	V2    common.Address
	Proxy *proxy.Client
}

// DeployVotingProxy deploys both vote modules and a proxy on V1 that ran initialize(), deployer becomes the admin.
func DeployVotingProxy(ctx context.Context, logic NodeLogic, deployer common.Address) (*VotingDeployment, error) {
	vm := logic.VirtualMachine()

	v1, err := deployModule(ctx, vm, deployer, votev1.Contract())
	if err != nil {
		return nil, err
	}
	v2, err := deployModule(ctx, vm, deployer, votev2.Contract())
	if err != nil {
		return nil, err
	}

	initData, err := votev1.Abi.Pack("initialize")
	if err != nil {
		return nil, err
	}
	address, _, err := proxy.Deploy(ctx, vm, logic.ProxyContract(), deployer, v1, initData)
	if err != nil {
		return nil, errors.Wrap(err, "failed deploying proxy")
	}

	return &VotingDeployment{V1: v1, V2: v2, Proxy: proxy.NewClient(vm, address)}, nil
}

func deployModule(ctx context.Context, vm virtualmachine.VirtualMachine, deployer common.Address, contract *types.ContractInfo) (common.Address, error) {
	output, err := vm.DeployContract(ctx, &virtualmachine.DeployContractInput{
		Deployer: deployer,
		Contract: contract,
	})
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "failed deploying %s", contract.Name)
	}
	return output.Address, nil
}
