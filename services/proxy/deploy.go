// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/pkg/errors"
)

// Deploy creates a proxy pointing at implementation, runs initData against it and makes deployer the admin.
func Deploy(ctx context.Context, vm virtualmachine.VirtualMachine, proxyContract *types.ContractInfo, deployer common.Address, implementation common.Address, initData []byte) (common.Address, *virtualmachine.Receipt, error) {
	args, err := ProxyAbi.Pack("", implementation, initData)
	if err != nil {
		return common.Address{}, nil, errors.Wrap(err, "failed encoding proxy constructor args")
	}

	output, err := vm.DeployContract(ctx, &virtualmachine.DeployContractInput{
		Deployer:        deployer,
		Contract:        proxyContract,
		ConstructorArgs: args,
	})
	if err != nil {
		return common.Address{}, output.Receipt, err
	}
	return output.Address, output.Receipt, nil
}
