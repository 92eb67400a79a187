// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package processor

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
)

type ProcessCallInput struct {
	ContextId   types.Context
	CodeAddress common.Address
	Calldata    []byte
	AccessScope types.AccessScope
}

type ProcessConstructorInput struct {
	ContextId       types.Context
	Contract        *types.ContractInfo
	ConstructorArgs []byte
}

type ProcessCallOutput struct {
	ReturnData []byte
	CallResult types.ExecutionResult
}

type Processor interface {
	ProcessCall(ctx context.Context, input *ProcessCallInput) (*ProcessCallOutput, error)
	ProcessConstructor(ctx context.Context, input *ProcessConstructorInput) (*ProcessCallOutput, error)
	DeployCode(address common.Address, contract *types.ContractInfo) error
	HasCode(address common.Address) bool
	GetContractInfo(address common.Address) (*types.ContractInfo, error)
	RegisterContractSdkCallHandler(handler types.SdkHandler)
}
