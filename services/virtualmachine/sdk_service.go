// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package virtualmachine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
)

func (s *service) CallMethod(executionContextId types.Context, target common.Address, calldata []byte) ([]byte, error) {
	executionContext, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return nil, err
	}

	output, err := s.runFrame(executionContext, executionContextId, newFrame(target, target, current.storageAddress), calldata)
	if err != nil {
		return nil, types.NewRevertError(output.ReturnData, err)
	}
	return output.ReturnData, nil
}

func (s *service) DelegateCall(executionContextId types.Context, target common.Address, calldata []byte) ([]byte, error) {
	executionContext, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return nil, err
	}

	output, err := s.runFrame(executionContext, executionContextId, newFrame(target, current.storageAddress, current.caller), calldata)
	if err != nil {
		return nil, types.NewRevertError(output.ReturnData, err)
	}
	return output.ReturnData, nil
}

func (s *service) HasCode(executionContextId types.Context, target common.Address) (bool, error) {
	return s.processor.HasCode(target), nil
}

func (s *service) GetContractInfo(executionContextId types.Context, target common.Address) (*types.ContractInfo, error) {
	return s.processor.GetContractInfo(target)
}
