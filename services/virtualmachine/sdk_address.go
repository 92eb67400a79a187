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

func (s *service) GetCallerAddress(executionContextId types.Context) (common.Address, error) {
	_, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return common.Address{}, err
	}
	return current.caller, nil
}

func (s *service) GetOwnAddress(executionContextId types.Context) (common.Address, error) {
	_, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return common.Address{}, err
	}
	return current.storageAddress, nil
}
