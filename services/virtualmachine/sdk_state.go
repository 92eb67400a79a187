// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package virtualmachine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
)

var ErrWriteInReadOnlyContext = errors.New("state write attempted in a read only context")

func (s *service) ReadSlot(executionContextId types.Context, slot common.Hash) (common.Hash, error) {
	executionContext, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return common.Hash{}, err
	}

	for i := len(executionContext.frames) - 1; i >= 0; i-- {
		if value, found := executionContext.frames[i].transientState.getValue(current.storageAddress, slot); found {
			return value, nil
		}
	}

	value, err := s.stateStorage.ReadSlot(executionContext.ctx, current.storageAddress, slot)
	if err != nil {
		return common.Hash{}, err
	}
	executionContext.frames[0].transientState.setValue(current.storageAddress, slot, value, false)
	return value, nil
}

func (s *service) WriteSlot(executionContextId types.Context, slot common.Hash, value common.Hash) error {
	executionContext, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return err
	}
	if executionContext.accessScope != types.ACCESS_SCOPE_READ_WRITE {
		return ErrWriteInReadOnlyContext
	}

	current.transientState.setValue(current.storageAddress, slot, value, true)
	return nil
}
