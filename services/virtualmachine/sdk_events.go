// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package virtualmachine

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
)

// events are attributed to the storage address, so events of a delegated frame belong to the proxy
func (s *service) EmitEvent(executionContextId types.Context, topics []common.Hash, data []byte) error {
	executionContext, current, err := s.contexts.loadExecutionContext(executionContextId)
	if err != nil {
		return err
	}
	if executionContext.accessScope != types.ACCESS_SCOPE_READ_WRITE {
		return errors.New("event emitted in a read only context")
	}

	current.logs = append(current.logs, &ethtypes.Log{
		Address: current.storageAddress,
		Topics:  append([]common.Hash{}, topics...),
		Data:    common.CopyBytes(data),
	})
	return nil
}
