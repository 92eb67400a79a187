// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
)

// Fallback forwards every non management call to the implementation with the proxy's storage and the original caller.
// Return data and failure payloads come back untouched.
func (c *contract) Fallback(ctx types.Context, calldata []byte) ([]byte, error) {
	implementation, err := c.slots(ctx).Read(IMPLEMENTATION_SLOT)
	if err != nil {
		return nil, err
	}
	if implementation == (common.Address{}) {
		return nil, ErrNoImplementation
	}

	hasCode, err := c.Service.HasCode(ctx, implementation)
	if err != nil {
		return nil, err
	}
	if !hasCode {
		return nil, errors.Wrapf(ErrUnreachableImplementation, "implementation %s", implementation.Hex())
	}

	return c.Service.DelegateCall(ctx, implementation, calldata)
}
