// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
)

func (c *contract) emitUpgraded(ctx types.Context, implementation common.Address) error {
	event := ProxyAbi.Events["Upgraded"]
	return c.Events.EmitEvent(ctx, []common.Hash{event.ID, common.BytesToHash(implementation.Bytes())}, nil)
}

func (c *contract) emitAdminChanged(ctx types.Context, previousAdmin common.Address, newAdmin common.Address) error {
	event := ProxyAbi.Events["AdminChanged"]
	data, err := event.Inputs.Pack(previousAdmin, newAdmin)
	if err != nil {
		return err
	}
	return c.Events.EmitEvent(ctx, []common.Hash{event.ID}, data)
}

func ParseUpgraded(l *ethtypes.Log) (common.Address, bool) {
	if len(l.Topics) != 2 || l.Topics[0] != ProxyAbi.Events["Upgraded"].ID {
		return common.Address{}, false
	}
	return common.BytesToAddress(l.Topics[1].Bytes()), true
}

func ParseAdminChanged(l *ethtypes.Log) (previousAdmin common.Address, newAdmin common.Address, ok bool) {
	if len(l.Topics) != 1 || l.Topics[0] != ProxyAbi.Events["AdminChanged"].ID {
		return common.Address{}, common.Address{}, false
	}
	values, err := ProxyAbi.Events["AdminChanged"].Inputs.Unpack(l.Data)
	if err != nil || len(values) != 2 {
		return common.Address{}, common.Address{}, false
	}
	return values[0].(common.Address), values[1].(common.Address), true
}
