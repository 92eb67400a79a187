// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

func (c *contract) requireAdmin(ctx types.Context) (common.Address, error) {
	caller, err := c.Address.GetCallerAddress(ctx)
	if err != nil {
		return common.Address{}, err
	}
	admin, err := c.slots(ctx).Read(ADMIN_SLOT)
	if err != nil {
		return common.Address{}, err
	}
	if caller != admin {
		return common.Address{}, errors.Wrapf(ErrUnauthorized, "caller %s", caller.Hex())
	}
	return caller, nil
}

func (c *contract) changeAdmin(ctx types.Context, newAdmin common.Address) error {
	if err := c.requireNoUpgradeRunning(ctx); err != nil {
		return err
	}
	if _, err := c.requireAdmin(ctx); err != nil {
		return err
	}
	if newAdmin == (common.Address{}) {
		return ErrInvalidAdmin
	}

	return c.setAdmin(ctx, newAdmin)
}

func (c *contract) setAdmin(ctx types.Context, newAdmin common.Address) error {
	slots := c.slots(ctx)
	previousAdmin, err := slots.Read(ADMIN_SLOT)
	if err != nil {
		return err
	}
	if err := slots.Write(ADMIN_SLOT, newAdmin); err != nil {
		return err
	}
	if err := c.emitAdminChanged(ctx, previousAdmin, newAdmin); err != nil {
		return err
	}

	c.metrics.adminChanges.Inc()
	c.logger.Info("proxy admin changed", logfields.Address("previous-admin", previousAdmin), logfields.Address("new-admin", newAdmin), log.Uint64("context-id", uint64(ctx)))
	return nil
}
