// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

func (c *contract) upgradeToAndCall(ctx types.Context, newImplementation common.Address, data []byte) error {
	if err := c.requireNoUpgradeRunning(ctx); err != nil {
		return err
	}
	if _, err := c.requireAdmin(ctx); err != nil {
		return err
	}

	return c.upgradeToAndCallUnchecked(ctx, newImplementation, data)
}

// upgradeToAndCallUnchecked skips authorization, the constructor relies on it before an admin exists
func (c *contract) upgradeToAndCallUnchecked(ctx types.Context, newImplementation common.Address, data []byte) error {
	if err := c.requireValidImplementation(ctx, newImplementation); err != nil {
		return err
	}

	slots := c.slots(ctx)
	previousImplementation, err := slots.Read(IMPLEMENTATION_SLOT)
	if err != nil {
		return err
	}
	if err := slots.Write(IMPLEMENTATION_SLOT, newImplementation); err != nil {
		return err
	}

	if len(data) > 0 {
		if err := c.initialize(ctx, newImplementation, data); err != nil {
			return withCause(ErrInitializationFailed, err)
		}
	}

	if err := c.emitUpgraded(ctx, newImplementation); err != nil {
		return err
	}

	c.metrics.upgrades.Inc()
	c.logger.Info("proxy upgraded", logfields.Address("previous-implementation", previousImplementation), logfields.Address("implementation", newImplementation), log.Int("init-data-length", len(data)))
	return nil
}

func (c *contract) requireValidImplementation(ctx types.Context, newImplementation common.Address) error {
	if newImplementation == (common.Address{}) {
		return errors.Wrap(ErrInvalidImplementation, "zero address")
	}
	self, err := c.Address.GetOwnAddress(ctx)
	if err != nil {
		return err
	}
	if newImplementation == self {
		return errors.Wrap(ErrInvalidImplementation, "proxy cannot forward to itself")
	}
	hasCode, err := c.Service.HasCode(ctx, newImplementation)
	if err != nil {
		return err
	}
	if !hasCode {
		return errors.Wrapf(ErrInvalidImplementation, "no code at %s", newImplementation.Hex())
	}

	newInfo, err := c.Service.GetContractInfo(ctx, newImplementation)
	if err != nil {
		return err
	}
	c.logShadowedSelectors(newImplementation, newInfo)

	if !c.config.ProxyEnforceLayoutCompatibility() {
		return nil
	}
	return c.requireCompatibleLayout(ctx, newInfo)
}

func (c *contract) requireCompatibleLayout(ctx types.Context, newInfo *types.ContractInfo) error {
	current, err := c.slots(ctx).Read(IMPLEMENTATION_SLOT)
	if err != nil {
		return err
	}
	if current == (common.Address{}) || newInfo.Layout == nil {
		return nil
	}

	currentInfo, err := c.Service.GetContractInfo(ctx, current)
	if err != nil {
		// the current implementation is unreachable, nothing to compare against
		return nil
	}
	if currentInfo.Layout == nil {
		return nil
	}

	if err := layout.CheckAppendOnly(currentInfo.Layout, newInfo.Layout); err != nil {
		return withCause(ErrInvalidImplementation, err)
	}
	return nil
}

// methods of the implementation that collide with a management selector can never be reached through the proxy
func (c *contract) logShadowedSelectors(newImplementation common.Address, newInfo *types.ContractInfo) {
	for name, method := range newInfo.Abi.Methods {
		if shadowing, err := ProxyAbi.MethodById(method.ID); err == nil {
			c.logger.Info("implementation method is shadowed by proxy management",
				logfields.Address("implementation", newImplementation),
				log.String("method", name),
				log.String("management-method", shadowing.Name))
		}
	}
}

// initialize runs data against the new implementation under the upgrade lock so it cannot reenter proxy management
func (c *contract) initialize(ctx types.Context, newImplementation common.Address, data []byte) error {
	storage := c.Storage(ctx)
	if err := storage.SetBool(UPGRADE_LOCK_SLOT, true); err != nil {
		return err
	}
	if _, err := c.Service.DelegateCall(ctx, newImplementation, data); err != nil {
		return err
	}
	return storage.SetBool(UPGRADE_LOCK_SLOT, false)
}

func (c *contract) requireNoUpgradeRunning(ctx types.Context) error {
	locked, err := c.Storage(ctx).Bool(UPGRADE_LOCK_SLOT)
	if err != nil {
		return err
	}
	if locked {
		return ErrReentrantUpgrade
	}
	return nil
}
