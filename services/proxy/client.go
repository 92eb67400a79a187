// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/virtualmachine"
	"github.com/pkg/errors"
)

// Client packs management calls for a deployed proxy and unpacks their results.
type Client struct {
	vm      virtualmachine.VirtualMachine
	address common.Address
}

func NewClient(vm virtualmachine.VirtualMachine, address common.Address) *Client {
	return &Client{vm: vm, address: address}
}

func (c *Client) Address() common.Address {
	return c.address
}

func (c *Client) Implementation(ctx context.Context) (common.Address, error) {
	return c.queryAddress(ctx, "implementation")
}

func (c *Client) CurrentAdmin(ctx context.Context) (common.Address, error) {
	return c.queryAddress(ctx, "getCurrentAdmin")
}

func (c *Client) ImplementationSlot(ctx context.Context) (common.Hash, error) {
	return c.querySlot(ctx, "getImplementationSlot")
}

func (c *Client) AdminSlot(ctx context.Context) (common.Hash, error) {
	return c.querySlot(ctx, "getAdminSlot")
}

func (c *Client) UpgradeToAndCall(ctx context.Context, caller common.Address, newImplementation common.Address, data []byte) (*virtualmachine.Receipt, error) {
	calldata, err := ProxyAbi.Pack("upgradeToAndCall", newImplementation, data)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, caller, calldata)
}

func (c *Client) ChangeAdmin(ctx context.Context, caller common.Address, newAdmin common.Address) (*virtualmachine.Receipt, error) {
	calldata, err := ProxyAbi.Pack("changeAdmin", newAdmin)
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, caller, calldata)
}

// Send runs calldata as a transaction against the proxy, anything but management calls reaches the implementation.
func (c *Client) Send(ctx context.Context, caller common.Address, calldata []byte) (*virtualmachine.Receipt, error) {
	return c.vm.RunTransaction(ctx, &virtualmachine.RunTransactionInput{
		Caller:   caller,
		Target:   c.address,
		Calldata: calldata,
	})
}

func (c *Client) Query(ctx context.Context, caller common.Address, calldata []byte) ([]byte, error) {
	receipt, err := c.vm.RunLocalMethod(ctx, &virtualmachine.RunTransactionInput{
		Caller:   caller,
		Target:   c.address,
		Calldata: calldata,
	})
	if err != nil {
		return nil, err
	}
	return receipt.ReturnData, nil
}

func (c *Client) queryManagement(ctx context.Context, method string) ([]interface{}, error) {
	calldata, err := ProxyAbi.Pack(method)
	if err != nil {
		return nil, err
	}
	returnData, err := c.Query(ctx, common.Address{}, calldata)
	if err != nil {
		return nil, err
	}
	values, err := ProxyAbi.Unpack(method, returnData)
	if err != nil {
		return nil, errors.Wrapf(err, "failed decoding result of %s", method)
	}
	if len(values) != 1 {
		return nil, errors.Errorf("%s returned %d values", method, len(values))
	}
	return values, nil
}

func (c *Client) queryAddress(ctx context.Context, method string) (common.Address, error) {
	values, err := c.queryManagement(ctx, method)
	if err != nil {
		return common.Address{}, err
	}
	return values[0].(common.Address), nil
}

func (c *Client) querySlot(ctx context.Context, method string) (common.Hash, error) {
	values, err := c.queryManagement(ctx, method)
	if err != nil {
		return common.Hash{}, err
	}
	return common.Hash(values[0].([32]byte)), nil
}
