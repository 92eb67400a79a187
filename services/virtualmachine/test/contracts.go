// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
	"math/big"
)

var errExampleFailure = errors.New("example failure after write")

const storerAbi = `[
	{"type":"function","name":"set","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"setThenFail","stateMutability":"nonpayable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"get","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"whoami","stateMutability":"view","inputs":[],"outputs":[{"name":"caller","type":"address"},{"name":"self","type":"address"}]},
	{"type":"event","name":"ValueSet","anonymous":false,"inputs":[{"name":"value","type":"uint256","indexed":false}]}
]`

var StorerAbi = types.MustParseAbi(storerAbi)

type storer struct {
	*types.BaseContract
}

func (c *storer) set(ctx types.Context, value *big.Int) error {
	if err := c.Storage(ctx).SetUint(common.Hash{}, value); err != nil {
		return err
	}
	data, err := StorerAbi.Events["ValueSet"].Inputs.Pack(value)
	if err != nil {
		return err
	}
	return c.Events.EmitEvent(ctx, []common.Hash{StorerAbi.Events["ValueSet"].ID}, data)
}

func (c *storer) setThenFail(ctx types.Context, value *big.Int) error {
	if err := c.set(ctx, value); err != nil {
		return err
	}
	return errExampleFailure
}

func (c *storer) get(ctx types.Context) (*big.Int, error) {
	return c.Storage(ctx).Uint(common.Hash{})
}

func (c *storer) whoami(ctx types.Context) (common.Address, common.Address, error) {
	caller, err := c.Address.GetCallerAddress(ctx)
	if err != nil {
		return common.Address{}, common.Address{}, err
	}
	self, err := c.Address.GetOwnAddress(ctx)
	return caller, self, err
}

func StorerContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name: "Storer",
		Abi:  StorerAbi,
		Methods: map[string]types.MethodInfo{
			"set":         {Name: "set", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*storer).set},
			"setThenFail": {Name: "setThenFail", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*storer).setThenFail},
			"get":         {Name: "get", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*storer).get},
			"whoami":      {Name: "whoami", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*storer).whoami},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &storer{BaseContract: base}
		},
	}
}

const relayAbi = `[
	{"type":"function","name":"delegate","stateMutability":"nonpayable","inputs":[{"name":"target","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bytes"}]},
	{"type":"function","name":"call","stateMutability":"nonpayable","inputs":[{"name":"target","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bytes"}]},
	{"type":"function","name":"tryDelegate","stateMutability":"nonpayable","inputs":[{"name":"target","type":"address"},{"name":"data","type":"bytes"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"recurse","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

var RelayAbi = types.MustParseAbi(relayAbi)

// relay forwards calls to other contracts, it shares the storer's layout so delegated writes can be read back through it
type relay struct {
	*types.BaseContract
}

func (c *relay) delegate(ctx types.Context, target common.Address, data []byte) ([]byte, error) {
	return c.Service.DelegateCall(ctx, target, data)
}

func (c *relay) call(ctx types.Context, target common.Address, data []byte) ([]byte, error) {
	return c.Service.CallMethod(ctx, target, data)
}

func (c *relay) tryDelegate(ctx types.Context, target common.Address, data []byte) (bool, error) {
	_, err := c.Service.DelegateCall(ctx, target, data)
	return err == nil, nil
}

func (c *relay) recurse(ctx types.Context) error {
	self, err := c.Address.GetOwnAddress(ctx)
	if err != nil {
		return err
	}
	calldata, err := RelayAbi.Pack("recurse")
	if err != nil {
		return err
	}
	_, err = c.Service.CallMethod(ctx, self, calldata)
	return err
}

func RelayContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name: "Relay",
		Abi:  RelayAbi,
		Methods: map[string]types.MethodInfo{
			"delegate":    {Name: "delegate", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*relay).delegate},
			"call":        {Name: "call", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*relay).call},
			"tryDelegate": {Name: "tryDelegate", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*relay).tryDelegate},
			"recurse":     {Name: "recurse", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*relay).recurse},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &relay{BaseContract: base}
		},
	}
}
