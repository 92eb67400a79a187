// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package test

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/proxy"
	"github.com/pkg/errors"
	"math/big"
)

var errInitializerRefused = errors.New("initializer refused")

var ShadowedImplementation = common.HexToAddress("0x000000000000000000000000000000000000dead")

const initializerAbi = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"implementation","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"ping","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]}
]`

var InitializerAbi = types.MustParseAbi(initializerAbi)

type failingInitializer struct {
	*types.BaseContract
}

// initialize writes into the first business slot before failing
func (c *failingInitializer) initialize(ctx types.Context) error {
	if err := c.Storage(ctx).SetUint64(votev1.INITIALIZED_SLOT, 99); err != nil {
		return err
	}
	return errInitializerRefused
}

func FailingInitializerContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   "FailingInitializer",
		Abi:    InitializerAbi,
		Layout: votev1.Layout,
		Methods: map[string]types.MethodInfo{
			"initialize": {Name: "initialize", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*failingInitializer).initialize},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &failingInitializer{BaseContract: base}
		},
	}
}

type reentrantInitializer struct {
	*types.BaseContract
}

// initialize tries to take over the proxy that is upgrading to it
func (c *reentrantInitializer) initialize(ctx types.Context) error {
	self, err := c.Address.GetOwnAddress(ctx)
	if err != nil {
		return err
	}
	calldata, err := proxy.ProxyAbi.Pack("changeAdmin", Stranger)
	if err != nil {
		return err
	}
	_, err = c.Service.CallMethod(ctx, self, calldata)
	return err
}

func ReentrantInitializerContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   "ReentrantInitializer",
		Abi:    InitializerAbi,
		Layout: votev1.Layout,
		Methods: map[string]types.MethodInfo{
			"initialize": {Name: "initialize", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*reentrantInitializer).initialize},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &reentrantInitializer{BaseContract: base}
		},
	}
}

type shadowing struct {
	*types.BaseContract
}

func (c *shadowing) implementation(ctx types.Context) (common.Address, error) {
	return ShadowedImplementation, nil
}

func (c *shadowing) ping(ctx types.Context) (*big.Int, error) {
	return big.NewInt(7), nil
}

// ShadowingContract declares a method whose selector collides with proxy management
func ShadowingContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   "Shadowing",
		Abi:    InitializerAbi,
		Layout: votev1.Layout,
		Methods: map[string]types.MethodInfo{
			"implementation": {Name: "implementation", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*shadowing).implementation},
			"ping":           {Name: "ping", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*shadowing).ping},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &shadowing{BaseContract: base}
		},
	}
}

// ReorderedVoteLayout swaps the first two fields of the vote layout
var ReorderedVoteLayout = layout.New(
	layout.Field{Name: "voters", Type: layout.FIELD_TYPE_ADDRESS_ARRAY},
	layout.Field{Name: "initialized", Type: layout.FIELD_TYPE_UINT8},
	layout.Field{Name: "voted", Type: layout.FIELD_TYPE_ADDRESS_TO_BOOL},
	layout.Field{Name: "version", Type: layout.FIELD_TYPE_UINT256},
)

func ReorderedContract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   "Reordered",
		Abi:    InitializerAbi,
		Layout: ReorderedVoteLayout,
		Methods: map[string]types.MethodInfo{
			"ping": {Name: "ping", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*shadowing).ping},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &shadowing{BaseContract: base}
		},
	}
}
