// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package votev1

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"math/big"
)

// helpers for avoiding reliance on strings throughout the system
const CONTRACT_NAME = "VoteV1"
const VERSION = 1

const AbiJson = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"version","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"voters","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
	{"type":"function","name":"voted","stateMutability":"view","inputs":[{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"Voted","anonymous":false,"inputs":[{"name":"voter","type":"address","indexed":true}]}
]`

var Abi = types.MustParseAbi(AbiJson)

func Contract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   CONTRACT_NAME,
		Abi:    Abi,
		Layout: Layout,
		Methods: map[string]types.MethodInfo{
			"initialize": {Name: "initialize", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).initialize},
			"version":    {Name: "version", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).version},
			"vote":       {Name: "vote", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).vote},
			"voters":     {Name: "voters", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).voters},
			"voted":      {Name: "voted", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).voted},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &contract{BaseContract: base}
		},
	}
}

type contract struct {
	*types.BaseContract
}

func (c *contract) ballot(ctx types.Context) *Ballot {
	return NewBallot(c.Storage(ctx))
}

func (c *contract) initialize(ctx types.Context) error {
	return c.ballot(ctx).Initialize(VERSION)
}

// version reports the code version, the stored version field records the last initializer run.
func (c *contract) version(ctx types.Context) (*big.Int, error) {
	return big.NewInt(VERSION), nil
}

func (c *contract) vote(ctx types.Context) error {
	voter, err := c.Address.GetCallerAddress(ctx)
	if err != nil {
		return err
	}
	if err := c.ballot(ctx).Vote(voter); err != nil {
		return err
	}
	return EmitVoted(ctx, c.Events, voter)
}

func (c *contract) voters(ctx types.Context) ([]common.Address, error) {
	return c.ballot(ctx).Voters()
}

func (c *contract) voted(ctx types.Context, voter common.Address) (bool, error) {
	return c.ballot(ctx).Voted(voter)
}

func EmitVoted(ctx types.Context, events types.EventsSdk, voter common.Address) error {
	return events.EmitEvent(ctx, []common.Hash{Abi.Events["Voted"].ID, common.BytesToHash(voter.Bytes())}, nil)
}
