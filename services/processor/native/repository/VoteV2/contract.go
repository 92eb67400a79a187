// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package votev2

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/repository/VoteV1"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
	"math/big"
)

// helpers for avoiding reliance on strings throughout the system
const CONTRACT_NAME = "VoteV2"
const VERSION = 2

var ErrNotVoted = errors.New("has not voted")

var Layout = votev1.Layout.Extend(
	layout.Field{Name: "withdrawals", Type: layout.FIELD_TYPE_UINT256},
)

var WITHDRAWALS_SLOT = Layout.MustSlotOf("withdrawals")

const AbiJson = `[
	{"type":"function","name":"initialize","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"initializeV2","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"version","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"vote","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"withdrawVote","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"voters","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
	{"type":"function","name":"voted","stateMutability":"view","inputs":[{"name":"voter","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"withdrawals","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"event","name":"Voted","anonymous":false,"inputs":[{"name":"voter","type":"address","indexed":true}]},
	{"type":"event","name":"VoteWithdrawn","anonymous":false,"inputs":[{"name":"voter","type":"address","indexed":true}]}
]`

var Abi = types.MustParseAbi(AbiJson)

func Contract() *types.ContractInfo {
	return &types.ContractInfo{
		Name:   CONTRACT_NAME,
		Abi:    Abi,
		Layout: Layout,
		Methods: map[string]types.MethodInfo{
			"initialize":   {Name: "initialize", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).initialize},
			"initializeV2": {Name: "initializeV2", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).initializeV2},
			"version":      {Name: "version", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).version},
			"vote":         {Name: "vote", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).vote},
			"withdrawVote": {Name: "withdrawVote", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*contract).withdrawVote},
			"voters":       {Name: "voters", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).voters},
			"voted":        {Name: "voted", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).voted},
			"withdrawals":  {Name: "withdrawals", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*contract).withdrawals},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			return &contract{BaseContract: base}
		},
	}
}

type contract struct {
	*types.BaseContract
}

func (c *contract) ballot(ctx types.Context) *votev1.Ballot {
	return votev1.NewBallot(c.Storage(ctx))
}

// initialize covers proxies that start directly on this version
func (c *contract) initialize(ctx types.Context) error {
	return c.ballot(ctx).Initialize(votev1.VERSION)
}

func (c *contract) initializeV2(ctx types.Context) error {
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
	return votev1.EmitVoted(ctx, c.Events, voter)
}

func (c *contract) withdrawVote(ctx types.Context) error {
	voter, err := c.Address.GetCallerAddress(ctx)
	if err != nil {
		return err
	}

	storage := c.Storage(ctx)
	voted, err := storage.MappedBool(votev1.VOTED_SLOT, voter)
	if err != nil {
		return err
	}
	if !voted {
		return errors.Wrapf(ErrNotVoted, "voter %s", voter.Hex())
	}

	voters, err := storage.Addresses(votev1.VOTERS_SLOT)
	if err != nil {
		return err
	}
	for i, v := range voters {
		if v == voter {
			if err := storage.RemoveAddressAt(votev1.VOTERS_SLOT, uint64(i)); err != nil {
				return err
			}
			break
		}
	}
	if err := storage.SetMappedBool(votev1.VOTED_SLOT, voter, false); err != nil {
		return err
	}

	withdrawals, err := storage.Uint(WITHDRAWALS_SLOT)
	if err != nil {
		return err
	}
	if err := storage.SetUint(WITHDRAWALS_SLOT, withdrawals.Add(withdrawals, big.NewInt(1))); err != nil {
		return err
	}

	return c.Events.EmitEvent(ctx, []common.Hash{Abi.Events["VoteWithdrawn"].ID, common.BytesToHash(voter.Bytes())}, nil)
}

func (c *contract) voters(ctx types.Context) ([]common.Address, error) {
	return c.ballot(ctx).Voters()
}

func (c *contract) voted(ctx types.Context, voter common.Address) (bool, error) {
	return c.ballot(ctx).Voted(voter)
}

func (c *contract) withdrawals(ctx types.Context) (*big.Int, error) {
	return c.Storage(ctx).Uint(WITHDRAWALS_SLOT)
}
