// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package votev1

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
	"math/big"
)

var (
	ErrAlreadyInitialized = errors.New("module is already initialized")
	ErrAlreadyVoted       = errors.New("already voted")
)

// Layout is append-only, later versions extend it and never reorder it.
var Layout = layout.New(
	layout.Field{Name: "initialized", Type: layout.FIELD_TYPE_UINT8},
	layout.Field{Name: "voters", Type: layout.FIELD_TYPE_ADDRESS_ARRAY},
	layout.Field{Name: "voted", Type: layout.FIELD_TYPE_ADDRESS_TO_BOOL},
	layout.Field{Name: "version", Type: layout.FIELD_TYPE_UINT256},
)

var (
	INITIALIZED_SLOT = Layout.MustSlotOf("initialized")
	VOTERS_SLOT      = Layout.MustSlotOf("voters")
	VOTED_SLOT       = Layout.MustSlotOf("voted")
	VERSION_SLOT     = Layout.MustSlotOf("version")
)

// Ballot is the vote state shared by every module version.
type Ballot struct {
	storage *types.Storage
}

func NewBallot(storage *types.Storage) *Ballot {
	return &Ballot{storage: storage}
}

// Initialize moves the initialized counter to version, each version may initialize once.
func (b *Ballot) Initialize(version uint64) error {
	initialized, err := b.storage.Uint64(INITIALIZED_SLOT)
	if err != nil {
		return err
	}
	if initialized >= version {
		return errors.Wrapf(ErrAlreadyInitialized, "initialized at version %d", initialized)
	}
	if err := b.storage.SetUint64(INITIALIZED_SLOT, version); err != nil {
		return err
	}
	return b.storage.SetUint64(VERSION_SLOT, version)
}

func (b *Ballot) Version() (*big.Int, error) {
	return b.storage.Uint(VERSION_SLOT)
}

func (b *Ballot) Vote(voter common.Address) error {
	voted, err := b.Voted(voter)
	if err != nil {
		return err
	}
	if voted {
		return errors.Wrapf(ErrAlreadyVoted, "voter %s", voter.Hex())
	}
	if err := b.storage.PushAddress(VOTERS_SLOT, voter); err != nil {
		return err
	}
	return b.storage.SetMappedBool(VOTED_SLOT, voter, true)
}

func (b *Ballot) Voted(voter common.Address) (bool, error) {
	return b.storage.MappedBool(VOTED_SLOT, voter)
}

func (b *Ballot) Voters() ([]common.Address, error) {
	return b.storage.Addresses(VOTERS_SLOT)
}
