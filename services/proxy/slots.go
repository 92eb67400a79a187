// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package proxy

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/orbs-network/orbs-proxy-go/crypto/hash"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"math/big"
)

const (
	IMPLEMENTATION_SLOT_NAMESPACE = "eip1967.proxy.implementation"
	ADMIN_SLOT_NAMESPACE          = "eip1967.proxy.admin"
	UPGRADE_LOCK_SLOT_NAMESPACE   = "orbs.proxy.upgrade.lock"
)

var (
	IMPLEMENTATION_SLOT = SlotFor(IMPLEMENTATION_SLOT_NAMESPACE)
	ADMIN_SLOT          = SlotFor(ADMIN_SLOT_NAMESPACE)
	UPGRADE_LOCK_SLOT   = SlotFor(UPGRADE_LOCK_SLOT_NAMESPACE)
)

// SlotFor derives keccak256(namespace) - 1 modulo 2^256, a location no sequential layout or keccak derived slot is expected to reach.
func SlotFor(namespace string) common.Hash {
	digest := new(big.Int).SetBytes(hash.CalcKeccak256([]byte(namespace)).Bytes())
	return common.BigToHash(math.U256(digest.Sub(digest, big.NewInt(1))))
}

// ReservedSlotStore reads and writes addresses at reserved slots of the proxy, values are not validated.
type ReservedSlotStore struct {
	storage *types.Storage
}

func NewReservedSlotStore(storage *types.Storage) *ReservedSlotStore {
	return &ReservedSlotStore{storage: storage}
}

func (s *ReservedSlotStore) Read(slot common.Hash) (common.Address, error) {
	return s.storage.Address(slot)
}

func (s *ReservedSlotStore) Write(slot common.Hash, value common.Address) error {
	return s.storage.SetAddress(slot, value)
}
