// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package layout

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/orbs-network/orbs-proxy-go/crypto/hash"
	"math/big"
)

// ArrayElementSlot locates element index of a dynamic array whose length is kept at arraySlot.
func ArrayElementSlot(arraySlot common.Hash, index uint64) common.Hash {
	base := new(big.Int).SetBytes(hash.CalcKeccak256(arraySlot.Bytes()).Bytes())
	return common.BigToHash(math.U256(base.Add(base, new(big.Int).SetUint64(index))))
}

// MappingSlot locates the value stored under key in a mapping declared at mappingSlot.
func MappingSlot(key common.Hash, mappingSlot common.Hash) common.Hash {
	return hash.CalcKeccak256(key.Bytes(), mappingSlot.Bytes())
}

func AddressKey(address common.Address) common.Hash {
	return common.BytesToHash(address.Bytes())
}
