// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package adapter

import (
	"bytes"
	"github.com/ethereum/go-ethereum/common"
	"sort"
	"strings"
)

// AccountState maps storage slots to their 32 byte values, a zero value means the slot is cleared.
type AccountState map[common.Hash]common.Hash
type ChainState map[common.Address]AccountState

type StatePersistence interface {
	Write(diff ChainState) error
	Read(account common.Address, slot common.Hash) (common.Hash, bool, error)
	Dump() string
}

func (c ChainState) Set(account common.Address, slot common.Hash, value common.Hash) {
	if _, ok := c[account]; !ok {
		c[account] = AccountState{}
	}
	c[account][slot] = value
}

func (c ChainState) Get(account common.Address, slot common.Hash) (common.Hash, bool) {
	value, ok := c[account][slot]
	return value, ok
}

// Merge copies every record of other into c, overriding existing ones.
func (c ChainState) Merge(other ChainState) {
	for account, records := range other {
		for slot, value := range records {
			c.Set(account, slot, value)
		}
	}
}

func (c ChainState) Len() int {
	n := 0
	for _, records := range c {
		n += len(records)
	}
	return n
}

func DumpChainState(state ChainState) string {
	output := strings.Builder{}
	output.WriteString("{")
	accounts := make([]common.Address, 0, len(state))
	for account := range state {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool { return bytes.Compare(accounts[i].Bytes(), accounts[j].Bytes()) < 0 })
	for _, account := range accounts {
		slots := make([]common.Hash, 0, len(state[account]))
		for slot := range state[account] {
			slots = append(slots, slot)
		}
		sort.Slice(slots, func(i, j int) bool { return bytes.Compare(slots[i].Bytes(), slots[j].Bytes()) < 0 })

		output.WriteString(account.Hex() + ":{")
		for _, slot := range slots {
			output.WriteString(slot.Hex())
			output.WriteString(":")
			output.WriteString(state[account][slot].Hex())
			output.WriteString(",")
		}
		output.WriteString("},")
	}
	output.WriteString("}")
	return output.String()
}
