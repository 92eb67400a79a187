// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package virtualmachine

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage/adapter"
)

type transientRecord struct {
	value   common.Hash
	isDirty bool
}

type transientAccount map[common.Hash]*transientRecord

// transientState holds the uncommitted writes of one call frame, reads of committed state may be cached as non dirty records
type transientState struct {
	accounts         map[common.Address]transientAccount
	accountSortOrder []common.Address
}

func newTransientState() *transientState {
	return &transientState{
		accounts:         make(map[common.Address]transientAccount),
		accountSortOrder: []common.Address{},
	}
}

func (t *transientState) getValue(account common.Address, slot common.Hash) (common.Hash, bool) {
	records, found := t.accounts[account]
	if !found {
		return common.Hash{}, false
	}
	record, found := records[slot]
	if !found {
		return common.Hash{}, false
	}
	return record.value, true
}

func (t *transientState) setValue(account common.Address, slot common.Hash, value common.Hash, isDirty bool) {
	records, found := t.accounts[account]
	if !found {
		records = make(transientAccount)
		t.accounts[account] = records
		t.accountSortOrder = append(t.accountSortOrder, account)
	}
	records[slot] = &transientRecord{value: value, isDirty: isDirty}
}

func (t *transientState) forDirty(account common.Address, f func(slot common.Hash, value common.Hash)) {
	for slot, record := range t.accounts[account] {
		if record.isDirty {
			f(slot, record.value)
		}
	}
}

func (t *transientState) mergeIntoTransientState(parent *transientState) {
	for _, account := range t.accountSortOrder {
		t.forDirty(account, func(slot common.Hash, value common.Hash) {
			parent.setValue(account, slot, value, true)
		})
	}
}

func (t *transientState) toStateDiff() adapter.ChainState {
	diff := adapter.ChainState{}
	for _, account := range t.accountSortOrder {
		t.forDirty(account, func(slot common.Hash, value common.Hash) {
			diff.Set(account, slot, value)
		})
	}
	return diff
}
