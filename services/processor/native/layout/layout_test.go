// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package layout

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

var base = New(
	Field{"initialized", FIELD_TYPE_UINT8},
	Field{"voters", FIELD_TYPE_ADDRESS_ARRAY},
	Field{"voted", FIELD_TYPE_ADDRESS_TO_BOOL},
)

func TestSlotOfIsSequentialPosition(t *testing.T) {
	require.Equal(t, common.HexToHash("0x0"), base.MustSlotOf("initialized"))
	require.Equal(t, common.HexToHash("0x1"), base.MustSlotOf("voters"))
	require.Equal(t, common.HexToHash("0x2"), base.MustSlotOf("voted"))

	_, err := base.SlotOf("missing")
	require.Error(t, err)
}

func TestExtendKeepsOriginalUntouched(t *testing.T) {
	extended := base.Extend(Field{"withdrawals", FIELD_TYPE_UINT256})

	require.Len(t, base.Fields, 3)
	require.Len(t, extended.Fields, 4)
	require.Equal(t, common.HexToHash("0x3"), extended.MustSlotOf("withdrawals"))
	require.NoError(t, CheckAppendOnly(base, extended))
}

func TestCheckAppendOnlyRejectsRemovedField(t *testing.T) {
	shorter := New(base.Fields[:2]...)

	err := CheckAppendOnly(base, shorter)
	require.True(t, errors.Is(err, ErrIncompatibleLayout), "expected incompatible layout, got %v", err)
}

func TestCheckAppendOnlyRejectsReorderedFields(t *testing.T) {
	reordered := New(base.Fields[0], base.Fields[2], base.Fields[1])

	err := CheckAppendOnly(base, reordered)
	require.True(t, errors.Is(err, ErrIncompatibleLayout), "expected incompatible layout, got %v", err)
	require.Contains(t, err.Error(), "slot 1")
}

func TestCheckAppendOnlyToleratesRename(t *testing.T) {
	renamed := New(base.Fields[0], Field{"participants", FIELD_TYPE_ADDRESS_ARRAY}, base.Fields[2])

	require.NoError(t, CheckAppendOnly(base, renamed))
}

func TestArrayElementSlotFollowsSolidityRules(t *testing.T) {
	require.Equal(t, "0x290decd9548b62a8d60345a988386fc84ba6bc95484008f6362f93160ef3e563", ArrayElementSlot(common.HexToHash("0x0"), 0).Hex())
	require.Equal(t, "0xb10e2d527612073b26eecdfd717e6a320cf44b4afac2b0732d9fcbe2b7fa0cf6", ArrayElementSlot(common.HexToHash("0x1"), 0).Hex())
	require.Equal(t, "0xb10e2d527612073b26eecdfd717e6a320cf44b4afac2b0732d9fcbe2b7fa0cf7", ArrayElementSlot(common.HexToHash("0x1"), 1).Hex())
}

func TestMappingSlotHashesPaddedKeyThenSlot(t *testing.T) {
	voter := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	slot := base.MustSlotOf("voted")

	expected := crypto.Keccak256Hash(common.LeftPadBytes(voter.Bytes(), 32), common.LeftPadBytes([]byte{0x02}, 32))
	require.Equal(t, expected, MappingSlot(AddressKey(voter), slot))
}
