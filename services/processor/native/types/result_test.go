// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package types

import (
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestRevertReasonRoundTrip(t *testing.T) {
	data := EncodeRevertReason("already voted")
	require.Equal(t, []byte{0x08, 0xc3, 0x79, 0xa0}, data[:4])

	reason, ok := DecodeRevertReason(data)
	require.True(t, ok)
	require.Equal(t, "already voted", reason)
}

func TestDecodeRevertReasonIgnoresOtherPayloads(t *testing.T) {
	_, ok := DecodeRevertReason([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	require.False(t, ok)
	_, ok = DecodeRevertReason(nil)
	require.False(t, ok)
}

func TestRevertDataOfKeepsInnermostPayload(t *testing.T) {
	cause := errors.New("inner")
	inner := NewRevertError([]byte{0xde, 0xad}, cause)
	wrapped := errors.Wrap(inner, "outer")

	require.Equal(t, []byte{0xde, 0xad}, RevertDataOf(wrapped))
	require.True(t, errors.Is(wrapped, cause))
}

func TestRevertDataOfEncodesPlainErrors(t *testing.T) {
	data := RevertDataOf(errors.New("boom"))
	reason, ok := DecodeRevertReason(data)
	require.True(t, ok)
	require.Equal(t, "boom", reason)
}
