// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package types

import (
	"bytes"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

type ExecutionResult uint16

const (
	EXECUTION_RESULT_RESERVED                    ExecutionResult = 0
	EXECUTION_RESULT_SUCCESS                     ExecutionResult = 1
	EXECUTION_RESULT_ERROR_SMART_CONTRACT        ExecutionResult = 2
	EXECUTION_RESULT_ERROR_INPUT                 ExecutionResult = 3
	EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED ExecutionResult = 4
	EXECUTION_RESULT_ERROR_UNEXPECTED            ExecutionResult = 5
)

func (r ExecutionResult) String() string {
	switch r {
	case EXECUTION_RESULT_SUCCESS:
		return "EXECUTION_RESULT_SUCCESS"
	case EXECUTION_RESULT_ERROR_SMART_CONTRACT:
		return "EXECUTION_RESULT_ERROR_SMART_CONTRACT"
	case EXECUTION_RESULT_ERROR_INPUT:
		return "EXECUTION_RESULT_ERROR_INPUT"
	case EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED:
		return "EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED"
	case EXECUTION_RESULT_ERROR_UNEXPECTED:
		return "EXECUTION_RESULT_ERROR_UNEXPECTED"
	}
	return "EXECUTION_RESULT_RESERVED"
}

var ErrContractNotDeployed = errors.New("contract not deployed")

// selector of Error(string)
var revertReasonSelector = []byte{0x08, 0xc3, 0x79, 0xa0}

var revertReasonArguments = func() abi.Arguments {
	stringType, err := abi.NewType("string", "", nil)
	if err != nil {
		panic(err.Error())
	}
	return abi.Arguments{{Type: stringType}}
}()

func EncodeRevertReason(reason string) []byte {
	packed, err := revertReasonArguments.Pack(reason)
	if err != nil {
		return append(common.CopyBytes(revertReasonSelector), []byte(reason)...)
	}
	return append(common.CopyBytes(revertReasonSelector), packed...)
}

func DecodeRevertReason(data []byte) (string, bool) {
	if len(data) < 4 || !bytes.Equal(data[:4], revertReasonSelector) {
		return "", false
	}
	values, err := revertReasonArguments.Unpack(data[4:])
	if err != nil || len(values) != 1 {
		return "", false
	}
	reason, ok := values[0].(string)
	return reason, ok
}

// RevertError carries the exact failure payload a call produced so it can travel up the call stack unchanged.
type RevertError struct {
	data  []byte
	cause error
}

func NewRevertError(data []byte, cause error) *RevertError {
	return &RevertError{data: data, cause: cause}
}

func (e *RevertError) Error() string {
	return e.cause.Error()
}

func (e *RevertError) Cause() error {
	return e.cause
}

func (e *RevertError) Unwrap() error {
	return e.cause
}

func (e *RevertError) Data() []byte {
	return e.data
}

// RevertDataOf returns the payload of the innermost failed call, or encodes err as an Error(string) reason.
func RevertDataOf(err error) []byte {
	var revert *RevertError
	if errors.As(err, &revert) {
		return revert.data
	}
	return EncodeRevertReason(err.Error())
}
