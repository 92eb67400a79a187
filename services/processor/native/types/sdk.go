// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Context identifies the execution context a contract runs in; every sdk call is resolved against it.
type Context uint64

type AccessScope uint16

const (
	ACCESS_SCOPE_RESERVED   AccessScope = 0
	ACCESS_SCOPE_READ_ONLY  AccessScope = 1
	ACCESS_SCOPE_READ_WRITE AccessScope = 2
)

func (a AccessScope) String() string {
	switch a {
	case ACCESS_SCOPE_READ_ONLY:
		return "ACCESS_SCOPE_READ_ONLY"
	case ACCESS_SCOPE_READ_WRITE:
		return "ACCESS_SCOPE_READ_WRITE"
	}
	return "ACCESS_SCOPE_RESERVED"
}

type StateSdk interface {
	ReadSlot(ctx Context, slot common.Hash) (common.Hash, error)
	WriteSlot(ctx Context, slot common.Hash, value common.Hash) error
}

type AddressSdk interface {
	GetCallerAddress(ctx Context) (common.Address, error)
	GetOwnAddress(ctx Context) (common.Address, error)
}

type EventsSdk interface {
	EmitEvent(ctx Context, topics []common.Hash, data []byte) error
}

type ServiceSdk interface {
	CallMethod(ctx Context, target common.Address, calldata []byte) ([]byte, error)
	// DelegateCall runs the code of target against the storage, own address and caller of the current frame.
	DelegateCall(ctx Context, target common.Address, calldata []byte) ([]byte, error)
	HasCode(ctx Context, target common.Address) (bool, error)
	GetContractInfo(ctx Context, target common.Address) (*ContractInfo, error)
}

type SdkHandler interface {
	StateSdk
	AddressSdk
	EventsSdk
	ServiceSdk
}
