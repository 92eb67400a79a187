// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package types

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"strings"
)

// Contract receiver for module code (instantiated once per processor)
type ContractInstance interface{}

// FallbackHandler is implemented by contracts that accept calldata matching none of their methods.
type FallbackHandler interface {
	Fallback(ctx Context, calldata []byte) ([]byte, error)
}

type BaseContract struct {
	State   StateSdk
	Address AddressSdk
	Events  EventsSdk
	Service ServiceSdk
}

func NewBaseContract(handler SdkHandler) *BaseContract {
	return &BaseContract{
		State:   handler,
		Address: handler,
		Events:  handler,
		Service: handler,
	}
}

func (c *BaseContract) Storage(ctx Context) *Storage {
	return &Storage{ctx: ctx, state: c.State}
}

type ContractInfo struct {
	Name          string
	Abi           abi.ABI
	Layout        *layout.PersistentLayout
	Constructor   *MethodInfo
	Methods       map[string]MethodInfo
	InitSingleton func(*BaseContract) ContractInstance
}

type MethodInfo struct {
	Name           string
	Access         AccessScope
	Implementation interface{}
}

func MustParseAbi(json string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(json))
	if err != nil {
		panic(err.Error())
	}
	return parsed
}
