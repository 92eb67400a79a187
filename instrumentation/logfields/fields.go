// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package logfields

import (
	"encoding/hex"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/govnr"
	"github.com/orbs-network/scribe/log"
	"runtime/debug"
)

func Address(key string, value common.Address) *log.Field {
	return log.String(key, value.Hex())
}

func Slot(value common.Hash) *log.Field {
	return log.String("slot", value.Hex())
}

// Selector logs the 4-byte method id at the head of calldata.
func Selector(calldata []byte) *log.Field {
	if len(calldata) < 4 {
		return log.String("selector", "fallback")
	}
	return log.String("selector", hex.EncodeToString(calldata[:4]))
}

func ContextId(value uint64) *log.Field {
	return log.Uint64("context-id", value)
}

type Errorer interface {
	Error(message string, fields ...*log.Field)
}

type govnrErrorer struct {
	logger Errorer
}

func (h *govnrErrorer) Error(err error) {
	h.logger.Error("recovered panic", log.Error(err), log.String("panic", "true"), log.String("stack-trace", string(debug.Stack())))
}

func GovnrErrorer(logger Errorer) govnr.Errorer {
	return &govnrErrorer{logger}
}
