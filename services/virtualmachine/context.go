// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package virtualmachine

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
	"sync"
)

// frame is one level of the call stack, delegated frames share storageAddress and caller with the frame that created them
type frame struct {
	codeAddress    common.Address
	storageAddress common.Address
	caller         common.Address
	transientState *transientState
	logs           []*ethtypes.Log
}

func newFrame(codeAddress common.Address, storageAddress common.Address, caller common.Address) *frame {
	return &frame{
		codeAddress:    codeAddress,
		storageAddress: storageAddress,
		caller:         caller,
		transientState: newTransientState(),
	}
}

type executionContext struct {
	ctx         context.Context
	accessScope types.AccessScope
	frames      []*frame
}

func (c *executionContext) top() *frame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}

func (c *executionContext) parent() *frame {
	if len(c.frames) < 2 {
		return nil
	}
	return c.frames[len(c.frames)-2]
}

func (c *executionContext) push(f *frame) {
	c.frames = append(c.frames, f)
}

func (c *executionContext) pop() {
	c.frames = c.frames[:len(c.frames)-1]
}

type executionContextProvider struct {
	sync.RWMutex
	lastContextId  types.Context
	activeContexts map[types.Context]*executionContext
}

func newExecutionContextProvider() *executionContextProvider {
	return &executionContextProvider{
		activeContexts: make(map[types.Context]*executionContext),
	}
}

func (cp *executionContextProvider) allocateExecutionContext(ctx context.Context, accessScope types.AccessScope) (types.Context, *executionContext) {
	cp.Lock()
	defer cp.Unlock()

	newContext := &executionContext{
		ctx:         ctx,
		accessScope: accessScope,
	}

	cp.lastContextId++
	cp.activeContexts[cp.lastContextId] = newContext
	return cp.lastContextId, newContext
}

func (cp *executionContextProvider) destroyExecutionContext(contextId types.Context) {
	cp.Lock()
	defer cp.Unlock()

	delete(cp.activeContexts, contextId)
}

func (cp *executionContextProvider) loadExecutionContext(contextId types.Context) (*executionContext, *frame, error) {
	cp.RLock()
	defer cp.RUnlock()

	executionContext, found := cp.activeContexts[contextId]
	if !found {
		return nil, nil, errors.Errorf("execution context %d is not active", contextId)
	}
	current := executionContext.top()
	if current == nil {
		return nil, nil, errors.Errorf("execution context %d has no running frame", contextId)
	}
	return executionContext, current, nil
}
