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
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-proxy-go/services/processor"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
)

var ErrMaxCallDepthExceeded = errors.New("max call depth exceeded")

func (s *service) runRootFrame(ctx context.Context, accessScope types.AccessScope, input *RunTransactionInput) (*Receipt, error) {
	logger := s.logger.WithTags(logfields.Address("target", input.Target), logfields.Selector(input.Calldata))

	executionContextId, executionContext := s.contexts.allocateExecutionContext(ctx, accessScope)
	defer s.contexts.destroyExecutionContext(executionContextId)

	root := newFrame(input.Target, input.Target, input.Caller)
	output, err := s.runFrame(executionContext, executionContextId, root, input.Calldata)
	if err != nil {
		s.metrics.revertedCount.Inc()
		logger.Info("transaction execution failed", log.Stringable("result", output.CallResult), log.Error(err))
		return &Receipt{Result: output.CallResult, ReturnData: output.ReturnData}, err
	}

	if accessScope != types.ACCESS_SCOPE_READ_WRITE {
		return &Receipt{Result: output.CallResult, ReturnData: output.ReturnData, Logs: root.logs}, nil
	}

	if err := s.commit(ctx, root); err != nil {
		logger.Error("failed committing transaction", log.Error(err))
		return &Receipt{Result: types.EXECUTION_RESULT_ERROR_UNEXPECTED, ReturnData: types.EncodeRevertReason(err.Error())}, err
	}
	return &Receipt{Result: output.CallResult, ReturnData: output.ReturnData, Logs: root.logs}, nil
}

func (s *service) deployContract(ctx context.Context, input *DeployContractInput) (*DeployContractOutput, error) {
	address := s.nextContractAddress(input.Deployer)
	logger := s.logger.WithTags(log.String("contract", input.Contract.Name), logfields.Address("address", address))

	executionContextId, executionContext := s.contexts.allocateExecutionContext(ctx, types.ACCESS_SCOPE_READ_WRITE)
	defer s.contexts.destroyExecutionContext(executionContextId)

	root := newFrame(address, address, input.Deployer)
	executionContext.push(root)
	output, err := s.processor.ProcessConstructor(ctx, &processor.ProcessConstructorInput{
		ContextId:       executionContextId,
		Contract:        input.Contract,
		ConstructorArgs: input.ConstructorArgs,
	})
	executionContext.pop()
	if err != nil {
		s.metrics.revertedCount.Inc()
		logger.Info("contract constructor failed", log.Stringable("result", output.CallResult), log.Error(err))
		return &DeployContractOutput{Receipt: &Receipt{Result: output.CallResult, ReturnData: output.ReturnData}}, err
	}

	if err := s.processor.DeployCode(address, input.Contract); err != nil {
		return &DeployContractOutput{Receipt: &Receipt{Result: types.EXECUTION_RESULT_ERROR_UNEXPECTED, ReturnData: types.EncodeRevertReason(err.Error())}}, err
	}
	if err := s.commit(ctx, root); err != nil {
		logger.Error("failed committing deployment", log.Error(err))
		return &DeployContractOutput{Receipt: &Receipt{Result: types.EXECUTION_RESULT_ERROR_UNEXPECTED, ReturnData: types.EncodeRevertReason(err.Error())}}, err
	}
	s.metrics.deployedAccounts.Inc()

	logger.Info("contract deployed")
	return &DeployContractOutput{
		Address: address,
		Receipt: &Receipt{Result: output.CallResult, ReturnData: output.ReturnData, Logs: root.logs},
	}, nil
}

// addresses follow the deployer nonce, skipping any address that already holds code
func (s *service) nextContractAddress(deployer common.Address) common.Address {
	for {
		nonce := s.nonces[deployer]
		s.nonces[deployer] = nonce + 1
		address := crypto.CreateAddress(deployer, nonce)
		if !s.processor.HasCode(address) {
			return address
		}
	}
}

// runFrame executes calldata in f, on success the writes and logs of f become part of its parent frame
func (s *service) runFrame(executionContext *executionContext, executionContextId types.Context, f *frame, calldata []byte) (*processor.ProcessCallOutput, error) {
	if len(executionContext.frames) >= MaxCallDepth {
		return &processor.ProcessCallOutput{
			ReturnData: types.EncodeRevertReason(ErrMaxCallDepthExceeded.Error()),
			CallResult: types.EXECUTION_RESULT_ERROR_SMART_CONTRACT,
		}, ErrMaxCallDepthExceeded
	}

	executionContext.push(f)
	defer executionContext.pop()

	output, err := s.processor.ProcessCall(executionContext.ctx, &processor.ProcessCallInput{
		ContextId:   executionContextId,
		CodeAddress: f.codeAddress,
		Calldata:    calldata,
		AccessScope: executionContext.accessScope,
	})
	if err != nil {
		return output, err
	}

	if parent := executionContext.parent(); parent != nil {
		f.transientState.mergeIntoTransientState(parent.transientState)
		parent.logs = append(parent.logs, f.logs...)
	}
	return output, nil
}

func (s *service) commit(ctx context.Context, root *frame) error {
	if err := s.stateStorage.CommitStateDiff(ctx, root.transientState.toStateDiff()); err != nil {
		return err
	}
	for i, l := range root.logs {
		l.Index = uint(i)
	}
	s.notifyCommittedLogs(ctx, root.logs)
	return nil
}

func (s *service) notifyCommittedLogs(ctx context.Context, logs []*ethtypes.Log) {
	if len(logs) == 0 {
		return
	}

	s.handlers.RLock()
	defer s.handlers.RUnlock()

	for _, handler := range s.handlers.committedLogsHandlers {
		handler.HandleCommittedLogs(ctx, logs)
	}
}
