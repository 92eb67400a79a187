// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package native

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/logfields"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"sync"
	"time"
)

var LogTag = log.Service("processor-native")

type service struct {
	logger     log.Logger
	sdkHandler types.SdkHandler

	code struct {
		sync.RWMutex
		deployed  map[common.Address]*types.ContractInfo
		instances map[string]types.ContractInstance
	}

	metrics *metrics
}

type metrics struct {
	processCallTime   *metric.Histogram
	deployedContracts *metric.Gauge
}

func getMetrics(m metric.Factory) *metrics {
	return &metrics{
		processCallTime:   m.NewLatency("Processor.Native.ProcessCallTime.Millis", 10*time.Second),
		deployedContracts: m.NewGauge("Processor.Native.DeployedContracts.Count"),
	}
}

func NewNativeProcessor(parentLogger log.Logger, metricFactory metric.Factory) processor.Processor {
	s := &service{
		logger:  parentLogger.WithTags(LogTag),
		metrics: getMetrics(metricFactory),
	}
	s.code.deployed = make(map[common.Address]*types.ContractInfo)
	s.code.instances = make(map[string]types.ContractInstance)
	return s
}

// runs once on system initialization (called by the virtual machine constructor)
func (s *service) RegisterContractSdkCallHandler(handler types.SdkHandler) {
	s.sdkHandler = handler
}

func (s *service) DeployCode(address common.Address, contract *types.ContractInfo) error {
	if contract == nil {
		return errors.New("cannot deploy nil contract")
	}
	if address == (common.Address{}) {
		return errors.New("cannot deploy code at the zero address")
	}

	s.code.Lock()
	defer s.code.Unlock()

	if existing, found := s.code.deployed[address]; found {
		return errors.Errorf("address %s already holds contract %s", address.Hex(), existing.Name)
	}
	s.code.deployed[address] = contract
	s.metrics.deployedContracts.Inc()

	s.logger.Info("deployed contract code", log.String("contract", contract.Name), logfields.Address("address", address))
	return nil
}

func (s *service) HasCode(address common.Address) bool {
	s.code.RLock()
	defer s.code.RUnlock()

	_, found := s.code.deployed[address]
	return found
}

func (s *service) GetContractInfo(address common.Address) (*types.ContractInfo, error) {
	s.code.RLock()
	defer s.code.RUnlock()

	contract, found := s.code.deployed[address]
	if !found {
		return nil, errors.Wrapf(types.ErrContractNotDeployed, "no code at %s", address.Hex())
	}
	return contract, nil
}

func (s *service) ProcessCall(ctx context.Context, input *processor.ProcessCallInput) (*processor.ProcessCallOutput, error) {
	logger := s.logger.WithTags(logfields.ContextId(uint64(input.ContextId)))

	// retrieve code
	contractInfo, err := s.GetContractInfo(input.CodeAddress)
	if err != nil {
		return &processor.ProcessCallOutput{
			ReturnData: types.EncodeRevertReason(err.Error()),
			CallResult: types.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED,
		}, err
	}
	contractInstance := s.getContractInstance(contractInfo)

	start := time.Now()
	defer s.metrics.processCallTime.RecordSince(start)

	// find the method by selector or fall back
	call, err := s.resolveCall(contractInfo, contractInstance, input.Calldata, input.AccessScope)
	if err != nil {
		logger.Info("call rejected", log.String("contract", contractInfo.Name), logfields.Selector(input.Calldata), log.Error(err))
		return &processor.ProcessCallOutput{
			ReturnData: types.EncodeRevertReason(err.Error()),
			CallResult: types.EXECUTION_RESULT_ERROR_INPUT,
		}, err
	}

	logger.Info("processor executing contract", log.String("contract", contractInfo.Name), log.String("method", call.name))

	returnData, contractErr, err := s.processMethodCall(input.ContextId, call)
	if err != nil {
		logger.Info("contract execution failed", log.String("contract", contractInfo.Name), log.String("method", call.name), log.Error(err))
		return &processor.ProcessCallOutput{
			ReturnData: types.EncodeRevertReason(err.Error()),
			CallResult: types.EXECUTION_RESULT_ERROR_INPUT,
		}, err
	}

	if contractErr != nil {
		logger.Info("contract returned error", log.String("contract", contractInfo.Name), log.String("method", call.name), log.Error(contractErr))
		return &processor.ProcessCallOutput{
			ReturnData: types.RevertDataOf(contractErr),
			CallResult: types.EXECUTION_RESULT_ERROR_SMART_CONTRACT,
		}, contractErr
	}

	return &processor.ProcessCallOutput{
		ReturnData: returnData,
		CallResult: types.EXECUTION_RESULT_SUCCESS,
	}, nil
}

func (s *service) ProcessConstructor(ctx context.Context, input *processor.ProcessConstructorInput) (*processor.ProcessCallOutput, error) {
	contractInfo := input.Contract
	if contractInfo.Constructor == nil {
		if len(input.ConstructorArgs) > 0 {
			err := errors.Errorf("contract %s has no constructor but received arguments", contractInfo.Name)
			return &processor.ProcessCallOutput{ReturnData: types.EncodeRevertReason(err.Error()), CallResult: types.EXECUTION_RESULT_ERROR_INPUT}, err
		}
		return &processor.ProcessCallOutput{CallResult: types.EXECUTION_RESULT_SUCCESS}, nil
	}

	call := &methodCall{
		name:           contractInfo.Name + ".constructor",
		instance:       s.getContractInstance(contractInfo),
		implementation: contractInfo.Constructor.Implementation,
		inputs:         contractInfo.Abi.Constructor.Inputs,
		args:           input.ConstructorArgs,
	}

	_, contractErr, err := s.processMethodCall(input.ContextId, call)
	if err != nil {
		return &processor.ProcessCallOutput{ReturnData: types.EncodeRevertReason(err.Error()), CallResult: types.EXECUTION_RESULT_ERROR_INPUT}, err
	}
	if contractErr != nil {
		s.logger.Info("constructor returned error", log.String("contract", contractInfo.Name), log.Error(contractErr))
		return &processor.ProcessCallOutput{ReturnData: types.RevertDataOf(contractErr), CallResult: types.EXECUTION_RESULT_ERROR_SMART_CONTRACT}, contractErr
	}
	return &processor.ProcessCallOutput{CallResult: types.EXECUTION_RESULT_SUCCESS}, nil
}

// instances are shared by every address running the same code, all state goes through the sdk
func (s *service) getContractInstance(contractInfo *types.ContractInfo) types.ContractInstance {
	s.code.Lock()
	defer s.code.Unlock()

	if instance, found := s.code.instances[contractInfo.Name]; found {
		return instance
	}
	instance := contractInfo.InitSingleton(types.NewBaseContract(s.sdkHandler))
	s.code.instances[contractInfo.Name] = instance
	return instance
}
