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
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/orbs-proxy-go/services/statestorage"
	"github.com/orbs-network/scribe/log"
	"sync"
	"time"
)

var LogTag = log.Service("virtual-machine")

// MaxCallDepth bounds nested calls so recursive forwarding fails instead of exhausting the stack.
const MaxCallDepth = 1024

type RunTransactionInput struct {
	Caller   common.Address
	Target   common.Address
	Calldata []byte
}

type DeployContractInput struct {
	Deployer        common.Address
	Contract        *types.ContractInfo
	ConstructorArgs []byte
}

type Receipt struct {
	Result     types.ExecutionResult
	ReturnData []byte
	Logs       []*ethtypes.Log
}

type DeployContractOutput struct {
	Address common.Address
	Receipt *Receipt
}

type CommittedLogsHandler interface {
	HandleCommittedLogs(ctx context.Context, logs []*ethtypes.Log)
}

type VirtualMachine interface {
	RunTransaction(ctx context.Context, input *RunTransactionInput) (*Receipt, error)
	RunLocalMethod(ctx context.Context, input *RunTransactionInput) (*Receipt, error)
	DeployContract(ctx context.Context, input *DeployContractInput) (*DeployContractOutput, error)
	RegisterCommittedLogsHandler(handler CommittedLogsHandler)
}

type metrics struct {
	transactionTime  *metric.Histogram
	transactionRate  *metric.Rate
	revertedCount    *metric.Gauge
	deployedAccounts *metric.Gauge
}

func newMetrics(m metric.Factory) *metrics {
	return &metrics{
		transactionTime:  m.NewLatency("VirtualMachine.Transaction.Time.Millis", 10*time.Second),
		transactionRate:  m.NewRate("VirtualMachine.Transactions.Rate"),
		revertedCount:    m.NewGauge("VirtualMachine.Reverted.Count"),
		deployedAccounts: m.NewGauge("VirtualMachine.DeployedAccounts.Count"),
	}
}

type service struct {
	stateStorage statestorage.StateStorage
	processor    processor.Processor
	logger       log.Logger
	metrics      *metrics

	// transactions run one at a time, local methods may run concurrently with each other
	mutex sync.RWMutex

	contexts *executionContextProvider
	nonces   map[common.Address]uint64

	handlers struct {
		sync.RWMutex
		committedLogsHandlers []CommittedLogsHandler
	}
}

func NewVirtualMachine(
	stateStorage statestorage.StateStorage,
	processor processor.Processor,
	parentLogger log.Logger,
	metricFactory metric.Factory,
) VirtualMachine {

	s := &service{
		stateStorage: stateStorage,
		processor:    processor,
		logger:       parentLogger.WithTags(LogTag),
		metrics:      newMetrics(metricFactory),
		contexts:     newExecutionContextProvider(),
		nonces:       make(map[common.Address]uint64),
	}

	processor.RegisterContractSdkCallHandler(s)

	return s
}

func (s *service) RegisterCommittedLogsHandler(handler CommittedLogsHandler) {
	s.handlers.Lock()
	defer s.handlers.Unlock()

	s.handlers.committedLogsHandlers = append(s.handlers.committedLogsHandlers, handler)
}

func (s *service) RunTransaction(ctx context.Context, input *RunTransactionInput) (*Receipt, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	defer s.metrics.transactionTime.RecordSince(start)
	s.metrics.transactionRate.Measure(1)

	return s.runRootFrame(ctx, types.ACCESS_SCOPE_READ_WRITE, input)
}

// RunLocalMethod executes against committed state and never commits, any write fails the call.
func (s *service) RunLocalMethod(ctx context.Context, input *RunTransactionInput) (*Receipt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.runRootFrame(ctx, types.ACCESS_SCOPE_READ_ONLY, input)
}

func (s *service) DeployContract(ctx context.Context, input *DeployContractInput) (*DeployContractOutput, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	defer s.metrics.transactionTime.RecordSince(start)
	s.metrics.transactionRate.Measure(1)

	return s.deployContract(ctx, input)
}
