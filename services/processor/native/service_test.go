// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package native

import (
	"context"
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/instrumentation/metric"
	"github.com/orbs-network/orbs-proxy-go/services/processor"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/orbs-network/scribe/log"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"math/big"
	"testing"
)

const echoAbi = `[
	{"type":"constructor","inputs":[{"name":"seed","type":"uint256"}]},
	{"type":"function","name":"echo","stateMutability":"pure","inputs":[{"name":"a","type":"address"},{"name":"n","type":"uint256"}],"outputs":[{"name":"","type":"address"},{"name":"","type":"uint256"}]},
	{"type":"function","name":"store","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"fail","stateMutability":"pure","inputs":[],"outputs":[]},
	{"type":"function","name":"explode","stateMutability":"pure","inputs":[],"outputs":[]}
]`

var errEchoFailure = errors.New("example error returned by contract")

type echoContract struct {
	*types.BaseContract
	seed *big.Int
}

func (c *echoContract) constructor(ctx types.Context, seed *big.Int) error {
	c.seed = seed
	return nil
}

func (c *echoContract) echo(ctx types.Context, a common.Address, n *big.Int) (common.Address, *big.Int, error) {
	return a, n, nil
}

func (c *echoContract) store(ctx types.Context) error {
	return nil
}

func (c *echoContract) fail(ctx types.Context) error {
	return errEchoFailure
}

func (c *echoContract) explode(ctx types.Context) error {
	panic("example panic thrown by contract")
}

type fallbackContract struct {
	echoContract
}

func (c *fallbackContract) Fallback(ctx types.Context, calldata []byte) ([]byte, error) {
	return append([]byte{0xff}, calldata...), nil
}

func echoContractInfo(name string, withFallback bool) *types.ContractInfo {
	return &types.ContractInfo{
		Name: name,
		Abi:  types.MustParseAbi(echoAbi),
		Constructor: &types.MethodInfo{
			Name:           "constructor",
			Access:         types.ACCESS_SCOPE_READ_WRITE,
			Implementation: (*echoContract).constructor,
		},
		Methods: map[string]types.MethodInfo{
			"echo":    {Name: "echo", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*echoContract).echo},
			"store":   {Name: "store", Access: types.ACCESS_SCOPE_READ_WRITE, Implementation: (*echoContract).store},
			"fail":    {Name: "fail", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*echoContract).fail},
			"explode": {Name: "explode", Access: types.ACCESS_SCOPE_READ_ONLY, Implementation: (*echoContract).explode},
		},
		InitSingleton: func(base *types.BaseContract) types.ContractInstance {
			if withFallback {
				return &fallbackContract{echoContract{BaseContract: base}}
			}
			return &echoContract{BaseContract: base}
		},
	}
}

var echoAddress = common.HexToAddress("0x00000000000000000000000000000000000000e1")

func newProcessorWithEcho(t *testing.T, withFallback bool) *service {
	s := NewNativeProcessor(log.DefaultTestingLogger(t), metric.NewRegistry()).(*service)
	require.NoError(t, s.DeployCode(echoAddress, echoContractInfo("Echo", withFallback)))
	return s
}

func callInput(calldata []byte, scope types.AccessScope) *processor.ProcessCallInput {
	return &processor.ProcessCallInput{
		ContextId:   7,
		CodeAddress: echoAddress,
		Calldata:    calldata,
		AccessScope: scope,
	}
}

func TestProcessCall_DispatchesBySelectorAndPacksOutputs(t *testing.T) {
	s := newProcessorWithEcho(t, false)
	parsed := types.MustParseAbi(echoAbi)
	addr := common.HexToAddress("0x1234")

	calldata, err := parsed.Pack("echo", addr, big.NewInt(99))
	require.NoError(t, err)

	output, err := s.ProcessCall(context.Background(), callInput(calldata, types.ACCESS_SCOPE_READ_ONLY))
	require.NoError(t, err)
	require.Equal(t, types.EXECUTION_RESULT_SUCCESS, output.CallResult)

	values, err := parsed.Unpack("echo", output.ReturnData)
	require.NoError(t, err)
	require.Equal(t, addr, values[0])
	require.Zero(t, big.NewInt(99).Cmp(values[1].(*big.Int)))
}

func TestProcessCall_Errors(t *testing.T) {
	parsed := types.MustParseAbi(echoAbi)
	mustPack := func(name string) []byte {
		packed, err := parsed.Pack(name)
		require.NoError(t, err)
		return packed
	}

	tests := []struct {
		name           string
		calldata       []byte
		scope          types.AccessScope
		expectedResult types.ExecutionResult
		expectedReason string
	}{
		{
			name:           "ThatReturnsError",
			calldata:       mustPack("fail"),
			scope:          types.ACCESS_SCOPE_READ_ONLY,
			expectedResult: types.EXECUTION_RESULT_ERROR_SMART_CONTRACT,
			expectedReason: "example error returned by contract",
		},
		{
			name:           "ThatPanics",
			calldata:       mustPack("explode"),
			scope:          types.ACCESS_SCOPE_READ_ONLY,
			expectedResult: types.EXECUTION_RESULT_ERROR_SMART_CONTRACT,
			expectedReason: "example panic thrown by contract",
		},
		{
			name:           "WritingMethodInReadOnlyScope",
			calldata:       mustPack("store"),
			scope:          types.ACCESS_SCOPE_READ_ONLY,
			expectedResult: types.EXECUTION_RESULT_ERROR_INPUT,
			expectedReason: "method 'store' on contract 'Echo' requires write access",
		},
		{
			name:           "UnknownSelectorWithoutFallback",
			calldata:       []byte{0xde, 0xad, 0xbe, 0xef},
			scope:          types.ACCESS_SCOPE_READ_WRITE,
			expectedResult: types.EXECUTION_RESULT_ERROR_INPUT,
			expectedReason: "no method of contract 'Echo' matches the calldata",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := newProcessorWithEcho(t, false)

			output, err := s.ProcessCall(context.Background(), callInput(test.calldata, test.scope))
			require.Error(t, err, "call should fail")
			require.Equal(t, test.expectedResult, output.CallResult, "call result should be equal")

			reason, ok := types.DecodeRevertReason(output.ReturnData)
			require.True(t, ok, "failure payload should be an encoded reason")
			require.Equal(t, test.expectedReason, reason)
		})
	}
}

func TestProcessCall_ContractErrorIsReturnedAsIs(t *testing.T) {
	s := newProcessorWithEcho(t, false)
	calldata, err := types.MustParseAbi(echoAbi).Pack("fail")
	require.NoError(t, err)

	_, err = s.ProcessCall(context.Background(), callInput(calldata, types.ACCESS_SCOPE_READ_WRITE))
	require.True(t, errors.Is(err, errEchoFailure))
}

func TestProcessCall_UnmatchedCalldataGoesToFallback(t *testing.T) {
	s := newProcessorWithEcho(t, true)

	output, err := s.ProcessCall(context.Background(), callInput([]byte{0xde, 0xad, 0xbe, 0xef, 0x01}, types.ACCESS_SCOPE_READ_WRITE))
	require.NoError(t, err)
	require.Equal(t, []byte{0xff, 0xde, 0xad, 0xbe, 0xef, 0x01}, output.ReturnData)

	output, err = s.ProcessCall(context.Background(), callInput(nil, types.ACCESS_SCOPE_READ_WRITE))
	require.NoError(t, err, "empty calldata goes to fallback too")
	require.Equal(t, []byte{0xff}, output.ReturnData)
}

func TestProcessCall_MalformedArgs(t *testing.T) {
	s := newProcessorWithEcho(t, false)
	selector := types.MustParseAbi(echoAbi).Methods["echo"].ID

	output, err := s.ProcessCall(context.Background(), callInput(append(common.CopyBytes(selector), 0x01), types.ACCESS_SCOPE_READ_ONLY))
	require.Error(t, err)
	require.Equal(t, types.EXECUTION_RESULT_ERROR_INPUT, output.CallResult)
}

func TestProcessCall_ContractNotDeployed(t *testing.T) {
	s := NewNativeProcessor(log.DefaultTestingLogger(t), metric.NewRegistry())

	output, err := s.ProcessCall(context.Background(), callInput(nil, types.ACCESS_SCOPE_READ_ONLY))
	require.True(t, errors.Is(err, types.ErrContractNotDeployed))
	require.Equal(t, types.EXECUTION_RESULT_ERROR_CONTRACT_NOT_DEPLOYED, output.CallResult)
}

func TestDeployCode_RejectsOccupiedAndZeroAddresses(t *testing.T) {
	s := newProcessorWithEcho(t, false)

	require.Error(t, s.DeployCode(echoAddress, echoContractInfo("Other", false)))
	require.Error(t, s.DeployCode(common.Address{}, echoContractInfo("Other", false)))
	require.True(t, s.HasCode(echoAddress))
	require.False(t, s.HasCode(common.HexToAddress("0x01")))
}

func TestProcessConstructor_UnpacksArgs(t *testing.T) {
	s := NewNativeProcessor(log.DefaultTestingLogger(t), metric.NewRegistry()).(*service)
	info := echoContractInfo("Echo", false)
	args, err := info.Abi.Constructor.Inputs.Pack(big.NewInt(5))
	require.NoError(t, err)

	output, err := s.ProcessConstructor(context.Background(), &processor.ProcessConstructorInput{ContextId: 1, Contract: info, ConstructorArgs: args})
	require.NoError(t, err)
	require.Equal(t, types.EXECUTION_RESULT_SUCCESS, output.CallResult)
	require.EqualValues(t, 5, s.getContractInstance(info).(*echoContract).seed.Int64())
}
