// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package native

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/types"
	"github.com/pkg/errors"
	"reflect"
)

var contextType = reflect.TypeOf(types.Context(0))
var errorType = reflect.TypeOf((*error)(nil)).Elem()

type methodCall struct {
	name           string
	instance       types.ContractInstance
	implementation interface{}
	inputs         abi.Arguments
	outputs        abi.Arguments
	args           []byte
	fallback       types.FallbackHandler
	calldata       []byte
}

func (s *service) resolveCall(contractInfo *types.ContractInfo, instance types.ContractInstance, calldata []byte, accessScope types.AccessScope) (*methodCall, error) {
	if len(calldata) >= 4 {
		if method, err := contractInfo.Abi.MethodById(calldata[:4]); err == nil {
			methodInfo, found := contractInfo.Methods[method.Name]
			if !found {
				return nil, errors.Errorf("method '%s' declared but not implemented by contract '%s'", method.Name, contractInfo.Name)
			}
			if methodInfo.Access == types.ACCESS_SCOPE_READ_WRITE && accessScope != types.ACCESS_SCOPE_READ_WRITE {
				return nil, errors.Errorf("method '%s' on contract '%s' requires write access", method.Name, contractInfo.Name)
			}
			return &methodCall{
				name:           method.Name,
				instance:       instance,
				implementation: methodInfo.Implementation,
				inputs:         method.Inputs,
				outputs:        method.Outputs,
				args:           calldata[4:],
			}, nil
		}
	}

	if fallback, ok := instance.(types.FallbackHandler); ok {
		return &methodCall{
			name:     "fallback",
			instance: instance,
			fallback: fallback,
			calldata: calldata,
		}, nil
	}

	return nil, errors.Errorf("no method of contract '%s' matches the calldata", contractInfo.Name)
}

func (s *service) processMethodCall(executionContextId types.Context, call *methodCall) (returnData []byte, contractErr error, err error) {

	defer func() {
		if r := recover(); r != nil {
			returnData = nil
			contractErr = errors.Errorf("%s", r)
		}
	}()

	if call.fallback != nil {
		returnData, contractErr = call.fallback.Fallback(executionContextId, call.calldata)
		return returnData, contractErr, nil
	}

	// verify input args
	inValues, err := prepareMethodInputArgsForCall(call.implementation, call.instance, executionContextId, call.inputs, call.args, call.name)
	if err != nil {
		return nil, nil, err
	}

	// execute the call
	outValues := reflect.ValueOf(call.implementation).Call(inValues)

	// create output args
	return createMethodOutputArgs(call.outputs, outValues, call.name)
}

// implementations are method expressions: func(*contract, types.Context, args...) (outs..., error)
func prepareMethodInputArgsForCall(implementation interface{}, instance types.ContractInstance, executionContextId types.Context, inputs abi.Arguments, args []byte, functionNameForErrors string) ([]reflect.Value, error) {
	methodType := reflect.ValueOf(implementation).Type()
	if methodType.Kind() != reflect.Func {
		return nil, errors.Errorf("method '%s' implementation is not a function", functionNameForErrors)
	}
	if methodType.NumIn() != len(inputs)+2 {
		return nil, errors.Errorf("method '%s' takes %d args but abi declares %d", functionNameForErrors, methodType.NumIn()-2, len(inputs))
	}
	if methodType.In(1) != contextType {
		return nil, errors.Errorf("method '%s' must take the execution context as its first arg", functionNameForErrors)
	}

	values, err := inputs.Unpack(args)
	if err != nil {
		return nil, errors.Wrapf(err, "method '%s' received malformed args", functionNameForErrors)
	}

	res := []reflect.Value{reflect.ValueOf(instance), reflect.ValueOf(executionContextId)}
	for i, value := range values {
		expected := methodType.In(i + 2)
		arg := reflect.ValueOf(value)
		switch {
		case arg.Type().AssignableTo(expected):
			res = append(res, arg)
		case arg.Type().ConvertibleTo(expected):
			res = append(res, arg.Convert(expected))
		default:
			return nil, errors.Errorf("method '%s' expects arg %d to be %s but it has %s", functionNameForErrors, i, expected, arg.Type())
		}
	}
	return res, nil
}

func createMethodOutputArgs(outputs abi.Arguments, outValues []reflect.Value, functionNameForErrors string) ([]byte, error, error) {
	if len(outValues) == 0 || !outValues[len(outValues)-1].Type().Implements(errorType) {
		return nil, nil, errors.Errorf("method '%s' must return an error as its last value", functionNameForErrors)
	}

	if errValue := outValues[len(outValues)-1]; !errValue.IsNil() {
		return nil, errValue.Interface().(error), nil
	}

	results := make([]interface{}, 0, len(outValues)-1)
	for _, value := range outValues[:len(outValues)-1] {
		results = append(results, value.Interface())
	}
	if len(results) != len(outputs) {
		return nil, nil, errors.Errorf("method '%s' returned %d values but abi declares %d", functionNameForErrors, len(results), len(outputs))
	}

	packed, err := outputs.Pack(results...)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "method '%s' output could not be encoded", functionNameForErrors)
	}
	return packed, nil, nil
}
