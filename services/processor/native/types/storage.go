// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/orbs-network/orbs-proxy-go/services/processor/native/layout"
	"github.com/pkg/errors"
	"math/big"
)

// Storage reads and writes typed values at slots of the executing frame's storage.
type Storage struct {
	ctx   Context
	state StateSdk
}

func (s *Storage) Word(slot common.Hash) (common.Hash, error) {
	return s.state.ReadSlot(s.ctx, slot)
}

func (s *Storage) SetWord(slot common.Hash, value common.Hash) error {
	return s.state.WriteSlot(s.ctx, slot, value)
}

func (s *Storage) Uint(slot common.Hash) (*big.Int, error) {
	word, err := s.Word(slot)
	if err != nil {
		return nil, err
	}
	return word.Big(), nil
}

func (s *Storage) SetUint(slot common.Hash, value *big.Int) error {
	if value.Sign() < 0 || value.BitLen() > 256 {
		return errors.Errorf("value %s does not fit in a storage word", value)
	}
	return s.SetWord(slot, common.BigToHash(value))
}

func (s *Storage) Uint64(slot common.Hash) (uint64, error) {
	value, err := s.Uint(slot)
	if err != nil {
		return 0, err
	}
	if !value.IsUint64() {
		return 0, errors.Errorf("value at slot %s overflows uint64", slot.Hex())
	}
	return value.Uint64(), nil
}

func (s *Storage) SetUint64(slot common.Hash, value uint64) error {
	return s.SetUint(slot, new(big.Int).SetUint64(value))
}

func (s *Storage) Bool(slot common.Hash) (bool, error) {
	word, err := s.Word(slot)
	if err != nil {
		return false, err
	}
	return word != (common.Hash{}), nil
}

func (s *Storage) SetBool(slot common.Hash, value bool) error {
	if value {
		return s.SetWord(slot, common.BigToHash(big.NewInt(1)))
	}
	return s.SetWord(slot, common.Hash{})
}

func (s *Storage) Address(slot common.Hash) (common.Address, error) {
	word, err := s.Word(slot)
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(word.Bytes()), nil
}

func (s *Storage) SetAddress(slot common.Hash, value common.Address) error {
	return s.SetWord(slot, common.BytesToHash(value.Bytes()))
}

func (s *Storage) ArrayLength(arraySlot common.Hash) (uint64, error) {
	return s.Uint64(arraySlot)
}

func (s *Storage) AddressAt(arraySlot common.Hash, index uint64) (common.Address, error) {
	length, err := s.ArrayLength(arraySlot)
	if err != nil {
		return common.Address{}, err
	}
	if index >= length {
		return common.Address{}, errors.Errorf("index %d out of range for array of length %d", index, length)
	}
	return s.Address(layout.ArrayElementSlot(arraySlot, index))
}

func (s *Storage) Addresses(arraySlot common.Hash) ([]common.Address, error) {
	length, err := s.ArrayLength(arraySlot)
	if err != nil {
		return nil, err
	}
	res := make([]common.Address, 0, length)
	for i := uint64(0); i < length; i++ {
		addr, err := s.Address(layout.ArrayElementSlot(arraySlot, i))
		if err != nil {
			return nil, err
		}
		res = append(res, addr)
	}
	return res, nil
}

func (s *Storage) PushAddress(arraySlot common.Hash, value common.Address) error {
	length, err := s.ArrayLength(arraySlot)
	if err != nil {
		return err
	}
	if err := s.SetAddress(layout.ArrayElementSlot(arraySlot, length), value); err != nil {
		return err
	}
	return s.SetUint64(arraySlot, length+1)
}

// RemoveAddressAt shifts the following elements down by one so the array keeps its order.
func (s *Storage) RemoveAddressAt(arraySlot common.Hash, index uint64) error {
	length, err := s.ArrayLength(arraySlot)
	if err != nil {
		return err
	}
	if index >= length {
		return errors.Errorf("index %d out of range for array of length %d", index, length)
	}
	for i := index; i+1 < length; i++ {
		next, err := s.Address(layout.ArrayElementSlot(arraySlot, i+1))
		if err != nil {
			return err
		}
		if err := s.SetAddress(layout.ArrayElementSlot(arraySlot, i), next); err != nil {
			return err
		}
	}
	if err := s.SetWord(layout.ArrayElementSlot(arraySlot, length-1), common.Hash{}); err != nil {
		return err
	}
	return s.SetUint64(arraySlot, length-1)
}

func (s *Storage) MappedBool(mappingSlot common.Hash, key common.Address) (bool, error) {
	return s.Bool(layout.MappingSlot(layout.AddressKey(key), mappingSlot))
}

func (s *Storage) SetMappedBool(mappingSlot common.Hash, key common.Address, value bool) error {
	return s.SetBool(layout.MappingSlot(layout.AddressKey(key), mappingSlot), value)
}
