// Copyright 2019 the orbs-network-go authors
// This file is part of the orbs-network-go library in the Orbs project.
//
// This source code is licensed under the MIT license found in the LICENSE file in the root directory of this source tree.
// The above notice should be included in all copies or substantial portions of the software.
// Package layout describes how a module lays its fields over sequential
// storage slots, and the rules successive module versions must follow so
// data written by an older version keeps its meaning.
package layout

import (
	"fmt"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"math/big"
)

var ErrIncompatibleLayout = errors.New("incompatible persistent layout")

type FieldType string

const (
	FIELD_TYPE_UINT8           FieldType = "uint8"
	FIELD_TYPE_UINT256         FieldType = "uint256"
	FIELD_TYPE_BOOL            FieldType = "bool"
	FIELD_TYPE_ADDRESS         FieldType = "address"
	FIELD_TYPE_ADDRESS_ARRAY   FieldType = "address[]"
	FIELD_TYPE_ADDRESS_TO_BOOL FieldType = "mapping(address=>bool)"
	FIELD_TYPE_ADDRESS_TO_UINT FieldType = "mapping(address=>uint256)"
)

type Field struct {
	Name string
	Type FieldType
}

type PersistentLayout struct {
	Fields []Field
}

func New(fields ...Field) *PersistentLayout {
	return &PersistentLayout{Fields: fields}
}

// Extend returns a new layout holding every field of l followed by the appended ones.
func (l *PersistentLayout) Extend(appended ...Field) *PersistentLayout {
	fields := make([]Field, 0, len(l.Fields)+len(appended))
	fields = append(fields, l.Fields...)
	fields = append(fields, appended...)
	return &PersistentLayout{Fields: fields}
}

func (l *PersistentLayout) SlotOf(name string) (common.Hash, error) {
	for i, f := range l.Fields {
		if f.Name == name {
			return common.BigToHash(big.NewInt(int64(i))), nil
		}
	}
	return common.Hash{}, errors.Errorf("field '%s' is not part of the layout", name)
}

func (l *PersistentLayout) MustSlotOf(name string) common.Hash {
	slot, err := l.SlotOf(name)
	if err != nil {
		panic(err.Error())
	}
	return slot
}

func (l *PersistentLayout) String() string {
	s := "["
	for i, f := range l.Fields {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d:%s %s", i, f.Name, f.Type)
	}
	return s + "]"
}

// CheckAppendOnly verifies that next keeps every field of previous at the
// same position with the same type. Renaming is tolerated since only
// position and type decide how stored words are read.
func CheckAppendOnly(previous *PersistentLayout, next *PersistentLayout) error {
	if len(next.Fields) < len(previous.Fields) {
		return errors.Wrapf(ErrIncompatibleLayout, "new layout drops %d field(s)", len(previous.Fields)-len(next.Fields))
	}
	for i, f := range previous.Fields {
		if next.Fields[i].Type != f.Type {
			return errors.Wrapf(ErrIncompatibleLayout, "slot %d changes from %s %s to %s %s", i, f.Type, f.Name, next.Fields[i].Type, next.Fields[i].Name)
		}
	}
	return nil
}
