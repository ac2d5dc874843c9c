// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package allocate computes how many bytes values of a type occupy and
// where struct members and state variables are placed in storage.
package allocate

import (
	"fmt"
	"math/bits"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
)

// ErrNotDirect is returned when the byte length of a type that is not stored
// directly is requested.
const ErrNotDirect = format.ConstError("type is not a direct type")

// ByteLength returns the number of bytes a value of the direct type t
// occupies. Enum types are resolved through userDefinedTypes.
func ByteLength(t format.Type, userDefinedTypes format.TypesById) (int, error) {
	switch t := t.(type) {
	case format.BoolType:
		return 1, nil
	case format.AddressType, format.ContractType:
		return evm.AddressSize, nil
	case format.UintType:
		return t.Bits / 8, nil
	case format.IntType:
		return t.Bits / 8, nil
	case format.FixedType:
		return t.Bits / 8, nil
	case format.UfixedType:
		return t.Bits / 8, nil
	case format.FunctionType:
		if t.Visibility == format.Internal {
			return 2 * evm.PcSize, nil
		}
		return evm.AddressSize + evm.SelectorSize, nil
	case format.BytesType:
		if t.Kind == format.StaticBytes {
			return t.Length, nil
		}
	case format.EnumType:
		full, err := format.FullType(t, userDefinedTypes)
		if err != nil {
			return 0, err
		}
		return EnumByteLength(len(full.(format.EnumType).Options)), nil
	}
	return 0, fmt.Errorf("%w: %v", ErrNotDirect, t)
}

// EnumByteLength returns the number of bytes needed to represent the index
// of an enum with the given number of options. It is at least one.
func EnumByteLength(options int) int {
	if options <= 1 {
		return 1
	}
	return (bits.Len(uint(options-1)) + 7) / 8
}

// IsDynamic reports whether t is ABI-encoded in the tail of its enclosing
// tuple.
func IsDynamic(t format.Type, userDefinedTypes format.TypesById) (bool, error) {
	switch t := t.(type) {
	case format.StringType:
		return true, nil
	case format.BytesType:
		return t.Kind == format.DynamicBytes, nil
	case format.ArrayType:
		if t.Kind == format.DynamicArray {
			return true, nil
		}
		return IsDynamic(t.BaseType, userDefinedTypes)
	case format.StructType:
		full, err := format.FullType(t, userDefinedTypes)
		if err != nil {
			return false, err
		}
		return anyDynamic(full.(format.StructType).MemberTypes, userDefinedTypes)
	case format.TupleType:
		return anyDynamic(t.MemberTypes, userDefinedTypes)
	}
	return false, nil
}

func anyDynamic(members []format.NameTypePair, userDefinedTypes format.TypesById) (bool, error) {
	for _, member := range members {
		dynamic, err := IsDynamic(member.Type, userDefinedTypes)
		if err != nil || dynamic {
			return dynamic, err
		}
	}
	return false, nil
}

// AbiSize returns the number of bytes t occupies in the head of an ABI
// encoded tuple.
func AbiSize(t format.Type, userDefinedTypes format.TypesById) (int, error) {
	dynamic, err := IsDynamic(t, userDefinedTypes)
	if err != nil {
		return 0, err
	}
	if dynamic {
		return evm.WordSize, nil
	}
	switch t := t.(type) {
	case format.ArrayType:
		base, err := AbiSize(t.BaseType, userDefinedTypes)
		if err != nil {
			return 0, err
		}
		if t.Length > uint64(maxInt/base) {
			return 0, fmt.Errorf("array %v too large", t)
		}
		return int(t.Length) * base, nil
	case format.StructType:
		full, err := format.FullType(t, userDefinedTypes)
		if err != nil {
			return 0, err
		}
		return membersAbiSize(full.(format.StructType).MemberTypes, userDefinedTypes)
	case format.TupleType:
		return membersAbiSize(t.MemberTypes, userDefinedTypes)
	}
	return evm.WordSize, nil
}

func membersAbiSize(members []format.NameTypePair, userDefinedTypes format.TypesById) (int, error) {
	res := 0
	for _, member := range members {
		size, err := AbiSize(member.Type, userDefinedTypes)
		if err != nil {
			return 0, err
		}
		res += size
	}
	return res, nil
}

const maxInt = int(^uint(0) >> 1)
