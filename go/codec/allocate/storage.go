// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package allocate

import (
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
)

// StorageLength is the amount of storage a value occupies. Direct types
// occupy Bytes bytes within a slot, all other types occupy Slots whole
// slots.
type StorageLength struct {
	Bytes int
	Slots uint64
}

// StorageSize returns the amount of storage a value of type t occupies.
func StorageSize(t format.Type, userDefinedTypes format.TypesById) (StorageLength, error) {
	switch t := t.(type) {
	case format.StringType, format.MappingType:
		return StorageLength{Slots: 1}, nil
	case format.BytesType:
		if t.Kind == format.DynamicBytes {
			return StorageLength{Slots: 1}, nil
		}
	case format.ArrayType:
		if t.Kind == format.DynamicArray {
			return StorageLength{Slots: 1}, nil
		}
		return staticArraySize(t, userDefinedTypes)
	case format.StructType:
		full, err := format.FullType(t, userDefinedTypes)
		if err != nil {
			return StorageLength{}, err
		}
		allocation, err := AllocateStorage(full.(format.StructType).MemberTypes, userDefinedTypes)
		if err != nil {
			return StorageLength{}, err
		}
		return StorageLength{Slots: allocation.Slots}, nil
	case format.TupleType:
		return StorageLength{}, fmt.Errorf("%v can not be stored", t)
	}
	length, err := ByteLength(t, userDefinedTypes)
	if err != nil {
		return StorageLength{}, err
	}
	return StorageLength{Bytes: length}, nil
}

func staticArraySize(t format.ArrayType, userDefinedTypes format.TypesById) (StorageLength, error) {
	base, err := StorageSize(t.BaseType, userDefinedTypes)
	if err != nil {
		return StorageLength{}, err
	}
	if t.Length == 0 {
		return StorageLength{Slots: 0}, nil
	}
	if base.Slots > 0 {
		if t.Length > ^uint64(0)/base.Slots {
			return StorageLength{}, fmt.Errorf("array %v too large", t)
		}
		return StorageLength{Slots: t.Length * base.Slots}, nil
	}
	if base.Bytes <= 0 || base.Bytes > evm.WordSize {
		return StorageLength{}, fmt.Errorf("invalid element size %d of %v", base.Bytes, t)
	}
	perSlot := uint64(evm.WordSize / base.Bytes)
	return StorageLength{Slots: (t.Length + perSlot - 1) / perSlot}, nil
}

// ElementsPerSlot returns how many elements of the direct type with the
// given byte length are packed into a single slot.
func ElementsPerSlot(byteLength int) int {
	return evm.WordSize / byteLength
}

// Position locates a member relative to the first slot of its container.
// Offset counts bytes from the most significant byte of the slot.
type Position struct {
	Slot   uint64
	Offset int
	Length int
}

// MemberAllocation is the placement of one member.
type MemberAllocation struct {
	Name     string
	Type     format.Type
	Position Position
}

// Allocation is the storage layout of a struct or of the state variables of
// a contract.
type Allocation struct {
	Members []MemberAllocation
	Slots   uint64
}

// AllocateStorage places members into consecutive slots the way solc does.
// Direct members are packed right-aligned into a slot as long as they fit.
// All other members start a new slot, and the member after them does too.
// Mappings keep their slot, even though nothing is stored in it.
func AllocateStorage(members []format.NameTypePair, userDefinedTypes format.TypesById) (Allocation, error) {
	res := Allocation{Members: make([]MemberAllocation, 0, len(members))}
	slot, used := uint64(0), 0
	for _, member := range members {
		size, err := StorageSize(member.Type, userDefinedTypes)
		if err != nil {
			return Allocation{}, fmt.Errorf("member %s: %w", member.Name, err)
		}
		var position Position
		if size.Slots > 0 || format.IsReferenceType(member.Type) {
			if used > 0 {
				slot++
				used = 0
			}
			position = Position{Slot: slot, Offset: 0, Length: evm.WordSize}
			slot += size.Slots
		} else {
			if used+size.Bytes > evm.WordSize {
				slot++
				used = 0
			}
			position = Position{Slot: slot, Offset: evm.WordSize - used - size.Bytes, Length: size.Bytes}
			used += size.Bytes
		}
		res.Members = append(res.Members, MemberAllocation{Name: member.Name, Type: member.Type, Position: position})
	}
	if used > 0 {
		slot++
	}
	res.Slots = slot
	return res, nil
}
