// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package decode

import (
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
	"golang.org/x/exp/slices"
)

// DecodeMemory decodes a value located in memory. For reference types p
// refers to the word holding the memory address of the value.
func DecodeMemory(t format.Type, p pointer.Memory, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).memory(t, p, options)
}

func (d *decoder) memory(t format.Type, p pointer.Memory, options Options) (format.Result, error) {
	if !format.IsReferenceType(t) {
		return d.basic(t, p, options)
	}
	word, err := read.Read(p, d.info.State, d.requester)
	if err != nil {
		return d.failOn(t, err, options)
	}
	start, decoderErr := offset(word, len(d.info.State.Memory))
	if decoderErr != nil {
		return d.fail(t, decoderErr, options)
	}
	return d.memoryReference(t, start, options)
}

// memoryReference decodes the reference type value stored at the given
// memory address.
func (d *decoder) memoryReference(t format.Type, start int, options Options) (format.Result, error) {
	memory := d.info.State.Memory
	if index := slices.Index(options.memoryVisited, start); index >= 0 {
		switch t := t.(type) {
		case format.ArrayType:
			return format.ArrayValue{DataType: t, Reference: index + 1}, nil
		case format.StructType:
			return format.StructValue{DataType: t, Reference: index + 1}, nil
		}
	}

	switch t := t.(type) {
	case format.BytesType, format.StringType:
		word, err := read.ReadBytes(memory, start, evm.WordSize)
		if err != nil {
			return nil, err
		}
		size, decoderErr := length(word, len(memory)-start-evm.WordSize, len(memory))
		if decoderErr != nil {
			return d.fail(t, decoderErr, options)
		}
		return d.bytes(t, pointer.Memory{Start: start + evm.WordSize, Length: size}, options)

	case format.ArrayType:
		base, count := start, 0
		if t.Kind == format.DynamicArray {
			word, err := read.ReadBytes(memory, start, evm.WordSize)
			if err != nil {
				return nil, err
			}
			base = start + evm.WordSize
			size, decoderErr := length(word, (len(memory)-base)/evm.WordSize, len(memory))
			if decoderErr != nil {
				return d.fail(t, decoderErr, options)
			}
			count = size
		} else {
			if t.Length > uint64(max(len(memory)-base, 0)/evm.WordSize) {
				return d.fail(t, &format.OverlongArrayOrStringError{
					LengthAsBN: new(big.Int).SetUint64(t.Length),
					DataLength: uint64(len(memory)),
				}, options)
			}
			count = int(t.Length)
		}
		inner := options
		inner.memoryVisited = append([]int{start}, options.memoryVisited...)
		elementType := format.SpecifyLocation(t.BaseType, format.MemoryLocation)
		values := make([]format.Result, 0, count)
		for i := 0; i < count; i++ {
			value, err := d.memory(elementType, pointer.Memory{Start: base + i*evm.WordSize, Length: evm.WordSize}, inner)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return format.ArrayValue{DataType: t, Value: values}, nil

	case format.StructType:
		full, err := format.FullType(t, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		inner := options
		inner.memoryVisited = append([]int{start}, options.memoryVisited...)
		members := make([]format.NameValuePair, 0, len(full.(format.StructType).MemberTypes))
		position := start
		for _, member := range full.(format.StructType).MemberTypes {
			if _, isMapping := member.Type.(format.MappingType); isMapping {
				continue
			}
			memberType := format.SpecifyLocation(member.Type, format.MemoryLocation)
			value, err := d.memory(memberType, pointer.Memory{Start: position, Length: evm.WordSize}, inner)
			if err != nil {
				return nil, err
			}
			members = append(members, format.NameValuePair{Name: member.Name, Value: value})
			position += evm.WordSize
		}
		return format.StructValue{DataType: t, Value: members}, nil
	}
	return nil, fmt.Errorf("can not decode %v from memory", t)
}
