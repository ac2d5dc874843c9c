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

	"github.com/Fantom-foundation/codec/go/codec/allocate"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
)

// DecodeAbi decodes an ABI encoded value from calldata, event data, or
// return data. p refers to the head of the value; offsets of dynamic values
// are relative to options.AbiPointerBase.
func DecodeAbi(t format.Type, p pointer.Pointer, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	if _, ok := pointer.Range(p); !ok {
		return nil, fmt.Errorf("%v is not an ABI location", p)
	}
	return newDecoder(info, requester).abi(t, p, options)
}

func (d *decoder) abi(t format.Type, p pointer.Pointer, options Options) (format.Result, error) {
	dynamic, err := allocate.IsDynamic(t, d.info.UserDefinedTypes)
	if err != nil {
		return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
	}
	head, _ := pointer.Range(p)
	source := d.source(p)
	if !dynamic {
		switch t.(type) {
		case format.ArrayType, format.StructType, format.TupleType:
			return d.abiContents(t, p, head.Start, 0, options)
		}
		return d.basic(t, p, options)
	}

	word, err := read.Read(p, d.info.State, d.requester)
	if err != nil {
		return d.failOn(t, err, options)
	}
	relative, decoderErr := offset(word, len(source))
	if decoderErr != nil {
		return d.fail(t, decoderErr, options)
	}
	start := relative + options.AbiPointerBase
	if start > len(source) {
		return d.fail(t, &format.OverlargePointerError{
			PointerAsBN: big.NewInt(int64(start)),
			DataLength:  uint64(len(source)),
		}, options)
	}

	switch t.(type) {
	case format.BytesType, format.StringType, format.ArrayType:
		if array, ok := t.(format.ArrayType); ok && array.Kind == format.StaticArray {
			return d.abiContents(t, p, start, 0, options)
		}
		word, err := read.ReadBytes(source, start, evm.WordSize)
		if err != nil {
			return nil, err
		}
		elementSize := 1
		if array, ok := t.(format.ArrayType); ok {
			if elementSize, err = allocate.AbiSize(array.BaseType, d.info.UserDefinedTypes); err != nil {
				return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
			}
			elementSize = max(elementSize, evm.WordSize)
		}
		available := (len(source) - start - evm.WordSize) / elementSize
		size, decoderErr := length(word, available, len(source))
		if decoderErr != nil {
			return d.fail(t, decoderErr, options)
		}
		return d.abiContents(t, p, start+evm.WordSize, size, options)
	}
	return d.abiContents(t, p, start, 0, options)
}

func (d *decoder) source(p pointer.Pointer) []byte {
	return d.info.State.Source(p.Location().String())
}

// abiContents decodes the content of a reference type value starting at
// start. size is the number of bytes or elements of dynamic bytes, strings,
// and arrays; it is ignored for all other types.
func (d *decoder) abiContents(t format.Type, p pointer.Pointer, start, size int, options Options) (format.Result, error) {
	switch t := t.(type) {
	case format.BytesType, format.StringType:
		return d.bytes(t, pointer.WithRange(p, start, size), options)

	case format.ArrayType:
		count := size
		if t.Kind == format.StaticArray {
			if t.Length > maxLength {
				return d.fail(t, &format.OverlongArrayOrStringError{
					LengthAsBN: new(big.Int).SetUint64(t.Length),
					DataLength: uint64(len(d.source(p))),
				}, options)
			}
			count = int(t.Length)
		}
		elementType := t.BaseType
		elementSize, err := allocate.AbiSize(elementType, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		inner := options
		inner.AbiPointerBase = start
		values := make([]format.Result, 0, min(count, 1024))
		for i := 0; i < count; i++ {
			value, err := d.abi(elementType, pointer.WithRange(p, start+i*elementSize, elementSize), inner)
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
		members, resolved, err := d.abiMembers(full.(format.StructType).MemberTypes, p, start, options)
		if err != nil {
			return nil, err
		}
		if !resolved {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		return format.StructValue{DataType: t, Value: members}, nil

	case format.TupleType:
		members, resolved, err := d.abiMembers(t.MemberTypes, p, start, options)
		if err != nil {
			return nil, err
		}
		if !resolved {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		return format.TupleValue{DataType: t, Value: members}, nil
	}
	return nil, fmt.Errorf("can not decode %v from %v", t, p.Location())
}

// abiMembers decodes the members of a struct or tuple encoded at start. It
// reports whether all member types could be resolved.
func (d *decoder) abiMembers(types []format.NameTypePair, p pointer.Pointer, start int, options Options) ([]format.NameValuePair, bool, error) {
	inner := options
	inner.AbiPointerBase = start
	res := make([]format.NameValuePair, 0, len(types))
	position := start
	for _, member := range types {
		size, err := allocate.AbiSize(member.Type, d.info.UserDefinedTypes)
		if err != nil {
			return nil, false, nil
		}
		value, err := d.abi(member.Type, pointer.WithRange(p, position, size), inner)
		if err != nil {
			return nil, false, err
		}
		res = append(res, format.NameValuePair{Name: member.Name, Value: value})
		position += size
	}
	return res, true, nil
}
