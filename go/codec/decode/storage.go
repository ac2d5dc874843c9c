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
	"github.com/holiman/uint256"
)

// DecodeStorage decodes a value located in storage. Reference types start
// at the beginning of the slot of r.
func DecodeStorage(t format.Type, r pointer.StorageRange, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).storage(t, r, options)
}

func (d *decoder) storage(t format.Type, r pointer.StorageRange, options Options) (format.Result, error) {
	if !format.IsReferenceType(t) {
		return d.basic(t, pointer.Storage{Range: r}, options)
	}
	slot := r.Slot

	switch t := t.(type) {
	case format.BytesType, format.StringType:
		word, err := read.ReadSlot(slot, d.info.State, d.requester)
		if err != nil {
			return d.failOn(t, err, options)
		}
		if word[evm.WordSize-1]&1 == 0 {
			size := int(word[evm.WordSize-1] / 2)
			return d.bytes(t, pointer.Storage{Range: pointer.StorageRange{Slot: slot, Length: size}}, options)
		}
		size := new(uint256.Int).SetBytes(word[:])
		size.Rsh(size, 1)
		if !size.IsUint64() || size.Uint64() > maxLength {
			return d.fail(t, &format.OverlongArrayOrStringError{LengthAsBN: size.ToBig(), DataLength: maxLength}, options)
		}
		data := pointer.StorageRange{Slot: slot.Hashed(), Length: int(size.Uint64())}
		return d.bytes(t, pointer.Storage{Range: data}, options)

	case format.ArrayType:
		data, count := slot, uint64(0)
		if t.Kind == format.DynamicArray {
			word, err := read.ReadSlot(slot, d.info.State, d.requester)
			if err != nil {
				return d.failOn(t, err, options)
			}
			size, limit := word.ToUint256(), options.maxStorageArrayLength()
			if !size.IsUint64() || size.Uint64() > limit {
				return d.fail(t, &format.OverlongArrayOrStringError{LengthAsBN: size.ToBig(), DataLength: limit}, options)
			}
			data, count = slot.Hashed(), size.Uint64()
		} else {
			if t.Length > maxLength {
				return d.fail(t, &format.OverlongArrayOrStringError{
					LengthAsBN: new(big.Int).SetUint64(t.Length),
					DataLength: maxLength,
				}, options)
			}
			count = t.Length
		}
		return d.storageArray(t, data, count, options)

	case format.StructType:
		full, err := format.FullType(t, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		allocation, err := allocate.AllocateStorage(full.(format.StructType).MemberTypes, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		members := make([]format.NameValuePair, 0, len(allocation.Members))
		for _, member := range allocation.Members {
			memberType := format.SpecifyLocation(member.Type, format.StorageLocation)
			value, err := d.storage(memberType, pointer.StorageRange{
				Slot:   slot.Plus(member.Position.Slot),
				Offset: member.Position.Offset,
				Length: member.Position.Length,
			}, options)
			if err != nil {
				return nil, err
			}
			members = append(members, format.NameValuePair{Name: member.Name, Value: value})
		}
		return format.StructValue{DataType: t, Value: members}, nil

	case format.MappingType:
		return d.mapping(t, slot, options)
	}
	return nil, fmt.Errorf("can not decode %v from storage", t)
}

func (d *decoder) storageArray(t format.ArrayType, data pointer.Slot, count uint64, options Options) (format.Result, error) {
	elementType := format.SpecifyLocation(t.BaseType, format.StorageLocation)
	size, err := allocate.StorageSize(elementType, d.info.UserDefinedTypes)
	if err != nil {
		return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
	}
	values := make([]format.Result, 0, min(count, 1024))
	for i := uint64(0); i < count; i++ {
		var r pointer.StorageRange
		if size.Slots > 0 || format.IsReferenceType(elementType) {
			r = pointer.StorageRange{Slot: data.Plus(i * size.Slots), Length: evm.WordSize}
		} else {
			perSlot := uint64(allocate.ElementsPerSlot(size.Bytes))
			r = pointer.StorageRange{
				Slot:   data.Plus(i / perSlot),
				Offset: evm.WordSize - int(i%perSlot+1)*size.Bytes,
				Length: size.Bytes,
			}
		}
		value, err := d.storage(elementType, r, options)
		if err != nil {
			return nil, err
		}
		// later elements live in later slots, which are not available either
		if missing := missingSlot(value); missing != nil {
			return d.fail(t, missing, options)
		}
		values = append(values, value)
	}
	return format.ArrayValue{DataType: t, Value: values}, nil
}

// missingSlot returns the StorageNotSuppliedError found in r or any of its
// elements and members, or nil if r is complete.
func missingSlot(r format.Result) *format.StorageNotSuppliedError {
	switch r := r.(type) {
	case format.ErrorResult:
		if missing, ok := r.Error.(*format.StorageNotSuppliedError); ok {
			return missing
		}
	case format.ArrayValue:
		for _, element := range r.Value {
			if missing := missingSlot(element); missing != nil {
				return missing
			}
		}
	case format.StructValue:
		for _, member := range r.Value {
			if missing := missingSlot(member.Value); missing != nil {
				return missing
			}
		}
	}
	return nil
}

// mapping decodes the entries of a mapping whose keys are listed in the
// mapping keys of the decoding info.
func (d *decoder) mapping(t format.MappingType, slot pointer.Slot, options Options) (format.Result, error) {
	address, err := read.SlotAddress(slot)
	if err != nil {
		return nil, err
	}
	valueType := format.SpecifyLocation(t.ValueType, format.StorageLocation)
	size, err := allocate.StorageSize(valueType, d.info.UserDefinedTypes)
	if err != nil {
		return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
	}
	valueOffset, valueLength := 0, evm.WordSize
	if size.Slots == 0 && !format.IsReferenceType(valueType) {
		valueOffset, valueLength = evm.WordSize-size.Bytes, size.Bytes
	}
	entries := []format.KeyValuePair{}
	for _, key := range d.info.MappingKeys {
		if key.Key == nil || key.Path == nil {
			continue
		}
		path, err := read.SlotAddress(*key.Path)
		if err != nil {
			return nil, err
		}
		if path != address {
			continue
		}
		value, err := d.storage(valueType, pointer.StorageRange{Slot: key, Offset: valueOffset, Length: valueLength}, options)
		if err != nil {
			return nil, err
		}
		entries = append(entries, format.KeyValuePair{Key: key.Key, Value: value})
	}
	return format.MappingValue{DataType: t, Value: entries}, nil
}
