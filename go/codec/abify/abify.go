// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package abify projects full-mode types and results onto what an ABI
// description can express. The projection only drops information and never
// fails.
package abify

import (
	"github.com/Fantom-foundation/codec/go/codec/allocate"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/ethereum/go-ethereum/common"
)

// AbifyType maps enums to unsigned integers of their width, contracts to
// addresses, and structs to tuples. Data locations are dropped.
func AbifyType(t format.Type, userDefinedTypes format.TypesById) format.Type {
	switch t := t.(type) {
	case format.EnumType:
		bits := 8
		if full, err := format.FullType(t, userDefinedTypes); err == nil {
			bits = 8 * allocate.EnumByteLength(len(full.(format.EnumType).Options))
		}
		return format.UintType{Bits: bits, TypeHint: t.String()}
	case format.ContractType:
		return format.AddressType{Payable: t.Payable, TypeHint: t.String()}
	case format.StructType:
		res := format.TupleType{TypeHint: t.String()}
		if full, err := format.FullType(t, userDefinedTypes); err == nil {
			res.MemberTypes = abifyMembers(full.(format.StructType).MemberTypes, userDefinedTypes)
		}
		return res
	case format.TupleType:
		t.MemberTypes = abifyMembers(t.MemberTypes, userDefinedTypes)
		return t
	case format.ArrayType:
		t.BaseType = AbifyType(t.BaseType, userDefinedTypes)
		t.Location = format.DefaultLocation
		return t
	case format.BytesType:
		t.Location = format.DefaultLocation
		return t
	case format.StringType:
		t.Location = format.DefaultLocation
		return t
	case format.MappingType:
		t.KeyType = AbifyType(t.KeyType, userDefinedTypes)
		t.ValueType = AbifyType(t.ValueType, userDefinedTypes)
		return t
	case format.FunctionType:
		t.InputParameterTypes = abifyTypes(t.InputParameterTypes, userDefinedTypes)
		t.OutputParameterTypes = abifyTypes(t.OutputParameterTypes, userDefinedTypes)
		return t
	}
	return t
}

func abifyTypes(types []format.Type, userDefinedTypes format.TypesById) []format.Type {
	if types == nil {
		return nil
	}
	res := make([]format.Type, 0, len(types))
	for _, t := range types {
		res = append(res, AbifyType(t, userDefinedTypes))
	}
	return res
}

// abifyMembers drops mappings, which can not be part of an ABI tuple.
func abifyMembers(members []format.NameTypePair, userDefinedTypes format.TypesById) []format.NameTypePair {
	if members == nil {
		return nil
	}
	res := make([]format.NameTypePair, 0, len(members))
	for _, member := range members {
		if _, isMapping := member.Type.(format.MappingType); isMapping {
			continue
		}
		res = append(res, format.NameTypePair{Name: member.Name, Type: AbifyType(member.Type, userDefinedTypes)})
	}
	return res
}

// AbifyResult projects a decoded result the same way AbifyType projects its
// type. Enum values, including out-of-range ones, become their numeric
// value. Contracts and external functions lose their identification.
func AbifyResult(r format.Result, userDefinedTypes format.TypesById) format.Result {
	t := AbifyType(r.Type(), userDefinedTypes)
	switch r := r.(type) {
	case format.ErrorResult:
		switch cause := r.Error.(type) {
		case *format.EnumOutOfRangeError:
			return format.UintValue{DataType: t, AsBN: cause.RawAsBN}
		case *format.EnumNotFoundDecodingError:
			return format.UintValue{DataType: t, AsBN: cause.RawAsBN}
		}
		r.DataType = t
		return r
	case format.EnumValue:
		return format.UintValue{DataType: t, AsBN: r.NumericAsBN}
	case format.ContractValue:
		return format.AddressValue{DataType: t, AsAddress: r.Info.ContractAddress()}
	case format.FunctionExternalValue:
		r.DataType = t
		r.Info = format.FunctionExternalValueInfoUnknown{
			Contract: format.ContractValueInfoUnknown{Address: contractAddressOf(r.Info)},
			Selector: r.Info.FunctionSelector(),
		}
		return r
	case format.StructValue:
		return format.TupleValue{DataType: t, Value: abifyPairs(r.Value, userDefinedTypes), Reference: r.Reference}
	case format.TupleValue:
		r.DataType = t
		r.Value = abifyPairs(r.Value, userDefinedTypes)
		return r
	case format.MagicValue:
		r.DataType = t
		r.Value = abifyPairs(r.Value, userDefinedTypes)
		return r
	case format.ArrayValue:
		r.DataType = t
		if r.Value != nil {
			values := make([]format.Result, 0, len(r.Value))
			for _, value := range r.Value {
				values = append(values, AbifyResult(value, userDefinedTypes))
			}
			r.Value = values
		}
		return r
	case format.MappingValue:
		r.DataType = t
		entries := make([]format.KeyValuePair, 0, len(r.Value))
		for _, entry := range r.Value {
			entries = append(entries, format.KeyValuePair{
				Key:   AbifyResult(entry.Key, userDefinedTypes),
				Value: AbifyResult(entry.Value, userDefinedTypes),
			})
		}
		r.Value = entries
		return r
	case format.BytesValue:
		r.DataType = t
		return r
	case format.StringValue:
		r.DataType = t
		return r
	}
	return r
}

func abifyPairs(pairs []format.NameValuePair, userDefinedTypes format.TypesById) []format.NameValuePair {
	if pairs == nil {
		return nil
	}
	res := make([]format.NameValuePair, 0, len(pairs))
	for _, pair := range pairs {
		if _, isMapping := pair.Value.Type().(format.MappingType); isMapping {
			continue
		}
		res = append(res, format.NameValuePair{Name: pair.Name, Value: AbifyResult(pair.Value, userDefinedTypes)})
	}
	return res
}

func contractAddressOf(info format.FunctionExternalValueInfo) common.Address {
	switch info := info.(type) {
	case format.FunctionExternalValueInfoKnown:
		return info.Contract.Address
	case format.FunctionExternalValueInfoInvalid:
		return info.Contract.Address
	case format.FunctionExternalValueInfoUnknown:
		return info.Contract.Address
	}
	return common.Address{}
}
