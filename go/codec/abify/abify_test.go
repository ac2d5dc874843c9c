// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package abify

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/ethereum/go-ethereum/common"
)

var (
	colorType = format.EnumType{Id: "e", TypeName: "Color", Options: []string{"Red", "Green"}}
	pairType  = format.StructType{Id: "s", TypeName: "Pair", MemberTypes: []format.NameTypePair{
		{Name: "color", Type: format.EnumType{Id: "e"}},
		{Name: "owners", Type: format.MappingType{KeyType: format.AddressType{}, ValueType: format.BoolType{}}},
		{Name: "name", Type: format.StringType{Location: format.StorageLocation}},
	}}
	testTypes = format.TypesById{"e": colorType, "s": pairType}
)

func TestAbifyType(t *testing.T) {
	tests := map[string]struct {
		input format.Type
		want  format.Type
	}{
		"elementary": {
			input: format.UintType{Bits: 16},
			want:  format.UintType{Bits: 16},
		},
		"enum": {
			input: format.EnumType{Id: "e", TypeName: "Color"},
			want:  format.UintType{Bits: 8, TypeHint: "enum Color"},
		},
		"contract": {
			input: format.ContractType{TypeName: "Token", Payable: true},
			want:  format.AddressType{Payable: true, TypeHint: "contract Token"},
		},
		"string": {
			input: format.StringType{Location: format.MemoryLocation},
			want:  format.StringType{},
		},
		"struct": {
			input: format.StructType{Id: "s", TypeName: "Pair", Location: format.MemoryLocation},
			want: format.TupleType{TypeHint: "struct Pair", MemberTypes: []format.NameTypePair{
				{Name: "color", Type: format.UintType{Bits: 8, TypeHint: "enum Color"}},
				{Name: "name", Type: format.StringType{}},
			}},
		},
		"array": {
			input: format.ArrayType{BaseType: format.ContractType{TypeName: "Token"}, Kind: format.DynamicArray, Location: format.CalldataLocation},
			want:  format.ArrayType{BaseType: format.AddressType{TypeHint: "contract Token"}, Kind: format.DynamicArray},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := AbifyType(test.input, testTypes)
			if !reflect.DeepEqual(test.want, got) {
				t.Errorf("unexpected type, wanted %#v, got %#v", test.want, got)
			}
		})
	}
}

func TestAbifyType_UnknownEnumsAreSingleBytes(t *testing.T) {
	got := AbifyType(format.EnumType{Id: "missing"}, nil)
	if want, got := 8, got.(format.UintType).Bits; want != got {
		t.Errorf("unexpected width, wanted %d, got %d", want, got)
	}
}

func TestAbifyResult(t *testing.T) {
	address := common.HexToAddress("0x2222222222222222222222222222222222222222")
	selector := [4]byte{1, 2, 3, 4}
	tests := map[string]struct {
		input format.Result
		want  format.Result
	}{
		"enum": {
			input: format.EnumValue{DataType: format.EnumType{Id: "e", TypeName: "Color"}, Name: "Green", NumericAsBN: big.NewInt(1)},
			want:  format.UintValue{DataType: format.UintType{Bits: 8, TypeHint: "enum Color"}, AsBN: big.NewInt(1)},
		},
		"enum out of range": {
			input: format.ErrorResult{
				DataType: format.EnumType{Id: "e", TypeName: "Color"},
				Error:    &format.EnumOutOfRangeError{Type: colorType, RawAsBN: big.NewInt(7)},
			},
			want: format.UintValue{DataType: format.UintType{Bits: 8, TypeHint: "enum Color"}, AsBN: big.NewInt(7)},
		},
		"contract": {
			input: format.ContractValue{
				DataType: format.ContractType{TypeName: "Token"},
				Info:     format.ContractValueInfoKnown{Address: address, Class: format.ContractType{TypeName: "Token"}},
			},
			want: format.AddressValue{DataType: format.AddressType{TypeHint: "contract Token"}, AsAddress: address},
		},
		"external function": {
			input: format.FunctionExternalValue{
				DataType: format.FunctionType{Visibility: format.External},
				Info: format.FunctionExternalValueInfoKnown{
					Contract: format.ContractValueInfoKnown{Address: address},
					Selector: selector,
					Abi:      "transfer",
				},
			},
			want: format.FunctionExternalValue{
				DataType: format.FunctionType{Visibility: format.External},
				Info: format.FunctionExternalValueInfoUnknown{
					Contract: format.ContractValueInfoUnknown{Address: address},
					Selector: selector,
				},
			},
		},
		"struct": {
			input: format.StructValue{
				DataType: format.StructType{Id: "s", TypeName: "Pair"},
				Value: []format.NameValuePair{
					{Name: "color", Value: format.EnumValue{DataType: format.EnumType{Id: "e", TypeName: "Color"}, Name: "Red", NumericAsBN: big.NewInt(0)}},
					{Name: "owners", Value: format.MappingValue{DataType: format.MappingType{KeyType: format.AddressType{}, ValueType: format.BoolType{}}}},
				},
			},
			want: format.TupleValue{
				DataType: AbifyType(format.StructType{Id: "s", TypeName: "Pair"}, testTypes),
				Value: []format.NameValuePair{
					{Name: "color", Value: format.UintValue{DataType: format.UintType{Bits: 8, TypeHint: "enum Color"}, AsBN: big.NewInt(0)}},
				},
			},
		},
		"padding error keeps its cause": {
			input: format.ErrorResult{
				DataType: format.BytesType{Kind: format.StaticBytes, Length: 1},
				Error:    &format.PaddingError{Raw: "ff", PaddingType: format.PaddingRight},
			},
			want: format.ErrorResult{
				DataType: format.BytesType{Kind: format.StaticBytes, Length: 1},
				Error:    &format.PaddingError{Raw: "ff", PaddingType: format.PaddingRight},
			},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := AbifyResult(test.input, testTypes)
			if !reflect.DeepEqual(test.want, got) {
				t.Errorf("unexpected result, wanted %#v, got %#v", test.want, got)
			}
			if again := AbifyResult(got, testTypes); !reflect.DeepEqual(got, again) {
				t.Errorf("abify is not idempotent, got %#v after %#v", again, got)
			}
		})
	}
}

func TestAbifyResult_KeepsCircularReferences(t *testing.T) {
	input := format.StructValue{DataType: format.StructType{Id: "s"}, Reference: 2}
	got := AbifyResult(input, testTypes).(format.TupleValue)
	if want, got := 2, got.Reference; want != got {
		t.Errorf("unexpected reference, wanted %d, got %d", want, got)
	}
	if got.Value != nil {
		t.Errorf("references should stay empty")
	}
}
