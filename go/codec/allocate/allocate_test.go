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
	"errors"
	"reflect"
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/format"
)

func TestByteLength_DirectTypes(t *testing.T) {
	types := format.TypesById{
		"e3":   format.EnumType{Id: "e3", Options: []string{"a", "b", "c"}},
		"e300": format.EnumType{Id: "e300", Options: make([]string, 300)},
	}
	tests := map[string]struct {
		typ  format.Type
		want int
	}{
		"bool":              {format.BoolType{}, 1},
		"uint256":           {format.UintType{Bits: 256}, 32},
		"int16":             {format.IntType{Bits: 16}, 2},
		"fixed":             {format.FixedType{Bits: 128, Places: 18}, 16},
		"ufixed":            {format.UfixedType{Bits: 64, Places: 2}, 8},
		"bytes4":            {format.BytesType{Kind: format.StaticBytes, Length: 4}, 4},
		"address":           {format.AddressType{}, 20},
		"contract":          {format.ContractType{TypeName: "C"}, 20},
		"internal function": {format.FunctionType{Visibility: format.Internal}, 8},
		"external function": {format.FunctionType{Visibility: format.External}, 24},
		"small enum":        {format.EnumType{Id: "e3"}, 1},
		"large enum":        {format.EnumType{Id: "e300"}, 2},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ByteLength(test.typ, types)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := test.want; want != got {
				t.Errorf("unexpected length, wanted %d, got %d", want, got)
			}
		})
	}
}

func TestByteLength_UnresolvableEnum(t *testing.T) {
	_, err := ByteLength(format.EnumType{Id: "missing"}, nil)
	var target *format.UnknownUserDefinedTypeError
	if !errors.As(err, &target) {
		t.Errorf("expected UnknownUserDefinedTypeError, got %v", err)
	}
}

func TestByteLength_ReferenceTypesHaveNoLength(t *testing.T) {
	for _, typ := range []format.Type{format.StringType{}, format.BytesType{Kind: format.DynamicBytes}, format.ArrayType{BaseType: format.BoolType{}}} {
		if _, err := ByteLength(typ, nil); !errors.Is(err, ErrNotDirect) {
			t.Errorf("expected ErrNotDirect for %v, got %v", typ, err)
		}
	}
}

func TestEnumByteLength(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 2: 1, 255: 1, 256: 1, 257: 2, 65536: 2, 65537: 3}
	for options, want := range tests {
		if got := EnumByteLength(options); want != got {
			t.Errorf("unexpected length for %d options, wanted %d, got %d", options, want, got)
		}
	}
}

func TestIsDynamic(t *testing.T) {
	types := format.TypesById{
		"s": format.StructType{Id: "s", MemberTypes: []format.NameTypePair{{Name: "x", Type: format.StringType{}}}},
	}
	tests := map[string]struct {
		typ  format.Type
		want bool
	}{
		"uint":                  {format.UintType{Bits: 256}, false},
		"string":                {format.StringType{}, true},
		"bytes32":               {format.BytesType{Kind: format.StaticBytes, Length: 32}, false},
		"bytes":                 {format.BytesType{Kind: format.DynamicBytes}, true},
		"static array":          {format.ArrayType{BaseType: format.BoolType{}, Length: 2}, false},
		"static string array":   {format.ArrayType{BaseType: format.StringType{}, Length: 2}, true},
		"dynamic array":         {format.ArrayType{BaseType: format.BoolType{}, Kind: format.DynamicArray}, true},
		"struct with string":    {format.StructType{Id: "s"}, true},
		"tuple of static types": {format.TupleType{MemberTypes: []format.NameTypePair{{Type: format.BoolType{}}}}, false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := IsDynamic(test.typ, types)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := test.want; want != got {
				t.Errorf("unexpected result, wanted %t, got %t", want, got)
			}
		})
	}
}

func TestAbiSize(t *testing.T) {
	tuple := format.TupleType{MemberTypes: []format.NameTypePair{
		{Type: format.ArrayType{BaseType: format.UintType{Bits: 8}, Length: 3}},
		{Type: format.StringType{}},
		{Type: format.BoolType{}},
	}}
	got, err := AbiSize(tuple, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 5 * 32; want != got {
		t.Errorf("unexpected size, wanted %d, got %d", want, got)
	}
}

func TestAllocateStorage_PacksDirectMembers(t *testing.T) {
	members := []format.NameTypePair{
		{Name: "a", Type: format.UintType{Bits: 128}},
		{Name: "b", Type: format.AddressType{}},
		{Name: "c", Type: format.BoolType{}},
		{Name: "d", Type: format.StringType{}},
		{Name: "e", Type: format.UintType{Bits: 8}},
		{Name: "f", Type: format.ArrayType{BaseType: format.UintType{Bits: 64}, Length: 5}},
		{Name: "g", Type: format.BoolType{}},
	}
	got, err := AllocateStorage(members, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Position{
		{Slot: 0, Offset: 16, Length: 16},
		{Slot: 1, Offset: 12, Length: 20},
		{Slot: 1, Offset: 11, Length: 1},
		{Slot: 2, Offset: 0, Length: 32},
		{Slot: 3, Offset: 31, Length: 1},
		{Slot: 4, Offset: 0, Length: 32},
		{Slot: 6, Offset: 31, Length: 1},
	}
	positions := make([]Position, 0, len(got.Members))
	for _, member := range got.Members {
		positions = append(positions, member.Position)
	}
	if !reflect.DeepEqual(want, positions) {
		t.Errorf("unexpected positions, wanted %v, got %v", want, positions)
	}
	if want, got := uint64(7), got.Slots; want != got {
		t.Errorf("unexpected number of slots, wanted %d, got %d", want, got)
	}
}

func TestStorageSize_NestedStructs(t *testing.T) {
	types := format.TypesById{
		"inner": format.StructType{Id: "inner", MemberTypes: []format.NameTypePair{
			{Name: "x", Type: format.UintType{Bits: 8}},
			{Name: "y", Type: format.UintType{Bits: 256}},
		}},
	}
	outer := format.ArrayType{BaseType: format.StructType{Id: "inner"}, Length: 3}
	got, err := StorageSize(outer, types)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (StorageLength{Slots: 6}); want != got {
		t.Errorf("unexpected size, wanted %v, got %v", want, got)
	}
}
