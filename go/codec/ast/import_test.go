// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package ast

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/format"
)

func parse(t *testing.T, source string) *Node {
	t.Helper()
	res := &Node{}
	if err := json.Unmarshal([]byte(source), res); err != nil {
		t.Fatalf("failed to parse node: %v", err)
	}
	return res
}

func TestMakeTypeId(t *testing.T) {
	if want, got := "abc:12", MakeTypeId(12, "abc"); want != got {
		t.Errorf("unexpected id, wanted %q, got %q", want, got)
	}
	if want, got := "12", MakeTypeId(12, ""); want != got {
		t.Errorf("unexpected id, wanted %q, got %q", want, got)
	}
}

func TestNode_ValueIsStringOrExpression(t *testing.T) {
	literal := parse(t, `{"id":1,"nodeType":"Literal","kind":"number","value":"42",
		"typeDescriptions":{"typeIdentifier":"t_rational_42_by_1","typeString":"int_const 42"}}`)
	if want, got := "42", literal.LiteralValue; want != got {
		t.Errorf("unexpected literal value, wanted %q, got %q", want, got)
	}
	if !literal.IsRational() || literal.IsStringLiteral() {
		t.Errorf("literal not classified as rational")
	}

	declaration := parse(t, `{"id":2,"nodeType":"VariableDeclaration","constant":true,"value":
		{"id":3,"nodeType":"Literal","hexValue":"6869","typeDescriptions":{"typeIdentifier":"t_stringliteral_7624778dedc75f8b322b9fa1632a610d40b85e106c7d9bf0e743a9ce291b9c6f"}}}`)
	if declaration.ValueExpression == nil {
		t.Fatalf("value expression not parsed")
	}
	if want, got := "6869", declaration.ValueExpression.HexValue; want != got {
		t.Errorf("unexpected hex value, wanted %q, got %q", want, got)
	}
	if !declaration.ValueExpression.IsStringLiteral() {
		t.Errorf("expression not classified as string literal")
	}

	encoded, err := json.Marshal(declaration)
	if err != nil {
		t.Fatalf("failed to encode node: %v", err)
	}
	if again := parse(t, string(encoded)); !reflect.DeepEqual(declaration, again) {
		t.Errorf("node changed by encoding, wanted %v, got %v", declaration, again)
	}
}

func TestDefinitionToType_ElementaryTypes(t *testing.T) {
	tests := map[string]format.Type{
		"t_bool":            format.BoolType{},
		"t_uint256":         format.UintType{Bits: 256},
		"t_int8":            format.IntType{Bits: 8},
		"t_fixed64x10":      format.FixedType{Bits: 64, Places: 10},
		"t_ufixed":          format.UfixedType{Bits: 128, Places: 18},
		"t_address":         format.AddressType{},
		"t_address_payable": format.AddressType{Payable: true},
		"t_bytes4":          format.BytesType{Kind: format.StaticBytes, Length: 4},
		"t_bytes_memory_ptr": format.BytesType{Kind: format.DynamicBytes,
			Location: format.MemoryLocation},
		"t_string_calldata_ptr": format.StringType{Location: format.CalldataLocation},
		"t_string_storage":      format.StringType{Location: format.StorageLocation},
	}

	for identifier, want := range tests {
		t.Run(identifier, func(t *testing.T) {
			node := &Node{TypeDescriptions: TypeDescriptions{TypeIdentifier: identifier}}
			got, err := DefinitionToType(node, "c", format.DefaultLocation)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Errorf("unexpected type, wanted %v, got %v", want, got)
			}
		})
	}
}

func TestDefinitionToType_NestedTypes(t *testing.T) {
	node := parse(t, `{"id":10,"nodeType":"VariableDeclaration","name":"m",
		"typeDescriptions":{"typeIdentifier":"t_mapping$_t_address_$_t_array$_t_struct$_S_$4_storage_$3_storage_$"},
		"typeName":{"id":11,"nodeType":"Mapping",
			"typeDescriptions":{"typeIdentifier":"t_mapping$_t_address_$_t_array$_t_struct$_S_$4_storage_$3_storage_$"},
			"keyType":{"id":12,"nodeType":"ElementaryTypeName","typeDescriptions":{"typeIdentifier":"t_address"}},
			"valueType":{"id":13,"nodeType":"ArrayTypeName",
				"typeDescriptions":{"typeIdentifier":"t_array$_t_struct$_S_$4_storage_$3_storage_ptr"},
				"baseType":{"id":14,"nodeType":"UserDefinedTypeName","referencedDeclaration":4,
					"typeDescriptions":{"typeIdentifier":"t_struct$_S_$4_storage_ptr","typeString":"struct C.S"}}}}}`)

	got, err := DefinitionToType(node, "c", format.DefaultLocation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := format.MappingType{
		KeyType: format.AddressType{},
		ValueType: format.ArrayType{
			BaseType: format.StructType{Id: "c:4", TypeName: "S", DefiningContractName: "C",
				Location: format.StorageLocation},
			Kind:     format.StaticArray,
			Length:   3,
			Location: format.StorageLocation,
		},
		Location: format.StorageLocation,
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected type, wanted %v, got %v", want, got)
	}
}

func TestDefinitionToType_ForceLocation(t *testing.T) {
	node := parse(t, `{"id":1,"nodeType":"ArrayTypeName",
		"typeDescriptions":{"typeIdentifier":"t_array$_t_string_storage_$dyn_storage_ptr"},
		"baseType":{"id":2,"nodeType":"ElementaryTypeName","typeDescriptions":{"typeIdentifier":"t_string_storage_ptr"}}}`)
	got, err := DefinitionToType(node, "", format.MemoryLocation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	array := got.(format.ArrayType)
	if want, got := format.DynamicArray, array.Kind; want != got {
		t.Errorf("unexpected kind, wanted %v, got %v", want, got)
	}
	if want, got := format.MemoryLocation, format.LocationOf(array.BaseType); want != got {
		t.Errorf("unexpected element location, wanted %v, got %v", want, got)
	}
}

func TestDefinitionToType_Functions(t *testing.T) {
	node := parse(t, `{"id":1,"nodeType":"FunctionTypeName",
		"typeDescriptions":{"typeIdentifier":"t_function_external_view$_t_uint256_$returns$_t_bool_$"},
		"parameterTypes":{"id":2,"nodeType":"ParameterList","parameters":[
			{"id":3,"nodeType":"VariableDeclaration","typeDescriptions":{"typeIdentifier":"t_uint256"}}]},
		"returnParameterTypes":{"id":4,"nodeType":"ParameterList","parameters":[
			{"id":5,"nodeType":"VariableDeclaration","typeDescriptions":{"typeIdentifier":"t_bool"}}]}}`)
	got, err := DefinitionToType(node, "", format.DefaultLocation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := format.FunctionType{
		Visibility:           format.External,
		Mutability:           "view",
		InputParameterTypes:  []format.Type{format.UintType{Bits: 256}},
		OutputParameterTypes: []format.Type{format.BoolType{}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected type, wanted %v, got %v", want, got)
	}
}

func TestDefinitionToType_ContractsWithoutDeclarationAreForeign(t *testing.T) {
	node := &Node{TypeDescriptions: TypeDescriptions{TypeIdentifier: "t_contract$_Token_$77", TypeString: "contract Token"}}
	got, err := DefinitionToType(node, "c", format.DefaultLocation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (format.ContractType{Kind: format.ForeignContract, TypeName: "Token"}); want != got {
		t.Errorf("unexpected type, wanted %v, got %v", want, got)
	}

	node.ReferencedDeclaration = 77
	got, _ = DefinitionToType(node, "c", format.DefaultLocation)
	if want := (format.ContractType{Kind: format.NativeContract, Id: "c:77", TypeName: "Token"}); want != got {
		t.Errorf("unexpected type, wanted %v, got %v", want, got)
	}
}

func TestDefinitionToType_RejectsUnknownIdentifiers(t *testing.T) {
	for _, identifier := range []string{"", "t_tuple$__$", "t_array$_t_uint256_$dyn_memory_ptr"} {
		node := &Node{TypeDescriptions: TypeDescriptions{TypeIdentifier: identifier}}
		if _, err := DefinitionToType(node, "", format.DefaultLocation); err == nil {
			t.Errorf("expected error for %q", identifier)
		}
	}
}

func TestStoredTypes_ImportsDefinitions(t *testing.T) {
	unit := parse(t, `{"id":1,"nodeType":"SourceUnit","nodes":[
		{"id":2,"nodeType":"ContractDefinition","name":"C","contractKind":"contract","nodes":[
			{"id":3,"nodeType":"EnumDefinition","name":"E","canonicalName":"C.E","members":[
				{"id":4,"nodeType":"EnumValue","name":"Red"},{"id":5,"nodeType":"EnumValue","name":"Green"}]},
			{"id":6,"nodeType":"StructDefinition","name":"S","canonicalName":"C.S","members":[
				{"id":7,"nodeType":"VariableDeclaration","name":"x","typeDescriptions":{"typeIdentifier":"t_uint8"}},
				{"id":8,"nodeType":"VariableDeclaration","name":"e","referencedDeclaration":3,
					"typeDescriptions":{"typeIdentifier":"t_enum$_E_$3","typeString":"enum C.E"}}]}]}]}`)

	got, err := StoredTypes("k", unit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := format.TypesById{
		"k:2": format.ContractType{Kind: format.NativeContract, Id: "k:2", TypeName: "C", ContractKind: "contract"},
		"k:3": format.EnumType{Id: "k:3", TypeName: "E", DefiningContractName: "C", Options: []string{"Red", "Green"}},
		"k:6": format.StructType{Id: "k:6", TypeName: "S", DefiningContractName: "C", MemberTypes: []format.NameTypePair{
			{Name: "x", Type: format.UintType{Bits: 8}},
			{Name: "e", Type: format.EnumType{Id: "k:3", TypeName: "E", DefiningContractName: "C"}},
		}},
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("unexpected types, wanted %v, got %v", want, got)
	}
}
