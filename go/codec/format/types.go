// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package format

import (
	"fmt"
	"strings"
)

// TypeClass enumerates the classes of the Solidity type universe.
type TypeClass int

const (
	BoolClass TypeClass = iota
	UintClass
	IntClass
	FixedClass
	UfixedClass
	AddressClass
	ContractClass
	BytesClass
	StringClass
	ArrayClass
	MappingClass
	StructClass
	EnumClass
	FunctionClass
	TupleClass
	MagicClass
)

func (c TypeClass) String() string {
	switch c {
	case BoolClass:
		return "bool"
	case UintClass:
		return "uint"
	case IntClass:
		return "int"
	case FixedClass:
		return "fixed"
	case UfixedClass:
		return "ufixed"
	case AddressClass:
		return "address"
	case ContractClass:
		return "contract"
	case BytesClass:
		return "bytes"
	case StringClass:
		return "string"
	case ArrayClass:
		return "array"
	case MappingClass:
		return "mapping"
	case StructClass:
		return "struct"
	case EnumClass:
		return "enum"
	case FunctionClass:
		return "function"
	case TupleClass:
		return "tuple"
	case MagicClass:
		return "magic"
	default:
		return fmt.Sprintf("TypeClass(%d)", c)
	}
}

// Location is the data location of a reference type.
type Location int

const (
	DefaultLocation Location = iota
	StorageLocation
	MemoryLocation
	CalldataLocation
)

func (l Location) String() string {
	switch l {
	case DefaultLocation:
		return ""
	case StorageLocation:
		return "storage"
	case MemoryLocation:
		return "memory"
	case CalldataLocation:
		return "calldata"
	default:
		return fmt.Sprintf("Location(%d)", l)
	}
}

// Type describes a Solidity type. The set of implementations is closed; use
// a type switch to distinguish them.
type Type interface {
	TypeClass() TypeClass
	String() string
}

type BoolType struct {
	TypeHint string
}

type UintType struct {
	Bits     int
	TypeHint string
}

type IntType struct {
	Bits     int
	TypeHint string
}

type FixedType struct {
	Bits     int
	Places   int
	TypeHint string
}

type UfixedType struct {
	Bits     int
	Places   int
	TypeHint string
}

type AddressType struct {
	Payable  bool
	TypeHint string
}

// ContractKind distinguishes contracts compiled together with the code being
// decoded from contracts known by name only.
type ContractKind int

const (
	NativeContract ContractKind = iota
	ForeignContract
)

type ContractType struct {
	Kind ContractKind
	// Id is only set for native contracts.
	Id           string
	TypeName     string
	ContractKind string
	Payable      bool
}

type BytesKind int

const (
	StaticBytes BytesKind = iota
	DynamicBytes
)

type BytesType struct {
	Kind BytesKind
	// Length is the length of static bytes types.
	Length   int
	Location Location
	TypeHint string
}

type StringType struct {
	Location Location
	TypeHint string
}

type ArrayKind int

const (
	StaticArray ArrayKind = iota
	DynamicArray
)

type ArrayType struct {
	BaseType Type
	Kind     ArrayKind
	// Length is the length of static arrays.
	Length   uint64
	Location Location
	TypeHint string
}

type MappingType struct {
	KeyType   Type
	ValueType Type
	Location  Location
}

// NameTypePair names a struct or tuple member.
type NameTypePair struct {
	Name string
	Type Type
}

// StructType is a user-defined struct. MemberTypes is nil for a reference
// to the struct that still has to be resolved through TypesById.
type StructType struct {
	Id                   string
	TypeName             string
	DefiningContractName string
	Location             Location
	MemberTypes          []NameTypePair
}

// EnumType is a user-defined enum. Options is nil for a reference to the
// enum that still has to be resolved through TypesById.
type EnumType struct {
	Id                   string
	TypeName             string
	DefiningContractName string
	Options              []string
}

type FunctionVisibility int

const (
	Internal FunctionVisibility = iota
	External
)

type FunctionType struct {
	Visibility           FunctionVisibility
	Mutability           string
	InputParameterTypes  []Type
	OutputParameterTypes []Type
	TypeHint             string
}

type TupleType struct {
	MemberTypes []NameTypePair
	TypeHint    string
}

// MagicType is the type of the magic variables msg, block, and tx.
type MagicType struct {
	Variable string
}

func (BoolType) TypeClass() TypeClass     { return BoolClass }
func (UintType) TypeClass() TypeClass     { return UintClass }
func (IntType) TypeClass() TypeClass      { return IntClass }
func (FixedType) TypeClass() TypeClass    { return FixedClass }
func (UfixedType) TypeClass() TypeClass   { return UfixedClass }
func (AddressType) TypeClass() TypeClass  { return AddressClass }
func (ContractType) TypeClass() TypeClass { return ContractClass }
func (BytesType) TypeClass() TypeClass    { return BytesClass }
func (StringType) TypeClass() TypeClass   { return StringClass }
func (ArrayType) TypeClass() TypeClass    { return ArrayClass }
func (MappingType) TypeClass() TypeClass  { return MappingClass }
func (StructType) TypeClass() TypeClass   { return StructClass }
func (EnumType) TypeClass() TypeClass     { return EnumClass }
func (FunctionType) TypeClass() TypeClass { return FunctionClass }
func (TupleType) TypeClass() TypeClass    { return TupleClass }
func (MagicType) TypeClass() TypeClass    { return MagicClass }

func (BoolType) String() string { return "bool" }

func (t UintType) String() string { return fmt.Sprintf("uint%d", t.Bits) }

func (t IntType) String() string { return fmt.Sprintf("int%d", t.Bits) }

func (t FixedType) String() string { return fmt.Sprintf("fixed%dx%d", t.Bits, t.Places) }

func (t UfixedType) String() string { return fmt.Sprintf("ufixed%dx%d", t.Bits, t.Places) }

func (t AddressType) String() string {
	if t.Payable {
		return "address payable"
	}
	return "address"
}

func (t ContractType) String() string {
	kind := t.ContractKind
	if kind == "" {
		kind = "contract"
	}
	return kind + " " + t.TypeName
}

func (t BytesType) String() string {
	if t.Kind == StaticBytes {
		return fmt.Sprintf("bytes%d", t.Length)
	}
	return "bytes"
}

func (StringType) String() string { return "string" }

func (t ArrayType) String() string {
	if t.Kind == StaticArray {
		return fmt.Sprintf("%v[%d]", t.BaseType, t.Length)
	}
	return fmt.Sprintf("%v[]", t.BaseType)
}

func (t MappingType) String() string {
	return fmt.Sprintf("mapping(%v => %v)", t.KeyType, t.ValueType)
}

func (t StructType) String() string {
	return "struct " + qualifiedName(t.DefiningContractName, t.TypeName)
}

func (t EnumType) String() string {
	return "enum " + qualifiedName(t.DefiningContractName, t.TypeName)
}

func (t FunctionType) String() string {
	builder := strings.Builder{}
	builder.WriteString("function (")
	builder.WriteString(joinTypes(t.InputParameterTypes))
	builder.WriteString(")")
	if t.Visibility == External {
		builder.WriteString(" external")
	} else {
		builder.WriteString(" internal")
	}
	if t.Mutability != "" && t.Mutability != "nonpayable" {
		builder.WriteString(" " + t.Mutability)
	}
	if len(t.OutputParameterTypes) > 0 {
		builder.WriteString(" returns (")
		builder.WriteString(joinTypes(t.OutputParameterTypes))
		builder.WriteString(")")
	}
	return builder.String()
}

func (t TupleType) String() string {
	types := make([]Type, 0, len(t.MemberTypes))
	for _, member := range t.MemberTypes {
		types = append(types, member.Type)
	}
	return "tuple(" + joinTypes(types) + ")"
}

func (t MagicType) String() string { return t.Variable }

func qualifiedName(contract, name string) string {
	if contract == "" {
		return name
	}
	return contract + "." + name
}

func joinTypes(types []Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}

// LocationOf returns the data location of reference types and
// DefaultLocation for all other types.
func LocationOf(t Type) Location {
	switch t := t.(type) {
	case BytesType:
		return t.Location
	case StringType:
		return t.Location
	case ArrayType:
		return t.Location
	case MappingType:
		return StorageLocation
	case StructType:
		return t.Location
	}
	return DefaultLocation
}

// IsReferenceType reports whether values of t are represented indirectly:
// arrays, structs, strings, dynamic bytes, and mappings.
func IsReferenceType(t Type) bool {
	switch t := t.(type) {
	case BytesType:
		return t.Kind == DynamicBytes
	case StringType, ArrayType, MappingType, StructType:
		return true
	}
	return false
}

// SpecifyLocation returns t with the data location of all contained
// reference types set to location. Mappings are only changed when location
// is storage.
func SpecifyLocation(t Type, location Location) Type {
	switch t := t.(type) {
	case BytesType:
		if t.Kind == DynamicBytes {
			t.Location = location
		}
		return t
	case StringType:
		t.Location = location
		return t
	case ArrayType:
		t.Location = location
		t.BaseType = SpecifyLocation(t.BaseType, location)
		return t
	case MappingType:
		if location == StorageLocation {
			t.KeyType = SpecifyLocation(t.KeyType, DefaultLocation)
			t.ValueType = SpecifyLocation(t.ValueType, location)
		}
		return t
	case StructType:
		t.Location = location
		return t
	}
	return t
}
