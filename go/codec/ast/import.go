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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Fantom-foundation/codec/go/codec/format"
)

// UnsupportedTypeError is returned when a type identifier can not be
// translated into a format.Type.
type UnsupportedTypeError struct {
	Identifier string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported type identifier %q", e.Identifier)
}

var (
	classPattern    = regexp.MustCompile(`^t_([a-z]+)`)
	bitsPattern     = regexp.MustCompile(`^t_u?int(\d+)`)
	fixedPattern    = regexp.MustCompile(`^t_u?fixed(\d+)x(\d+)`)
	staticBytes     = regexp.MustCompile(`^t_bytes(\d+)`)
	locationPattern = regexp.MustCompile(`_(storage|memory|calldata)(_ptr|_slice)?$`)
	lengthPattern   = regexp.MustCompile(`\$(\d+|dyn)(_(storage|memory|calldata)(_ptr|_slice)?)?$`)
	functionPattern = regexp.MustCompile(`^t_function_(internal|external)_([a-z]+)`)
	namePattern     = regexp.MustCompile(`^(?:struct|enum|contract|library) (?:(\w+)\.)?(\w+)`)
)

// MakeTypeId returns the stable identifier of the user-defined type declared
// by the AST node with the given id. Ids of different compilations are
// distinguished by their compilation id.
func MakeTypeId(astId int, compilationId string) string {
	if compilationId == "" {
		return strconv.Itoa(astId)
	}
	return compilationId + ":" + strconv.Itoa(astId)
}

// DefinitionToType translates the type of a declaration or type name node
// into a format.Type. Referenced structs and enums are returned unresolved;
// use format.FullType to resolve them. If forceLocation is not
// DefaultLocation, all reference types are moved to that location.
func DefinitionToType(node *Node, compilationId string, forceLocation format.Location) (format.Type, error) {
	res, err := definitionToType(node, compilationId)
	if err != nil {
		return nil, err
	}
	if forceLocation != format.DefaultLocation {
		res = format.SpecifyLocation(res, forceLocation)
	}
	return res, nil
}

func definitionToType(node *Node, compilationId string) (format.Type, error) {
	identifier := node.Identifier()
	match := classPattern.FindStringSubmatch(identifier)
	if match == nil {
		return nil, &UnsupportedTypeError{Identifier: identifier}
	}
	typeName := node.typeNameNode()

	switch match[1] {
	case "bool":
		return format.BoolType{}, nil
	case "uint", "int":
		bits := 256
		if m := bitsPattern.FindStringSubmatch(identifier); m != nil {
			bits, _ = strconv.Atoi(m[1])
		}
		if match[1] == "uint" {
			return format.UintType{Bits: bits}, nil
		}
		return format.IntType{Bits: bits}, nil
	case "fixed", "ufixed":
		bits, places := 128, 18
		if m := fixedPattern.FindStringSubmatch(identifier); m != nil {
			bits, _ = strconv.Atoi(m[1])
			places, _ = strconv.Atoi(m[2])
		}
		if match[1] == "ufixed" {
			return format.UfixedType{Bits: bits, Places: places}, nil
		}
		return format.FixedType{Bits: bits, Places: places}, nil
	case "address":
		return format.AddressType{Payable: strings.HasPrefix(identifier, "t_address_payable")}, nil
	case "bytes":
		if m := staticBytes.FindStringSubmatch(identifier); m != nil {
			length, _ := strconv.Atoi(m[1])
			return format.BytesType{Kind: format.StaticBytes, Length: length}, nil
		}
		return format.BytesType{Kind: format.DynamicBytes, Location: location(identifier)}, nil
	case "string":
		return format.StringType{Location: location(identifier)}, nil
	case "array":
		if typeName.BaseType == nil {
			return nil, &UnsupportedTypeError{Identifier: identifier}
		}
		base, err := definitionToType(typeName.BaseType, compilationId)
		if err != nil {
			return nil, err
		}
		res := format.ArrayType{BaseType: base, Kind: format.DynamicArray, Location: location(identifier)}
		if m := lengthPattern.FindStringSubmatch(identifier); m != nil && m[1] != "dyn" {
			length, err := strconv.ParseUint(m[1], 10, 64)
			if err != nil {
				return nil, &UnsupportedTypeError{Identifier: identifier}
			}
			res.Kind = format.StaticArray
			res.Length = length
		}
		return res, nil
	case "mapping":
		if typeName.KeyType == nil || typeName.ValueType == nil {
			return nil, &UnsupportedTypeError{Identifier: identifier}
		}
		key, err := definitionToType(typeName.KeyType, compilationId)
		if err != nil {
			return nil, err
		}
		value, err := definitionToType(typeName.ValueType, compilationId)
		if err != nil {
			return nil, err
		}
		return format.MappingType{KeyType: key, ValueType: value, Location: format.StorageLocation}, nil
	case "struct":
		contract, name := userDefinedName(node)
		return format.StructType{
			Id:                   MakeTypeId(referencedId(node), compilationId),
			TypeName:             name,
			DefiningContractName: contract,
			Location:             location(identifier),
		}, nil
	case "enum":
		contract, name := userDefinedName(node)
		return format.EnumType{
			Id:                   MakeTypeId(referencedId(node), compilationId),
			TypeName:             name,
			DefiningContractName: contract,
		}, nil
	case "contract":
		_, name := userDefinedName(node)
		id := referencedId(node)
		if id == 0 {
			return format.ContractType{Kind: format.ForeignContract, TypeName: name}, nil
		}
		return format.ContractType{
			Kind:     format.NativeContract,
			Id:       MakeTypeId(id, compilationId),
			TypeName: name,
		}, nil
	case "function":
		return functionType(node, compilationId)
	}
	return nil, &UnsupportedTypeError{Identifier: identifier}
}

func functionType(node *Node, compilationId string) (format.Type, error) {
	identifier := node.Identifier()
	res := format.FunctionType{Visibility: format.Internal}
	if m := functionPattern.FindStringSubmatch(identifier); m != nil {
		if m[1] == "external" {
			res.Visibility = format.External
		}
		res.Mutability = m[2]
	}
	typeName := node.typeNameNode()
	var err error
	if res.InputParameterTypes, err = parameterTypes(typeName.ParameterTypes, compilationId); err != nil {
		return nil, err
	}
	if res.OutputParameterTypes, err = parameterTypes(typeName.ReturnParameterTypes, compilationId); err != nil {
		return nil, err
	}
	return res, nil
}

func parameterTypes(list *Node, compilationId string) ([]format.Type, error) {
	if list == nil {
		return nil, nil
	}
	res := make([]format.Type, 0, len(list.Parameters))
	for _, parameter := range list.Parameters {
		t, err := definitionToType(parameter, compilationId)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// DefinitionToStoredType translates a struct, enum, or contract definition
// into the full type stored in a format.TypesById table.
func DefinitionToStoredType(node *Node, compilationId string) (format.Type, error) {
	contract, name := splitCanonicalName(node)
	switch node.NodeType {
	case "StructDefinition":
		members := make([]format.NameTypePair, 0, len(node.Members))
		for _, member := range node.Members {
			t, err := definitionToType(member, compilationId)
			if err != nil {
				return nil, fmt.Errorf("member %s of struct %s: %w", member.Name, name, err)
			}
			members = append(members, format.NameTypePair{Name: member.Name, Type: t})
		}
		return format.StructType{
			Id:                   MakeTypeId(node.Id, compilationId),
			TypeName:             name,
			DefiningContractName: contract,
			MemberTypes:          members,
		}, nil
	case "EnumDefinition":
		options := make([]string, 0, len(node.Members))
		for _, member := range node.Members {
			options = append(options, member.Name)
		}
		return format.EnumType{
			Id:                   MakeTypeId(node.Id, compilationId),
			TypeName:             name,
			DefiningContractName: contract,
			Options:              options,
		}, nil
	case "ContractDefinition":
		return format.ContractType{
			Kind:         format.NativeContract,
			Id:           MakeTypeId(node.Id, compilationId),
			TypeName:     node.Name,
			ContractKind: node.ContractKind,
		}, nil
	}
	return nil, fmt.Errorf("node %d of type %s is not a type definition", node.Id, node.NodeType)
}

// StoredTypes imports all type definitions found below the given nodes.
func StoredTypes(compilationId string, nodes ...*Node) (format.TypesById, error) {
	res := format.TypesById{}
	var visit func(node *Node) error
	visit = func(node *Node) error {
		switch node.NodeType {
		case "StructDefinition", "EnumDefinition", "ContractDefinition":
			t, err := DefinitionToStoredType(node, compilationId)
			if err != nil {
				return err
			}
			res[MakeTypeId(node.Id, compilationId)] = t
		}
		if node.NodeType == "ContractDefinition" || node.NodeType == "SourceUnit" {
			for _, child := range node.Nodes {
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		return nil
	}
	for _, node := range nodes {
		if err := visit(node); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func location(identifier string) format.Location {
	m := locationPattern.FindStringSubmatch(identifier)
	if m == nil {
		return format.DefaultLocation
	}
	switch m[1] {
	case "storage":
		return format.StorageLocation
	case "memory":
		return format.MemoryLocation
	default:
		return format.CalldataLocation
	}
}

func referencedId(node *Node) int {
	typeName := node.typeNameNode()
	if typeName.ReferencedDeclaration != 0 {
		return typeName.ReferencedDeclaration
	}
	return node.ReferencedDeclaration
}

// userDefinedName extracts the defining contract and the name of a
// user-defined type from the type string of a reference to it.
func userDefinedName(node *Node) (string, string) {
	m := namePattern.FindStringSubmatch(node.TypeDescriptions.TypeString)
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

func splitCanonicalName(node *Node) (string, string) {
	if contract, name, found := strings.Cut(node.CanonicalName, "."); found {
		return contract, name
	}
	return "", node.Name
}
