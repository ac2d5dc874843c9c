// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package ast models the parts of the solc JSON AST needed to import type
// metadata and constant definitions.
package ast

import (
	"encoding/json"
	"strings"
)

type TypeDescriptions struct {
	TypeIdentifier string `json:"typeIdentifier"`
	TypeString     string `json:"typeString"`
}

// Node is a node of the solc compact JSON AST. Only the fields consulted by
// the importers are modelled.
type Node struct {
	Id                    int              `json:"id"`
	NodeType              string           `json:"nodeType"`
	Name                  string           `json:"name,omitempty"`
	CanonicalName         string           `json:"canonicalName,omitempty"`
	TypeDescriptions      TypeDescriptions `json:"typeDescriptions"`
	TypeName              *Node            `json:"typeName,omitempty"`
	BaseType              *Node            `json:"baseType,omitempty"`
	KeyType               *Node            `json:"keyType,omitempty"`
	ValueType             *Node            `json:"valueType,omitempty"`
	ReferencedDeclaration int              `json:"referencedDeclaration,omitempty"`
	Members               []*Node          `json:"members,omitempty"`
	ContractKind          string           `json:"contractKind,omitempty"`
	Kind                  string           `json:"kind,omitempty"`
	Constant              bool             `json:"constant,omitempty"`
	HexValue              string           `json:"hexValue,omitempty"`
	Visibility            string           `json:"visibility,omitempty"`
	StateMutability       string           `json:"stateMutability,omitempty"`
	ParameterTypes        *Node            `json:"parameterTypes,omitempty"`
	ReturnParameterTypes  *Node            `json:"returnParameterTypes,omitempty"`
	Parameters            []*Node          `json:"parameters,omitempty"`
	StorageLocation       string           `json:"storageLocation,omitempty"`
	Nodes                 []*Node          `json:"nodes,omitempty"`

	// The "value" attribute is a string for literals and an expression
	// for variable declarations.
	LiteralValue    string `json:"-"`
	ValueExpression *Node  `json:"-"`
}

type plainNode Node

type nodeJson struct {
	*plainNode
	Value json.RawMessage `json:"value,omitempty"`
}

func (n *Node) UnmarshalJSON(data []byte) error {
	aux := nodeJson{plainNode: (*plainNode)(n)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	raw := strings.TrimSpace(string(aux.Value))
	switch {
	case raw == "" || raw == "null":
	case strings.HasPrefix(raw, `"`):
		return json.Unmarshal(aux.Value, &n.LiteralValue)
	default:
		n.ValueExpression = &Node{}
		return json.Unmarshal(aux.Value, n.ValueExpression)
	}
	return nil
}

func (n Node) MarshalJSON() ([]byte, error) {
	aux := nodeJson{plainNode: (*plainNode)(&n)}
	var err error
	if n.ValueExpression != nil {
		aux.Value, err = json.Marshal(n.ValueExpression)
	} else if n.LiteralValue != "" {
		aux.Value, err = json.Marshal(n.LiteralValue)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(aux)
}

// Identifier returns the solc type identifier of the node.
func (n *Node) Identifier() string {
	return n.TypeDescriptions.TypeIdentifier
}

// IsRational reports whether the node is a compile-time rational number.
func (n *Node) IsRational() bool {
	return strings.HasPrefix(n.Identifier(), "t_rational")
}

// IsStringLiteral reports whether the node is a string literal.
func (n *Node) IsStringLiteral() bool {
	return strings.HasPrefix(n.Identifier(), "t_stringliteral")
}

// typeNameNode returns the node describing the type of a declaration, or the
// node itself if it already is a type name.
func (n *Node) typeNameNode() *Node {
	if n.TypeName != nil {
		return n.TypeName
	}
	return n
}
