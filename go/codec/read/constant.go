// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package read

import (
	"encoding/hex"
	"math/big"
	"regexp"

	"github.com/Fantom-foundation/codec/go/codec/ast"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/holiman/uint256"
)

var rationalPattern = regexp.MustCompile(`^t_rational_(minus_)?(\d+)_by_(\d+)$`)

// ReadConstant returns the value of a compile-time constant. Integer
// rationals yield a word in two's complement, string literals their raw
// bytes. The value of a variable declaration is the value of its
// initializer.
func ReadConstant(definition *ast.Node) ([]byte, error) {
	if definition == nil {
		return nil, &UnsupportedConstantError{}
	}
	node := definition
	if node.NodeType == "VariableDeclaration" && node.ValueExpression != nil {
		node = node.ValueExpression
	}
	switch {
	case node.IsRational():
		if word, ok := rationalWord(node.Identifier()); ok {
			return word[:], nil
		}
	case node.IsStringLiteral():
		if res, err := hex.DecodeString(node.HexValue); err == nil {
			return res, nil
		}
	}
	return nil, &UnsupportedConstantError{Definition: definition}
}

func rationalWord(identifier string) (evm.Word, bool) {
	m := rationalPattern.FindStringSubmatch(identifier)
	if m == nil || m[3] != "1" {
		return evm.Word{}, false
	}
	value, ok := new(big.Int).SetString(m[2], 10)
	if !ok {
		return evm.Word{}, false
	}
	if m[1] != "" {
		value.Neg(value)
	}
	res, overflow := uint256.FromBig(value)
	if overflow {
		return evm.Word{}, false
	}
	return evm.WordFromUint256(res), true
}
