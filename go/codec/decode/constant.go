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
	"encoding/hex"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
)

// DecodeConstant decodes the value of a constant from its definition.
func DecodeConstant(t format.Type, p pointer.Definition, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).constant(t, p, options)
}

func (d *decoder) constant(t format.Type, p pointer.Definition, options Options) (format.Result, error) {
	data, err := read.ReadConstant(p.Definition)
	if err != nil {
		return nil, err
	}
	switch t := t.(type) {
	case format.BytesType:
		if t.Kind == format.DynamicBytes {
			return bytesValue(t, data)
		}
		raw := make([]byte, t.Length)
		if isRational(p) {
			// numeric literals are right-aligned in their word
			if len(data) >= t.Length {
				copy(raw, data[len(data)-t.Length:])
			}
		} else {
			copy(raw, data)
		}
		return format.BytesValue{DataType: t, AsHex: hex.EncodeToString(raw)}, nil
	case format.StringType:
		return bytesValue(t, data)
	}
	return d.literal(t, data, options)
}

func isRational(p pointer.Definition) bool {
	node := p.Definition
	if node.NodeType == "VariableDeclaration" && node.ValueExpression != nil {
		node = node.ValueExpression
	}
	return node.IsRational()
}
