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
	"fmt"
	"unicode/utf8"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
)

// DecodeBytes decodes a bytes or string value whose content p refers to.
// Length prefixes have to be resolved by the caller.
func DecodeBytes(t format.Type, p pointer.Pointer, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).bytes(t, p, options)
}

func (d *decoder) bytes(t format.Type, p pointer.Pointer, options Options) (format.Result, error) {
	data, err := read.Read(p, d.info.State, d.requester)
	if err != nil {
		return d.failOn(t, err, options)
	}
	return bytesValue(t, data)
}

func bytesValue(t format.Type, data []byte) (format.Result, error) {
	switch t := t.(type) {
	case format.BytesType:
		return format.BytesValue{DataType: t, AsHex: hex.EncodeToString(data)}, nil
	case format.StringType:
		return format.StringValue{DataType: t, Info: stringInfo(data)}, nil
	}
	return nil, fmt.Errorf("%v is neither bytes nor string", t)
}

// stringInfo keeps well-formed UTF-8 as text and everything else as hex.
func stringInfo(data []byte) format.StringValueInfo {
	if utf8.Valid(data) {
		return format.StringValueInfoValid{AsString: string(data)}
	}
	return format.StringValueInfoMalformed{AsHex: hex.EncodeToString(data)}
}
