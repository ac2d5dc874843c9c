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

// DecodeTopic decodes an indexed event parameter. Topics of reference types
// and tuples only hold a hash of the value, which is reported as an
// IndexedReferenceTypeError carrying the raw topic.
func DecodeTopic(t format.Type, p pointer.EventTopic, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).topic(t, p, options)
}

func (d *decoder) topic(t format.Type, p pointer.EventTopic, options Options) (format.Result, error) {
	if _, isTuple := t.(format.TupleType); isTuple || format.IsReferenceType(t) {
		raw := read.ReadTopic(d.info.State, p.Topic)
		return format.ErrorResult{
			DataType: t,
			Error:    &format.IndexedReferenceTypeError{Type: t, Raw: hex.EncodeToString(raw)},
		}, nil
	}
	return d.basic(t, p, options)
}
