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
	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
)

// DecodeSpecial decodes a special variable. The magic variables msg, tx,
// and block are assembled from the specials of the state and calldata.
func DecodeSpecial(t format.Type, p pointer.Special, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).special(t, p, options)
}

func (d *decoder) special(t format.Type, p pointer.Special, options Options) (format.Result, error) {
	if magic, ok := t.(format.MagicType); ok {
		return d.magic(magic, options)
	}
	return d.basic(t, p, options)
}

type magicMember struct {
	name    string
	special string
	typ     format.Type
	// optional members are omitted if the special is not present.
	optional bool
}

var (
	uint256Type = format.UintType{Bits: 256}
	magicTx     = []magicMember{
		{name: "origin", special: "origin", typ: format.AddressType{}},
		{name: "gasprice", special: "gasprice", typ: uint256Type},
	}
	magicBlock = []magicMember{
		{name: "coinbase", special: "coinbase", typ: format.AddressType{Payable: true}},
		{name: "difficulty", special: "difficulty", typ: uint256Type},
		{name: "gaslimit", special: "gaslimit", typ: uint256Type},
		{name: "number", special: "number", typ: uint256Type},
		{name: "timestamp", special: "timestamp", typ: uint256Type},
		{name: "chainid", special: "chainid", typ: uint256Type, optional: true},
		{name: "basefee", special: "basefee", typ: uint256Type, optional: true},
	}
)

func (d *decoder) magic(t format.MagicType, options Options) (format.Result, error) {
	var members []magicMember
	var res []format.NameValuePair
	switch t.Variable {
	case "msg":
		calldata := d.info.State.Calldata
		data, err := d.bytes(format.BytesType{Kind: format.DynamicBytes, Location: format.CalldataLocation},
			pointer.Calldata{Start: 0, Length: len(calldata)}, options)
		if err != nil {
			return nil, err
		}
		sig, err := d.basic(format.BytesType{Kind: format.StaticBytes, Length: evm.SelectorSize},
			pointer.Calldata{Start: 0, Length: evm.SelectorSize}, options)
		if err != nil {
			return nil, err
		}
		res = append(res, format.NameValuePair{Name: "data", Value: data}, format.NameValuePair{Name: "sig", Value: sig})
		members = []magicMember{
			{name: "sender", special: "sender", typ: format.AddressType{}},
			{name: "value", special: "value", typ: uint256Type},
		}
		if d.info.CurrentContext.Family() == compiler.FamilyPre050 {
			members = append(members, magicMember{name: "gas", special: "gas", typ: uint256Type, optional: true})
		}
	case "tx":
		members = magicTx
	case "block":
		members = magicBlock
	}

	for _, member := range members {
		if _, present := d.info.State.Specials[member.special]; member.optional && !present {
			continue
		}
		value, err := d.basic(member.typ, pointer.Special{Special: member.special}, options)
		if err != nil {
			return nil, err
		}
		res = append(res, format.NameValuePair{Name: member.name, Value: value})
	}
	return format.MagicValue{DataType: t, Value: res}, nil
}
