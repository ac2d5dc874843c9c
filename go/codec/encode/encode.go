// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package encode turns decoded values back into the bytes they were decoded
// from, as far as this is needed to look up mapping entries and to match
// event topics.
package encode

import (
	"encoding/hex"
	"math/big"
	"unicode/utf8"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// EncodeBytes returns the raw content of a bytes or string value without
// length prefix or padding. Strings are encoded as UTF-8 if well-formed and
// by their preserved raw bytes otherwise. Other values yield nil.
func EncodeBytes(v format.Result) []byte {
	switch v := v.(type) {
	case format.BytesValue:
		return decodeHex(v.AsHex)
	case format.StringValue:
		switch info := v.Info.(type) {
		case format.StringValueInfoValid:
			if utf8.ValidString(info.AsString) {
				return []byte(info.AsString)
			}
		case format.StringValueInfoMalformed:
			return decodeHex(info.AsHex)
		}
	}
	return nil
}

// EncodeBasic returns the word representation of a value of a direct type:
// numbers are big-endian with two's complement for negative values, static
// bytes are right-padded, and everything else is left-padded. Values that
// have no word representation yield nil.
func EncodeBasic(v format.Result) []byte {
	switch v := v.(type) {
	case format.BoolValue:
		if v.AsBoolean {
			return word(uint256.NewInt(1))
		}
		return word(uint256.NewInt(0))
	case format.UintValue:
		return bigWord(v.AsBN)
	case format.IntValue:
		return bigWord(v.AsBN)
	case format.EnumValue:
		return bigWord(v.NumericAsBN)
	case format.FixedValue:
		places := 0
		if t, ok := v.DataType.(format.FixedType); ok {
			places = t.Places
		}
		return bigWord(v.AsBig.Shift(int32(places)).BigInt())
	case format.UfixedValue:
		places := 0
		if t, ok := v.DataType.(format.UfixedType); ok {
			places = t.Places
		}
		return bigWord(v.AsBig.Shift(int32(places)).BigInt())
	case format.AddressValue:
		res := evm.NewWord(v.AsAddress.Bytes()...)
		return res[:]
	case format.ContractValue:
		if v.Info == nil {
			return nil
		}
		address := v.Info.ContractAddress()
		res := evm.NewWord(address.Bytes()...)
		return res[:]
	case format.BytesValue:
		t, ok := v.DataType.(format.BytesType)
		if !ok || t.Kind != format.StaticBytes {
			return nil
		}
		raw := decodeHex(v.AsHex)
		if raw == nil || len(raw) > evm.WordSize {
			return nil
		}
		res := make([]byte, evm.WordSize)
		copy(res, raw)
		return res
	case format.FunctionExternalValue:
		if v.Info == nil {
			return nil
		}
		res := make([]byte, evm.WordSize)
		var address []byte
		switch info := v.Info.(type) {
		case format.FunctionExternalValueInfoKnown:
			address = info.Contract.Address.Bytes()
		case format.FunctionExternalValueInfoInvalid:
			address = info.Contract.Address.Bytes()
		case format.FunctionExternalValueInfoUnknown:
			address = info.Contract.Address.Bytes()
		}
		selector := v.Info.FunctionSelector()
		copy(res, address)
		copy(res[evm.AddressSize:], selector[:])
		return res
	}
	return nil
}

// EncodeMappingKey returns the bytes solc hashes together with the slot of a
// mapping to locate the entry for key.
func EncodeMappingKey(key format.Result) []byte {
	switch key.(type) {
	case format.StringValue:
		return EncodeBytes(key)
	case format.BytesValue:
		if t, ok := key.Type().(format.BytesType); ok && t.Kind == format.DynamicBytes {
			return EncodeBytes(key)
		}
	}
	return EncodeBasic(key)
}

// MappingKeyAsHex returns the encoded mapping key as 0x-prefixed hex.
func MappingKeyAsHex(key format.Result) string {
	return hexutil.Encode(EncodeMappingKey(key))
}

// EncodeTopic returns the topic a value was decoded from. Only values and
// topics holding indexed reference types can be encoded; all other errors
// yield nil.
func EncodeTopic(r format.Result) []byte {
	if res, ok := r.(format.ErrorResult); ok {
		if cause, ok := res.Error.(*format.IndexedReferenceTypeError); ok {
			return decodeHex(cause.Raw)
		}
		return nil
	}
	return EncodeBasic(r)
}

func word(v *uint256.Int) []byte {
	res := v.Bytes32()
	return res[:]
}

func bigWord(v *big.Int) []byte {
	if v == nil {
		return nil
	}
	res, overflow := uint256.FromBig(v)
	if overflow {
		return nil
	}
	return word(res)
}

func decodeHex(s string) []byte {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	res, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return res
}
