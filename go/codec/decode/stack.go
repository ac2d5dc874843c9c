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
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec/allocate"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
)

// DecodeStack decodes a value held in one or more stack words. Reference
// types on the stack are pointers into memory, storage, or calldata.
func DecodeStack(t format.Type, p pointer.Stack, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).stack(t, p, options)
}

// DecodeLiteral decodes a value from stack words that were already read.
func DecodeLiteral(t format.Type, literal []byte, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).literal(t, literal, options)
}

func (d *decoder) stack(t format.Type, p pointer.Stack, options Options) (format.Result, error) {
	literal, err := read.ReadStack(d.info.State.Stack, p.From, p.To)
	if err != nil {
		return nil, err
	}
	return d.literal(t, literal, options)
}

func (d *decoder) literal(t format.Type, literal []byte, options Options) (format.Result, error) {
	if format.IsReferenceType(t) {
		switch format.LocationOf(t) {
		case format.MemoryLocation:
			start, decoderErr := offset(lastWord(literal), len(d.info.State.Memory))
			if decoderErr != nil {
				return d.fail(t, decoderErr, options)
			}
			return d.memoryReference(t, start, options)
		case format.StorageLocation:
			slot := pointer.Slot{}
			slot.Offset.SetBytes(lastWord(literal))
			return d.storage(t, pointer.StorageRange{Slot: slot, Length: evm.WordSize}, options)
		case format.CalldataLocation:
			return d.calldataReference(t, literal, options)
		}
		return nil, fmt.Errorf("reference type %v on the stack has no location", t)
	}

	if function, ok := t.(format.FunctionType); ok && function.Visibility == format.External && len(literal) >= 2*evm.WordSize {
		// address and selector occupy separate words
		raw := make([]byte, 0, evm.AddressSize+evm.SelectorSize)
		raw = append(raw, literal[evm.WordSize-evm.AddressSize:evm.WordSize]...)
		raw = append(raw, literal[2*evm.WordSize-evm.SelectorSize:2*evm.WordSize]...)
		return d.basicFromBytes(t, raw, options)
	}

	options.Padding = PermissivePadding
	return d.basicFromBytes(t, literal, options)
}

// calldataReference decodes a calldata value referenced from the stack.
// Bytes, strings, and dynamic arrays are referenced by their start and
// length, all other types by their start only.
func (d *decoder) calldataReference(t format.Type, literal []byte, options Options) (format.Result, error) {
	calldata := d.info.State.Calldata
	if !hasLengthWord(t) {
		start, decoderErr := offset(lastWord(literal), len(calldata))
		if decoderErr != nil {
			return d.fail(t, decoderErr, options)
		}
		return d.abiContents(t, pointer.Calldata{}, start, 0, options)
	}

	if len(literal) < 2*evm.WordSize {
		return nil, fmt.Errorf("%v in calldata needs two stack words, got %d bytes", t, len(literal))
	}
	start, decoderErr := offset(literal[:evm.WordSize], len(calldata))
	if decoderErr != nil {
		return d.fail(t, decoderErr, options)
	}
	available := len(calldata) - start
	if array, ok := t.(format.ArrayType); ok {
		elementSize, err := allocate.AbiSize(array.BaseType, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.UserDefinedTypeNotFoundError{Type: t}, options)
		}
		available /= max(elementSize, evm.WordSize)
	}
	size, decoderErr := length(literal[evm.WordSize:2*evm.WordSize], available, len(calldata))
	if decoderErr != nil {
		return d.fail(t, decoderErr, options)
	}
	return d.abiContents(t, pointer.Calldata{}, start, size, options)
}

func hasLengthWord(t format.Type) bool {
	switch t := t.(type) {
	case format.BytesType:
		return t.Kind == format.DynamicBytes
	case format.StringType:
		return true
	case format.ArrayType:
		return t.Kind == format.DynamicArray
	}
	return false
}

// lastWord returns the last word of data, left-padded if shorter.
func lastWord(data []byte) []byte {
	if len(data) >= evm.WordSize {
		return data[len(data)-evm.WordSize:]
	}
	word := evm.NewWord(data...)
	return word[:]
}
