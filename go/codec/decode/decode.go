// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package decode interprets the bytes a pointer refers to according to a
// type. Data-dependent failures are reported as format.ErrorResult values;
// errors are only returned for inconsistent metadata, malformed pointers,
// and failing requesters.
package decode

import (
	"errors"
	"fmt"
	"math"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/holiman/uint256"
)

// PaddingMode controls how padding bytes around direct values are checked.
type PaddingMode int

const (
	// DefaultPadding expects the padding solc produces for the type.
	DefaultPadding PaddingMode = iota
	// PermissivePadding ignores the content of padding bytes.
	PermissivePadding
	// ZeroPadding expects zero bytes to the left of all values.
	ZeroPadding
	// RightPadding expects zero bytes to the right of all values.
	RightPadding
)

func (m PaddingMode) String() string {
	switch m {
	case DefaultPadding:
		return "default"
	case PermissivePadding:
		return "permissive"
	case ZeroPadding:
		return "zero"
	case RightPadding:
		return "right"
	default:
		return fmt.Sprintf("PaddingMode(%d)", m)
	}
}

// Options tune a decoding.
type Options struct {
	Mode    format.Mode
	Padding PaddingMode
	// Strict turns data-dependent failures into *format.DecodingError
	// errors instead of error results.
	Strict bool
	// AbiPointerBase is the position ABI offsets are relative to.
	AbiPointerBase int
	// MaxStorageArrayLength bounds the number of elements of dynamic
	// storage arrays. Zero selects DefaultMaxStorageArrayLength.
	MaxStorageArrayLength uint64

	// memoryVisited lists the memory addresses of the enclosing objects,
	// innermost first.
	memoryVisited []int
}

// maxLength bounds the length of arrays and strings.
const maxLength = math.MaxInt32

// DefaultMaxStorageArrayLength is the element limit of dynamic storage
// arrays used unless Options say otherwise.
const DefaultMaxStorageArrayLength = 1 << 20

func (o Options) maxStorageArrayLength() uint64 {
	if o.MaxStorageArrayLength == 0 {
		return DefaultMaxStorageArrayLength
	}
	return min(o.MaxStorageArrayLength, maxLength)
}

type decoder struct {
	info      *evm.Info
	requester evm.Requester
}

func newDecoder(info *evm.Info, requester evm.Requester) *decoder {
	if requester == nil {
		requester = evm.NoData
	}
	return &decoder{info: info, requester: requester}
}

// Decode decodes the value of type t that p refers to, dispatching on the
// location of p.
func Decode(t format.Type, p pointer.Pointer, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).decode(t, p, options)
}

func (d *decoder) decode(t format.Type, p pointer.Pointer, options Options) (format.Result, error) {
	switch p := p.(type) {
	case pointer.Stack:
		return d.stack(t, p, options)
	case pointer.StackLiteral:
		return d.literal(t, p.Literal, options)
	case pointer.Memory:
		return d.memory(t, p, options)
	case pointer.Calldata, pointer.Eventdata, pointer.Returndata:
		return d.abi(t, p, options)
	case pointer.Storage:
		return d.storage(t, p.Range, options)
	case pointer.EventTopic:
		return d.topic(t, p, options)
	case pointer.Special:
		return d.special(t, p, options)
	case pointer.Definition:
		return d.constant(t, p, options)
	case pointer.Code:
		return d.basic(t, p, options)
	}
	return nil, fmt.Errorf("unsupported pointer %v", p)
}

// fail reports a data-dependent failure of decoding a value of type t.
func (d *decoder) fail(t format.Type, err format.DecoderError, options Options) (format.Result, error) {
	if options.Strict {
		return nil, &format.DecodingError{Err: err}
	}
	return format.ErrorResult{DataType: t, Error: err}, nil
}

// failOn turns reader errors carrying a data-dependent failure into error
// results and passes all other errors on.
func (d *decoder) failOn(t format.Type, err error, options Options) (format.Result, error) {
	var decodingErr *format.DecodingError
	if errors.As(err, &decodingErr) {
		return d.fail(t, decodingErr.Err, options)
	}
	return nil, err
}

// offset interprets a word as a position in a data source of the given
// length.
func offset(word []byte, dataLength int) (int, format.DecoderError) {
	value := new(uint256.Int).SetBytes(word)
	if !value.IsUint64() || value.Uint64() > uint64(dataLength) {
		return 0, &format.OverlargePointerError{PointerAsBN: value.ToBig(), DataLength: uint64(dataLength)}
	}
	return int(value.Uint64()), nil
}

// length interprets a word as the length of an array or string of which at
// most available elements can be backed by data.
func length(word []byte, available int, dataLength int) (int, format.DecoderError) {
	value := new(uint256.Int).SetBytes(word)
	if !value.IsUint64() || value.Uint64() > uint64(max(available, 0)) || value.Uint64() > maxLength {
		return 0, &format.OverlongArrayOrStringError{LengthAsBN: value.ToBig(), DataLength: uint64(dataLength)}
	}
	return int(value.Uint64()), nil
}
