// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package format

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

// UnknownUserDefinedTypeError is returned when a struct or enum can not be
// resolved through the TypesById table. It signals inconsistent metadata
// supplied by the caller rather than a property of the decoded data.
type UnknownUserDefinedTypeError struct {
	Id         string
	TypeString string
}

func (e *UnknownUserDefinedTypeError) Error() string {
	return fmt.Sprintf("unknown user-defined type %q (id %s)", e.TypeString, e.Id)
}

// DecoderError is a data-dependent decoding failure. It is attached to an
// ErrorResult instead of aborting the decoding.
type DecoderError interface {
	error
	ErrorKind() string
}

// DecodingError carries a DecoderError through Go error returns, from the
// point where it is detected to the decoder converting it into an
// ErrorResult.
type DecodingError struct {
	Err DecoderError
}

func (e *DecodingError) Error() string {
	return "decoding error: " + e.Err.Error()
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// IndexedReferenceTypeError reports a reference type stored in an event
// topic, where only its hash is available.
type IndexedReferenceTypeError struct {
	Type Type
	Raw  string
}

func (*IndexedReferenceTypeError) ErrorKind() string { return "IndexedReferenceTypeError" }

func (e *IndexedReferenceTypeError) Error() string {
	return fmt.Sprintf("indexed %v can not be decoded, raw topic %s", e.Type, e.Raw)
}

// EnumOutOfRangeError reports an enum value without a matching option.
type EnumOutOfRangeError struct {
	Type    EnumType
	RawAsBN *big.Int
}

func (*EnumOutOfRangeError) ErrorKind() string { return "EnumOutOfRangeError" }

func (e *EnumOutOfRangeError) Error() string {
	return fmt.Sprintf("value %v out of range for %v with %d options", e.RawAsBN, e.Type, len(e.Type.Options))
}

// EnumNotFoundDecodingError reports an enum whose definition is missing,
// keeping the raw numeric value.
type EnumNotFoundDecodingError struct {
	Type    EnumType
	RawAsBN *big.Int
}

func (*EnumNotFoundDecodingError) ErrorKind() string { return "EnumNotFoundDecodingError" }

func (e *EnumNotFoundDecodingError) Error() string {
	return fmt.Sprintf("definition of %v not found, raw value %v", e.Type, e.RawAsBN)
}

// UserDefinedTypeNotFoundError reports a struct whose definition is missing.
type UserDefinedTypeNotFoundError struct {
	Type Type
}

func (*UserDefinedTypeNotFoundError) ErrorKind() string { return "UserDefinedTypeNotFoundError" }

func (e *UserDefinedTypeNotFoundError) Error() string {
	return fmt.Sprintf("definition of %v not found", e.Type)
}

// BoolOutOfRangeError reports a boolean encoded as something other than 0
// or 1.
type BoolOutOfRangeError struct {
	RawAsBN *big.Int
}

func (*BoolOutOfRangeError) ErrorKind() string { return "BoolOutOfRangeError" }

func (e *BoolOutOfRangeError) Error() string {
	return fmt.Sprintf("invalid boolean value %v", e.RawAsBN)
}

// PaddingType describes where the padding of a value is expected.
type PaddingType int

const (
	PaddingLeft PaddingType = iota
	PaddingRight
	PaddingSigned
)

func (p PaddingType) String() string {
	switch p {
	case PaddingLeft:
		return "left"
	case PaddingRight:
		return "right"
	case PaddingSigned:
		return "signed"
	default:
		return fmt.Sprintf("PaddingType(%d)", p)
	}
}

// PaddingError reports a value whose padding bytes are not clean.
type PaddingError struct {
	Raw         string
	PaddingType PaddingType
}

func (*PaddingError) ErrorKind() string { return "PaddingError" }

func (e *PaddingError) Error() string {
	return fmt.Sprintf("invalid %v padding in %s", e.PaddingType, e.Raw)
}

// CodeNotSuppliedError reports a code request answered with "unavailable".
type CodeNotSuppliedError struct {
	Address common.Address
}

func (*CodeNotSuppliedError) ErrorKind() string { return "CodeNotSuppliedError" }

func (e *CodeNotSuppliedError) Error() string {
	return fmt.Sprintf("code of %v not supplied", e.Address)
}

// StorageNotSuppliedError reports a storage request answered with
// "unavailable".
type StorageNotSuppliedError struct {
	Slot common.Hash
}

func (*StorageNotSuppliedError) ErrorKind() string { return "StorageNotSuppliedError" }

func (e *StorageNotSuppliedError) Error() string {
	return fmt.Sprintf("storage slot %v not supplied", e.Slot)
}

// OverlongArrayOrStringError reports a length prefix exceeding the data
// available to back it.
type OverlongArrayOrStringError struct {
	LengthAsBN *big.Int
	DataLength uint64
}

func (*OverlongArrayOrStringError) ErrorKind() string { return "OverlongArrayOrStringError" }

func (e *OverlongArrayOrStringError) Error() string {
	return fmt.Sprintf("length %v exceeds available data of %d bytes", e.LengthAsBN, e.DataLength)
}

// OverlargePointerError reports a pointer beyond the end of its data
// source.
type OverlargePointerError struct {
	PointerAsBN *big.Int
	DataLength  uint64
}

func (*OverlargePointerError) ErrorKind() string { return "OverlargePointerError" }

func (e *OverlargePointerError) Error() string {
	return fmt.Sprintf("pointer %v exceeds available data of %d bytes", e.PointerAsBN, e.DataLength)
}

// NoSuchInternalFunctionError reports an internal function pointer that
// does not point to any known function.
type NoSuchInternalFunctionError struct {
	Context                   string
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

func (*NoSuchInternalFunctionError) ErrorKind() string { return "NoSuchInternalFunctionError" }

func (e *NoSuchInternalFunctionError) Error() string {
	return fmt.Sprintf("no internal function at pc %d (constructor pc %d) in %s",
		e.DeployedProgramCounter, e.ConstructorProgramCounter, e.Context)
}
