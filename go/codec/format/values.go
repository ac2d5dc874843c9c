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
	"github.com/shopspring/decimal"
)

// Mode selects the fidelity of decoded results.
type Mode int

const (
	// ModeFull results identify contracts and functions where possible.
	ModeFull Mode = iota
	// ModeAbi results only carry what an ABI description could express.
	ModeAbi
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeAbi:
		return "abi"
	default:
		return fmt.Sprintf("Mode(%d)", m)
	}
}

// Result is the outcome of decoding a single value. It is either a Value or
// an ErrorResult.
type Result interface {
	Type() Type
	isResult()
}

// Value is a successfully decoded Result.
type Value interface {
	Result
	isValue()
}

// ErrorResult is a Result describing a data-dependent decoding failure.
type ErrorResult struct {
	DataType Type
	Error    DecoderError
}

// IsError reports whether r is an ErrorResult.
func IsError(r Result) bool {
	_, ok := r.(ErrorResult)
	return ok
}

type BoolValue struct {
	DataType  Type
	AsBoolean bool
}

type UintValue struct {
	DataType Type
	AsBN     *big.Int
}

type IntValue struct {
	DataType Type
	AsBN     *big.Int
}

type FixedValue struct {
	DataType Type
	AsBig    decimal.Decimal
}

type UfixedValue struct {
	DataType Type
	AsBig    decimal.Decimal
}

type AddressValue struct {
	DataType  Type
	AsAddress common.Address
}

// ContractValueInfo describes the contract an address points to, if it
// could be identified.
type ContractValueInfo interface {
	ContractAddress() common.Address
}

type ContractValueInfoKnown struct {
	Address common.Address
	Class   ContractType
}

type ContractValueInfoUnknown struct {
	Address common.Address
}

func (i ContractValueInfoKnown) ContractAddress() common.Address   { return i.Address }
func (i ContractValueInfoUnknown) ContractAddress() common.Address { return i.Address }

type ContractValue struct {
	DataType Type
	Info     ContractValueInfo
}

// BytesValue holds static or dynamic bytes as unprefixed lower-case hex.
type BytesValue struct {
	DataType Type
	AsHex    string
}

// StringValueInfo is either StringValueInfoValid or StringValueInfoMalformed.
type StringValueInfo interface {
	Kind() string
}

type StringValueInfoValid struct {
	AsString string
}

// StringValueInfoMalformed keeps bytes that are not valid UTF-8 as
// unprefixed hex.
type StringValueInfoMalformed struct {
	AsHex string
}

func (StringValueInfoValid) Kind() string     { return "valid" }
func (StringValueInfoMalformed) Kind() string { return "malformed" }

type StringValue struct {
	DataType Type
	Info     StringValueInfo
}

// Kind returns "valid" or "malformed".
func (v StringValue) Kind() string { return v.Info.Kind() }

type EnumValue struct {
	DataType    Type
	Name        string
	NumericAsBN *big.Int
}

// ArrayValue holds the elements of an array. A Reference other than zero
// marks a circular reference to the enclosing array at that depth; Value is
// nil in this case.
type ArrayValue struct {
	DataType  Type
	Value     []Result
	Reference int
}

type NameValuePair struct {
	Name  string
	Value Result
}

type KeyValuePair struct {
	Key   Result
	Value Result
}

// StructValue holds the members of a struct. Reference has the same meaning
// as for ArrayValue.
type StructValue struct {
	DataType  Type
	Value     []NameValuePair
	Reference int
}

type TupleValue struct {
	DataType  Type
	Value     []NameValuePair
	Reference int
}

type MappingValue struct {
	DataType Type
	Value    []KeyValuePair
}

// MagicValue holds the members of msg, block, or tx.
type MagicValue struct {
	DataType Type
	Value    []NameValuePair
}

// FunctionExternalValueInfo is one of the FunctionExternalValueInfo*
// variants.
type FunctionExternalValueInfo interface {
	FunctionSelector() [4]byte
}

// FunctionExternalValueInfoKnown names the function a selector refers to in
// an identified contract.
type FunctionExternalValueInfoKnown struct {
	Contract ContractValueInfoKnown
	Selector [4]byte
	Abi      string
}

// FunctionExternalValueInfoInvalid is a selector not present in an
// identified contract.
type FunctionExternalValueInfoInvalid struct {
	Contract ContractValueInfoKnown
	Selector [4]byte
}

type FunctionExternalValueInfoUnknown struct {
	Contract ContractValueInfoUnknown
	Selector [4]byte
}

func (i FunctionExternalValueInfoKnown) FunctionSelector() [4]byte   { return i.Selector }
func (i FunctionExternalValueInfoInvalid) FunctionSelector() [4]byte { return i.Selector }
func (i FunctionExternalValueInfoUnknown) FunctionSelector() [4]byte { return i.Selector }

type FunctionExternalValue struct {
	DataType Type
	Info     FunctionExternalValueInfo
}

// FunctionInternalValueInfo is one of the FunctionInternalValueInfo*
// variants.
type FunctionInternalValueInfo interface {
	ProgramCounters() (deployed, constructor uint64)
}

type FunctionInternalValueInfoKnown struct {
	Context                   string
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
	Name                      string
	DefinedIn                 string
}

// FunctionInternalValueInfoException is an uninitialized function pointer
// or one designated to revert.
type FunctionInternalValueInfoException struct {
	Context                   string
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

type FunctionInternalValueInfoUnknown struct {
	Context                   string
	DeployedProgramCounter    uint64
	ConstructorProgramCounter uint64
}

func (i FunctionInternalValueInfoKnown) ProgramCounters() (uint64, uint64) {
	return i.DeployedProgramCounter, i.ConstructorProgramCounter
}

func (i FunctionInternalValueInfoException) ProgramCounters() (uint64, uint64) {
	return i.DeployedProgramCounter, i.ConstructorProgramCounter
}

func (i FunctionInternalValueInfoUnknown) ProgramCounters() (uint64, uint64) {
	return i.DeployedProgramCounter, i.ConstructorProgramCounter
}

type FunctionInternalValue struct {
	DataType Type
	Info     FunctionInternalValueInfo
}

func (r ErrorResult) Type() Type           { return r.DataType }
func (v BoolValue) Type() Type             { return v.DataType }
func (v UintValue) Type() Type             { return v.DataType }
func (v IntValue) Type() Type              { return v.DataType }
func (v FixedValue) Type() Type            { return v.DataType }
func (v UfixedValue) Type() Type           { return v.DataType }
func (v AddressValue) Type() Type          { return v.DataType }
func (v ContractValue) Type() Type         { return v.DataType }
func (v BytesValue) Type() Type            { return v.DataType }
func (v StringValue) Type() Type           { return v.DataType }
func (v EnumValue) Type() Type             { return v.DataType }
func (v ArrayValue) Type() Type            { return v.DataType }
func (v StructValue) Type() Type           { return v.DataType }
func (v TupleValue) Type() Type            { return v.DataType }
func (v MappingValue) Type() Type          { return v.DataType }
func (v MagicValue) Type() Type            { return v.DataType }
func (v FunctionExternalValue) Type() Type { return v.DataType }
func (v FunctionInternalValue) Type() Type { return v.DataType }

func (ErrorResult) isResult()           {}
func (BoolValue) isResult()             {}
func (UintValue) isResult()             {}
func (IntValue) isResult()              {}
func (FixedValue) isResult()            {}
func (UfixedValue) isResult()           {}
func (AddressValue) isResult()          {}
func (ContractValue) isResult()         {}
func (BytesValue) isResult()            {}
func (StringValue) isResult()           {}
func (EnumValue) isResult()             {}
func (ArrayValue) isResult()            {}
func (StructValue) isResult()           {}
func (TupleValue) isResult()            {}
func (MappingValue) isResult()          {}
func (MagicValue) isResult()            {}
func (FunctionExternalValue) isResult() {}
func (FunctionInternalValue) isResult() {}

func (BoolValue) isValue()             {}
func (UintValue) isValue()             {}
func (IntValue) isValue()              {}
func (FixedValue) isValue()            {}
func (UfixedValue) isValue()           {}
func (AddressValue) isValue()          {}
func (ContractValue) isValue()         {}
func (BytesValue) isValue()            {}
func (StringValue) isValue()           {}
func (EnumValue) isValue()             {}
func (ArrayValue) isValue()            {}
func (StructValue) isValue()           {}
func (TupleValue) isValue()            {}
func (MappingValue) isValue()          {}
func (MagicValue) isValue()            {}
func (FunctionExternalValue) isValue() {}
func (FunctionInternalValue) isValue() {}
