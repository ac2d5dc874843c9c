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
	"math/big"

	"github.com/Fantom-foundation/codec/go/codec/allocate"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/Fantom-foundation/codec/go/codec/read"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// DecodeBasic decodes a value of a direct type from the bytes p refers to.
func DecodeBasic(t format.Type, p pointer.Pointer, info *evm.Info, requester evm.Requester, options Options) (format.Result, error) {
	return newDecoder(info, requester).basic(t, p, options)
}

func (d *decoder) basic(t format.Type, p pointer.Pointer, options Options) (format.Result, error) {
	data, err := read.Read(p, d.info.State, d.requester)
	if err != nil {
		return d.failOn(t, err, options)
	}
	return d.basicFromBytes(t, data, options)
}

func (d *decoder) basicFromBytes(t format.Type, data []byte, options Options) (format.Result, error) {
	if enum, ok := t.(format.EnumType); ok {
		full, err := format.FullType(enum, d.info.UserDefinedTypes)
		if err != nil {
			return d.fail(t, &format.EnumNotFoundDecodingError{Type: enum, RawAsBN: new(big.Int).SetBytes(data)}, options)
		}
		t = full
	}

	raw, paddingErr, err := d.removePadding(t, data, options)
	if err != nil {
		return nil, err
	}
	if paddingErr != nil {
		return d.fail(t, paddingErr, options)
	}

	switch t := t.(type) {
	case format.BoolType:
		value := new(big.Int).SetBytes(raw)
		if value.Cmp(big.NewInt(1)) > 0 {
			return d.fail(t, &format.BoolOutOfRangeError{RawAsBN: value}, options)
		}
		return format.BoolValue{DataType: t, AsBoolean: value.Sign() == 1}, nil
	case format.UintType:
		return format.UintValue{DataType: t, AsBN: new(big.Int).SetBytes(raw)}, nil
	case format.IntType:
		return format.IntValue{DataType: t, AsBN: signed(raw)}, nil
	case format.FixedType:
		return format.FixedValue{DataType: t, AsBig: decimal.NewFromBigInt(signed(raw), -int32(t.Places))}, nil
	case format.UfixedType:
		return format.UfixedValue{DataType: t, AsBig: decimal.NewFromBigInt(new(big.Int).SetBytes(raw), -int32(t.Places))}, nil
	case format.AddressType:
		return format.AddressValue{DataType: t, AsAddress: common.BytesToAddress(raw)}, nil
	case format.ContractType:
		contract, _, err := d.contractInfo(common.BytesToAddress(raw), options)
		if err != nil {
			return nil, err
		}
		return format.ContractValue{DataType: t, Info: contract}, nil
	case format.BytesType:
		return format.BytesValue{DataType: t, AsHex: hex.EncodeToString(raw)}, nil
	case format.EnumType:
		numeric := new(big.Int).SetBytes(raw)
		if !numeric.IsInt64() || numeric.Int64() >= int64(len(t.Options)) {
			return d.fail(t, &format.EnumOutOfRangeError{Type: t, RawAsBN: numeric}, options)
		}
		return format.EnumValue{DataType: t, Name: t.Options[numeric.Int64()], NumericAsBN: numeric}, nil
	case format.FunctionType:
		if t.Visibility == format.External {
			return d.externalFunction(t, raw, options)
		}
		return d.internalFunction(t, raw, options)
	}
	return nil, fmt.Errorf("can not decode %v as a direct value", t)
}

// removePadding strips the padding around a direct value. A data-dependent
// padding failure is returned as a DecoderError.
func (d *decoder) removePadding(t format.Type, data []byte, options Options) ([]byte, format.DecoderError, error) {
	size, err := allocate.ByteLength(t, d.info.UserDefinedTypes)
	if err != nil {
		return nil, nil, err
	}
	paddingType := paddingTypeOf(t, options.Padding)
	if len(data) < size {
		padded := make([]byte, size)
		if paddingType == format.PaddingRight {
			copy(padded, data)
		} else {
			copy(padded[size-len(data):], data)
		}
		return padded, nil, nil
	}

	padding := len(data) - size
	var raw, pad []byte
	fill := byte(0)
	switch paddingType {
	case format.PaddingRight:
		raw, pad = data[:size], data[size:]
	case format.PaddingSigned:
		raw, pad = data[padding:], data[:padding]
		if size > 0 && raw[0]&0x80 != 0 {
			fill = 0xff
		}
	default:
		raw, pad = data[padding:], data[:padding]
	}
	if options.Padding != PermissivePadding {
		for _, b := range pad {
			if b != fill {
				return nil, &format.PaddingError{Raw: hex.EncodeToString(data), PaddingType: paddingType}, nil
			}
		}
	}
	return raw, nil, nil
}

func paddingTypeOf(t format.Type, mode PaddingMode) format.PaddingType {
	switch mode {
	case ZeroPadding:
		return format.PaddingLeft
	case RightPadding:
		return format.PaddingRight
	}
	switch t := t.(type) {
	case format.IntType, format.FixedType:
		return format.PaddingSigned
	case format.BytesType:
		return format.PaddingRight
	case format.FunctionType:
		if t.Visibility == format.External {
			return format.PaddingRight
		}
	}
	return format.PaddingLeft
}

// signed interprets raw as a two's complement number.
func signed(raw []byte) *big.Int {
	if len(raw) == 0 {
		return new(big.Int)
	}
	value := new(uint256.Int).SetBytes(raw)
	value.ExtendSign(value, uint256.NewInt(uint64(len(raw)-1)))
	if value.Sign() >= 0 {
		return value.ToBig()
	}
	return new(big.Int).Neg(new(uint256.Int).Neg(value).ToBig())
}

// contractInfo identifies the contract deployed at address by matching its
// code against the known contexts.
func (d *decoder) contractInfo(address common.Address, options Options) (format.ContractValueInfo, *evm.Context, error) {
	unknown := format.ContractValueInfoUnknown{Address: address}
	if options.Mode == format.ModeAbi || d.info.Contexts == nil {
		return unknown, nil, nil
	}
	code, err := d.requester.Request(&evm.CodeRequest{Address: address})
	if err != nil {
		return nil, nil, err
	}
	if code == nil {
		return unknown, nil, nil
	}
	context := d.info.Contexts.FindByCode(code)
	if context == nil {
		return unknown, nil, nil
	}
	return format.ContractValueInfoKnown{
		Address: address,
		Class: format.ContractType{
			Kind:         format.NativeContract,
			Id:           context.ContractId,
			TypeName:     context.ContractName,
			ContractKind: context.ContractKind,
			Payable:      context.Payable,
		},
	}, context, nil
}

func (d *decoder) externalFunction(t format.FunctionType, raw []byte, options Options) (format.Result, error) {
	address := common.BytesToAddress(raw[:evm.AddressSize])
	var selector [evm.SelectorSize]byte
	copy(selector[:], raw[evm.AddressSize:])

	contract, context, err := d.contractInfo(address, options)
	if err != nil {
		return nil, err
	}
	var info format.FunctionExternalValueInfo
	switch contract := contract.(type) {
	case format.ContractValueInfoKnown:
		if name, found := context.Abi[selector]; found {
			info = format.FunctionExternalValueInfoKnown{Contract: contract, Selector: selector, Abi: name}
		} else {
			info = format.FunctionExternalValueInfoInvalid{Contract: contract, Selector: selector}
		}
	default:
		info = format.FunctionExternalValueInfoUnknown{
			Contract: format.ContractValueInfoUnknown{Address: address},
			Selector: selector,
		}
	}
	return format.FunctionExternalValue{DataType: t, Info: info}, nil
}

func (d *decoder) internalFunction(t format.FunctionType, raw []byte, options Options) (format.Result, error) {
	constructorPc := new(big.Int).SetBytes(raw[:evm.PcSize]).Uint64()
	deployedPc := new(big.Int).SetBytes(raw[evm.PcSize:]).Uint64()
	context := d.info.CurrentContext
	contextName := ""
	if context != nil {
		contextName = context.Context
	}

	if options.Mode == format.ModeAbi || context == nil || context.InternalFunctions == nil {
		return format.FunctionInternalValue{DataType: t, Info: format.FunctionInternalValueInfoUnknown{
			Context:                   contextName,
			DeployedProgramCounter:    deployedPc,
			ConstructorProgramCounter: constructorPc,
		}}, nil
	}

	exception := format.FunctionInternalValue{DataType: t, Info: format.FunctionInternalValueInfoException{
		Context:                   contextName,
		DeployedProgramCounter:    deployedPc,
		ConstructorProgramCounter: constructorPc,
	}}
	if deployedPc == 0 && constructorPc == 0 {
		return exception, nil
	}
	pc := deployedPc
	if context.IsConstructor {
		pc = constructorPc
	}
	function, found := context.InternalFunctions[pc]
	if !found {
		return d.fail(t, &format.NoSuchInternalFunctionError{
			Context:                   contextName,
			DeployedProgramCounter:    deployedPc,
			ConstructorProgramCounter: constructorPc,
		}, options)
	}
	if function.IsDesignatedInvalid {
		return exception, nil
	}
	return format.FunctionInternalValue{DataType: t, Info: format.FunctionInternalValueInfoKnown{
		Context:                   contextName,
		DeployedProgramCounter:    deployedPc,
		ConstructorProgramCounter: constructorPc,
		Name:                      function.Name,
		DefinedIn:                 function.DefinedIn,
	}}, nil
}
