// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"encoding/hex"
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec/format"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type object = orderedmap.OrderedMap[string, any]

// render turns a result into a JSON-friendly tree preserving the order of
// members.
func render(r format.Result) *object {
	res := orderedmap.New[string, any]()
	if t := r.Type(); t != nil {
		res.Set("type", t.String())
	}
	switch r := r.(type) {
	case format.ErrorResult:
		res.Set("kind", "error")
		res.Set("error", r.Error.ErrorKind())
		res.Set("message", r.Error.Error())
		return res
	case format.BoolValue:
		res.Set("value", r.AsBoolean)
	case format.UintValue:
		res.Set("value", r.AsBN.String())
	case format.IntValue:
		res.Set("value", r.AsBN.String())
	case format.FixedValue:
		res.Set("value", r.AsBig.String())
	case format.UfixedValue:
		res.Set("value", r.AsBig.String())
	case format.AddressValue:
		res.Set("value", r.AsAddress.Hex())
	case format.ContractValue:
		res.Set("value", r.Info.ContractAddress().Hex())
		if known, ok := r.Info.(format.ContractValueInfoKnown); ok {
			res.Set("class", known.Class.String())
		}
	case format.BytesValue:
		res.Set("value", "0x"+r.AsHex)
	case format.StringValue:
		switch info := r.Info.(type) {
		case format.StringValueInfoValid:
			res.Set("value", info.AsString)
		case format.StringValueInfoMalformed:
			res.Set("malformed", "0x"+info.AsHex)
		}
	case format.EnumValue:
		res.Set("value", r.Name)
		res.Set("numeric", r.NumericAsBN.String())
	case format.ArrayValue:
		if r.Reference != 0 {
			res.Set("reference", r.Reference)
			break
		}
		elements := make([]*object, 0, len(r.Value))
		for _, element := range r.Value {
			elements = append(elements, render(element))
		}
		res.Set("value", elements)
	case format.StructValue:
		if r.Reference != 0 {
			res.Set("reference", r.Reference)
			break
		}
		res.Set("value", renderMembers(r.Value))
	case format.TupleValue:
		if r.Reference != 0 {
			res.Set("reference", r.Reference)
			break
		}
		res.Set("value", renderMembers(r.Value))
	case format.MagicValue:
		res.Set("value", renderMembers(r.Value))
	case format.MappingValue:
		entries := make([]*object, 0, len(r.Value))
		for _, entry := range r.Value {
			pair := orderedmap.New[string, any]()
			pair.Set("key", render(entry.Key))
			pair.Set("value", render(entry.Value))
			entries = append(entries, pair)
		}
		res.Set("value", entries)
	case format.FunctionExternalValue:
		selector := r.Info.FunctionSelector()
		res.Set("selector", "0x"+hex.EncodeToString(selector[:]))
		switch info := r.Info.(type) {
		case format.FunctionExternalValueInfoKnown:
			res.Set("contract", info.Contract.Address.Hex())
			res.Set("function", info.Abi)
		case format.FunctionExternalValueInfoInvalid:
			res.Set("contract", info.Contract.Address.Hex())
			res.Set("function", "<invalid>")
		case format.FunctionExternalValueInfoUnknown:
			res.Set("contract", info.Contract.Address.Hex())
		}
	case format.FunctionInternalValue:
		deployed, constructor := r.Info.ProgramCounters()
		res.Set("deployedProgramCounter", deployed)
		res.Set("constructorProgramCounter", constructor)
		switch info := r.Info.(type) {
		case format.FunctionInternalValueInfoKnown:
			res.Set("function", qualified(info.DefinedIn, info.Name))
		case format.FunctionInternalValueInfoException:
			res.Set("function", "<exception>")
		}
	}
	return res
}

func renderMembers(members []format.NameValuePair) *object {
	res := orderedmap.New[string, any]()
	for _, member := range members {
		res.Set(member.Name, render(member.Value))
	}
	return res
}

func qualified(contract, name string) string {
	if contract == "" {
		return name
	}
	return fmt.Sprintf("%s.%s", contract, name)
}
