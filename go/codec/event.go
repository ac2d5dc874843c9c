// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package codec

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fantom-foundation/codec/go/codec/abify"
	"github.com/Fantom-foundation/codec/go/codec/allocate"
	"github.com/Fantom-foundation/codec/go/codec/decode"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// EventParameter is a parameter of an event.
type EventParameter struct {
	Name    string
	Type    format.Type
	Indexed bool
}

// EventDefinition describes the layout of a log emitted by an event.
type EventDefinition struct {
	Name       string
	Anonymous  bool
	Parameters []EventParameter
}

// Signature returns the canonical signature of the event, for instance
// "Transfer(address,address,uint256)".
func (e EventDefinition) Signature(userDefinedTypes format.TypesById) string {
	types := make([]string, 0, len(e.Parameters))
	for _, parameter := range e.Parameters {
		types = append(types, canonicalType(abify.AbifyType(parameter.Type, userDefinedTypes)))
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector returns the topic identifying logs of non-anonymous events.
func (e EventDefinition) Selector(userDefinedTypes format.TypesById) common.Hash {
	return crypto.Keccak256Hash([]byte(e.Signature(userDefinedTypes)))
}

// canonicalType renders an ABI type the way it appears in signatures.
func canonicalType(t format.Type) string {
	switch t := t.(type) {
	case format.AddressType:
		return "address"
	case format.FunctionType:
		return "function"
	case format.TupleType:
		members := make([]string, 0, len(t.MemberTypes))
		for _, member := range t.MemberTypes {
			members = append(members, canonicalType(member.Type))
		}
		return "(" + strings.Join(members, ",") + ")"
	case format.ArrayType:
		if t.Kind == format.StaticArray {
			return fmt.Sprintf("%s[%d]", canonicalType(t.BaseType), t.Length)
		}
		return canonicalType(t.BaseType) + "[]"
	}
	return t.String()
}

// DecodedEvent is the result of decoding a log.
type DecodedEvent struct {
	Name      string
	Arguments []format.NameValuePair
}

// DecodeEvent decodes the log held by the event topics and event data of
// info. Indexed parameters are taken from the topics, following the
// selector topic unless the event is anonymous, all other parameters are
// ABI decoded from the event data.
func (d *Decoder) DecodeEvent(ctx context.Context, event EventDefinition, info *evm.Info) (DecodedEvent, error) {
	topics := info.State.EventTopics
	topic := 0
	if !event.Anonymous {
		if len(topics) == 0 || common.Hash(topics[0]) != event.Selector(info.UserDefinedTypes) {
			return DecodedEvent{}, fmt.Errorf("%w: selector of %s not found", ErrEventMismatch, event.Name)
		}
		topic = 1
	}
	indexed := 0
	for _, parameter := range event.Parameters {
		if parameter.Indexed {
			indexed++
		}
	}
	if want, got := topic+indexed, len(topics); want != got {
		return DecodedEvent{}, fmt.Errorf("%w: %s needs %d topics, got %d", ErrEventMismatch, event.Name, want, got)
	}

	res := DecodedEvent{Name: event.Name, Arguments: make([]format.NameValuePair, 0, len(event.Parameters))}
	options := d.config.options()
	position := 0
	for _, parameter := range event.Parameters {
		var p pointer.Pointer
		if parameter.Indexed {
			p = pointer.EventTopic{Topic: topic}
			topic++
		} else {
			size, err := allocate.AbiSize(parameter.Type, info.UserDefinedTypes)
			if err != nil {
				return DecodedEvent{}, fmt.Errorf("parameter %s of %s: %w", parameter.Name, event.Name, err)
			}
			p = pointer.Eventdata{Start: position, Length: size}
			position += size
		}
		value, err := d.run(ctx, info, func(requester evm.Requester) (format.Result, error) {
			return decode.Decode(parameter.Type, p, info, requester, options)
		})
		if err != nil {
			return DecodedEvent{}, fmt.Errorf("parameter %s of %s: %w", parameter.Name, event.Name, err)
		}
		res.Arguments = append(res.Arguments, format.NameValuePair{Name: parameter.Name, Value: d.project(value, info)})
	}
	return res, nil
}
