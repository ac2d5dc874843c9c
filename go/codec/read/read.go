// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package read provides one reader per pointer kind. Readers return exactly
// the bytes a pointer refers to and ask for code and storage that is not
// resident in the state through an evm.Requester.
package read

import (
	"fmt"
	"math"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
)

// Read returns the bytes p refers to. A nil requester answers all requests
// with "unavailable".
func Read(p pointer.Pointer, state *evm.State, requester evm.Requester) ([]byte, error) {
	if requester == nil {
		requester = evm.NoData
	}
	switch p := p.(type) {
	case pointer.Stack:
		return ReadStack(state.Stack, p.From, p.To)
	case pointer.StackLiteral:
		return p.Literal, nil
	case pointer.Memory, pointer.Calldata, pointer.Eventdata, pointer.Returndata:
		b, _ := pointer.Range(p)
		return ReadBytes(state.Source(p.Location().String()), b.Start, b.Length)
	case pointer.Code:
		return ReadCode(p, state, requester)
	case pointer.Storage:
		return ReadStorage(p.Range, state, requester)
	case pointer.EventTopic:
		return ReadTopic(state, p.Topic), nil
	case pointer.Special:
		return state.Specials[p.Special], nil
	case pointer.Definition:
		return ReadConstant(p.Definition)
	}
	return nil, fmt.Errorf("unsupported pointer %v", p)
}

// ReadStack returns the concatenation of the stack words from to to,
// inclusive.
func ReadStack(stack []evm.Word, from, to int) ([]byte, error) {
	if from < 0 || to >= len(stack) || from > to {
		return nil, &ReadErrorStack{From: from, To: to}
	}
	res := make([]byte, 0, (to-from+1)*evm.WordSize)
	for _, word := range stack[from : to+1] {
		res = append(res, word[:]...)
	}
	return res, nil
}

// ReadBytes returns length bytes of source starting at start. Bytes beyond
// the end of source read as zero.
func ReadBytes(source []byte, start, length int) ([]byte, error) {
	if start < 0 || length < 0 || start > math.MaxInt-length {
		return nil, &ReadErrorBytes{Start: start, Length: length}
	}
	res := make([]byte, length)
	if start < len(source) {
		copy(res, source[start:])
	}
	return res, nil
}

// ReadTopic returns the topic with the given index.
func ReadTopic(state *evm.State, index int) []byte {
	topic := state.EventTopics[index]
	return topic[:]
}

// ReadCode returns a range of the code of the contract being decoded,
// requesting the code if the state does not carry it. The state is not
// modified, requesters are expected to cache codes.
func ReadCode(p pointer.Code, state *evm.State, requester evm.Requester) ([]byte, error) {
	code := state.Code
	if code == nil {
		if requester == nil {
			requester = evm.NoData
		}
		address := state.This()
		var err error
		if code, err = requester.Request(&evm.CodeRequest{Address: address}); err != nil {
			return nil, err
		}
		if code == nil {
			return nil, &format.DecodingError{Err: &format.CodeNotSuppliedError{Address: address}}
		}
	}
	return ReadBytes(code, p.Start, p.Length)
}
