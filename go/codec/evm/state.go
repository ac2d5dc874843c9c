// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package evm

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// State is the aggregate of the raw byte sources available to one decoding
// session. Code and storage may be incomplete; missing parts are requested
// on demand. Apart from filling in Code once it has been fetched, decoders
// treat a State as read-only.
type State struct {
	Stack       []Word
	Memory      []byte
	Calldata    []byte
	Returndata  []byte
	EventData   []byte
	EventTopics []Word
	Storage     map[Word]Word
	// Code is nil as long as the code of the current contract is unknown.
	Code     []byte
	Specials map[string][]byte
}

// This returns the address held by the "this" special, which is the address
// whose code and storage are being decoded.
func (s *State) This() common.Address {
	return common.BytesToAddress(s.Specials["this"])
}

// Source returns the linear byte buffer backing the given location name.
func (s *State) Source(location string) []byte {
	switch location {
	case "memory":
		return s.Memory
	case "calldata":
		return s.Calldata
	case "returndata":
		return s.Returndata
	case "eventdata":
		return s.EventData
	case "code":
		return s.Code
	}
	return nil
}

const cutoffLength = 20

func (s *State) String() string {
	builder := strings.Builder{}
	builder.WriteString("{\n")
	builder.WriteString(fmt.Sprintf("\tStack: %d words\n", len(s.Stack)))
	for _, name := range []string{"memory", "calldata", "returndata", "eventdata", "code"} {
		data := s.Source(name)
		if name == "code" && data == nil {
			builder.WriteString("\tcode: not loaded\n")
			continue
		}
		if len(data) > cutoffLength {
			builder.WriteString(fmt.Sprintf("\t%s: 0x%x... (size: %d)\n", name, data[:cutoffLength], len(data)))
		} else {
			builder.WriteString(fmt.Sprintf("\t%s: 0x%x\n", name, data))
		}
	}
	builder.WriteString(fmt.Sprintf("\tTopics: %d\n", len(s.EventTopics)))
	builder.WriteString(fmt.Sprintf("\tStorage: %d slots\n", len(s.Storage)))
	names := maps.Keys(s.Specials)
	slices.Sort(names)
	for _, name := range names {
		builder.WriteString(fmt.Sprintf("\t%s: 0x%x\n", name, s.Specials[name]))
	}
	builder.WriteString("}")
	return builder.String()
}
