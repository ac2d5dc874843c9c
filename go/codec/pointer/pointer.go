// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package pointer describes where a piece of data lives.
package pointer

import (
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec/ast"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/holiman/uint256"
)

// Location enumerates the data sources a Pointer may refer to.
type Location int

const (
	StackLocation Location = iota
	StackLiteralLocation
	MemoryLocation
	CalldataLocation
	EventdataLocation
	ReturndataLocation
	CodeLocation
	StorageLocation
	EventTopicLocation
	DefinitionLocation
	SpecialLocation
)

var locationNames = [...]string{
	StackLocation:        "stack",
	StackLiteralLocation: "stackliteral",
	MemoryLocation:       "memory",
	CalldataLocation:     "calldata",
	EventdataLocation:    "eventdata",
	ReturndataLocation:   "returndata",
	CodeLocation:         "code",
	StorageLocation:      "storage",
	EventTopicLocation:   "eventtopic",
	DefinitionLocation:   "definition",
	SpecialLocation:      "special",
}

func (l Location) String() string {
	if l < 0 || int(l) >= len(locationNames) {
		return fmt.Sprintf("Location(%d)", l)
	}
	return locationNames[l]
}

// Pointer identifies a piece of data. The set of implementations is closed.
type Pointer interface {
	Location() Location
	String() string
}

// Stack is an inclusive range of stack words, counted from the bottom.
type Stack struct {
	From, To int
}

// StackLiteral holds data that was already read from the stack.
type StackLiteral struct {
	Literal []byte
}

// Bytes is a byte range in a linear data source.
type Bytes struct {
	Start, Length int
}

type Memory Bytes
type Calldata Bytes
type Eventdata Bytes
type Returndata Bytes

// Code is a byte range in the deployed code of the contract being decoded.
type Code Bytes

// Storage is a byte range in contract storage.
type Storage struct {
	Range StorageRange
}

// EventTopic is an index into the topics of a log.
type EventTopic struct {
	Topic int
}

// Definition is a compile-time constant defined in the AST.
type Definition struct {
	Definition *ast.Node
}

// Special names a magic variable such as "this" or "sender".
type Special struct {
	Special string
}

func (Stack) Location() Location        { return StackLocation }
func (StackLiteral) Location() Location { return StackLiteralLocation }
func (Memory) Location() Location       { return MemoryLocation }
func (Calldata) Location() Location     { return CalldataLocation }
func (Eventdata) Location() Location    { return EventdataLocation }
func (Returndata) Location() Location   { return ReturndataLocation }
func (Code) Location() Location         { return CodeLocation }
func (Storage) Location() Location      { return StorageLocation }
func (EventTopic) Location() Location   { return EventTopicLocation }
func (Definition) Location() Location   { return DefinitionLocation }
func (Special) Location() Location      { return SpecialLocation }

func (p Stack) String() string        { return fmt.Sprintf("stack[%d..%d]", p.From, p.To) }
func (p StackLiteral) String() string { return fmt.Sprintf("stackliteral(0x%x)", p.Literal) }
func (p Memory) String() string       { return Bytes(p).format(MemoryLocation) }
func (p Calldata) String() string     { return Bytes(p).format(CalldataLocation) }
func (p Eventdata) String() string    { return Bytes(p).format(EventdataLocation) }
func (p Returndata) String() string   { return Bytes(p).format(ReturndataLocation) }
func (p Code) String() string         { return Bytes(p).format(CodeLocation) }
func (p Storage) String() string      { return "storage" + p.Range.String() }
func (p EventTopic) String() string   { return fmt.Sprintf("eventtopic[%d]", p.Topic) }
func (p Special) String() string      { return "special(" + p.Special + ")" }

func (p Definition) String() string {
	if p.Definition == nil {
		return "definition(nil)"
	}
	return fmt.Sprintf("definition(%d)", p.Definition.Id)
}

func (b Bytes) format(location Location) string {
	return fmt.Sprintf("%v[%d:+%d]", location, b.Start, b.Length)
}

// Range returns the byte range of a pointer into a linear data source.
func Range(p Pointer) (Bytes, bool) {
	switch p := p.(type) {
	case Memory:
		return Bytes(p), true
	case Calldata:
		return Bytes(p), true
	case Eventdata:
		return Bytes(p), true
	case Returndata:
		return Bytes(p), true
	case Code:
		return Bytes(p), true
	}
	return Bytes{}, false
}

// WithRange returns a pointer into the same linear data source as p
// covering the given range. It panics if p is not a linear pointer.
func WithRange(p Pointer, start, length int) Pointer {
	b := Bytes{Start: start, Length: length}
	switch p.(type) {
	case Memory:
		return Memory(b)
	case Calldata:
		return Calldata(b)
	case Eventdata:
		return Eventdata(b)
	case Returndata:
		return Returndata(b)
	case Code:
		return Code(b)
	}
	panic(fmt.Sprintf("%v is not a byte range pointer", p))
}

// Slot is the symbolic address of a storage slot. The address is the
// address of Path plus Offset, where the address of Path is first hashed
// together with Key for mapping entries, or hashed alone if HashPath is set.
// A nil Path stands for slot zero.
type Slot struct {
	Path     *Slot
	Offset   uint256.Int
	Key      format.Result
	HashPath bool
}

// NewSlot returns the slot at a fixed index.
func NewSlot(index uint64) Slot {
	res := Slot{}
	res.Offset.SetUint64(index)
	return res
}

// Plus returns the slot lying offset slots after s.
func (s Slot) Plus(offset uint64) Slot {
	res := s
	res.Offset.AddUint64(&s.Offset, offset)
	return res
}

// Hashed returns the first slot of the data area of a dynamic array or long
// string stored at s.
func (s Slot) Hashed() Slot {
	path := s
	return Slot{Path: &path, HashPath: true}
}

// MappingEntry returns the slot of the value stored under key in the mapping
// at s.
func (s Slot) MappingEntry(key format.Result) Slot {
	path := s
	return Slot{Path: &path, Key: key}
}

func (s Slot) String() string {
	prefix := ""
	switch {
	case s.Key != nil && s.Path != nil:
		prefix = fmt.Sprintf("keccak(%v, %v)+", s.Key, s.Path)
	case s.HashPath && s.Path != nil:
		prefix = fmt.Sprintf("keccak(%v)+", s.Path)
	case s.Path != nil:
		prefix = s.Path.String() + "+"
	}
	return prefix + s.Offset.Dec()
}

// StorageRange is a byte range within storage. Offset counts bytes from the
// most significant byte of Slot. A range may extend into following slots.
type StorageRange struct {
	Slot   Slot
	Offset int
	Length int
}

func (r StorageRange) String() string {
	return fmt.Sprintf("[%v:%d:+%d]", r.Slot, r.Offset, r.Length)
}
