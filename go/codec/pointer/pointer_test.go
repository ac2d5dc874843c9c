// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package pointer

import (
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/format"
)

func TestLocation_String(t *testing.T) {
	tests := map[Location]string{
		StackLocation:      "stack",
		EventTopicLocation: "eventtopic",
		SpecialLocation:    "special",
		Location(-1):       "Location(-1)",
		Location(100):      "Location(100)",
	}
	for location, want := range tests {
		if got := location.String(); want != got {
			t.Errorf("unexpected name, wanted %q, got %q", want, got)
		}
	}
}

func TestPointer_RangeAndWithRangeKeepTheSource(t *testing.T) {
	pointers := []Pointer{
		Memory{Start: 1, Length: 2},
		Calldata{Start: 1, Length: 2},
		Eventdata{Start: 1, Length: 2},
		Returndata{Start: 1, Length: 2},
		Code{Start: 1, Length: 2},
	}
	for _, p := range pointers {
		b, ok := Range(p)
		if !ok {
			t.Fatalf("%v should be a byte range", p)
		}
		if want, got := (Bytes{Start: 1, Length: 2}), b; want != got {
			t.Errorf("unexpected range, wanted %v, got %v", want, got)
		}
		moved := WithRange(p, 5, 6)
		if want, got := p.Location(), moved.Location(); want != got {
			t.Errorf("unexpected location, wanted %v, got %v", want, got)
		}
		if b, _ := Range(moved); b != (Bytes{Start: 5, Length: 6}) {
			t.Errorf("unexpected range after move: %v", b)
		}
	}
	if _, ok := Range(Stack{}); ok {
		t.Errorf("stack pointers are not byte ranges")
	}
}

func TestPointer_WithRangePanicsForOtherPointers(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic")
		}
	}()
	WithRange(Special{Special: "this"}, 0, 1)
}

func TestSlot_PlusAddsToOffset(t *testing.T) {
	slot := NewSlot(3).Plus(4)
	if want, got := uint64(7), slot.Offset.Uint64(); want != got {
		t.Errorf("unexpected offset, wanted %d, got %d", want, got)
	}

	data := NewSlot(1).Hashed().Plus(2)
	if !data.HashPath || data.Path == nil {
		t.Fatalf("hashed slot lost its path")
	}
	if want, got := uint64(2), data.Offset.Uint64(); want != got {
		t.Errorf("unexpected offset, wanted %d, got %d", want, got)
	}
	if want, got := "keccak(1)+2", data.String(); want != got {
		t.Errorf("unexpected rendering, wanted %q, got %q", want, got)
	}
}

func TestSlot_MappingEntryKeepsKey(t *testing.T) {
	key := format.BoolValue{DataType: format.BoolType{}, AsBoolean: true}
	entry := NewSlot(5).MappingEntry(key)
	if entry.Key != key {
		t.Errorf("unexpected key %v", entry.Key)
	}
	if want, got := uint64(5), entry.Path.Offset.Uint64(); want != got {
		t.Errorf("unexpected path, wanted %d, got %d", want, got)
	}
	if !entry.Offset.IsZero() {
		t.Errorf("mapping entries start at offset zero")
	}
}
