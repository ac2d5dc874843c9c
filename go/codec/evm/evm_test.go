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
	"math"
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

func TestWord_NewWordIsRightAligned(t *testing.T) {
	w := NewWord(1, 2)
	if want, got := byte(1), w[30]; want != got {
		t.Errorf("unexpected byte, wanted %d, got %d", want, got)
	}
	if want, got := uint64(0x0102), w.ToUint256().Uint64(); want != got {
		t.Errorf("unexpected value, wanted %d, got %d", want, got)
	}
}

func TestWord_AddWrapsAround(t *testing.T) {
	var full Word
	for i := range full {
		full[i] = 0xff
	}
	if want, got := NewWord(1), full.Add(uint256.NewInt(2)); want != got {
		t.Errorf("unexpected sum, wanted %v, got %v", want, got)
	}
}

func TestWord_TextRoundTrip(t *testing.T) {
	w := NewWord(0xab, 0xcd)
	text, err := w.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var restored Word
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != restored {
		t.Errorf("round trip changed word, wanted %v, got %v", w, restored)
	}
}

func TestWord_UnmarshalTextRejectsInvalidInput(t *testing.T) {
	tests := map[string]string{
		"no prefix":  "abcd",
		"bad digits": "0xzz",
		"too short":  "0x0102",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			var w Word
			if err := w.UnmarshalText([]byte(input)); err == nil {
				t.Errorf("expected an error for %q", input)
			}
		})
	}
}

func TestSizeInWords(t *testing.T) {
	tests := map[string]struct{ size, want uint64 }{
		"empty":    {0, 0},
		"one byte": {1, 1},
		"one word": {32, 1},
		"partial":  {33, 2},
		"maximum":  {math.MaxUint64, math.MaxUint64/32 + 1},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := SizeInWords(test.size); test.want != got {
				t.Errorf("unexpected size, wanted %d, got %d", test.want, got)
			}
		})
	}
}

func TestContexts_FindByCodeSkipsConstructors(t *testing.T) {
	runtime := &Context{Context: "runtime", Binary: []byte{0x60, 0x80}}
	constructor := &Context{Context: "create", Binary: []byte{0x60, 0x81}, IsConstructor: true}
	contexts := NewContexts(runtime, constructor)

	if want, got := runtime, contexts.FindByCode([]byte{0x60, 0x80}); want != got {
		t.Errorf("unexpected context for runtime code")
	}
	if got := contexts.FindByCode([]byte{0x60, 0x81}); got != nil {
		t.Errorf("constructor code must not be matched, got %v", got.Context)
	}
	if want, got := constructor, contexts.Get("create"); want != got {
		t.Errorf("constructor not found by id")
	}
	if got := contexts.FindByCode(nil); got != nil {
		t.Errorf("empty code must not be matched")
	}
}

func TestContexts_NilIsEmpty(t *testing.T) {
	var contexts *Contexts
	if contexts.Get("any") != nil || contexts.FindByCode([]byte{1}) != nil {
		t.Errorf("nil contexts must not resolve anything")
	}
}

func TestHashCode_IsKeccak(t *testing.T) {
	code := []byte{0x60, 0x80, 0x60, 0x40}
	if want, got := Hash(crypto.Keccak256Hash(code)), HashCode(code); want != got {
		t.Errorf("unexpected hash, wanted %x, got %x", want, got)
	}
}

func TestContext_Family(t *testing.T) {
	var missing *Context
	if want, got := compiler.FamilyUnknown, missing.Family(); want != got {
		t.Errorf("unexpected family, wanted %v, got %v", want, got)
	}
	c := &Context{Compiler: compiler.Compiler{Name: "solc", Version: "0.4.24"}}
	if want, got := compiler.FamilyPre050, c.Family(); want != got {
		t.Errorf("unexpected family, wanted %v, got %v", want, got)
	}
}

func TestState_This(t *testing.T) {
	address := common.HexToAddress("0x1234")
	state := &State{Specials: map[string][]byte{"this": address[:]}}
	if want, got := address, state.This(); want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
}
