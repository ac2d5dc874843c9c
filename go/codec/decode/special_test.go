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
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"golang.org/x/exp/slices"
)

func memberNames(t *testing.T, res format.Result) []string {
	t.Helper()
	magic, ok := res.(format.MagicValue)
	if !ok {
		t.Fatalf("expected a magic value, got %v", res)
	}
	names := make([]string, 0, len(magic.Value))
	for _, member := range magic.Value {
		names = append(names, member.Name)
	}
	return names
}

func TestDecodeSpecial_Msg(t *testing.T) {
	state := &evm.State{
		Calldata: []byte{0xa9, 0x05, 0x9c, 0xbb, 0x01},
		Specials: map[string][]byte{
			"sender": {0x12, 0x34},
			"value":  {0x01},
			"gas":    {0x10},
		},
	}
	tests := map[string]struct {
		version string
		want    []string
	}{
		"0.4.24": {"0.4.24", []string{"data", "sig", "sender", "value", "gas"}},
		"0.5.0":  {"0.5.0", []string{"data", "sig", "sender", "value"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			info := infoFor(state, nil)
			info.CurrentContext = &evm.Context{Compiler: compiler.Compiler{Name: "solc", Version: test.version}}
			res, err := DecodeSpecial(format.MagicType{Variable: "msg"}, pointer.Special{Special: "msg"}, info, nil, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want, got := test.want, memberNames(t, res); !slices.Equal(want, got) {
				t.Errorf("unexpected members, wanted %v, got %v", want, got)
			}
			members := res.(format.MagicValue).Value
			if want, got := "a9059cbb01", members[0].Value.(format.BytesValue).AsHex; want != got {
				t.Errorf("unexpected data, wanted %s, got %s", want, got)
			}
			if want, got := "a9059cbb", members[1].Value.(format.BytesValue).AsHex; want != got {
				t.Errorf("unexpected sig, wanted %s, got %s", want, got)
			}
		})
	}
}

func TestDecodeSpecial_BlockOmitsMissingOptionalMembers(t *testing.T) {
	state := &evm.State{Specials: map[string][]byte{
		"coinbase":   {0x01},
		"difficulty": {0x02},
		"gaslimit":   {0x03},
		"number":     {0x04},
		"timestamp":  {0x05},
		"chainid":    {0xfa},
	}}
	res, err := DecodeSpecial(format.MagicType{Variable: "block"}, pointer.Special{Special: "block"}, infoFor(state, nil), nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"coinbase", "difficulty", "gaslimit", "number", "timestamp", "chainid"}
	if got := memberNames(t, res); !slices.Equal(want, got) {
		t.Errorf("unexpected members, wanted %v, got %v", want, got)
	}
}

func TestDecodeSpecial_PlainSpecials(t *testing.T) {
	state := &evm.State{Specials: map[string][]byte{"this": {0xab}}}
	res, err := DecodeSpecial(format.AddressType{}, pointer.Special{Special: "this"}, infoFor(state, nil), nil, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := byte(0xab), res.(format.AddressValue).AsAddress[19]; want != got {
		t.Errorf("unexpected address, wanted %x, got %x", want, got)
	}
}
