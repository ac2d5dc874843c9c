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
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

const (
	// WordSize is the size of an EVM word in bytes.
	WordSize = 32
	// AddressSize is the size of an account address in bytes.
	AddressSize = 20
	// SelectorSize is the size of a function selector in bytes.
	SelectorSize = 4
	// PcSize is the number of bytes used to encode one program counter of an
	// internal function pointer.
	PcSize = 4
)

// Word represents an arbitrary 256-bit (32 byte) word in the EVM.
type Word [WordSize]byte

// NewWord creates a Word from the given big-endian bytes, padding leading
// zeros as needed. More than WordSize bytes is a programming error.
func NewWord(data ...byte) (result Word) {
	if len(data) > WordSize {
		panic("Too many bytes")
	}
	copy(result[WordSize-len(data):], data)
	return
}

// WordFromUint256 converts a *uint256.Int to a Word. If the input is nil, it
// returns the zero word.
func WordFromUint256(value *uint256.Int) Word {
	if value == nil {
		return Word{}
	}
	return value.Bytes32()
}

func (w Word) ToUint256() *uint256.Int {
	return new(uint256.Int).SetBytes(w[:])
}

func (w Word) IsZero() bool {
	return w == Word{}
}

// Add returns w + offset modulo 2^256.
func (w Word) Add(offset *uint256.Int) Word {
	return WordFromUint256(new(uint256.Int).Add(w.ToUint256(), offset))
}

func (w Word) String() string {
	return fmt.Sprintf("0x%x", w[:])
}

func (w Word) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Word) UnmarshalText(data []byte) error {
	s := string(data)
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("invalid format, does not start with 0x: %v", s)
	}
	decoded, err := hex.DecodeString(s[2:])
	if err != nil {
		return err
	}
	if want, got := WordSize, len(decoded); want != got {
		return fmt.Errorf("invalid format, wanted %d bytes, got %d", want, got)
	}
	copy(w[:], decoded)
	return nil
}

// SizeInWords returns the number of words required to store the given
// number of bytes.
func SizeInWords(size uint64) uint64 {
	if size > ^uint64(0)-(WordSize-1) {
		return ^uint64(0)/WordSize + 1
	}
	return (size + WordSize - 1) / WordSize
}
