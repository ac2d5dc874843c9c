// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package read

import (
	"fmt"
	"math"

	"github.com/Fantom-foundation/codec/go/codec/encode"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/ethereum/go-ethereum/common"
)

// SlotAddress computes the storage address of a symbolic slot.
func SlotAddress(slot pointer.Slot) (evm.Word, error) {
	if slot.Path == nil {
		return evm.WordFromUint256(&slot.Offset), nil
	}
	path, err := SlotAddress(*slot.Path)
	if err != nil {
		return evm.Word{}, err
	}
	var base evm.Word
	switch {
	case slot.Key != nil:
		key := encode.EncodeMappingKey(slot.Key)
		if key == nil {
			return evm.Word{}, fmt.Errorf("can not encode mapping key %v", slot.Key)
		}
		base = slotHashes.hash(key, path)
	case slot.HashPath:
		base = slotHashes.hash(nil, path)
	default:
		base = path
	}
	return base.Add(&slot.Offset), nil
}

// ReadSlot returns the content of a storage slot. Slots missing from the
// state are requested.
func ReadSlot(slot pointer.Slot, state *evm.State, requester evm.Requester) (evm.Word, error) {
	address, err := SlotAddress(slot)
	if err != nil {
		return evm.Word{}, err
	}
	if word, found := state.Storage[address]; found {
		return word, nil
	}
	if requester == nil {
		requester = evm.NoData
	}
	data, err := requester.Request(&evm.StorageRequest{Slot: address})
	if err != nil {
		return evm.Word{}, err
	}
	if data == nil {
		return evm.Word{}, &format.DecodingError{Err: &format.StorageNotSuppliedError{Slot: common.Hash(address)}}
	}
	return evm.Word(common.BytesToHash(data)), nil
}

// ReadStorage returns the bytes of a storage range, which may span several
// consecutive slots.
func ReadStorage(r pointer.StorageRange, state *evm.State, requester evm.Requester) ([]byte, error) {
	if r.Offset < 0 || r.Length < 0 || r.Offset > evm.WordSize || r.Length > maxStorageRead {
		return nil, &ReadErrorBytes{Start: r.Offset, Length: r.Length}
	}
	end := r.Offset + r.Length
	slots := int(evm.SizeInWords(uint64(end)))
	data := make([]byte, 0, min(slots, initialStorageSlots)*evm.WordSize)
	for i := 0; i < slots; i++ {
		word, err := ReadSlot(r.Slot.Plus(uint64(i)), state, requester)
		if err != nil {
			return nil, err
		}
		data = append(data, word[:]...)
	}
	return data[r.Offset:end], nil
}

// maxStorageRead bounds the number of bytes read from storage at once.
const maxStorageRead = math.MaxInt32

// initialStorageSlots bounds the slots allocated up front by ReadStorage,
// longer ranges grow as their slots arrive.
const initialStorageSlots = 64
