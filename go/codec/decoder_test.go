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
	"errors"
	"sync"
	"testing"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/mock/gomock"
)

var (
	thisAddress  = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	tokenAddress = common.HexToAddress("0x00000000000000000000000000000000000000bb")
	tokenCode    = []byte{0x60, 0x80, 0x60, 0x40}
	tokenType    = format.ContractType{Id: "1", TypeName: "Token"}
)

func testInfo(state *evm.State) *evm.Info {
	if state.Specials == nil {
		state.Specials = map[string][]byte{}
	}
	state.Specials["this"] = thisAddress.Bytes()
	return &evm.Info{
		State: state,
		Contexts: evm.NewContexts(&evm.Context{
			Context:      "token",
			ContractName: "Token",
			ContractId:   "1",
			Binary:       tokenCode,
		}),
	}
}

func newTestDecoder(t *testing.T, fetcher Fetcher, config Config) *Decoder {
	t.Helper()
	decoder, err := NewDecoder(fetcher, config, nil)
	if err != nil {
		t.Fatalf("failed to create decoder: %v", err)
	}
	return decoder
}

func TestDecoder_FetchesMissingStorageOfThisContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().GetStorage(gomock.Any(), thisAddress, common.Hash{}).Return([]byte{42}, nil)

	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	p := pointer.Storage{Range: pointer.StorageRange{Slot: pointer.NewSlot(0), Length: evm.WordSize}}
	res, err := decoder.Decode(context.Background(), format.UintType{Bits: 256}, p, testInfo(&evm.State{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := int64(42), res.(format.UintValue).AsBN.Int64(); want != got {
		t.Errorf("unexpected value, wanted %d, got %d", want, got)
	}
	if want, got := 1, decoder.Stats().StorageRequests; want != got {
		t.Errorf("unexpected number of storage requests, wanted %d, got %d", want, got)
	}
}

func TestDecoder_SlotsAreFetchedOncePerDecoding(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	// a struct of two uint128 members shares a single slot
	fetcher.EXPECT().GetStorage(gomock.Any(), thisAddress, gomock.Any()).Return([]byte{1}, nil).Times(1)

	info := testInfo(&evm.State{})
	info.UserDefinedTypes = format.TypesById{
		"s": format.StructType{Id: "s", TypeName: "S", MemberTypes: []format.NameTypePair{
			{Name: "a", Type: format.UintType{Bits: 128}},
			{Name: "b", Type: format.UintType{Bits: 128}},
		}},
	}
	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	p := pointer.Storage{Range: pointer.StorageRange{Slot: pointer.NewSlot(0), Length: evm.WordSize}}
	res, err := decoder.Decode(context.Background(), format.StructType{Id: "s", Location: format.StorageLocation}, p, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want, got := 2, len(res.(format.StructValue).Value); want != got {
		t.Errorf("unexpected number of members, wanted %d, got %d", want, got)
	}
}

func TestDecoder_CodeIsCachedAcrossDecodings(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().GetCode(gomock.Any(), tokenAddress).Return(tokenCode, nil).Times(1)

	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	word := evm.NewWord(tokenAddress.Bytes()...)
	for i := 0; i < 3; i++ {
		res, err := decoder.Decode(context.Background(), tokenType, pointer.StackLiteral{Literal: word[:]}, testInfo(&evm.State{}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		info, ok := res.(format.ContractValue).Info.(format.ContractValueInfoKnown)
		if !ok {
			t.Fatalf("contract was not identified: %v", res)
		}
		if want, got := "Token", info.Class.TypeName; want != got {
			t.Errorf("unexpected class, wanted %s, got %s", want, got)
		}
	}
	if want, got := 2, decoder.Stats().CacheHits; want != got {
		t.Errorf("unexpected number of cache hits, wanted %d, got %d", want, got)
	}
}

func TestDecoder_AbiModeProjectsResults(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	config := DefaultConfig()
	config.Mode = format.ModeAbi
	decoder := newTestDecoder(t, fetcher, config)
	word := evm.NewWord(tokenAddress.Bytes()...)
	res, err := decoder.Decode(context.Background(), tokenType, pointer.StackLiteral{Literal: word[:]}, testInfo(&evm.State{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	address, ok := res.(format.AddressValue)
	if !ok {
		t.Fatalf("expected an address, got %v", res)
	}
	if want, got := tokenAddress, address.AsAddress; want != got {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
}

func TestDecoder_FetchErrorsAreReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	injected := errors.New("injected")
	fetcher.EXPECT().GetCode(gomock.Any(), tokenAddress).Return(nil, injected)

	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	word := evm.NewWord(tokenAddress.Bytes()...)
	_, err := decoder.Decode(context.Background(), tokenType, pointer.StackLiteral{Literal: word[:]}, testInfo(&evm.State{}))
	if !errors.Is(err, injected) {
		t.Errorf("unexpected error, wanted %v, got %v", injected, err)
	}
}

func TestDecoder_CancelledContextStopsFetching(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	p := pointer.Storage{Range: pointer.StorageRange{Slot: pointer.NewSlot(0), Length: evm.WordSize}}
	_, err := decoder.Decode(ctx, format.UintType{Bits: 256}, p, testInfo(&evm.State{}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("unexpected error, wanted %v, got %v", context.Canceled, err)
	}
}

func TestNewDecoder_NegativeCacheSizeDisablesCaching(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().GetCode(gomock.Any(), tokenAddress).Return(tokenCode, nil).Times(2)

	decoder := newTestDecoder(t, fetcher, Config{CodeCacheSize: -1})
	word := evm.NewWord(tokenAddress.Bytes()...)
	for i := 0; i < 2; i++ {
		if _, err := decoder.Decode(context.Background(), tokenType, pointer.StackLiteral{Literal: word[:]}, testInfo(&evm.State{})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}

func TestDecoder_ConcurrentDecodingsShareInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	code := evm.NewWord(7)
	fetcher.EXPECT().GetCode(gomock.Any(), thisAddress).Return(code[:], nil).MinTimes(1)
	decoder := newTestDecoder(t, fetcher, DefaultConfig())
	info := testInfo(&evm.State{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := decoder.Decode(context.Background(), format.UintType{Bits: 256}, pointer.Code{Length: evm.WordSize}, info)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if want, got := int64(7), res.(format.UintValue).AsBN.Int64(); want != got {
				t.Errorf("unexpected value, wanted %d, got %d", want, got)
			}
		}()
	}
	wg.Wait()
	if info.State.Code != nil {
		t.Errorf("decoding must not modify the shared state")
	}
}

func TestDecoder_StorageArrayLengthLimitIsConfigurable(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	config := DefaultConfig()
	config.MaxStorageArrayLength = 1
	decoder := newTestDecoder(t, fetcher, config)

	info := testInfo(&evm.State{Storage: map[evm.Word]evm.Word{{}: evm.NewWord(2)}})
	typ := format.ArrayType{BaseType: format.UintType{Bits: 8}, Kind: format.DynamicArray, Location: format.StorageLocation}
	r := pointer.StorageRange{Slot: pointer.NewSlot(0), Length: evm.WordSize}
	res, err := decoder.Decode(context.Background(), typ, pointer.Storage{Range: r}, info)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	errorResult, ok := res.(format.ErrorResult)
	if !ok {
		t.Fatalf("expected an error result, got %v", res)
	}
	if _, ok := errorResult.Error.(*format.OverlongArrayOrStringError); !ok {
		t.Errorf("unexpected error %v", errorResult.Error)
	}
}
