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
	"sync"

	"github.com/Fantom-foundation/codec/go/codec/abify"
	"github.com/Fantom-foundation/codec/go/codec/decode"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// Decoder decodes values of a contract, answering the requests of its
// decodings through a Fetcher. Fetched code is cached across decodings,
// fetched storage only within a single decoding. A Decoder may be used
// concurrently.
type Decoder struct {
	config  Config
	fetcher Fetcher
	log     *zap.Logger
	code    *lru.Cache[common.Address, []byte]

	statsMutex sync.Mutex
	stats      Stats
}

// Stats summarizes the data fetched by a Decoder.
type Stats struct {
	CodeRequests    int
	StorageRequests int
	CacheHits       int
	Unavailable     int
	FetchedBytes    uint64
}

// NewDecoder creates a Decoder fetching missing data from fetcher. A nil
// logger disables logging.
func NewDecoder(fetcher Fetcher, config Config, log *zap.Logger) (*Decoder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if config.CodeCacheSize == 0 {
		config.CodeCacheSize = defaultCodeCacheSize
	}
	var cache *lru.Cache[common.Address, []byte]
	if config.CodeCacheSize > 0 {
		var err error
		cache, err = lru.New[common.Address, []byte](config.CodeCacheSize)
		if err != nil {
			return nil, err
		}
	}
	return &Decoder{
		config:  config,
		fetcher: fetcher,
		log:     log,
		code:    cache,
	}, nil
}

// Stats returns a summary of the data fetched so far.
func (d *Decoder) Stats() Stats {
	d.statsMutex.Lock()
	defer d.statsMutex.Unlock()
	return d.stats
}

func (d *Decoder) record(update func(*Stats)) {
	d.statsMutex.Lock()
	defer d.statsMutex.Unlock()
	update(&d.stats)
}

// Decode decodes the value of type t that p refers to. In ABI mode the
// result is projected with abify.AbifyResult.
func (d *Decoder) Decode(ctx context.Context, t format.Type, p pointer.Pointer, info *evm.Info) (format.Result, error) {
	res, err := d.run(ctx, info, func(requester evm.Requester) (format.Result, error) {
		return decode.Decode(t, p, info, requester, d.config.options())
	})
	if err != nil {
		return nil, err
	}
	return d.project(res, info), nil
}

func (d *Decoder) project(res format.Result, info *evm.Info) format.Result {
	if d.config.Mode != format.ModeAbi {
		return res
	}
	return abify.AbifyResult(res, info.UserDefinedTypes)
}

// run drives a decoding to its end. Requests are answered by the fetcher
// on behalf of the contract whose state info describes.
func (d *Decoder) run(ctx context.Context, info *evm.Info, decodeFunc DecodeFunc) (format.Result, error) {
	storage := map[common.Hash][]byte{}
	this := info.State.This()
	return Run(decodeFunc, evm.RequesterFunc(func(request evm.Request) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch request := request.(type) {
		case *evm.CodeRequest:
			return d.getCode(ctx, request.Address)
		case *evm.StorageRequest:
			slot := common.Hash(request.Slot)
			if data, found := storage[slot]; found {
				return data, nil
			}
			data, err := d.getStorage(ctx, this, slot)
			if err != nil {
				return nil, err
			}
			storage[slot] = data
			return data, nil
		}
		return nil, fmt.Errorf("unsupported request %v", request)
	}))
}

func (d *Decoder) getCode(ctx context.Context, address common.Address) ([]byte, error) {
	if d.code != nil {
		if code, found := d.code.Get(address); found {
			d.record(func(s *Stats) { s.CacheHits++ })
			d.log.Debug("code cache hit", zap.Stringer("address", address))
			return code, nil
		}
	}
	d.log.Debug("fetching", zap.String("kind", "code"), zap.Stringer("address", address))
	code, err := d.fetcher.GetCode(ctx, address)
	if err != nil {
		d.log.Warn("fetching code failed", zap.Stringer("address", address), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch code of %v: %w", address, err)
	}
	d.record(func(s *Stats) {
		s.CodeRequests++
		s.FetchedBytes += uint64(len(code))
		if code == nil {
			s.Unavailable++
		}
	})
	if code != nil && d.code != nil {
		d.code.Add(address, code)
	}
	return code, nil
}

func (d *Decoder) getStorage(ctx context.Context, address common.Address, slot common.Hash) ([]byte, error) {
	d.log.Debug("fetching", zap.String("kind", "storage"), zap.Stringer("address", address), zap.Stringer("slot", slot))
	data, err := d.fetcher.GetStorage(ctx, address, slot)
	if err != nil {
		d.log.Warn("fetching storage failed", zap.Stringer("address", address), zap.Stringer("slot", slot), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch slot %v of %v: %w", slot, address, err)
	}
	d.record(func(s *Stats) {
		s.StorageRequests++
		s.FetchedBytes += uint64(len(data))
		if data == nil {
			s.Unavailable++
		}
	})
	return data, nil
}
