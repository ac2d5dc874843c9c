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
	"github.com/Fantom-foundation/codec/go/codec/decode"
	"github.com/Fantom-foundation/codec/go/codec/format"
)

// Config contains the options of a Decoder.
type Config struct {
	// CodeCacheSize is the number of contract codes retained between
	// decodings. If set to 0, a default size is used. If negative, no cache
	// is used.
	CodeCacheSize int
	// Mode selects between full results and their ABI projection.
	Mode format.Mode
	// Padding selects how padding around direct values is checked.
	Padding decode.PaddingMode
	// Strict aborts decodings on the first data-dependent failure.
	Strict bool
	// MaxStorageArrayLength bounds the length of dynamic storage arrays.
	// If set to 0, decode.DefaultMaxStorageArrayLength is used.
	MaxStorageArrayLength uint64
}

const defaultCodeCacheSize = 1024

// DefaultConfig returns the configuration used if nothing else is specified.
func DefaultConfig() Config {
	return Config{CodeCacheSize: defaultCodeCacheSize, Mode: format.ModeFull}
}

func (c Config) options() decode.Options {
	return decode.Options{
		Mode:                  c.Mode,
		Padding:               c.Padding,
		Strict:                c.Strict,
		MaxStorageArrayLength: c.MaxStorageArrayLength,
	}
}
