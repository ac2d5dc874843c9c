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

import "github.com/Fantom-foundation/codec/go/codec/format"

const (
	// ErrDecodingCancelled is reported by decodings that were closed while
	// waiting for a response.
	ErrDecodingCancelled = format.ConstError("decoding cancelled")
	// ErrEventMismatch is reported if the topics of a log do not match the
	// event definition used to decode it.
	ErrEventMismatch = format.ConstError("log does not match event")
)
