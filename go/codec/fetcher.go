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

	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source fetcher.go -destination fetcher_mock.go -package codec

// Fetcher retrieves on-chain data requested by decodings. A nil result with
// a nil error signals that the data is not available.
type Fetcher interface {
	// GetCode returns the deployed code of the given account.
	GetCode(ctx context.Context, address common.Address) ([]byte, error)
	// GetStorage returns the content of a storage slot of the given account.
	GetStorage(ctx context.Context, address common.Address, slot common.Hash) ([]byte, error)
}
