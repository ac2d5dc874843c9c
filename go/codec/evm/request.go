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
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// RequestKind enumerates the kinds of data a suspended decoding may ask for.
type RequestKind int

const (
	CodeRequestKind RequestKind = iota
	StorageRequestKind
)

func (k RequestKind) String() string {
	switch k {
	case CodeRequestKind:
		return "code"
	case StorageRequestKind:
		return "storage"
	default:
		return fmt.Sprintf("RequestKind(%d)", k)
	}
}

// Request is a demand for data that is not resident in a State. A decoding
// that issues a request halts until the request is answered.
type Request interface {
	Kind() RequestKind
	String() string
}

// CodeRequest asks for the deployed code of the account at Address.
type CodeRequest struct {
	Address common.Address
}

func (*CodeRequest) Kind() RequestKind { return CodeRequestKind }

func (r *CodeRequest) String() string {
	return fmt.Sprintf("code(%v)", r.Address)
}

// StorageRequest asks for the content of a storage slot of the contract
// being decoded.
type StorageRequest struct {
	Slot Word
}

func (*StorageRequest) Kind() RequestKind { return StorageRequestKind }

func (r *StorageRequest) String() string {
	return fmt.Sprintf("storage(%v)", r.Slot)
}

// Requester answers requests issued by readers and decoders. A nil response
// with a nil error signals that the requested data is not available. A
// non-nil error aborts the decoding.
type Requester interface {
	Request(Request) ([]byte, error)
}

// RequesterFunc is an adapter allowing ordinary functions to be used as
// Requesters.
type RequesterFunc func(Request) ([]byte, error)

func (f RequesterFunc) Request(request Request) ([]byte, error) {
	return f(request)
}

// NoData is a Requester answering every request with "not available".
var NoData Requester = RequesterFunc(func(Request) ([]byte, error) {
	return nil, nil
})
