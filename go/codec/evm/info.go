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
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
)

// Info bundles the state and the auxiliary metadata a decoder consults.
type Info struct {
	State            *State
	UserDefinedTypes format.TypesById
	CurrentContext   *Context
	Contexts         *Contexts
	// MappingKeys lists the storage slots of mapping entries known to the
	// caller. Mappings are decoded restricted to these keys.
	MappingKeys []pointer.Slot
}
