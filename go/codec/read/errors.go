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

	"github.com/Fantom-foundation/codec/go/codec/ast"
)

// ReadErrorStack is returned for a stack range that is not on the stack.
type ReadErrorStack struct {
	From, To int
}

func (e *ReadErrorStack) Error() string {
	return fmt.Sprintf("can not read stack words %d to %d", e.From, e.To)
}

// ReadErrorBytes is returned for a byte range that is not addressable.
type ReadErrorBytes struct {
	Start, Length int
}

func (e *ReadErrorBytes) Error() string {
	return fmt.Sprintf("can not read %d bytes at %d", e.Length, e.Start)
}

// UnsupportedConstantError is returned for constant definitions whose value
// can not be determined from the AST alone.
type UnsupportedConstantError struct {
	Definition *ast.Node
}

func (e *UnsupportedConstantError) Error() string {
	if e.Definition == nil {
		return "unsupported constant definition"
	}
	return fmt.Sprintf("unsupported constant definition %d of type %s",
		e.Definition.Id, e.Definition.Identifier())
}
