// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package format

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TypesById maps the stable "<compilationId>:<astId>" identifiers of
// user-defined types to their full definitions.
type TypesById map[string]Type

// Lookup returns the full definition of the user-defined type with the given
// id.
func (t TypesById) Lookup(id string) (Type, bool) {
	res, found := t[id]
	return res, found
}

// Ids returns the ids of all types in ascending order.
func (t TypesById) Ids() []string {
	ids := maps.Keys(t)
	slices.Sort(ids)
	return ids
}

// FullType resolves references to user-defined structs and enums through
// userDefinedTypes. Resolved structs keep the location of t. All other
// types are returned unchanged. An id missing from userDefinedTypes yields
// an UnknownUserDefinedTypeError.
func FullType(t Type, userDefinedTypes TypesById) (Type, error) {
	switch t := t.(type) {
	case StructType:
		if t.MemberTypes != nil {
			return t, nil
		}
		stored, found := userDefinedTypes.Lookup(t.Id)
		if !found {
			return nil, &UnknownUserDefinedTypeError{Id: t.Id, TypeString: t.String()}
		}
		full, ok := stored.(StructType)
		if !ok {
			return nil, &UnknownUserDefinedTypeError{Id: t.Id, TypeString: t.String()}
		}
		full.Location = t.Location
		return full, nil
	case EnumType:
		if t.Options != nil {
			return t, nil
		}
		stored, found := userDefinedTypes.Lookup(t.Id)
		if !found {
			return nil, &UnknownUserDefinedTypeError{Id: t.Id, TypeString: t.String()}
		}
		full, ok := stored.(EnumType)
		if !ok {
			return nil, &UnknownUserDefinedTypeError{Id: t.Id, TypeString: t.String()}
		}
		return full, nil
	}
	return t, nil
}
