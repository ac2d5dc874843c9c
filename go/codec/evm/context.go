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
	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"golang.org/x/crypto/sha3"
)

// Hash is the keccak256 hash of a contract's code.
type Hash [32]byte

// InternalFunction describes the target of an internal function pointer.
type InternalFunction struct {
	Name      string
	DefinedIn string
	Id        string
	// IsDesignatedInvalid marks the jump destination solc uses for
	// uninitialized function pointers.
	IsDesignatedInvalid bool
}

// Context describes one compiled contract, either its deployed code or its
// constructor.
type Context struct {
	Context       string
	ContractName  string
	ContractId    string
	ContractKind  string
	CompilationId string
	Binary        []byte
	IsConstructor bool
	Payable       bool
	Compiler      compiler.Compiler
	// Abi maps external function selectors to function names.
	Abi map[[SelectorSize]byte]string
	// InternalFunctions maps program counters to internal functions.
	InternalFunctions map[uint64]InternalFunction
}

// Family returns the solidity family of the compiler that produced the
// context.
func (c *Context) Family() compiler.Family {
	if c == nil {
		return compiler.FamilyUnknown
	}
	return compiler.SolidityFamily(c.Compiler)
}

// Contexts is a set of contexts indexed by id and by the hash of their
// deployed code.
type Contexts struct {
	byId   map[string]*Context
	byCode map[Hash]*Context
}

// NewContexts indexes the given contexts.
func NewContexts(contexts ...*Context) *Contexts {
	res := &Contexts{
		byId:   make(map[string]*Context, len(contexts)),
		byCode: make(map[Hash]*Context, len(contexts)),
	}
	for _, context := range contexts {
		res.byId[context.Context] = context
		if !context.IsConstructor && len(context.Binary) > 0 {
			res.byCode[HashCode(context.Binary)] = context
		}
	}
	return res
}

// Get returns the context with the given id or nil if there is none.
func (c *Contexts) Get(id string) *Context {
	if c == nil {
		return nil
	}
	return c.byId[id]
}

// FindByCode returns the deployed context whose binary equals code, or nil.
func (c *Contexts) FindByCode(code []byte) *Context {
	if c == nil || len(code) == 0 {
		return nil
	}
	return c.byCode[HashCode(code)]
}

// HashCode computes the keccak256 hash of the given code.
func HashCode(code []byte) (hash Hash) {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(code)
	copy(hash[:], hasher.Sum(nil))
	return
}
