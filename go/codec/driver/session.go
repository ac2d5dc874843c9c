// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Fantom-foundation/codec/go/codec/ast"
	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
	"github.com/Fantom-foundation/codec/go/codec/pointer"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// session is the content of a session file. It describes the data of one
// contract together with the metadata needed to decode its variables.
type session struct {
	CompilationId string            `yaml:"compilationId"`
	Compiler      compiler.Compiler `yaml:"compiler"`
	// Sources are solc AST source units in their JSON form.
	Sources   []any                  `yaml:"sources"`
	Contexts  []contextSpec          `yaml:"contexts"`
	State     stateSpec              `yaml:"state"`
	Accounts  map[string]accountSpec `yaml:"accounts"`
	Variables []variableSpec         `yaml:"variables"`
	// Current names the context of the code being decoded.
	Current string `yaml:"current"`
}

type contextSpec struct {
	Context       string `yaml:"context"`
	ContractName  string `yaml:"contractName"`
	ContractId    string `yaml:"contractId"`
	ContractKind  string `yaml:"contractKind"`
	Binary        string `yaml:"binary"`
	IsConstructor bool   `yaml:"isConstructor"`
	Payable       bool   `yaml:"payable"`
	// Abi maps 0x-prefixed selectors to function names.
	Abi map[string]string `yaml:"abi"`
}

type stateSpec struct {
	Stack      []string          `yaml:"stack"`
	Memory     string            `yaml:"memory"`
	Calldata   string            `yaml:"calldata"`
	Returndata string            `yaml:"returndata"`
	EventData  string            `yaml:"eventdata"`
	Topics     []string          `yaml:"topics"`
	Storage    map[string]string `yaml:"storage"`
	Code       string            `yaml:"code"`
	Specials   map[string]string `yaml:"specials"`
}

type accountSpec struct {
	Code    string            `yaml:"code"`
	Storage map[string]string `yaml:"storage"`
}

type variableSpec struct {
	Name string `yaml:"name"`
	// Definition is the solc AST node declaring the variable.
	Definition any         `yaml:"definition"`
	Pointer    pointerSpec `yaml:"pointer"`
}

type pointerSpec struct {
	Location string `yaml:"location"`
	From     int    `yaml:"from"`
	To       int    `yaml:"to"`
	Start    int    `yaml:"start"`
	Length   int    `yaml:"length"`
	Slot     string `yaml:"slot"`
	Offset   int    `yaml:"offset"`
	Topic    int    `yaml:"topic"`
	Special  string `yaml:"special"`
	Literal  string `yaml:"literal"`
}

func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session file")
	}
	return parseSession(data)
}

func parseSession(data []byte) (*session, error) {
	res := &session{}
	if err := yaml.Unmarshal(data, res); err != nil {
		return nil, errors.Wrap(err, "failed to parse session")
	}
	return res, nil
}

// toNode converts a YAML-decoded AST node into an ast.Node.
func toNode(value any) (*ast.Node, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	res := &ast.Node{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, err
	}
	return res, nil
}

// decodeHex decodes 0x-prefixed hex; the empty string is no data.
func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hexutil.Decode(s)
}

func decodeWord(s string) (evm.Word, error) {
	data, err := decodeHex(s)
	if err != nil {
		return evm.Word{}, err
	}
	if len(data) > evm.WordSize {
		return evm.Word{}, fmt.Errorf("%s exceeds %d bytes", s, evm.WordSize)
	}
	return evm.NewWord(data...), nil
}

func decodeStorage(entries map[string]string) (map[evm.Word]evm.Word, error) {
	res := make(map[evm.Word]evm.Word, len(entries))
	for key, value := range entries {
		slot, err := decodeWord(key)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid slot %s", key)
		}
		word, err := decodeWord(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value of slot %s", key)
		}
		res[slot] = word
	}
	return res, nil
}

// info assembles the decoding info described by the session.
func (s *session) info() (*evm.Info, error) {
	state, err := s.State.toState()
	if err != nil {
		return nil, err
	}
	sources := make([]*ast.Node, 0, len(s.Sources))
	for i, source := range s.Sources {
		node, err := toNode(source)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid source %d", i)
		}
		sources = append(sources, node)
	}
	types, err := ast.StoredTypes(s.CompilationId, sources...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to import types")
	}
	contexts := make([]*evm.Context, 0, len(s.Contexts))
	var current *evm.Context
	for _, spec := range s.Contexts {
		c, err := spec.toContext(s.CompilationId, s.Compiler)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid context %s", spec.Context)
		}
		contexts = append(contexts, c)
		if spec.Context == s.Current {
			current = c
		}
	}
	return &evm.Info{
		State:            state,
		UserDefinedTypes: types,
		CurrentContext:   current,
		Contexts:         evm.NewContexts(contexts...),
	}, nil
}

func (s stateSpec) toState() (*evm.State, error) {
	res := &evm.State{Specials: map[string][]byte{}}
	for i, word := range s.Stack {
		value, err := decodeWord(word)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid stack word %d", i)
		}
		res.Stack = append(res.Stack, value)
	}
	for i, topic := range s.Topics {
		value, err := decodeWord(topic)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid topic %d", i)
		}
		res.EventTopics = append(res.EventTopics, value)
	}
	buffers := []struct {
		name   string
		source string
		target *[]byte
	}{
		{"memory", s.Memory, &res.Memory},
		{"calldata", s.Calldata, &res.Calldata},
		{"returndata", s.Returndata, &res.Returndata},
		{"eventdata", s.EventData, &res.EventData},
		{"code", s.Code, &res.Code},
	}
	for _, buffer := range buffers {
		data, err := decodeHex(buffer.source)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", buffer.name)
		}
		*buffer.target = data
	}
	storage, err := decodeStorage(s.Storage)
	if err != nil {
		return nil, err
	}
	res.Storage = storage
	for name, value := range s.Specials {
		data, err := decodeHex(value)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid special %s", name)
		}
		res.Specials[name] = data
	}
	return res, nil
}

func (s contextSpec) toContext(compilationId string, compiler compiler.Compiler) (*evm.Context, error) {
	binary, err := decodeHex(s.Binary)
	if err != nil {
		return nil, err
	}
	abi := make(map[[evm.SelectorSize]byte]string, len(s.Abi))
	for selector, name := range s.Abi {
		data, err := decodeHex(selector)
		if err != nil || len(data) != evm.SelectorSize {
			return nil, fmt.Errorf("invalid selector %q", selector)
		}
		abi[[evm.SelectorSize]byte(data)] = name
	}
	return &evm.Context{
		Context:       s.Context,
		ContractName:  s.ContractName,
		ContractId:    s.ContractId,
		ContractKind:  s.ContractKind,
		CompilationId: compilationId,
		Binary:        binary,
		IsConstructor: s.IsConstructor,
		Payable:       s.Payable,
		Compiler:      compiler,
		Abi:           abi,
	}, nil
}

// variable resolves the type and pointer of a variable.
func (s *session) variable(spec variableSpec) (format.Type, pointer.Pointer, error) {
	definition, err := toNode(spec.Definition)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid definition of %s", spec.Name)
	}
	p, err := spec.Pointer.toPointer(definition)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid pointer of %s", spec.Name)
	}
	location := format.DefaultLocation
	switch p.Location() {
	case pointer.StorageLocation:
		location = format.StorageLocation
	case pointer.MemoryLocation:
		location = format.MemoryLocation
	case pointer.CalldataLocation:
		location = format.CalldataLocation
	}
	t, err := ast.DefinitionToType(definition, s.CompilationId, location)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unsupported type of %s", spec.Name)
	}
	return t, p, nil
}

func (s pointerSpec) toPointer(definition *ast.Node) (pointer.Pointer, error) {
	switch strings.ToLower(s.Location) {
	case "stack":
		return pointer.Stack{From: s.From, To: s.To}, nil
	case "stackliteral":
		literal, err := decodeHex(s.Literal)
		if err != nil {
			return nil, err
		}
		return pointer.StackLiteral{Literal: literal}, nil
	case "memory":
		return pointer.Memory{Start: s.Start, Length: s.Length}, nil
	case "calldata":
		return pointer.Calldata{Start: s.Start, Length: s.Length}, nil
	case "returndata":
		return pointer.Returndata{Start: s.Start, Length: s.Length}, nil
	case "eventdata":
		return pointer.Eventdata{Start: s.Start, Length: s.Length}, nil
	case "code":
		return pointer.Code{Start: s.Start, Length: s.Length}, nil
	case "eventtopic":
		return pointer.EventTopic{Topic: s.Topic}, nil
	case "special":
		return pointer.Special{Special: s.Special}, nil
	case "definition":
		return pointer.Definition{Definition: definition}, nil
	case "storage":
		slot := pointer.Slot{}
		if err := parseSlot(&slot.Offset, s.Slot); err != nil {
			return nil, err
		}
		length := s.Length
		if length == 0 {
			length = evm.WordSize
		}
		return pointer.Storage{Range: pointer.StorageRange{Slot: slot, Offset: s.Offset, Length: length}}, nil
	}
	return nil, fmt.Errorf("unknown location %q", s.Location)
}

func parseSlot(target *uint256.Int, value string) error {
	switch {
	case value == "":
		target.Clear()
		return nil
	case strings.HasPrefix(value, "0x"):
		return target.SetFromHex(value)
	}
	return target.SetFromDecimal(value)
}

// staticFetcher serves code and storage of the accounts listed in a session.
type staticFetcher struct {
	code    map[common.Address][]byte
	storage map[common.Address]map[evm.Word]evm.Word
}

func newStaticFetcher(accounts map[string]accountSpec) (*staticFetcher, error) {
	res := &staticFetcher{
		code:    make(map[common.Address][]byte, len(accounts)),
		storage: make(map[common.Address]map[evm.Word]evm.Word, len(accounts)),
	}
	for key, account := range accounts {
		if !common.IsHexAddress(key) {
			return nil, fmt.Errorf("invalid address %q", key)
		}
		address := common.HexToAddress(key)
		code, err := decodeHex(account.Code)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid code of %s", key)
		}
		if code != nil {
			res.code[address] = code
		}
		storage, err := decodeStorage(account.Storage)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid storage of %s", key)
		}
		res.storage[address] = storage
	}
	return res, nil
}

func (f *staticFetcher) GetCode(_ context.Context, address common.Address) ([]byte, error) {
	return f.code[address], nil
}

func (f *staticFetcher) GetStorage(_ context.Context, address common.Address, slot common.Hash) ([]byte, error) {
	word, found := f.storage[address][evm.Word(slot)]
	if !found {
		return nil, nil
	}
	return word[:], nil
}
