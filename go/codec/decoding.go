// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package codec drives decodings of EVM data. Decodings suspend whenever
// they need code or storage that is not yet known; a Decoding exposes these
// suspensions as requests and a Decoder answers them through a Fetcher.
package codec

import (
	"iter"

	"github.com/Fantom-foundation/codec/go/codec/evm"
	"github.com/Fantom-foundation/codec/go/codec/format"
)

// DecodeFunc is a decoding that obtains missing data through requester.
type DecodeFunc func(requester evm.Requester) (format.Result, error)

// Step is the state of a Decoding after it was started or resumed. While
// Request is set, the decoding is suspended and waits to be resumed with the
// requested data. Otherwise it has finished with Result or Err.
type Step struct {
	Request evm.Request
	Result  format.Result
	Err     error
}

// Done reports whether the decoding has finished.
func (s Step) Done() bool {
	return s.Request == nil
}

// Decoding is a suspendable decoding. Each request issued by the underlying
// DecodeFunc halts the decoding until Resume is called with the response. A
// Decoding is not safe for concurrent use.
type Decoding struct {
	next     func() (evm.Request, bool)
	stop     func()
	response []byte
	result   format.Result
	err      error
	started  bool
	done     bool
}

// NewDecoding wraps decode into a Decoding. decode does not run before
// Start is called.
func NewDecoding(decode DecodeFunc) *Decoding {
	d := &Decoding{}
	requests := func(yield func(evm.Request) bool) {
		requester := evm.RequesterFunc(func(request evm.Request) ([]byte, error) {
			if !yield(request) {
				return nil, ErrDecodingCancelled
			}
			return d.response, nil
		})
		d.result, d.err = decode(requester)
	}
	d.next, d.stop = iter.Pull(requests)
	return d
}

// Start runs the decoding until it issues its first request or finishes.
// Starting a decoding twice is equivalent to resuming it without data.
func (d *Decoding) Start() Step {
	d.started = true
	return d.advance(nil)
}

// Resume answers the pending request and runs the decoding until the next
// request or its end. A nil response signals that the requested data is
// not available.
func (d *Decoding) Resume(response []byte) Step {
	if !d.started {
		return d.Start()
	}
	return d.advance(response)
}

func (d *Decoding) advance(response []byte) Step {
	if d.done {
		return Step{Result: d.result, Err: d.err}
	}
	d.response = response
	if request, ok := d.next(); ok {
		return Step{Request: request}
	}
	d.done = true
	return Step{Result: d.result, Err: d.err}
}

// Close abandons the decoding. A decoding closed before it finished reports
// ErrDecodingCancelled.
func (d *Decoding) Close() {
	d.stop()
	if !d.done {
		d.done = true
		d.result, d.err = nil, ErrDecodingCancelled
	}
}

// Run drives a decoding to its end, answering all requests with requester.
// A failing requester cancels the decoding.
func Run(decode DecodeFunc, requester evm.Requester) (format.Result, error) {
	decoding := NewDecoding(decode)
	defer decoding.Close()
	step := decoding.Start()
	for !step.Done() {
		response, err := requester.Request(step.Request)
		if err != nil {
			return nil, err
		}
		step = decoding.Resume(response)
	}
	return step.Result, step.Err
}
