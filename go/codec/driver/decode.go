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
	"encoding/json"
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec"
	"github.com/Fantom-foundation/codec/go/codec/read"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var DecodeCmd = cli.Command{
	Action:    doDecode,
	Name:      "decode",
	Usage:     "Decodes the variables listed in a session file",
	ArgsUsage: "<session file>",
	Flags: []cli.Flag{
		ConfigFileFlag,
		ModeFlag,
		PaddingFlag,
		StrictFlag,
		CacheSizeFlag,
		DebugFlag,
	},
}

func doDecode(context *cli.Context) error {
	if context.NArg() != 1 {
		return fmt.Errorf("expected a single session file, got %d arguments", context.NArg())
	}
	v, err := settings(context)
	if err != nil {
		return err
	}
	config, err := decoderConfig(v)
	if err != nil {
		return err
	}
	log, err := newLogger(v)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	session, err := loadSession(context.Args().First())
	if err != nil {
		return err
	}
	info, err := session.info()
	if err != nil {
		return err
	}
	fetcher, err := newStaticFetcher(session.Accounts)
	if err != nil {
		return err
	}
	decoder, err := codec.NewDecoder(fetcher, config, log)
	if err != nil {
		return err
	}

	results := orderedmap.New[string, any]()
	for _, variable := range session.Variables {
		t, p, err := session.variable(variable)
		if err != nil {
			return err
		}
		res, err := decoder.Decode(context.Context, t, p, info)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", variable.Name, err)
		}
		results.Set(variable.Name, render(res))
	}

	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(context.App.Writer, string(out))

	stats := decoder.Stats()
	hits, misses := read.SlotHashStats()
	fmt.Fprintf(context.App.ErrWriter, "fetched %d codes and %d slots, %sB in total, %d cache hits, %d/%d slot hashes cached\n",
		stats.CodeRequests, stats.StorageRequests,
		unitconv.FormatPrefix(float64(stats.FetchedBytes), unitconv.IEC, 1), stats.CacheHits,
		hits, hits+misses,
	)
	return nil
}
