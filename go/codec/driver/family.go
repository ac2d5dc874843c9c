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
	"fmt"

	"github.com/Fantom-foundation/codec/go/codec/compiler"
	"github.com/urfave/cli/v2"
)

var FamilyCmd = cli.Command{
	Action:    doFamily,
	Name:      "family",
	Usage:     "Prints the solidity family of a compiler",
	ArgsUsage: "<version>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "compiler",
			Usage: "name of the compiler",
			Value: "solc",
		},
	},
}

func doFamily(context *cli.Context) error {
	if context.NArg() != 1 {
		return fmt.Errorf("expected a compiler version, got %d arguments", context.NArg())
	}
	family := compiler.SolidityFamily(compiler.Compiler{
		Name:    context.String("compiler"),
		Version: context.Args().First(),
	})
	fmt.Fprintln(context.App.Writer, family)
	return nil
}
