// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package compiler

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Compiler identifies the compiler a contract was built with.
type Compiler struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Family groups compiler versions whose output needs the same treatment.
type Family string

const (
	FamilyPre050  Family = "pre-0.5.0"
	Family05x     Family = "0.5.x"
	FamilyUnknown Family = "unknown"
)

// lowest version of the 0.5.x family, including its prereleases
const firstFamily05x = "v0.5.0-0"

// SolidityFamily classifies the given compiler. Non-solc compilers are
// reported as unknown; solc versions at or above 0.5.0, including the 0.5.0
// prereleases, belong to the 0.5.x family; everything else is pre-0.5.0.
func SolidityFamily(compiler Compiler) Family {
	if compiler.Name != "solc" {
		return FamilyUnknown
	}
	if semver.Compare(canonicalVersion(compiler.Version), firstFamily05x) >= 0 {
		return Family05x
	}
	return FamilyPre050
}

// canonicalVersion turns a solc version string into the form expected by
// the semver package. Build metadata such as "+commit.1d4f565a.Linux.g++"
// does not take part in comparisons and is dropped since solc does not
// restrict it to valid semver characters.
func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if i := strings.IndexByte(version, '+'); i >= 0 {
		version = version[:i]
	}
	if !strings.HasPrefix(version, "v") {
		version = "v" + version
	}
	return version
}
