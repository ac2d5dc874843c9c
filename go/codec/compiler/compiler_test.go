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

import "testing"

func TestSolidityFamily_ClassifiesVersions(t *testing.T) {
	tests := map[string]struct {
		compiler Compiler
		want     Family
	}{
		"0.5.0 nightly":         {Compiler{Name: "solc", Version: "0.5.0-nightly.1"}, Family05x},
		"0.4.25":                {Compiler{Name: "solc", Version: "0.4.25"}, FamilyPre050},
		"vyper":                 {Compiler{Name: "vyper", Version: "0.5.0"}, FamilyUnknown},
		"0.5.0":                 {Compiler{Name: "solc", Version: "0.5.0"}, Family05x},
		"0.8 with build":        {Compiler{Name: "solc", Version: "0.8.19+commit.7dd6d404.Linux.g++"}, Family05x},
		"0.4 with build":        {Compiler{Name: "solc", Version: "0.4.24+commit.e67f0147.Emscripten.clang"}, FamilyPre050},
		"leading v":             {Compiler{Name: "solc", Version: "v0.6.2"}, Family05x},
		"garbage":               {Compiler{Name: "solc", Version: "latest"}, FamilyPre050},
		"empty name":            {Compiler{Version: "0.5.0"}, FamilyUnknown},
		"0.4.26 prerelease tag": {Compiler{Name: "solc", Version: "0.4.26-nightly.2018.9.25"}, FamilyPre050},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if want, got := test.want, SolidityFamily(test.compiler); want != got {
				t.Errorf("unexpected family, want %v, got %v", want, got)
			}
		})
	}
}
