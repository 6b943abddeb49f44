// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package assembler

import (
	"strconv"
	"strings"
)

var registerNames = map[string]uint32{
	"$zero": 0, "$at": 1, "$v0": 2, "$v1": 3,
	"$a0": 4, "$a1": 5, "$a2": 6, "$a3": 7,
	"$t0": 8, "$t1": 9, "$t2": 10, "$t3": 11,
	"$t4": 12, "$t5": 13, "$t6": 14, "$t7": 15,
	"$s0": 16, "$s1": 17, "$s2": 18, "$s3": 19,
	"$s4": 20, "$s5": 21, "$s6": 22, "$s7": 23,
	"$t8": 24, "$t9": 25, "$k0": 26, "$k1": 27,
	"$gp": 28, "$sp": 29, "$fp": 30, "$ra": 31,
}

// LookupRegister resolves "$n" (0-31) or an ABI alias such as "$t0".
func LookupRegister(token string) (uint32, bool) {
	ident := strings.ToLower(token)

	if reg, ok := registerNames[ident]; ok {
		return reg, true
	}

	if !strings.HasPrefix(ident, "$") || len(ident) < 2 {
		return 0, false
	}

	reg, err := strconv.ParseUint(ident[1:], 10, 8)

	if err != nil || reg > 31 {
		return 0, false
	}

	return uint32(reg), true
}

// RegisterName returns the ABI alias of a register index.
func RegisterName(reg uint32) string {
	for name, index := range registerNames {
		if index == reg {
			return name
		}
	}

	return "$" + strconv.FormatUint(uint64(reg), 10)
}
