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

package encoding

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field layout shared by every MIPS instruction word.
//
//	R |opcode(6)|rs(5)|rt(5)|rd(5)|shamt(5)|funct(6)|
//	I |opcode(6)|rs(5)|rt(5)|immediate(16)        |
//	J |opcode(6)|target(26)                       |
const (
	SHIFT_OPCODE = 26
	SHIFT_RS     = 21
	SHIFT_RT     = 16
	SHIFT_RD     = 11
	SHIFT_SHAMT  = 6

	MASK_OPCODE    uint32 = 0x3F
	MASK_REGISTER  uint32 = 0x1F
	MASK_SHAMT     uint32 = 0x1F
	MASK_FUNCT     uint32 = 0x3F
	MASK_IMMEDIATE uint32 = 0xFFFF
	MASK_TARGET    uint32 = 0x3FFFFFF
	MASK_CODE      uint32 = 0xFFFFF
)

// Fields holds every bit field of an instruction word. Which of them are
// meaningful depends on the opcode.
type Fields struct {
	Opcode uint32
	Rs     uint32
	Rt     uint32
	Rd     uint32
	Shamt  uint32
	Funct  uint32
	Imm    uint32
	Target uint32
}

// Decode splits an instruction word into its fields.
func Decode(word uint32) Fields {
	return Fields{
		Opcode: word >> SHIFT_OPCODE,
		Rs:     (word >> SHIFT_RS) & MASK_REGISTER,
		Rt:     (word >> SHIFT_RT) & MASK_REGISTER,
		Rd:     (word >> SHIFT_RD) & MASK_REGISTER,
		Shamt:  (word >> SHIFT_SHAMT) & MASK_SHAMT,
		Funct:  word & MASK_FUNCT,
		Imm:    word & MASK_IMMEDIATE,
		Target: word & MASK_TARGET,
	}
}

// PackRegister builds a register-format word. Every argument is masked to
// its field width.
func PackRegister(opcode, rs, rt, rd, shamt, funct uint32) uint32 {
	return (opcode&MASK_OPCODE)<<SHIFT_OPCODE |
		(rs&MASK_REGISTER)<<SHIFT_RS |
		(rt&MASK_REGISTER)<<SHIFT_RT |
		(rd&MASK_REGISTER)<<SHIFT_RD |
		(shamt&MASK_SHAMT)<<SHIFT_SHAMT |
		funct&MASK_FUNCT
}

// PackImmediate builds an immediate-format word.
func PackImmediate(opcode, rs, rt, imm uint32) uint32 {
	return (opcode&MASK_OPCODE)<<SHIFT_OPCODE |
		(rs&MASK_REGISTER)<<SHIFT_RS |
		(rt&MASK_REGISTER)<<SHIFT_RT |
		imm&MASK_IMMEDIATE
}

// PackJump builds a jump-format word from a word index (not a byte address).
func PackJump(opcode, target uint32) uint32 {
	return (opcode&MASK_OPCODE)<<SHIFT_OPCODE | target&MASK_TARGET
}

// Decodes a hexidecimal string in the formats: 0xFFFFFFFF, xFFFF
func DecodeHex(s string) (uint32, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 {
		return 0, errors.New("Invalid hex string")
	}

	result, err := strconv.ParseUint(s, 0, 32)

	if err != nil {
		return 0, err
	}

	return uint32(result), nil
}

// Decodes an optionally signed integer in the formats: 123, -123, 0x7B,
// -0x7B. A leading zero does not select octal.
func DecodeInt(s string) (int64, error) {
	digits := s
	negative := false

	if strings.HasPrefix(digits, "-") {
		negative = true
		digits = digits[1:]
	} else if strings.HasPrefix(digits, "+") {
		digits = digits[1:]
	}

	base := 10

	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		base = 16
		digits = digits[2:]
	}

	if digits == "" || strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		return 0, fmt.Errorf("Invalid integer %q", s)
	}

	result, err := strconv.ParseInt(digits, base, 64)

	if err != nil {
		return 0, err
	}

	if negative {
		result = -result
	}

	return result, nil
}

func SignExtend(value uint32, bitcount uint32) uint32 {
	if (value>>(bitcount-1))&0x1 == 1 {
		value |= (0xFFFFFFFF << bitcount)
	}

	return value
}

// FormatWord renders a word as exactly eight lowercase hex digits.
func FormatWord(word uint32) string {
	return fmt.Sprintf("%08x", word)
}
