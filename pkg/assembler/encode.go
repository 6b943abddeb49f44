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
	"unicode"

	"github.com/lassandro/gomips/pkg/encoding"
)

// Minimum and maximum operand counts per format
var formatArity = map[Format][2]int{
	FORMAT_REGISTER:           {3, 3},
	FORMAT_SHIFT:              {3, 3},
	FORMAT_JUMP_REGISTER:      {1, 1},
	FORMAT_JUMP_LINK_REGISTER: {1, 2},
	FORMAT_SYSCALL:            {0, 1},
	FORMAT_MOVE_SPECIAL:       {1, 1},
	FORMAT_MULT_DIV:           {2, 2},
	FORMAT_IMMEDIATE:          {3, 3},
	FORMAT_LOAD_UPPER:         {2, 2},
	FORMAT_JUMP:               {1, 1},
	FORMAT_BRANCH:             {3, 3},
	FORMAT_BRANCH_SINGLE:      {2, 2},
	FORMAT_MEMORY:             {2, 2},
}

// Accepted ranges before a value counts as truncated. Sixteen bit
// immediates may be written signed or unsigned; branch offsets are signed.
const (
	IMM16_MIN  int64 = -0x8000
	IMM16_MAX  int64 = 0xFFFF
	OFFSET_MAX int64 = 0x7FFF
	SHAMT_MAX  int64 = 31
	CODE_MAX   int64 = 0xFFFFF
	JUMP_LIMIT int64 = 1 << 28
)

type operandBinder struct {
	operands []string
	position Cursor
	errs     []error
}

func (b *operandBinder) register(i int) uint32 {
	reg, ok := LookupRegister(b.operands[i])

	if !ok {
		b.errs = append(
			b.errs, &UnknownRegisterError{b.position, b.operands[i]},
		)
	}

	return reg
}

func (b *operandBinder) literal(token string) (int64, bool) {
	value, err := encoding.DecodeInt(token)

	if err != nil {
		if isIdentifier(token) {
			b.errs = append(b.errs, &UnknownLabelError{b.position, token})
		} else {
			b.errs = append(b.errs, &InvalidLiteralError{b.position, token})
		}

		return 0, false
	}

	return value, true
}

// mask keeps the low bits of value, reporting ImmediateTruncatedError when
// value lies outside [min, max].
func (b *operandBinder) mask(value int64, bits uint, min, max int64) uint32 {
	stored := uint32(value) & ((1 << bits) - 1)

	if value < min || value > max {
		b.errs = append(
			b.errs,
			&ImmediateTruncatedError{b.position, bits, value, stored},
		)
	}

	return stored
}

func (b *operandBinder) immediate(i int, bits uint, min, max int64) uint32 {
	value, ok := b.literal(b.operands[i])

	if !ok {
		return 0
	}

	return b.mask(value, bits, min, max)
}

func (b *operandBinder) target(i int) uint32 {
	value, ok := b.literal(b.operands[i])

	if !ok {
		return 0
	}

	target := (uint32(value) >> 2) & encoding.MASK_TARGET

	if value < 0 || value >= JUMP_LIMIT {
		b.errs = append(
			b.errs,
			&ImmediateTruncatedError{b.position, 26, value, target},
		)
	}

	return target
}

// memory parses "offset($base)". An empty offset means zero.
func (b *operandBinder) memory(i int) (offset uint32, base uint32) {
	token := b.operands[i]
	open := strings.Index(token, "(")

	if open == -1 || !strings.HasSuffix(token, ")") {
		b.errs = append(b.errs, &MalformedOperandError{b.position, token})
		return 0, 0
	}

	baseToken := token[open+1 : len(token)-1]
	base, ok := LookupRegister(baseToken)

	if !ok {
		b.errs = append(b.errs, &UnknownRegisterError{b.position, baseToken})
	}

	if offsetToken := token[:open]; offsetToken != "" {
		if value, ok := b.literal(offsetToken); ok {
			offset = b.mask(value, 16, IMM16_MIN, IMM16_MAX)
		}
	}

	return offset, base
}

// Encode packs one instruction word. Label operands must already be
// substituted. The returned errors may hold warnings alongside a valid word;
// when HasErrors is true the word is meaningless.
func Encode(spec InstructionSpec, operands []string, position Cursor) (uint32, []error) {
	arity, ok := formatArity[spec.Format]

	if !ok {
		return 0, []error{&UnsupportedMnemonicError{position, position.Text}}
	}

	if count := len(operands); count < arity[0] || count > arity[1] {
		return 0, []error{
			&InvalidNumArgumentsError{position, arity[0], arity[1], count},
		}
	}

	b := operandBinder{operands: operands, position: position}

	var word uint32

	switch spec.Format {
	// |000000|rs   |rt   |rd   |00000|funct |
	case FORMAT_REGISTER:
		rd := b.register(0)
		rs := b.register(1)
		rt := b.register(2)

		word = encoding.PackRegister(OPCODE_SPECIAL, rs, rt, rd, 0, spec.Funct)

	// |000000|00000|rt   |rd   |shamt|funct |
	case FORMAT_SHIFT:
		rd := b.register(0)
		rt := b.register(1)
		shamt := b.immediate(2, 5, 0, SHAMT_MAX)

		word = encoding.PackRegister(OPCODE_SPECIAL, 0, rt, rd, shamt, spec.Funct)

	// |000000|rs   |00000|00000|00000|001000|
	case FORMAT_JUMP_REGISTER:
		rs := b.register(0)

		word = encoding.PackRegister(OPCODE_SPECIAL, rs, 0, 0, 0, spec.Funct)

	// |000000|rs   |00000|rd   |00000|001001|
	case FORMAT_JUMP_LINK_REGISTER:
		rs := b.register(0)
		rd := REGISTER_LINK

		if len(operands) > 1 {
			rd = b.register(1)
		}

		word = encoding.PackRegister(OPCODE_SPECIAL, rs, 0, rd, 0, spec.Funct)

	// |000000|code                |001100|
	case FORMAT_SYSCALL:
		var code uint32

		if len(operands) > 0 {
			code = b.immediate(0, 20, 0, CODE_MAX)
		}

		word = code<<encoding.SHIFT_SHAMT | spec.Funct

	// |000000|rs or rt or rd      |funct |
	case FORMAT_MOVE_SPECIAL:
		reg := b.register(0)

		switch spec.Field {
		case FIELD_RS:
			word = encoding.PackRegister(OPCODE_SPECIAL, reg, 0, 0, 0, spec.Funct)
		case FIELD_RT:
			word = encoding.PackRegister(OPCODE_SPECIAL, 0, reg, 0, 0, spec.Funct)
		case FIELD_RD:
			word = encoding.PackRegister(OPCODE_SPECIAL, 0, 0, reg, 0, spec.Funct)
		}

	// |000000|rs   |rt   |00000|00000|funct |
	case FORMAT_MULT_DIV:
		rs := b.register(0)
		rt := b.register(1)

		word = encoding.PackRegister(OPCODE_SPECIAL, rs, rt, 0, 0, spec.Funct)

	// |opcode|rs   |rt   |immediate        |
	case FORMAT_IMMEDIATE:
		rt := b.register(0)
		rs := b.register(1)
		imm := b.immediate(2, 16, IMM16_MIN, IMM16_MAX)

		word = encoding.PackImmediate(spec.Opcode, rs, rt, imm)

	// |001111|00000|rt   |immediate        |
	case FORMAT_LOAD_UPPER:
		rt := b.register(0)
		imm := b.immediate(1, 16, IMM16_MIN, IMM16_MAX)

		word = encoding.PackImmediate(spec.Opcode, 0, rt, imm)

	// |opcode|target                      |
	case FORMAT_JUMP:
		word = encoding.PackJump(spec.Opcode, b.target(0))

	// |opcode|rs   |rt   |offset           |
	case FORMAT_BRANCH:
		rs := b.register(0)
		rt := b.register(1)
		offset := b.immediate(2, 16, IMM16_MIN, OFFSET_MAX)

		word = encoding.PackImmediate(spec.Opcode, rs, rt, offset)

	// |opcode|rs   |const|offset           |
	case FORMAT_BRANCH_SINGLE:
		rs := b.register(0)
		offset := b.immediate(1, 16, IMM16_MIN, OFFSET_MAX)

		word = encoding.PackImmediate(spec.Opcode, rs, spec.Rt, offset)

	// |opcode|base |rt   |offset           |
	case FORMAT_MEMORY:
		rt := b.register(0)
		offset, base := b.memory(1)

		word = encoding.PackImmediate(spec.Opcode, base, rt, offset)
	}

	if HasErrors(b.errs) {
		return 0, b.errs
	}

	return word, b.errs
}

// normalizeOperand rewrites ABI register names to "$n" and hex literals to
// decimal, including inside "offset($base)". Anything else is kept as is.
func normalizeOperand(token string) string {
	if reg, ok := LookupRegister(token); ok {
		return "$" + strconv.FormatUint(uint64(reg), 10)
	}

	if open := strings.Index(token, "("); open != -1 && strings.HasSuffix(token, ")") {
		return normalizeOperand(token[:open]) +
			"(" + normalizeOperand(token[open+1:len(token)-1]) + ")"
	}

	if isHexLiteral(token) {
		if value, err := encoding.DecodeInt(token); err == nil {
			return strconv.FormatInt(value, 10)
		}
	}

	return token
}

func isHexLiteral(token string) bool {
	token = strings.TrimPrefix(token, "-")
	return strings.HasPrefix(token, "0x") || strings.HasPrefix(token, "0X")
}

func isIdentifier(token string) bool {
	if token == "" {
		return false
	}

	first := rune(token[0])

	return first == '_' || first == '.' || unicode.IsLetter(first)
}
