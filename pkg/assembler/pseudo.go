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
	"fmt"
	"strings"

	"github.com/lassandro/gomips/pkg/encoding"
)

// The widest immediate addiu can take without expansion
const PSEUDO_IMMEDIATE_LIMIT int64 = 0x7FFF

// The widest immediate the lui/ori pair can rebuild
const PSEUDO_IMMEDIATE_MAX int64 = 0xFFFFFFFF

// expandLine rewrites addiu with an immediate above PSEUDO_IMMEDIATE_LIMIT:
//
//	addiu rt, $zero, imm  ->  lui $at, hi ; ori rt, $at, lo
//	addiu rt, rs, imm     ->  lui $at, hi ; ori $at, $at, lo ; addu rt, rs, $at
//
// Every other line comes back unchanged. Immediates above 32 bits are masked
// and a source register of $at is overwritten by the lui; both are reported
// as warnings against position.
func expandLine(line Line, position Cursor) ([]Line, []error) {
	mnemonic, operands := splitLine(line.Text)

	if !strings.EqualFold(mnemonic, "addiu") || len(operands) != 3 {
		return []Line{line}, nil
	}

	imm, err := encoding.DecodeInt(operands[2])

	if err != nil || imm <= PSEUDO_IMMEDIATE_LIMIT {
		return []Line{line}, nil
	}

	var errs []error

	if imm > PSEUDO_IMMEDIATE_MAX {
		errs = append(
			errs,
			&ImmediateTruncatedError{position, 32, imm, uint32(imm)},
		)
	}

	upper := (uint32(imm) & 0xFFFF0000) >> 16
	lower := uint32(imm) & 0x0000FFFF

	dest := operands[0]
	src := operands[1]

	reg, ok := LookupRegister(src)

	if ok && reg == REGISTER_ZERO {
		return []Line{
			{Text: fmt.Sprintf("lui $%d %d", REGISTER_SCRATCH, upper), Line: line.Line},
			{Text: fmt.Sprintf("ori %s $%d %d", dest, REGISTER_SCRATCH, lower), Line: line.Line},
		}, errs
	}

	if ok && reg == REGISTER_SCRATCH {
		errs = append(errs, &ScratchRegisterError{position, src})
	}

	return []Line{
		{Text: fmt.Sprintf("lui $%d %d", REGISTER_SCRATCH, upper), Line: line.Line},
		{Text: fmt.Sprintf("ori $%d $%d %d", REGISTER_SCRATCH, REGISTER_SCRATCH, lower), Line: line.Line},
		{Text: fmt.Sprintf("addu %s %s $%d", dest, src, REGISTER_SCRATCH), Line: line.Line},
	}, errs
}

// Expand runs the pseudo-instruction expander over a scanned program,
// preserving order. Diagnostics carry the address of the first word the
// line expands to.
func (asm *Assembler) Expand(prog *Program) ([]Line, []error) {
	result := make([]Line, 0, len(prog.Lines))

	var errs []error
	var address uint32

	for _, line := range prog.Lines {
		position := Cursor{Line: line.Line, Address: address, Text: line.Text}

		expanded, lineErrs := expandLine(line, position)
		errs = append(errs, lineErrs...)

		if len(expanded) > 1 {
			texts := make([]string, len(expanded))
			for i, e := range expanded {
				texts[i] = e.Text
			}

			asm.logger.Debug(
				"pseudo-instruction expanded",
				"line", line.Line,
				"source", line.Text,
				"into", strings.Join(texts, "; "),
			)
		}

		result = append(result, expanded...)
		address += INSTRUCTION_SIZE * uint32(len(expanded))
	}

	return result, errs
}
