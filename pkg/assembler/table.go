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

import "strings"

var instructionTable = map[string]InstructionSpec{
	// Register-register
	"add":  {Format: FORMAT_REGISTER, Funct: FUNCT_ADD},
	"addu": {Format: FORMAT_REGISTER, Funct: FUNCT_ADDU},
	"sub":  {Format: FORMAT_REGISTER, Funct: FUNCT_SUB},
	"subu": {Format: FORMAT_REGISTER, Funct: FUNCT_SUBU},
	"and":  {Format: FORMAT_REGISTER, Funct: FUNCT_AND},
	"or":   {Format: FORMAT_REGISTER, Funct: FUNCT_OR},
	"xor":  {Format: FORMAT_REGISTER, Funct: FUNCT_XOR},
	"nor":  {Format: FORMAT_REGISTER, Funct: FUNCT_NOR},
	"slt":  {Format: FORMAT_REGISTER, Funct: FUNCT_SLT},
	"sltu": {Format: FORMAT_REGISTER, Funct: FUNCT_SLTU},
	"sllv": {Format: FORMAT_REGISTER, Funct: FUNCT_SLLV},
	"srlv": {Format: FORMAT_REGISTER, Funct: FUNCT_SRLV},
	"srav": {Format: FORMAT_REGISTER, Funct: FUNCT_SRAV},

	// Shift by constant
	"sll": {Format: FORMAT_SHIFT, Funct: FUNCT_SLL},
	"srl": {Format: FORMAT_SHIFT, Funct: FUNCT_SRL},
	"sra": {Format: FORMAT_SHIFT, Funct: FUNCT_SRA},

	"jr":      {Format: FORMAT_JUMP_REGISTER, Funct: FUNCT_JR},
	"jalr":    {Format: FORMAT_JUMP_LINK_REGISTER, Funct: FUNCT_JALR},
	"syscall": {Format: FORMAT_SYSCALL, Funct: FUNCT_SYSCALL},

	// HI/LO moves
	"mfhi": {Format: FORMAT_MOVE_SPECIAL, Funct: FUNCT_MFHI, Field: FIELD_RD},
	"mthi": {Format: FORMAT_MOVE_SPECIAL, Funct: FUNCT_MTHI, Field: FIELD_RS},
	"mflo": {Format: FORMAT_MOVE_SPECIAL, Funct: FUNCT_MFLO, Field: FIELD_RD},
	"mtlo": {Format: FORMAT_MOVE_SPECIAL, Funct: FUNCT_MTLO, Field: FIELD_RS},

	"mult":  {Format: FORMAT_MULT_DIV, Funct: FUNCT_MULT},
	"multu": {Format: FORMAT_MULT_DIV, Funct: FUNCT_MULTU},
	"div":   {Format: FORMAT_MULT_DIV, Funct: FUNCT_DIV},
	"divu":  {Format: FORMAT_MULT_DIV, Funct: FUNCT_DIVU},

	"j":   {Format: FORMAT_JUMP, Opcode: OPCODE_J},
	"jal": {Format: FORMAT_JUMP, Opcode: OPCODE_JAL},

	"beq": {Format: FORMAT_BRANCH, Opcode: OPCODE_BEQ},
	"bne": {Format: FORMAT_BRANCH, Opcode: OPCODE_BNE},

	"blez":   {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_BLEZ},
	"bgtz":   {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_BGTZ},
	"bltz":   {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_REGIMM, Rt: REGIMM_BLTZ},
	"bgez":   {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_REGIMM, Rt: REGIMM_BGEZ},
	"bltzal": {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_REGIMM, Rt: REGIMM_BLTZAL},
	"bgezal": {Format: FORMAT_BRANCH_SINGLE, Opcode: OPCODE_REGIMM, Rt: REGIMM_BGEZAL},

	"addi":  {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_ADDI},
	"addiu": {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_ADDIU},
	"slti":  {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_SLTI},
	"sltiu": {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_SLTIU},
	"andi":  {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_ANDI},
	"ori":   {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_ORI},
	"xori":  {Format: FORMAT_IMMEDIATE, Opcode: OPCODE_XORI},
	"lui":   {Format: FORMAT_LOAD_UPPER, Opcode: OPCODE_LUI},

	"lb":  {Format: FORMAT_MEMORY, Opcode: OPCODE_LB},
	"lh":  {Format: FORMAT_MEMORY, Opcode: OPCODE_LH},
	"lw":  {Format: FORMAT_MEMORY, Opcode: OPCODE_LW},
	"lbu": {Format: FORMAT_MEMORY, Opcode: OPCODE_LBU},
	"lhu": {Format: FORMAT_MEMORY, Opcode: OPCODE_LHU},
	"sb":  {Format: FORMAT_MEMORY, Opcode: OPCODE_SB},
	"sh":  {Format: FORMAT_MEMORY, Opcode: OPCODE_SH},
	"sw":  {Format: FORMAT_MEMORY, Opcode: OPCODE_SW},
}

// Lookup returns the table entry for a mnemonic. Mnemonics are matched
// case-insensitively.
func Lookup(mnemonic string) (InstructionSpec, bool) {
	spec, ok := instructionTable[strings.ToLower(mnemonic)]
	return spec, ok
}

// Mnemonics lists every supported mnemonic in no particular order.
func Mnemonics() []string {
	result := make([]string, 0, len(instructionTable))

	for mnemonic := range instructionTable {
		result = append(result, mnemonic)
	}

	return result
}

// IsBranch reports whether label operands of this format resolve to a
// relative word offset rather than an absolute address.
func (spec InstructionSpec) IsBranch() bool {
	return spec.Format == FORMAT_BRANCH || spec.Format == FORMAT_BRANCH_SINGLE
}
