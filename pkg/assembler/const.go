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

const (
	FORMAT_INVALID Format = iota
	FORMAT_REGISTER
	FORMAT_SHIFT
	FORMAT_JUMP_REGISTER
	FORMAT_JUMP_LINK_REGISTER
	FORMAT_SYSCALL
	FORMAT_MOVE_SPECIAL
	FORMAT_MULT_DIV
	FORMAT_IMMEDIATE
	FORMAT_LOAD_UPPER
	FORMAT_JUMP
	FORMAT_BRANCH
	FORMAT_BRANCH_SINGLE
	FORMAT_MEMORY
)

const (
	FIELD_RS RegisterField = iota
	FIELD_RT
	FIELD_RD
)

const (
	// Primary opcodes
	OPCODE_SPECIAL uint32 = 0x00
	OPCODE_REGIMM  uint32 = 0x01
	OPCODE_J       uint32 = 0x02
	OPCODE_JAL     uint32 = 0x03
	OPCODE_BEQ     uint32 = 0x04
	OPCODE_BNE     uint32 = 0x05
	OPCODE_BLEZ    uint32 = 0x06
	OPCODE_BGTZ    uint32 = 0x07
	OPCODE_ADDI    uint32 = 0x08
	OPCODE_ADDIU   uint32 = 0x09
	OPCODE_SLTI    uint32 = 0x0A
	OPCODE_SLTIU   uint32 = 0x0B
	OPCODE_ANDI    uint32 = 0x0C
	OPCODE_ORI     uint32 = 0x0D
	OPCODE_XORI    uint32 = 0x0E
	OPCODE_LUI     uint32 = 0x0F
	OPCODE_LB      uint32 = 0x20
	OPCODE_LH      uint32 = 0x21
	OPCODE_LW      uint32 = 0x23
	OPCODE_LBU     uint32 = 0x24
	OPCODE_LHU     uint32 = 0x25
	OPCODE_SB      uint32 = 0x28
	OPCODE_SH      uint32 = 0x29
	OPCODE_SW      uint32 = 0x2B
)

const (
	// Function codes under OPCODE_SPECIAL
	FUNCT_SLL     uint32 = 0x00
	FUNCT_SRL     uint32 = 0x02
	FUNCT_SRA     uint32 = 0x03
	FUNCT_SLLV    uint32 = 0x04
	FUNCT_SRLV    uint32 = 0x06
	FUNCT_SRAV    uint32 = 0x07
	FUNCT_JR      uint32 = 0x08
	FUNCT_JALR    uint32 = 0x09
	FUNCT_SYSCALL uint32 = 0x0C
	FUNCT_MFHI    uint32 = 0x10
	FUNCT_MTHI    uint32 = 0x11
	FUNCT_MFLO    uint32 = 0x12
	FUNCT_MTLO    uint32 = 0x13
	FUNCT_MULT    uint32 = 0x18
	FUNCT_MULTU   uint32 = 0x19
	FUNCT_DIV     uint32 = 0x1A
	FUNCT_DIVU    uint32 = 0x1B
	FUNCT_ADD     uint32 = 0x20
	FUNCT_ADDU    uint32 = 0x21
	FUNCT_SUB     uint32 = 0x22
	FUNCT_SUBU    uint32 = 0x23
	FUNCT_AND     uint32 = 0x24
	FUNCT_OR      uint32 = 0x25
	FUNCT_XOR     uint32 = 0x26
	FUNCT_NOR     uint32 = 0x27
	FUNCT_SLT     uint32 = 0x2A
	FUNCT_SLTU    uint32 = 0x2B
)

const (
	// rt selectors under OPCODE_REGIMM
	REGIMM_BLTZ   uint32 = 0x00
	REGIMM_BGEZ   uint32 = 0x01
	REGIMM_BLTZAL uint32 = 0x10
	REGIMM_BGEZAL uint32 = 0x11
)

const (
	REGISTER_ZERO    uint32 = 0
	REGISTER_SCRATCH uint32 = 1
	REGISTER_LINK    uint32 = 31
)

const (
	// Load origin of the text segment; absolute label operands are offset by it
	BASE_ADDRESS uint32 = 0x00400000

	INSTRUCTION_SIZE uint32 = 4

	COMMENT_MARKER = "#"
	LABEL_MARKER   = ":"
	TEXT_MARKER    = ".text"
)
