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

package machine

import (
	"errors"
	"io"
	"strconv"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/encoding"
)

var ErrStepLimit = errors.New("Step limit reached")

// Longest string syscall 4 will print
const STRING_LIMIT = 1 << 16

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0
	}

	mc.HI = 0
	mc.LO = 0
	mc.Memory.Reset()
	mc.Halted = false

	mc.Program = MEMSPACE_TEXT
	mc.Registers[REG_GP] = MEMSPACE_GLOBAL
	mc.Registers[REG_SP] = MEMSPACE_STACK
}

// LoadWords resets the machine and places words at consecutive addresses
// from base, leaving the program counter at base.
func (mc *Machine) LoadWords(words []uint32, base uint32) {
	mc.State.Reset()

	for i, word := range words {
		mc.State.Memory.StoreWord(base+uint32(i)*4, word)
	}

	mc.State.Program = base
}

// LoadHex loads assembler output into the text segment.
func (mc *Machine) LoadHex(reader io.Reader) error {
	words, err := encoding.ReadHexWords(reader)

	if err != nil {
		return err
	}

	mc.LoadWords(words, MEMSPACE_TEXT)

	return nil
}

func (mc *Machine) read(addr uint32) uint32 {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory.LoadWord(addr)
}

func (mc *Machine) write(addr uint32, value uint32, size uint32) {
	mc.State.Memory.Store(addr, value, size)

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) display(text string) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	if _, err := mc.Devices.Display.WriteString(text); err != nil {
		return err
	}

	return mc.Devices.Display.Flush()
}

func (mc *Machine) keyboard() (uint32, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, nil
	}

	key, err := mc.Devices.Keyboard.ReadByte()

	if err == io.EOF {
		return 0, nil
	} else if err != nil {
		return 0, err
	}

	return uint32(key), nil
}

func (mc *Machine) syscall() error {
	regs := &mc.State.Registers

	switch regs[REG_V0] {
	case SYSCALL_EXIT:
		mc.State.Halted = true

	case SYSCALL_PRINT_INT:
		return mc.display(strconv.FormatInt(int64(int32(regs[REG_A0])), 10))

	case SYSCALL_PRINT_STRING:
		return mc.display(mc.State.Memory.LoadString(regs[REG_A0], STRING_LIMIT))

	case SYSCALL_PRINT_CHAR:
		return mc.display(string([]byte{byte(regs[REG_A0])}))

	case SYSCALL_READ_CHAR:
		key, err := mc.keyboard()

		if err != nil {
			return err
		}

		regs[REG_V0] = key
	}

	return nil
}

func branchTarget(program uint32, imm uint32) uint32 {
	return program + 4 + (encoding.SignExtend(imm, 16) << 2)
}

// Step executes one instruction. There is no branch delay slot. A halted
// machine does nothing.
func (mc *Machine) Step() error {
	if mc.State.Halted {
		return nil
	}

	var err error

	program := mc.State.Program
	instruction := mc.read(program)
	regs := &mc.State.Registers
	next := program + 4

	i := encoding.Decode(instruction)
	simm := encoding.SignExtend(i.Imm, 16)

	switch i.Opcode {
	// SPECIAL |000000|rs   |rt   |rd   |shamt|funct |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_SPECIAL:
		switch i.Funct {
		case assembler.FUNCT_SLL:
			regs[i.Rd] = regs[i.Rt] << i.Shamt

		case assembler.FUNCT_SRL:
			regs[i.Rd] = regs[i.Rt] >> i.Shamt

		case assembler.FUNCT_SRA:
			regs[i.Rd] = uint32(int32(regs[i.Rt]) >> i.Shamt)

		case assembler.FUNCT_SLLV:
			regs[i.Rd] = regs[i.Rt] << (regs[i.Rs] & 0x1F)

		case assembler.FUNCT_SRLV:
			regs[i.Rd] = regs[i.Rt] >> (regs[i.Rs] & 0x1F)

		case assembler.FUNCT_SRAV:
			regs[i.Rd] = uint32(int32(regs[i.Rt]) >> (regs[i.Rs] & 0x1F))

		case assembler.FUNCT_JR:
			next = regs[i.Rs]

		case assembler.FUNCT_JALR:
			target := regs[i.Rs]
			regs[i.Rd] = program + 4
			next = target

		case assembler.FUNCT_SYSCALL:
			err = mc.syscall()

		case assembler.FUNCT_MFHI:
			regs[i.Rd] = mc.State.HI

		case assembler.FUNCT_MTHI:
			mc.State.HI = regs[i.Rs]

		case assembler.FUNCT_MFLO:
			regs[i.Rd] = mc.State.LO

		case assembler.FUNCT_MTLO:
			mc.State.LO = regs[i.Rs]

		case assembler.FUNCT_MULT:
			result := int64(int32(regs[i.Rs])) * int64(int32(regs[i.Rt]))
			mc.State.LO = uint32(result)
			mc.State.HI = uint32(result >> 32)

		case assembler.FUNCT_MULTU:
			result := uint64(regs[i.Rs]) * uint64(regs[i.Rt])
			mc.State.LO = uint32(result)
			mc.State.HI = uint32(result >> 32)

		// Division by zero leaves HI and LO untouched
		case assembler.FUNCT_DIV:
			if divisor := int32(regs[i.Rt]); divisor != 0 {
				dividend := int32(regs[i.Rs])
				mc.State.LO = uint32(dividend / divisor)
				mc.State.HI = uint32(dividend % divisor)
			}

		case assembler.FUNCT_DIVU:
			if divisor := regs[i.Rt]; divisor != 0 {
				mc.State.LO = regs[i.Rs] / divisor
				mc.State.HI = regs[i.Rs] % divisor
			}

		case assembler.FUNCT_ADD, assembler.FUNCT_ADDU:
			regs[i.Rd] = regs[i.Rs] + regs[i.Rt]

		case assembler.FUNCT_SUB, assembler.FUNCT_SUBU:
			regs[i.Rd] = regs[i.Rs] - regs[i.Rt]

		case assembler.FUNCT_AND:
			regs[i.Rd] = regs[i.Rs] & regs[i.Rt]

		case assembler.FUNCT_OR:
			regs[i.Rd] = regs[i.Rs] | regs[i.Rt]

		case assembler.FUNCT_XOR:
			regs[i.Rd] = regs[i.Rs] ^ regs[i.Rt]

		case assembler.FUNCT_NOR:
			regs[i.Rd] = ^(regs[i.Rs] | regs[i.Rt])

		case assembler.FUNCT_SLT:
			regs[i.Rd] = boolWord(int32(regs[i.Rs]) < int32(regs[i.Rt]))

		case assembler.FUNCT_SLTU:
			regs[i.Rd] = boolWord(regs[i.Rs] < regs[i.Rt])

		default:
			err = &InvalidInstructionError{program, instruction}
		}

	// REGIMM  |000001|rs   |cond |offset                 |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_REGIMM:
		value := int32(regs[i.Rs])

		var taken bool

		switch i.Rt {
		case assembler.REGIMM_BLTZ, assembler.REGIMM_BLTZAL:
			taken = value < 0
		case assembler.REGIMM_BGEZ, assembler.REGIMM_BGEZAL:
			taken = value >= 0
		default:
			err = &InvalidInstructionError{program, instruction}
		}

		if i.Rt == assembler.REGIMM_BLTZAL || i.Rt == assembler.REGIMM_BGEZAL {
			if taken {
				regs[REG_RA] = program + 4
			}
		}

		if taken {
			next = branchTarget(program, i.Imm)
		}

	// J       |00001L|target                              |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_J, assembler.OPCODE_JAL:
		if i.Opcode == assembler.OPCODE_JAL {
			regs[REG_RA] = program + 4
		}

		next = (program & 0xF0000000) | (i.Target << 2)

	// BEQ/BNE |00010N|rs   |rt   |offset                 |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_BEQ:
		if regs[i.Rs] == regs[i.Rt] {
			next = branchTarget(program, i.Imm)
		}

	case assembler.OPCODE_BNE:
		if regs[i.Rs] != regs[i.Rt] {
			next = branchTarget(program, i.Imm)
		}

	// BLEZ/BGTZ |00011G|rs |00000|offset                 |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_BLEZ:
		if int32(regs[i.Rs]) <= 0 {
			next = branchTarget(program, i.Imm)
		}

	case assembler.OPCODE_BGTZ:
		if int32(regs[i.Rs]) > 0 {
			next = branchTarget(program, i.Imm)
		}

	// ALU imm |001ooo|rs   |rt   |immediate              |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_ADDI, assembler.OPCODE_ADDIU:
		regs[i.Rt] = regs[i.Rs] + simm

	case assembler.OPCODE_SLTI:
		regs[i.Rt] = boolWord(int32(regs[i.Rs]) < int32(simm))

	case assembler.OPCODE_SLTIU:
		regs[i.Rt] = boolWord(regs[i.Rs] < simm)

	case assembler.OPCODE_ANDI:
		regs[i.Rt] = regs[i.Rs] & i.Imm

	case assembler.OPCODE_ORI:
		regs[i.Rt] = regs[i.Rs] | i.Imm

	case assembler.OPCODE_XORI:
		regs[i.Rt] = regs[i.Rs] ^ i.Imm

	case assembler.OPCODE_LUI:
		regs[i.Rt] = i.Imm << 16

	// LOAD    |100ooo|base |rt   |offset                 |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_LB:
		regs[i.Rt] = encoding.SignExtend(mc.read(regs[i.Rs]+simm)&0xFF, 8)

	case assembler.OPCODE_LH:
		regs[i.Rt] = encoding.SignExtend(mc.read(regs[i.Rs]+simm)&0xFFFF, 16)

	case assembler.OPCODE_LW:
		regs[i.Rt] = mc.read(regs[i.Rs] + simm)

	case assembler.OPCODE_LBU:
		regs[i.Rt] = mc.read(regs[i.Rs]+simm) & 0xFF

	case assembler.OPCODE_LHU:
		regs[i.Rt] = mc.read(regs[i.Rs]+simm) & 0xFFFF

	// STORE   |101ooo|base |rt   |offset                 |
	// ------- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case assembler.OPCODE_SB:
		mc.write(regs[i.Rs]+simm, regs[i.Rt], 1)

	case assembler.OPCODE_SH:
		mc.write(regs[i.Rs]+simm, regs[i.Rt], 2)

	case assembler.OPCODE_SW:
		mc.write(regs[i.Rs]+simm, regs[i.Rt], 4)

	default:
		err = &InvalidInstructionError{program, instruction}
	}

	regs[REG_ZERO] = 0

	if err != nil {
		var invalid *InvalidInstructionError

		if errors.As(err, &invalid) {
			mc.State.Halted = true
		}

		return err
	}

	mc.State.Program = next

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}

// Run steps until the program halts or limit instructions have executed.
// A limit of zero means no limit.
func (mc *Machine) Run(limit uint) error {
	for steps := uint(0); !mc.State.Halted; steps++ {
		if limit != 0 && steps >= limit {
			return ErrStepLimit
		}

		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}

func boolWord(value bool) uint32 {
	if value {
		return 1
	}

	return 0
}
