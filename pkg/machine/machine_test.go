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

package machine_test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/machine"
)

func assemble(source string) []uint32 {
	asm := assembler.NewAssembler(assembler.DefaultOptions())
	words, errs := asm.Assemble(source, nil)

	ExpectWithOffset(1, errs).To(BeEmpty())

	return words
}

func load(source string) *machine.Machine {
	var mc machine.Machine
	mc.LoadWords(assemble(source), machine.MEMSPACE_TEXT)
	return &mc
}

func hex(value uint32) string {
	return fmt.Sprintf("%#x", value)
}

func run(source string) *machine.Machine {
	mc := load(source + "\naddiu $v0, $zero, 10\nsyscall")
	ExpectWithOffset(1, mc.Run(10000)).To(Succeed())
	return mc
}

var _ = Describe("Machine", func() {
	Describe("Reset", func() {
		It("should start in the text segment with a stack", func() {
			var mc machine.Machine
			mc.State.Registers[8] = 42
			mc.State.Memory.StoreWord(0x10000000, 1)

			mc.State.Reset()

			Expect(mc.State.Program).To(Equal(machine.MEMSPACE_TEXT))
			Expect(mc.State.Registers[machine.REG_SP]).To(Equal(machine.MEMSPACE_STACK))
			Expect(mc.State.Registers[machine.REG_GP]).To(Equal(machine.MEMSPACE_GLOBAL))
			Expect(mc.State.Registers[8]).To(BeZero())
			Expect(mc.State.Memory.LoadWord(0x10000000)).To(BeZero())
		})
	})

	Describe("Memory", func() {
		It("should be little endian and byte addressed", func() {
			var mem machine.Memory

			mem.StoreWord(0x10000000, 0x11223344)

			Expect(mem.LoadByte(0x10000000)).To(Equal(byte(0x44)))
			Expect(mem.LoadByte(0x10000003)).To(Equal(byte(0x11)))
			Expect(mem.Load(0x10000002, 2)).To(Equal(uint32(0x1122)))
		})

		It("should span pages", func() {
			var mem machine.Memory

			mem.StoreWord(machine.PAGE_SIZE-2, 0xAABBCCDD)

			Expect(mem.LoadWord(machine.PAGE_SIZE - 2)).To(Equal(uint32(0xAABBCCDD)))
			Expect(mem.Pages()).To(Equal(2))
			Expect(mem.LoadWord(0x7FFF0000)).To(BeZero())
			Expect(mem.Pages()).To(Equal(2))
		})

		It("should read strings", func() {
			var mem machine.Memory

			for i, b := range []byte("hello\x00world") {
				mem.StoreByte(0x10000000+uint32(i), b)
			}

			Expect(mem.LoadString(0x10000000, 100)).To(Equal("hello"))
			Expect(mem.LoadString(0x10000000, 3)).To(Equal("hel"))
		})
	})

	Describe("Arithmetic", func() {
		It("should execute register instructions", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, 12",
				"addi $t1, $zero, -5",
				"add $t2, $t0, $t1",
				"sub $t3, $t0, $t1",
				"and $t4, $t0, $t1",
				"or $t5, $t0, $t1",
				"xor $t6, $t0, $t1",
				"nor $t7, $t0, $t1",
				"slt $s0, $t1, $t0",
				"sltu $s1, $t1, $t0",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[10]).To(Equal(uint32(7)))
			Expect(regs[11]).To(Equal(uint32(17)))
			Expect(regs[12]).To(Equal(uint32(12 & 0xFFFFFFFB)))
			Expect(regs[13]).To(Equal(uint32(0xFFFFFFFF)))
			Expect(regs[14]).To(Equal(uint32(12 ^ 0xFFFFFFFB)))
			Expect(regs[15]).To(Equal(uint32(0)))
			Expect(regs[16]).To(Equal(uint32(1)))
			Expect(regs[17]).To(Equal(uint32(0)))
		})

		It("should execute immediate instructions", func() {
			mc := run(strings.Join([]string{
				"ori $t0, $zero, 0xF0F0",
				"andi $t1, $t0, 0x00FF",
				"xori $t2, $t0, 0xFFFF",
				"lui $t3, 0x1234",
				"slti $t4, $t0, -1",
				"sltiu $t5, $t0, -1",
				"addiu $t6, $zero, -1",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[8]).To(Equal(uint32(0xF0F0)))
			Expect(regs[9]).To(Equal(uint32(0x00F0)))
			Expect(regs[10]).To(Equal(uint32(0x0F0F)))
			Expect(regs[11]).To(Equal(uint32(0x12340000)))
			Expect(regs[12]).To(Equal(uint32(0)))
			Expect(regs[13]).To(Equal(uint32(1)))
			Expect(regs[14]).To(Equal(uint32(0xFFFFFFFF)))
		})

		It("should execute shifts", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, -16",
				"addi $t1, $zero, 2",
				"sll $t2, $t0, 4",
				"srl $t3, $t0, 28",
				"sra $t4, $t0, 2",
				"srlv $t5, $t1, $t0",
				"srav $t6, $t1, $t0",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[10]).To(Equal(uint32(0xFFFFFF00)))
			Expect(regs[11]).To(Equal(uint32(0xF)))
			Expect(regs[12]).To(Equal(uint32(0xFFFFFFFC)))
			Expect(regs[13]).To(Equal(uint32(0x3FFFFFFC)))
			Expect(regs[14]).To(Equal(uint32(0xFFFFFFFC)))
		})

		It("should multiply and divide", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, -7",
				"addi $t1, $zero, 2",
				"mult $t0, $t1",
				"mflo $s0",
				"mfhi $s1",
				"div $t0, $t1",
				"mflo $s2",
				"mfhi $s3",
				"multu $t0, $t1",
				"mfhi $s4",
				"divu $t1, $t0",
				"mflo $s5",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[16]).To(Equal(uint32(0xFFFFFFF2)))
			Expect(regs[17]).To(Equal(uint32(0xFFFFFFFF)))
			Expect(regs[18]).To(Equal(uint32(0xFFFFFFFD)))
			Expect(regs[19]).To(Equal(uint32(0xFFFFFFFF)))
			Expect(regs[20]).To(Equal(uint32(1)))
			Expect(regs[21]).To(Equal(uint32(0)))
		})

		It("should leave HI and LO alone on division by zero", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, 9",
				"mthi $t0",
				"mtlo $t0",
				"div $t0, $zero",
				"divu $t0, $zero",
			}, "\n"))

			Expect(mc.State.HI).To(Equal(uint32(9)))
			Expect(mc.State.LO).To(Equal(uint32(9)))
		})

		It("should keep $zero at zero", func() {
			mc := run("addi $zero, $zero, 5\nlui $0, 1")

			Expect(mc.State.Registers[0]).To(BeZero())
		})
	})

	Describe("Pseudo-instructions", func() {
		constants := []uint32{0x8000, 0xFFFF, 0x10000, 0x12345678, 0x7FFFFFFF, 0xFFFFFFFF}

		It("should materialize constants from $zero", func() {
			for _, constant := range constants {
				mc := run("addiu $t0, $zero, " + hex(constant))

				Expect(mc.State.Registers[8]).To(Equal(constant), hex(constant))
			}
		})

		It("should add constants to a register", func() {
			for _, constant := range constants {
				mc := run("addi $t1, $zero, 100\naddiu $t0, $t1, " + hex(constant))

				Expect(mc.State.Registers[8]).To(Equal(constant+100), hex(constant))
				Expect(mc.State.Registers[9]).To(Equal(uint32(100)))
			}
		})
	})

	Describe("Control flow", func() {
		It("should loop with backward branches", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, 5",
				"loop:",
				"add $t1, $t1, $t0",
				"addi $t0, $t0, -1",
				"bne $t0, $zero, loop",
			}, "\n"))

			Expect(mc.State.Registers[9]).To(Equal(uint32(15)))
		})

		It("should skip with forward branches", func() {
			mc := run(strings.Join([]string{
				"beq $zero, $zero, skip",
				"addi $t0, $zero, 1",
				"skip:",
				"bgtz $zero, never",
				"blez $zero, taken",
				"never:",
				"addi $t1, $zero, 1",
				"taken:",
				"addi $t2, $zero, -1",
				"bltz $t2, done",
				"addi $t3, $zero, 1",
				"done:",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[8]).To(BeZero())
			Expect(regs[9]).To(BeZero())
			Expect(regs[11]).To(BeZero())
		})

		It("should call and return", func() {
			mc := run(strings.Join([]string{
				"j main",
				"double:",
				"add $v1, $a0, $a0",
				"jr $ra",
				"main:",
				"addi $a0, $zero, 21",
				"jal double",
				"add $s0, $v1, $zero",
				"addi $a0, $zero, 4",
				"bgezal $a0, double",
				"add $s1, $v1, $zero",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[16]).To(Equal(uint32(42)))
			Expect(regs[17]).To(Equal(uint32(8)))
		})

		It("should link through jalr", func() {
			mc := load(strings.Join([]string{
				"lui $t0, 0x0040",
				"ori $t0, $t0, 0x0010",
				"jalr $t0",
				"syscall",
				"addi $v0, $zero, 10",
				"jr $ra",
			}, "\n"))

			Expect(mc.Run(100)).To(Succeed())
			Expect(mc.State.Registers[machine.REG_RA]).To(Equal(machine.MEMSPACE_TEXT + 12))
			Expect(mc.State.Halted).To(BeTrue())
		})
	})

	Describe("Memory access", func() {
		It("should store and load words, halves and bytes", func() {
			mc := run(strings.Join([]string{
				"addi $t0, $zero, -2",
				"sw $t0, 0($gp)",
				"lw $s0, 0($gp)",
				"lb $s1, 0($gp)",
				"lbu $s2, 0($gp)",
				"lh $s3, 0($gp)",
				"lhu $s4, 0($gp)",
				"addi $t1, $zero, 0x41",
				"sb $t1, 5($gp)",
				"sh $t1, -4($sp)",
				"lw $s5, 4($gp)",
				"lw $s6, -4($sp)",
			}, "\n"))

			regs := mc.State.Registers
			Expect(regs[16]).To(Equal(uint32(0xFFFFFFFE)))
			Expect(regs[17]).To(Equal(uint32(0xFFFFFFFE)))
			Expect(regs[18]).To(Equal(uint32(0xFE)))
			Expect(regs[19]).To(Equal(uint32(0xFFFFFFFE)))
			Expect(regs[20]).To(Equal(uint32(0xFFFE)))
			Expect(regs[21]).To(Equal(uint32(0x4100)))
			Expect(regs[22]).To(Equal(uint32(0x41)))
		})
	})

	Describe("Syscalls", func() {
		var (
			mc      *machine.Machine
			display bytes.Buffer
		)

		BeforeEach(func() {
			display.Reset()
		})

		withDevices := func(source string, keyboard string) {
			mc = load(source)
			mc.Devices = &machine.DeviceHandler{
				Keyboard: bufio.NewReader(strings.NewReader(keyboard)),
				Display:  bufio.NewWriter(&display),
			}
		}

		It("should print integers, characters and strings", func() {
			withDevices(strings.Join([]string{
				"addi $a0, $zero, -42",
				"addi $v0, $zero, 1",
				"syscall",
				"addi $a0, $zero, 0x20",
				"addi $v0, $zero, 11",
				"syscall",
				"lui $a0, 0x1000",
				"addi $v0, $zero, 4",
				"syscall",
				"addi $v0, $zero, 10",
				"syscall",
			}, "\n"), "")

			for i, b := range []byte("hi!\x00") {
				mc.State.Memory.StoreByte(machine.MEMSPACE_DATA+uint32(i), b)
			}

			Expect(mc.Run(100)).To(Succeed())
			Expect(display.String()).To(Equal("-42 hi!"))
		})

		It("should read characters", func() {
			withDevices(strings.Join([]string{
				"addi $v0, $zero, 12",
				"syscall",
				"add $s0, $v0, $zero",
				"addi $v0, $zero, 12",
				"syscall",
				"add $s1, $v0, $zero",
				"addi $v0, $zero, 12",
				"syscall",
				"add $s2, $v0, $zero",
				"addi $v0, $zero, 10",
				"syscall",
			}, "\n"), "ab")

			Expect(mc.Run(100)).To(Succeed())
			Expect(mc.State.Registers[16]).To(Equal(uint32('a')))
			Expect(mc.State.Registers[17]).To(Equal(uint32('b')))
			Expect(mc.State.Registers[18]).To(BeZero())
		})

		It("should halt on exit and stay halted", func() {
			withDevices("addi $v0, $zero, 10\nsyscall\naddi $t0, $zero, 1", "")

			Expect(mc.Run(0)).To(Succeed())
			Expect(mc.State.Halted).To(BeTrue())

			program := mc.State.Program
			Expect(mc.Step()).To(Succeed())
			Expect(mc.State.Program).To(Equal(program))
			Expect(mc.State.Registers[8]).To(BeZero())
		})
	})

	Describe("Faults", func() {
		It("should reject invalid instructions", func() {
			var mc machine.Machine
			mc.LoadWords([]uint32{0x012a4020, 0xFC000000}, machine.MEMSPACE_TEXT)

			err := mc.Run(10)

			var invalid *machine.InvalidInstructionError
			Expect(errors.As(err, &invalid)).To(BeTrue())
			Expect(invalid.Address).To(Equal(machine.MEMSPACE_TEXT + 4))
			Expect(invalid.Word).To(Equal(uint32(0xFC000000)))
			Expect(mc.State.Halted).To(BeTrue())
		})

		It("should reject unknown function codes", func() {
			var mc machine.Machine
			mc.LoadWords([]uint32{0x0000003F}, machine.MEMSPACE_TEXT)

			Expect(mc.Step()).To(HaveOccurred())
		})

		It("should stop at the step limit", func() {
			mc := load("loop: j loop")

			Expect(mc.Run(50)).To(MatchError(machine.ErrStepLimit))
			Expect(mc.State.Halted).To(BeFalse())
		})
	})

	Describe("Loading", func() {
		It("should load assembler hex output", func() {
			var mc machine.Machine

			Expect(mc.LoadHex(strings.NewReader("012a4020\n3c011000\n"))).To(Succeed())
			Expect(mc.State.Program).To(Equal(machine.MEMSPACE_TEXT))
			Expect(mc.State.Memory.LoadWord(machine.MEMSPACE_TEXT + 4)).
				To(Equal(uint32(0x3c011000)))

			Expect(mc.LoadHex(strings.NewReader("nothex\n"))).NotTo(Succeed())
		})
	})

	Describe("Debugger hooks", func() {
		var (
			mockCtrl     *gomock.Controller
			mockDebugger *MockMachineDebugger
			mc           *machine.Machine
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockDebugger = NewMockMachineDebugger(mockCtrl)
			mc = load("sw $t0, 8($gp)\nlw $t1, 8($gp)")
			mc.Debugger = mockDebugger
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should report fetches, stores and steps", func() {
			gomock.InOrder(
				mockDebugger.EXPECT().Read(machine.MEMSPACE_TEXT, mc),
				mockDebugger.EXPECT().Write(machine.MEMSPACE_GLOBAL+8, mc),
				mockDebugger.EXPECT().Step(mc),
				mockDebugger.EXPECT().Read(machine.MEMSPACE_TEXT+4, mc),
				mockDebugger.EXPECT().Read(machine.MEMSPACE_GLOBAL+8, mc),
				mockDebugger.EXPECT().Step(mc),
			)

			Expect(mc.Step()).To(Succeed())
			Expect(mc.Step()).To(Succeed())
		})
	})
})
