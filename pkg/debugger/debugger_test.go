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

package debugger_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/debugger"
	"github.com/lassandro/gomips/pkg/machine"
)

const program = `.text
main:
    addi $t0, $zero, 3      # counter
loop:
    sw $t0, 0($gp)
    lw $t1, 0($gp)
    addi $t0, $t0, -1
    bne $t0, $zero, loop
    addiu $t2, $zero, 0x12345
    addi $v0, $zero, 10
    syscall
`

var _ = Describe("Debugger", func() {
	var (
		mc     *machine.Machine
		dbg    *debugger.Debugger
		output bytes.Buffer

		breaks []uint32
		reads  []uint32
		writes []uint32
	)

	BeforeEach(func() {
		output.Reset()
		breaks, reads, writes = nil, nil, nil

		symtable := assembler.NewSymTable()
		words, errs := assembler.AssembleMIPSSource(
			strings.NewReader(program), symtable, assembler.DefaultOptions(),
		)
		Expect(errs).To(BeEmpty())

		mc = &machine.Machine{}
		mc.LoadWords(words, machine.MEMSPACE_TEXT)

		dbg = &debugger.Debugger{
			Source:   strings.NewReader(program),
			SymTable: symtable,
			Output:   &output,
			HandleBreak: func(dbg *debugger.Debugger, mc *machine.Machine) {
				breaks = append(breaks, mc.State.Program)
			},
			HandleRead: func(addr uint32, dbg *debugger.Debugger, mc *machine.Machine) {
				reads = append(reads, addr)
			},
			HandleWrite: func(addr uint32, dbg *debugger.Debugger, mc *machine.Machine) {
				writes = append(writes, addr)
			},
		}

		mc.Debugger = dbg
	})

	It("should find labels", func() {
		addr, ok := dbg.LabelAddress("loop")
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(machine.MEMSPACE_TEXT + 4))

		_, ok = dbg.LabelAddress("missing")
		Expect(ok).To(BeFalse())
	})

	It("should keep every label sharing an address", func() {
		symtable := assembler.NewSymTable()
		_, errs := assembler.AssembleMIPSSource(
			strings.NewReader(".text\nmain:\nstart:\nadd $t0, $t1, $t2\nj start\n"),
			symtable,
			assembler.DefaultOptions(),
		)
		Expect(errs).To(BeEmpty())

		dbg.SymTable = symtable

		for _, name := range []string{"main", "start"} {
			addr, ok := dbg.LabelAddress(name)
			Expect(ok).To(BeTrue())
			Expect(addr).To(Equal(machine.MEMSPACE_TEXT))
		}

		dbg.PrintLabels()
		Expect(output.String()).To(MatchRegexp(`(?s)main.*start`))
	})

	It("should stop at breakpoints", func() {
		addr, _ := dbg.LabelAddress("loop")
		dbg.Breakpoints = append(dbg.Breakpoints, debugger.Breakpoint{Addr: addr})

		Expect(mc.Run(100)).To(Succeed())

		// Once on entry, then after each of the two taken branches
		Expect(breaks).To(Equal([]uint32{addr, addr, addr}))
	})

	It("should break on every step while Break is set", func() {
		dbg.Break = true

		Expect(mc.Step()).To(Succeed())
		Expect(mc.Step()).To(Succeed())

		Expect(breaks).To(Equal([]uint32{
			machine.MEMSPACE_TEXT + 4, machine.MEMSPACE_TEXT + 8,
		}))
	})

	It("should honour watchpoint types", func() {
		target := machine.MEMSPACE_GLOBAL

		dbg.Watchpoints = []debugger.Watchpoint{{Addr: target, Type: debugger.WriteWatch}}
		Expect(mc.Run(100)).To(Succeed())
		Expect(writes).To(HaveLen(3))
		Expect(reads).To(BeEmpty())

		mc.LoadWords(nil, machine.MEMSPACE_TEXT)
		writes = nil

		dbg.Watchpoints = []debugger.Watchpoint{{Addr: target, Type: debugger.ReadWatch}}
		dbg.Read(target, mc)
		dbg.Write(target, mc)
		Expect(reads).To(Equal([]uint32{target}))
		Expect(writes).To(BeEmpty())

		dbg.Watchpoints = []debugger.Watchpoint{{Addr: target, Type: debugger.ReadWriteWatch}}
		dbg.Read(target, mc)
		dbg.Write(target, mc)
		Expect(reads).To(HaveLen(2))
		Expect(writes).To(HaveLen(1))
	})

	It("should print source around an address", func() {
		addr, _ := dbg.LabelAddress("loop")

		dbg.PrintSource(addr, 3)

		lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(ContainSubstring("[0x00400004]"))
		Expect(lines[0]).To(ContainSubstring("sw $t0, 0($gp)"))
		Expect(lines[2]).To(ContainSubstring("addi $t0, $t0, -1"))
	})

	It("should mark expanded lines once", func() {
		dbg.PrintSource(machine.MEMSPACE_TEXT+20, 1)
		Expect(output.String()).To(ContainSubstring("[0x00400014]"))
		Expect(output.String()).To(ContainSubstring("0x12345"))

		output.Reset()
		dbg.PrintSource(machine.MEMSPACE_TEXT+24, 1)
		Expect(output.String()).To(ContainSubstring("[0x00400014]"))
	})

	It("should report missing instructions", func() {
		dbg.PrintSource(0x10000000, 1)
		Expect(output.String()).To(ContainSubstring("No instruction found"))

		output.Reset()
		dbg.SymTable = nil
		dbg.PrintSource(machine.MEMSPACE_TEXT, 1)
		Expect(output.String()).To(ContainSubstring("No symbol table"))

		output.Reset()
		dbg.Source = nil
		dbg.PrintSource(machine.MEMSPACE_TEXT, 1)
		Expect(output.String()).To(ContainSubstring("No source file"))
	})

	It("should print memory", func() {
		mc.State.Memory.StoreWord(machine.MEMSPACE_DATA+4, 0xdeadbeef)

		dbg.PrintMem(&mc.State, machine.MEMSPACE_DATA, 5)

		lines := strings.Split(strings.TrimRight(output.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(ContainSubstring("[0x10000000]"))
		Expect(lines[0]).To(ContainSubstring("deadbeef"))
		Expect(lines[1]).To(ContainSubstring("[0x10000010]"))
	})

	It("should print registers and labels", func() {
		Expect(mc.Run(100)).To(Succeed())

		dbg.PrintRegisters(&mc.State)
		Expect(output.String()).To(ContainSubstring("$t2"))
		Expect(output.String()).To(ContainSubstring("00012345"))
		Expect(output.String()).To(ContainSubstring("pc"))

		output.Reset()
		dbg.PrintLabels()
		Expect(output.String()).To(MatchRegexp(`(?s)main.*loop`))
	})
})
