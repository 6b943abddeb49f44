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

package debugger

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Output == nil {
		return os.Stdout
	}

	return dbg.Output
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint32, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint32, mc *machine.Machine) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// LabelAddress looks a label up by name.
func (dbg *Debugger) LabelAddress(label string) (uint32, bool) {
	if dbg.SymTable == nil {
		return 0, false
	}

	addr, ok := dbg.SymTable.Labels[label]

	return addr, ok
}

// PrintSource prints count source lines starting at the line that produced
// the instruction at addr.
func (dbg *Debugger) PrintSource(addr uint32, count uint) {
	w := dbg.out()

	if dbg.Source == nil {
		fmt.Fprintln(w, "No source file loaded")
		return
	}

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	start, exists := dbg.SymTable.Symbols[addr]

	if !exists {
		fmt.Fprintf(w, "No instruction found at 0x%08x\n", addr)
		return
	}

	// Several words can share a line after pseudo-instruction expansion;
	// show the first.
	lineaddrs := make(map[int]uint32)
	for lineaddr, line := range dbg.SymTable.Symbols {
		if prev, seen := lineaddrs[line]; !seen || lineaddr < prev {
			lineaddrs[line] = lineaddr
		}
	}

	if _, err := dbg.Source.Seek(0, io.SeekStart); err != nil {
		fmt.Fprintln(w, err)
		return
	}

	scanner := bufio.NewScanner(dbg.Source)
	number := 0

	for scanner.Scan() {
		number++

		if number < start {
			continue
		}

		if uint(number-start) >= count {
			break
		}

		if lineaddr, found := lineaddrs[number]; found {
			fmt.Fprintf(w, "\033[1m[0x%08x]\033[0m ", lineaddr)
		} else {
			fmt.Fprint(w, "\033[1;30m~~~~~~~~~~\033[0m ")
		}

		fmt.Fprintln(w, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(w, err)
	}
}

// PrintMem prints count words from addr, four to a row.
func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint32) {
	w := dbg.out()

	for i := uint32(0); i < count; i++ {
		current := addr + i*4

		if i == 0 {
			fmt.Fprintf(w, "\033[1m[0x%08x]\033[0m ", current)
		} else if i%4 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[0x%08x]\033[0m ", current)
		}

		result := mc.Memory.LoadWord(current)

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%08x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%08x ", result)
		}
	}

	fmt.Fprintln(w)
}

// PrintRegisters renders the register file as a table.
func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	regs := table.NewWriter()
	regs.SetOutputMirror(dbg.out())
	regs.SetStyle(table.StyleLight)
	regs.AppendHeader(table.Row{"Register", "Name", "Hex", "Decimal"})

	for i, value := range mc.Registers {
		regs.AppendRow(table.Row{
			fmt.Sprintf("$%d", i),
			assembler.RegisterName(uint32(i)),
			fmt.Sprintf("%08x", value),
			int32(value),
		})
	}

	regs.AppendSeparator()

	special := []struct {
		name  string
		value uint32
	}{
		{"pc", mc.Program},
		{"hi", mc.HI},
		{"lo", mc.LO},
	}

	for _, reg := range special {
		regs.AppendRow(table.Row{
			reg.name, "", fmt.Sprintf("%08x", reg.value), int32(reg.value),
		})
	}

	regs.Render()
}

// PrintLabels lists every label in address order.
func (dbg *Debugger) PrintLabels() {
	w := dbg.out()

	if dbg.SymTable == nil {
		fmt.Fprintln(w, "No symbol table loaded")
		return
	}

	for _, name := range dbg.SymTable.SortedLabels() {
		fmt.Fprintf(w, "\033[1m[0x%08x]\033[0m %s\n", dbg.SymTable.Labels[name], name)
	}
}
