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

package main

import (
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/debugger"
	"github.com/lassandro/gomips/pkg/encoding"
	"github.com/lassandro/gomips/pkg/machine"
)

var lastcmd []string

// parseAddress accepts a label or a hex address.
func parseAddress(dbg *debugger.Debugger, arg string) (uint32, error) {
	if addr, ok := dbg.LabelAddress(arg); ok {
		return addr, nil
	}

	return encoding.DecodeHex(arg)
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x########|label]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := parseAddress(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		exists := false

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				exists = true
				break
			}
		}

		if !exists {
			dbg.Breakpoints = append(
				dbg.Breakpoints,
				debugger.Breakpoint{Addr: addr},
			)

			fmt.Printf("Breakpoint added [0x%08x]\n", addr)
		}

	case "l", "ls", "list":
		const usage = "break list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Breakpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: 0x%%08x\n", int64(digits)+1)
		}

		for i, breakpoint := range dbg.Breakpoints {
			log.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command\n", cmd)
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		log.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x########|label] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := parseAddress(dbg, args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType
		var typename string

		switch args[1] {
		case "r", "read":
			wtype, typename = debugger.ReadWatch, "R"
		case "w", "write":
			wtype, typename = debugger.WriteWatch, "W"
		case "rw", "rwrite", "readwrite":
			wtype, typename = debugger.ReadWriteWatch, "RW"
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints,
			debugger.Watchpoint{Addr: addr, Type: wtype},
		)

		fmt.Printf("Watchpoint added [0x%08x] (%s)\n", addr, typename)

	case "l", "ls", "list":
		const usage = "watch list"

		if len(args) != 0 {
			log.Println(usage)
			return
		}

		var fmtstring string
		{
			digits := math.Floor(math.Log10(float64(len(dbg.Watchpoints) + 1)))
			fmtstring = fmt.Sprintf("#%%0%dd: 0x%%08x %%s\n", int64(digits)+1)
		}

		for i, watchpoint := range dbg.Watchpoints {
			switch watchpoint.Type {
			case debugger.WriteWatch:
				log.Printf(fmtstring, i, watchpoint.Addr, "write")
			case debugger.ReadWatch:
				log.Printf(fmtstring, i, watchpoint.Addr, "read")
			case debugger.ReadWriteWatch:
				log.Printf(fmtstring, i, watchpoint.Addr, "rwrite")
			}
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			log.Println(err)
			return
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "register [$n|$name|pc|hi|lo] [0x########]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return
	}

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var target *uint32

	switch name := strings.ToLower(args[0]); name {
	case "pc":
		target = &mc.Program
	case "hi":
		target = &mc.HI
	case "lo":
		target = &mc.LO
	default:
		if !strings.HasPrefix(name, "$") {
			name = "$" + name
		}

		reg, ok := assembler.LookupRegister(name)

		if !ok {
			log.Println("Invalid register")
			return
		}

		target = &mc.Registers[reg]
	}

	if len(args) == 2 {
		value, err := encoding.DecodeHex(args[1])

		if err != nil {
			log.Println(err)
			return
		}

		*target = value
		mc.Registers[0] = 0
	}

	fmt.Printf("\033[1m%s:\033[0m 0x%08x\n", args[0], *target)
}

func debugSource(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "source [0x########|label] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var addr uint32 = mc.Program
	var size uint = 3

	if len(args) > 0 {
		value, err := parseAddress(dbg, args[0])

		if err == nil {
			addr = value
		} else {
			count, err := strconv.ParseUint(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return
			}

			size = uint(count)
		}
	}

	if len(args) > 1 {
		count, err := strconv.ParseUint(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint(count)
	}

	dbg.PrintSource(addr, size)
}

func debugLabels(dbg *debugger.Debugger, args []string) {
	const usage = "labels"

	if len(args) > 0 {
		fmt.Println(usage)
		return
	}

	dbg.PrintLabels()
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "jump [0x########|label]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	if addr, ok := dbg.LabelAddress(args[0]); ok {
		mc.Program = addr
		fmt.Printf(
			"\033[1mPC:\033[0m 0x%08x \033[1;30m(%s)\033[0m\n", addr, args[0],
		)
	} else if addr, err := encoding.DecodeHex(args[0]); err == nil {
		mc.Program = addr
		fmt.Printf("\033[1mPC:\033[0m 0x%08x\n", addr)
	} else {
		fmt.Printf("Unable to find '%s'\n", args[0])
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "memory [0x########|label|#] [#]"

	if len(args) > 2 {
		log.Println(usage)
		return
	}

	var size uint32 = 1
	var addr uint32 = mc.Program

	if len(args) > 0 {
		value, err := parseAddress(dbg, args[0])

		if err == nil {
			addr = value
		} else {
			count, err := strconv.ParseUint(args[0], 10, 16)

			if err != nil {
				log.Println(err)
				return
			}

			size = uint32(count)
		}
	}

	if len(args) > 1 {
		count, err := strconv.ParseUint(args[1], 10, 16)

		if err != nil {
			log.Println(err)
			return
		}

		size = uint32(count)
	}

	dbg.PrintMem(mc, addr, size)
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) {
	const usage = "set [0x########|label] [0x########]"

	if len(args) != 2 {
		log.Println(usage)
		return
	}

	addr, err := parseAddress(dbg, args[0])

	if err != nil {
		log.Println(err)
		return
	}

	value, err := encoding.DecodeHex(args[1])

	if err != nil {
		log.Println(err)
		return
	}

	mc.Memory.StoreWord(addr, value)
	dbg.PrintMem(mc, addr, 1)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	exitRawTerm()
	defer enterRawTerm()

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "r", "reg", "register", "registers":
			debugReg(dbg, &mc.State, args)

		case "s", "src", "source":
			debugSource(dbg, &mc.State, args)

		case "l", "label", "labels":
			debugLabels(dbg, args)

		case "j", "jmp", "jump":
			debugJump(dbg, &mc.State, args)

		case "m", "mem", "memory":
			debugMemory(dbg, &mc.State, args)

		case "set":
			debugSet(dbg, &mc.State, args)

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.LoadWords(program, machine.MEMSPACE_TEXT)
			fmt.Printf("\033[1mPC:\033[0m 0x%08x\n", mc.State.Program)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintSource(mc.State.Program, 8)
	}
	debugREPL(dbg, mc)
}

func handleRead(addr uint32, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint32, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Println()
	fmt.Println("Program stopped")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
