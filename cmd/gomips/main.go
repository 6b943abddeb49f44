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
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/lassandro/gomips/pkg/assembler"
	"github.com/lassandro/gomips/pkg/debugger"
	"github.com/lassandro/gomips/pkg/encoding"
	"github.com/lassandro/gomips/pkg/machine"
)

var helpvar bool
var debugvar bool
var limitvar uint
var shouldexit bool

// Program image kept for the debugger's reset command
var program []uint32

const usage = "gomips [-debug] [-limit n] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.UintVar(
		&limitvar, "limit", 0,
		"Stops after this many instructions; zero runs until the program exits",
	)
	flag.Parse()
}

func gomips() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	program, err = encoding.ReadHexWords(file)
	file.Close()

	if err != nil {
		log.Println(err)
		return 1
	}

	var mc machine.Machine
	var dh machine.DeviceHandler
	dh.Keyboard = bufio.NewReader(os.Stdin)
	dh.Display = bufio.NewWriter(os.Stdout)
	mc.Devices = &dh

	mc.LoadWords(program, machine.MEMSPACE_TEXT)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	if debugvar {
		var dbg debugger.Debugger
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = &dbg

		filename := strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".mipsdb"

		if file, err := os.Open(filename); err == nil {
			var symtable assembler.SymTable

			if err := gob.NewDecoder(file).Decode(&symtable); err == nil {
				dbg.SymTable = &symtable
			} else {
				log.Println("Error loading symbol file")
				log.Println(err)
			}

			file.Close()
		} else {
			log.Println("Error loading symbol file")
			log.Println(err)
		}

		if dbg.SymTable != nil && dbg.SymTable.Source != "" {
			if file, err := os.Open(dbg.SymTable.Source); err == nil {
				dbg.Source = file
				defer file.Close()
			} else {
				log.Println("Error loading source file")
				log.Println(err)
			}
		}

		go func() {
			for range c {
				fmt.Println()
				dbg.Break = true
			}
		}()
	} else {
		go func() {
			for range c {
				fmt.Println()
				atexit.Exit(130)
			}
		}()
	}

	enterRawTerm()
	defer exitRawTerm()

	if debugvar {
		debugREPL(mc.Debugger.(*debugger.Debugger), &mc)
	}

	for steps := uint(0); !shouldexit && !mc.State.Halted; steps++ {
		if limitvar != 0 && steps >= limitvar {
			log.Println(machine.ErrStepLimit)
			return 1
		}

		if err := mc.Step(); err != nil {
			log.Println(err)
			return 1
		}
	}

	return 0
}

func main() {
	atexit.Exit(gomips())
}
