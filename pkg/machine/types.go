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
	"bufio"
	"fmt"
)

type DeviceHandler struct {
	Keyboard *bufio.Reader
	Display  *bufio.Writer
}

type MachineState struct {
	Registers [32]uint32
	HI        uint32
	LO        uint32
	Program   uint32
	Memory    Memory
	Halted    bool
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint32, mc *Machine)
	Write(addr uint32, mc *Machine)
}

type Machine struct {
	Devices  *DeviceHandler
	State    MachineState
	Debugger MachineDebugger
}

type InvalidInstructionError struct {
	Address uint32
	Word    uint32
}

func (err *InvalidInstructionError) Error() string {
	return fmt.Sprintf(
		"Invalid instruction at 0x%08x\n\thave:%08x", err.Address, err.Word,
	)
}
