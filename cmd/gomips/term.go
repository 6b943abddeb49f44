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

//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"os"

	"github.com/tebeka/atexit"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var termRestore *unix.Termios

func enterRawTerm() {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return
	}

	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)

	if err != nil {
		panic(err)
	}

	if termRestore == nil {
		atexit.Register(exitRawTerm)
	}

	restore := *termios
	termRestore = &restore
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	// Block until one byte arrives so syscall 12 waits for a key
	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate); err != nil {
		panic(err)
	}
}

func exitRawTerm() {
	if termRestore == nil {
		return
	}

	if err := unix.IoctlSetTermios(
		int(os.Stdin.Fd()), ioctlSetTermios, termRestore,
	); err != nil {
		panic(err)
	}
}
