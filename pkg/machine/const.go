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

const (
	MEMSPACE_TEXT   uint32 = 0x00400000
	MEMSPACE_DATA   uint32 = 0x10000000
	MEMSPACE_GLOBAL uint32 = 0x10008000
	MEMSPACE_STACK  uint32 = 0x7FFFEFFC
)

const (
	REG_ZERO = 0
	REG_V0   = 2
	REG_A0   = 4
	REG_GP   = 28
	REG_SP   = 29
	REG_RA   = 31
)

// Service numbers read from $v0 by syscall
const (
	SYSCALL_PRINT_INT    uint32 = 1
	SYSCALL_PRINT_STRING uint32 = 4
	SYSCALL_EXIT         uint32 = 10
	SYSCALL_PRINT_CHAR   uint32 = 11
	SYSCALL_READ_CHAR    uint32 = 12
)

const (
	PAGE_BITS        = 12
	PAGE_SIZE uint32 = 1 << PAGE_BITS
	PAGE_MASK uint32 = PAGE_SIZE - 1
)
