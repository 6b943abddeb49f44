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

import (
	"errors"
	"fmt"
	"sort"
)

type Format uint
type RegisterField uint

// InstructionSpec is one Instruction Table entry. Rt is only read by
// FORMAT_BRANCH_SINGLE and Field only by FORMAT_MOVE_SPECIAL.
type InstructionSpec struct {
	Format Format
	Opcode uint32
	Funct  uint32
	Rt     uint32
	Field  RegisterField
}

// Cursor locates a diagnostic: the 1-based source line, the instruction
// address it was assigned, and the source text.
type Cursor struct {
	Line    int
	Address uint32
	Text    string
}

// Line is one cleaned source line awaiting encoding.
type Line struct {
	Text string
	Line int
}

// Program is the output of the scan pass.
type Program struct {
	Lines  []Line
	Labels map[string]uint32
}

type ListingEntry struct {
	Address uint32
	Line    int
	Text    string
	Word    uint32
	Encoded bool
	Note    string
}

// SymTable is the debug symbol file. Symbols maps an absolute address to the
// source line that produced it; Labels maps a label name to its absolute
// address. Several labels may share an address.
type SymTable struct {
	Source  string
	Symbols map[uint32]int
	Labels  map[string]uint32
	Listing []ListingEntry
}

func NewSymTable() *SymTable {
	return &SymTable{
		Symbols: make(map[uint32]int),
		Labels:  make(map[string]uint32),
	}
}

// SortedLabels returns every label name ordered by address, then by name.
func (symtable *SymTable) SortedLabels() []string {
	names := make([]string, 0, len(symtable.Labels))
	for name := range symtable.Labels {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := symtable.Labels[names[i]], symtable.Labels[names[j]]

		if a != b {
			return a < b
		}

		return names[i] < names[j]
	})

	return names
}

type TokenError interface {
	GetPosition() Cursor
}

type warning interface {
	Warning()
}

// IsWarning reports whether err is a diagnostic that still allows the
// program to be written out.
func IsWarning(err error) bool {
	var w warning
	return errors.As(err, &w)
}

// HasErrors reports whether errs holds anything other than warnings.
func HasErrors(errs []error) bool {
	for _, err := range errs {
		if !IsWarning(err) {
			return true
		}
	}

	return false
}

type InvalidNumArgumentsError struct {
	Position Cursor
	Min      int
	Max      int
	Received int
}

func (err *InvalidNumArgumentsError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidNumArgumentsError) Error() string {
	want := fmt.Sprintf("%d", err.Min)

	if err.Max != err.Min {
		want = fmt.Sprintf("%d-%d", err.Min, err.Max)
	}

	return fmt.Sprintf(
		"%02d:0x%08x: Invalid number of arguments\n\twant:%s\n\thave:%d",
		err.Position.Line,
		err.Position.Address,
		want,
		err.Received,
	)
}

type InvalidLiteralError struct {
	Position Cursor
	Received string
}

func (err *InvalidLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Invalid numeric literal '%s'",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type UnknownRegisterError struct {
	Position Cursor
	Received string
}

func (err *UnknownRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownRegisterError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Unknown register '%s'",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type MalformedOperandError struct {
	Position Cursor
	Received string
}

func (err *MalformedOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Malformed operand '%s'\n\twant:offset($base)",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type UnsupportedMnemonicError struct {
	Position Cursor
	Received string
}

func (err *UnsupportedMnemonicError) GetPosition() Cursor {
	return err.Position
}

func (err *UnsupportedMnemonicError) Warning() {}

func (err *UnsupportedMnemonicError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Instruction '%s' not supported",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

// ImmediateTruncatedError reports a value that did not fit its field and was
// masked. The masked word is still emitted.
type ImmediateTruncatedError struct {
	Position Cursor
	Bits     uint
	Received int64
	Stored   uint32
}

func (err *ImmediateTruncatedError) GetPosition() Cursor {
	return err.Position
}

func (err *ImmediateTruncatedError) Warning() {}

func (err *ImmediateTruncatedError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Immediate truncated to %d bits\n\twant:%d\n\thave:%#x",
		err.Position.Line,
		err.Position.Address,
		err.Bits,
		err.Received,
		err.Stored,
	)
}

// ScratchRegisterError reports an expanded addiu whose source register is
// $at, which the expansion overwrites before reading it. The words are still
// emitted.
type ScratchRegisterError struct {
	Position Cursor
	Received string
}

func (err *ScratchRegisterError) GetPosition() Cursor {
	return err.Position
}

func (err *ScratchRegisterError) Warning() {}

func (err *ScratchRegisterError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Source register '%s' is overwritten by the expansion",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:0x%08x: Unknown label '%s'",
		err.Position.Line,
		err.Position.Address,
		err.Received,
	)
}

type MissingTextSectionError struct{}

func (err *MissingTextSectionError) Error() string {
	return "'" + TEXT_MARKER + "' section not found"
}
