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
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/lassandro/gomips/pkg/encoding"
)

type Options struct {
	// Added to label values substituted into non-branch operands
	BaseAddress uint32

	// When set, labels are bound after pseudo-instruction expansion so
	// they account for the extra words an expanded addiu occupies.
	LabelsAfterExpansion bool

	// Receives debug tracing; nil discards it
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{BaseAddress: BASE_ADDRESS}
}

type Assembler struct {
	options Options
	logger  *slog.Logger
}

func NewAssembler(options Options) *Assembler {
	logger := options.Logger

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Assembler{options: options, logger: logger}
}

// splitLine breaks a line into its mnemonic and operand tokens. Commas and
// whitespace are interchangeable separators.
func splitLine(text string) (string, []string) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	if len(fields) == 0 {
		return "", nil
	}

	return fields[0], fields[1:]
}

func stripComment(text string) string {
	if i := strings.Index(text, COMMENT_MARKER); i != -1 {
		text = text[:i]
	}

	return strings.TrimSpace(text)
}

// splitLabel recognizes "name:" alone on a line and "name: instruction".
func splitLabel(text string) (label string, rest string, ok bool) {
	if strings.HasSuffix(text, LABEL_MARKER) {
		return strings.TrimSpace(strings.TrimSuffix(text, LABEL_MARKER)), "", true
	}

	end := strings.IndexFunc(text, unicode.IsSpace)

	if end == -1 || !strings.HasSuffix(text[:end], LABEL_MARKER) {
		return "", "", false
	}

	return text[:end-len(LABEL_MARKER)], strings.TrimSpace(text[end:]), true
}

// Scan is the first pass. It drops comments and blank lines, binds each
// label to the byte offset of the instruction that follows it, and returns
// the remaining instruction lines in order.
func (asm *Assembler) Scan(source string) (*Program, []error) {
	return asm.scan(source, 1)
}

func (asm *Assembler) scan(source string, firstLine int) (*Program, []error) {
	prog := &Program{Labels: make(map[string]uint32)}

	var errs []error
	var address uint32

	for i, raw := range strings.Split(source, "\n") {
		number := firstLine + i
		text := stripComment(raw)

		if text == "" {
			continue
		}

		if label, rest, ok := splitLabel(text); ok {
			if _, exists := prog.Labels[label]; exists {
				errs = append(errs, &RedeclaredLabelError{
					Position: Cursor{Line: number, Address: address, Text: raw},
					Received: label,
				})
			} else {
				prog.Labels[label] = address

				asm.logger.Debug(
					"label bound", "label", label, "address", address,
				)
			}

			if rest == "" {
				continue
			}

			text = rest
		}

		line := Line{Text: text, Line: number}
		prog.Lines = append(prog.Lines, line)

		if asm.options.LabelsAfterExpansion {
			expanded, _ := expandLine(line, Cursor{})
			address += INSTRUCTION_SIZE * uint32(len(expanded))
		} else {
			address += INSTRUCTION_SIZE
		}
	}

	return prog, errs
}

// Encode is the second pass over already expanded lines. Lines that fail
// produce no word but still occupy an address. When symtable is non-nil it
// receives the line map and listing, keyed by absolute address.
func (asm *Assembler) Encode(
	lines []Line, labels map[string]uint32, symtable *SymTable,
) ([]uint32, []error) {
	var result []uint32
	var errs []error
	var address uint32

	if symtable != nil {
		if symtable.Symbols == nil {
			symtable.Symbols = make(map[uint32]int)
		}

		if symtable.Labels == nil {
			symtable.Labels = make(map[string]uint32)
		}
	}

	for _, line := range lines {
		text, word, ok, lineErrs := asm.encodeLine(line, labels, address)
		errs = append(errs, lineErrs...)

		if ok {
			result = append(result, word)
		}

		asm.logger.Debug(
			"line encoded",
			"line", line.Line,
			"address", address,
			"text", text,
			"word", encoding.FormatWord(word),
			"emitted", ok,
		)

		if symtable != nil {
			absolute := address + asm.options.BaseAddress

			entry := ListingEntry{
				Address: absolute,
				Line:    line.Line,
				Text:    text,
				Word:    word,
				Encoded: ok,
			}

			if len(lineErrs) > 0 {
				entry.Note = strings.SplitN(lineErrs[0].Error(), "\n", 2)[0]
			}

			if ok {
				symtable.Symbols[absolute] = line.Line
			}

			symtable.Listing = append(symtable.Listing, entry)
		}

		address += INSTRUCTION_SIZE
	}

	if symtable != nil {
		for label, offset := range labels {
			symtable.Labels[label] = offset + asm.options.BaseAddress
		}
	}

	return result, errs
}

func (asm *Assembler) encodeLine(
	line Line, labels map[string]uint32, address uint32,
) (text string, word uint32, ok bool, errs []error) {
	mnemonic, operands := splitLine(line.Text)

	for i := range operands {
		operands[i] = normalizeOperand(operands[i])
	}

	text = strings.TrimSpace(
		strings.ToLower(mnemonic) + " " + strings.Join(operands, ", "),
	)

	position := Cursor{Line: line.Line, Address: address, Text: line.Text}

	spec, found := Lookup(mnemonic)

	if !found {
		return text, 0, false, []error{
			&UnsupportedMnemonicError{position, mnemonic},
		}
	}

	if last := len(operands) - 1; last >= 0 {
		if target, exists := labels[operands[last]]; exists {
			if spec.IsBranch() {
				// Arithmetic shift floors, matching (target - (pc + 4)) / 4
				delta := int64(target) - int64(address)
				operands[last] = strconv.FormatInt((delta-1)>>2, 10)
			} else {
				operands[last] = strconv.FormatInt(
					int64(target)+int64(asm.options.BaseAddress), 10,
				)
			}
		}
	}

	word, errs = Encode(spec, operands, position)

	return text, word, !HasErrors(errs), errs
}

// Assemble runs both passes over a text section.
func (asm *Assembler) Assemble(source string, symtable *SymTable) ([]uint32, []error) {
	return asm.assemble(source, 1, symtable)
}

func (asm *Assembler) assemble(
	source string, firstLine int, symtable *SymTable,
) ([]uint32, []error) {
	prog, errs := asm.scan(source, firstLine)
	lines, expandErrs := asm.Expand(prog)
	errs = append(errs, expandErrs...)

	result, encodeErrs := asm.Encode(lines, prog.Labels, symtable)
	errs = append(errs, encodeErrs...)

	return result, errs
}

// AssembleMIPSSource assembles the .text section of a source file.
func AssembleMIPSSource(
	input io.Reader, symtable *SymTable, options Options,
) ([]uint32, []error) {
	source, firstLine, err := ExtractTextSection(input)

	if err != nil {
		return nil, []error{err}
	}

	return NewAssembler(options).assemble(source, firstLine, symtable)
}
