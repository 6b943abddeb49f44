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

package encoding

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteHexWords writes one FormatWord string per line.
func WriteHexWords(w io.Writer, words []uint32) error {
	writer := bufio.NewWriter(w)

	for _, word := range words {
		if _, err := writer.WriteString(FormatWord(word) + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// ReadHexWords parses the output of WriteHexWords. Blank lines are ignored.
func ReadHexWords(r io.Reader) ([]uint32, error) {
	var words []uint32

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimSpace(scanner.Text())

		if text == "" {
			continue
		}

		text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")

		word, err := strconv.ParseUint(text, 16, 32)

		if err != nil {
			return nil, fmt.Errorf("line %d: invalid word %q: %w", line, text, err)
		}

		words = append(words, uint32(word))
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
