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
	"bufio"
	"io"
	"strings"
)

// ExtractTextSection returns everything after the ".text" marker line along
// with the source line number the returned text starts at.
func ExtractTextSection(input io.Reader) (string, int, error) {
	scanner := bufio.NewScanner(input)

	var lines []string
	var number, start int

	for scanner.Scan() {
		number++

		if start == 0 {
			if stripComment(scanner.Text()) == TEXT_MARKER {
				start = number + 1
			}

			continue
		}

		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return "", 0, err
	}

	if start == 0 {
		return "", 0, &MissingTextSectionError{}
	}

	return strings.Join(lines, "\n"), start, nil
}
