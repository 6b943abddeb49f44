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
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/lassandro/gomips/pkg/encoding"
)

// WriteListing renders the label table followed by the per-line listing.
func WriteListing(w io.Writer, symtable *SymTable) {
	labels := table.NewWriter()
	labels.SetOutputMirror(w)
	labels.SetStyle(table.StyleLight)
	labels.SetTitle("Labels")
	labels.AppendHeader(table.Row{"Address", "Label"})

	for _, name := range symtable.SortedLabels() {
		labels.AppendRow(table.Row{
			fmt.Sprintf("0x%08x", symtable.Labels[name]), name,
		})
	}

	labels.Render()

	listing := table.NewWriter()
	listing.SetOutputMirror(w)
	listing.SetStyle(table.StyleLight)
	listing.SetTitle("Listing")
	listing.AppendHeader(table.Row{"Address", "Line", "Source", "Word", "Note"})

	for _, entry := range symtable.Listing {
		word := "--------"

		if entry.Encoded {
			word = encoding.FormatWord(entry.Word)
		}

		listing.AppendRow(table.Row{
			fmt.Sprintf("0x%08x", entry.Address),
			entry.Line,
			entry.Text,
			word,
			entry.Note,
		})
	}

	listing.Render()
}
