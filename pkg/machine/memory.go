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

// Memory is a sparse, byte addressed, little endian 32-bit address space.
// Pages are allocated on first write; unwritten memory reads as zero.
type Memory struct {
	pages map[uint32]*[PAGE_SIZE]byte
}

func (mem *Memory) Reset() {
	mem.pages = nil
}

func (mem *Memory) LoadByte(addr uint32) byte {
	page, exists := mem.pages[addr>>PAGE_BITS]

	if !exists {
		return 0
	}

	return page[addr&PAGE_MASK]
}

func (mem *Memory) StoreByte(addr uint32, value byte) {
	if mem.pages == nil {
		mem.pages = make(map[uint32]*[PAGE_SIZE]byte)
	}

	page, exists := mem.pages[addr>>PAGE_BITS]

	if !exists {
		page = new([PAGE_SIZE]byte)
		mem.pages[addr>>PAGE_BITS] = page
	}

	page[addr&PAGE_MASK] = value
}

// Load reads size bytes (1, 2 or 4) starting at addr. Accesses may cross a
// page boundary and need not be aligned.
func (mem *Memory) Load(addr uint32, size uint32) uint32 {
	var result uint32

	for i := uint32(0); i < size; i++ {
		result |= uint32(mem.LoadByte(addr+i)) << (8 * i)
	}

	return result
}

func (mem *Memory) Store(addr uint32, value uint32, size uint32) {
	for i := uint32(0); i < size; i++ {
		mem.StoreByte(addr+i, byte(value>>(8*i)))
	}
}

func (mem *Memory) LoadWord(addr uint32) uint32 {
	return mem.Load(addr, 4)
}

func (mem *Memory) StoreWord(addr uint32, value uint32) {
	mem.Store(addr, value, 4)
}

// LoadString reads a NUL terminated string, stopping after limit bytes.
func (mem *Memory) LoadString(addr uint32, limit int) string {
	var result []byte

	for i := 0; i < limit; i++ {
		b := mem.LoadByte(addr + uint32(i))

		if b == 0 {
			break
		}

		result = append(result, b)
	}

	return string(result)
}

// Pages returns how many pages have been allocated.
func (mem *Memory) Pages() int {
	return len(mem.pages)
}
