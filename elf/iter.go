package elf

// ProgHeaderIter walks a file's program-header table in index order,
// optionally restricted to a single header type.
type ProgHeaderIter struct {
	f      *File
	next   int
	typ    ProgType
	filter bool
}

// ProgramHeaders returns an iterator over all program headers.
func (f *File) ProgramHeaders() *ProgHeaderIter {
	return &ProgHeaderIter{f: f}
}

// ProgramHeadersByType returns an iterator over program headers of the
// given type.
func (f *File) ProgramHeadersByType(typ ProgType) *ProgHeaderIter {
	return &ProgHeaderIter{f: f, typ: typ, filter: true}
}

// Next returns the next program header, or ok = false when the table is
// exhausted. Entries whose bytes lie outside the buffer end the iteration.
func (it *ProgHeaderIter) Next() (ProgHeader, bool) {
	for it.next < int(it.f.header.PhNum) {
		ph, ok := it.f.progHeaderAt(it.next)
		if !ok {
			it.next = int(it.f.header.PhNum)
			return ProgHeader{}, false
		}
		it.next++
		if !it.filter || ph.Type == it.typ {
			return ph, true
		}
	}
	return ProgHeader{}, false
}

// SectionHeaderIter walks a file's section-header table in index order,
// optionally restricted to a single section type or section name.
type SectionHeaderIter struct {
	f      *File
	next   int
	typ    SectionType
	filter bool
	name   string
	byName bool
}

// SectionHeaders returns an iterator over all section headers.
func (f *File) SectionHeaders() *SectionHeaderIter {
	return &SectionHeaderIter{f: f}
}

// SectionHeadersByType returns an iterator over section headers of the
// given type.
func (f *File) SectionHeadersByType(typ SectionType) *SectionHeaderIter {
	return &SectionHeaderIter{f: f, typ: typ, filter: true}
}

// SectionsByName returns an iterator over sections whose resolved name
// equals name. Sections with an unresolvable name are skipped.
func (f *File) SectionsByName(name string) *SectionHeaderIter {
	return &SectionHeaderIter{f: f, name: name, byName: true}
}

// Next returns the next matching section header, or ok = false when the
// table is exhausted.
func (it *SectionHeaderIter) Next() (SectionHeader, bool) {
	for it.next < int(it.f.header.ShNum) {
		sh, ok := it.f.sectionHeaderAt(it.next)
		if !ok {
			it.next = int(it.f.header.ShNum)
			return SectionHeader{}, false
		}
		it.next++
		if it.filter && sh.Type != it.typ {
			continue
		}
		if it.byName {
			n, ok := it.f.SectionName(sh)
			if !ok || n != it.name {
				continue
			}
		}
		return sh, true
	}
	return SectionHeader{}, false
}

// SymbolIter walks the entries of a symbol-table section.
type SymbolIter struct {
	data []byte
	next int
}

// Symbols returns an iterator over the entries of a symbol-table section
// (SYMTAB or DYNSYM). A section whose data lies outside the buffer yields
// an empty iteration.
func (f *File) Symbols(symtab SectionHeader) *SymbolIter {
	data, ok := f.SectionData(symtab)
	if !ok {
		return &SymbolIter{}
	}
	return &SymbolIter{data: data}
}

// Next returns the next symbol, or ok = false when the table is exhausted.
// A trailing partial entry is ignored.
func (it *SymbolIter) Next() (Symbol, bool) {
	off := it.next * symbolSize
	if off+symbolSize > len(it.data) {
		return Symbol{}, false
	}
	it.next++
	b := it.data[off : off+symbolSize]
	return decodeSymbol(b), true
}
