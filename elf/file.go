package elf

import (
	"bytes"
	"unicode/utf8"

	"github.com/crumpet-os/crumpet/internal/buf"
)

// File is a parsed view over an ELF64 binary. The underlying buffer is
// never copied; accessors decode headers and table entries straight out of
// data, so a File must not outlive the buffer it was parsed from.
type File struct {
	data   []byte
	header Header
}

// Parse validates the fixed-size file header and returns a File on success.
// Validation stops at the first failure and returns that step's sentinel;
// no partial parse is ever returned.
func Parse(data []byte) (*File, error) {
	if len(data) < headerSize {
		return nil, ErrHeaderTooShort
	}

	f := &File{data: data, header: decodeHeader(data)}
	h := &f.header

	if h.Ident.Magic != elfMagic {
		return nil, ErrInvalidMagic
	}

	hostData := uint8(dataBigEndian)
	if buf.HostLittleEndian() {
		hostData = dataLittleEndian
	}
	if h.Ident.Data != hostData {
		return nil, ErrUnsupportedEndian
	}

	// Entry sizes other than the ELF64 layout would make every table walk
	// below decode garbage, so they are rejected outright. This also
	// excludes 32-bit binaries without consulting the class byte.
	if h.PhEntSize != progHeaderSize {
		return nil, ErrInvalidPhEntSize
	}
	if h.ShEntSize != sectionHeaderSize {
		return nil, ErrInvalidShEntSize
	}
	if h.Ident.Version != 1 || h.Version != 1 {
		return nil, ErrUnsupportedVersion
	}
	if h.Ident.OSABI != 0x00 {
		return nil, ErrUnsupportedOSABI
	}

	return f, nil
}

func decodeHeader(b []byte) Header {
	return Header{
		Ident: Ident{
			Magic:      [4]byte(b[0:4]),
			Class:      b[4],
			Data:       b[5],
			Version:    b[6],
			OSABI:      b[7],
			ABIVersion: b[8],
		},
		Type:      Type(buf.U16(b[16:])),
		Machine:   Machine(buf.U16(b[18:])),
		Version:   buf.U32(b[20:]),
		Entry:     buf.U64(b[24:]),
		PhOff:     buf.U64(b[32:]),
		ShOff:     buf.U64(b[40:]),
		Flags:     buf.U32(b[48:]),
		EhSize:    buf.U16(b[52:]),
		PhEntSize: buf.U16(b[54:]),
		PhNum:     buf.U16(b[56:]),
		ShEntSize: buf.U16(b[58:]),
		ShNum:     buf.U16(b[60:]),
		ShStrNdx:  buf.U16(b[62:]),
	}
}

// Header returns the decoded file header.
func (f *File) Header() Header {
	return f.header
}

// Type returns the ELF file type.
func (f *File) Type() Type {
	return f.header.Type
}

// Machine returns the target instruction set.
func (f *File) Machine() Machine {
	return f.header.Machine
}

// Entry returns the entry-point virtual address.
func (f *File) Entry() uint64 {
	return f.header.Entry
}

// Size returns the length of the underlying buffer.
func (f *File) Size() int {
	return len(f.data)
}

func (f *File) progHeaderAt(i int) (ProgHeader, bool) {
	off := f.header.PhOff + uint64(i)*progHeaderSize
	b, ok := buf.Slice(f.data, off, progHeaderSize)
	if !ok {
		return ProgHeader{}, false
	}
	return ProgHeader{
		Type:     ProgType(buf.U32(b[0:])),
		Flags:    ProgFlags(buf.U32(b[4:])),
		Offset:   buf.U64(b[8:]),
		VAddr:    buf.U64(b[16:]),
		PAddr:    buf.U64(b[24:]),
		FileSize: buf.U64(b[32:]),
		MemSize:  buf.U64(b[40:]),
		Align:    buf.U64(b[48:]),
	}, true
}

func (f *File) sectionHeaderAt(i int) (SectionHeader, bool) {
	off := f.header.ShOff + uint64(i)*sectionHeaderSize
	b, ok := buf.Slice(f.data, off, sectionHeaderSize)
	if !ok {
		return SectionHeader{}, false
	}
	return SectionHeader{
		Name:      buf.U32(b[0:]),
		Type:      SectionType(buf.U32(b[4:])),
		Flags:     SectionFlags(buf.U64(b[8:])),
		Addr:      buf.U64(b[16:]),
		Offset:    buf.U64(b[24:]),
		Size:      buf.U64(b[32:]),
		Link:      buf.U32(b[40:]),
		Info:      buf.U32(b[44:]),
		AddrAlign: buf.U64(b[48:]),
		EntSize:   buf.U64(b[56:]),
	}, true
}

func decodeSymbol(b []byte) Symbol {
	return Symbol{
		Name:  buf.U32(b[0:]),
		Info:  b[4],
		Other: b[5],
		ShNdx: buf.U16(b[6:]),
		Value: buf.U64(b[8:]),
		Size:  buf.U64(b[16:]),
	}
}

// SectionHeaderAt returns the section header at index i.
func (f *File) SectionHeaderAt(i int) (SectionHeader, bool) {
	if i < 0 || i >= int(f.header.ShNum) {
		return SectionHeader{}, false
	}
	return f.sectionHeaderAt(i)
}

// SectionData returns the file bytes a section header points at. Returns
// ok = false when the header's offset/size range lies outside the buffer.
func (f *File) SectionData(sh SectionHeader) ([]byte, bool) {
	return buf.Slice(f.data, sh.Offset, sh.Size)
}

// ProgramData returns the on-disk contents of a segment, the first FileSize
// bytes at the segment's file offset. Returns ok = false when the range lies
// outside the buffer.
func (f *File) ProgramData(ph ProgHeader) ([]byte, bool) {
	return buf.Slice(f.data, ph.Offset, ph.FileSize)
}

// SectionName resolves a section header's name through the file's section
// name string table. Returns ok = false when the table is missing, the
// offset is out of range, the string is unterminated, or it is not valid
// UTF-8.
func (f *File) SectionName(sh SectionHeader) (string, bool) {
	shstrtab, ok := f.SectionHeaderAt(int(f.header.ShStrNdx))
	if !ok {
		return "", false
	}
	strs, ok := f.SectionData(shstrtab)
	if !ok {
		return "", false
	}
	return stringAt(strs, sh.Name)
}

// SymbolName resolves a symbol's name through the string table linked from
// its symbol-table section.
func (f *File) SymbolName(symtab SectionHeader, sym Symbol) (string, bool) {
	strtab, ok := f.SectionHeaderAt(int(symtab.Link))
	if !ok {
		return "", false
	}
	strs, ok := f.SectionData(strtab)
	if !ok {
		return "", false
	}
	return stringAt(strs, sym.Name)
}

// stringAt extracts the NUL-terminated string starting at off.
func stringAt(strs []byte, off uint32) (string, bool) {
	if uint64(off) >= uint64(len(strs)) {
		return "", false
	}
	rest := strs[off:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", false
	}
	s := rest[:end]
	if !utf8.Valid(s) {
		return "", false
	}
	return string(s), true
}
