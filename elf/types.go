package elf

import "fmt"

// Sizes of the fixed on-disk ELF64 structures.
const (
	headerSize        = 64
	identSize         = 16
	progHeaderSize    = 56
	sectionHeaderSize = 64
	symbolSize        = 24
)

var elfMagic = [4]byte{0x7F, 'E', 'L', 'F'}

// Data-encoding values of the e_ident EI_DATA byte.
const (
	dataLittleEndian = 1
	dataBigEndian    = 2
)

// Ident holds the decoded e_ident bytes of the file header.
type Ident struct {
	Magic      [4]byte
	Class      uint8
	Data       uint8
	Version    uint8
	OSABI      uint8
	ABIVersion uint8
}

// Type is the ELF file type (e_type).
type Type uint16

const (
	TypeNone Type = 0x00
	TypeRel  Type = 0x01
	TypeExec Type = 0x02
	TypeDyn  Type = 0x03
	TypeCore Type = 0x04
)

func (t Type) String() string {
	switch t {
	case TypeNone:
		return "NONE"
	case TypeRel:
		return "REL"
	case TypeExec:
		return "EXEC"
	case TypeDyn:
		return "DYN"
	case TypeCore:
		return "CORE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(t))
	}
}

// Machine is the target instruction set (e_machine).
type Machine uint16

const (
	MachineNone    Machine = 0x00
	MachineX86     Machine = 0x03
	MachineARM     Machine = 0x28
	MachineX86_64  Machine = 0x3E
	MachineAArch64 Machine = 0xB7
	MachineRISCV   Machine = 0xF3
)

func (m Machine) String() string {
	switch m {
	case MachineNone:
		return "NONE"
	case MachineX86:
		return "X86"
	case MachineARM:
		return "ARM"
	case MachineX86_64:
		return "X86_64"
	case MachineAArch64:
		return "AARCH64"
	case MachineRISCV:
		return "RISCV"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint16(m))
	}
}

// Header is the decoded ELF64 file header.
type Header struct {
	Ident     Ident
	Type      Type
	Machine   Machine
	Version   uint32
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	EhSize    uint16
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

// ProgType is the program-header type (p_type).
type ProgType uint32

const (
	ProgTypeNull    ProgType = 0x00
	ProgTypeLoad    ProgType = 0x01
	ProgTypeDynamic ProgType = 0x02
	ProgTypeInterp  ProgType = 0x03
	ProgTypeNote    ProgType = 0x04
	ProgTypeShlib   ProgType = 0x05
	ProgTypePhdr    ProgType = 0x06
	ProgTypeTLS     ProgType = 0x07
)

func (t ProgType) String() string {
	switch t {
	case ProgTypeNull:
		return "NULL"
	case ProgTypeLoad:
		return "LOAD"
	case ProgTypeDynamic:
		return "DYNAMIC"
	case ProgTypeInterp:
		return "INTERP"
	case ProgTypeNote:
		return "NOTE"
	case ProgTypeShlib:
		return "SHLIB"
	case ProgTypePhdr:
		return "PHDR"
	case ProgTypeTLS:
		return "TLS"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(t))
	}
}

// ProgFlags is the program-header permission bitmask (p_flags).
type ProgFlags uint32

const (
	ProgFlagExec  ProgFlags = 0x01
	ProgFlagWrite ProgFlags = 0x02
	ProgFlagRead  ProgFlags = 0x04
)

// Has reports whether every bit in mask is set.
func (f ProgFlags) Has(mask ProgFlags) bool {
	return f&mask == mask
}

func (f ProgFlags) String() string {
	if f == 0 {
		return "NONE"
	}
	var s string
	if f.Has(ProgFlagRead) {
		s = "R"
	}
	if f.Has(ProgFlagWrite) {
		if s != "" {
			s += "|"
		}
		s += "W"
	}
	if f.Has(ProgFlagExec) {
		if s != "" {
			s += "|"
		}
		s += "X"
	}
	return s
}

// ProgHeader is a decoded ELF64 program header.
type ProgHeader struct {
	Type     ProgType
	Flags    ProgFlags
	Offset   uint64
	VAddr    uint64
	PAddr    uint64
	FileSize uint64
	MemSize  uint64
	Align    uint64
}

// SectionType is the section-header type (sh_type).
type SectionType uint32

const (
	SectionTypeNull         SectionType = 0x00
	SectionTypeProgBits     SectionType = 0x01
	SectionTypeSymTab       SectionType = 0x02
	SectionTypeStrTab       SectionType = 0x03
	SectionTypeRela         SectionType = 0x04
	SectionTypeHash         SectionType = 0x05
	SectionTypeDynamic      SectionType = 0x06
	SectionTypeNote         SectionType = 0x07
	SectionTypeNoBits       SectionType = 0x08
	SectionTypeRel          SectionType = 0x09
	SectionTypeShlib        SectionType = 0x0A
	SectionTypeDynSym       SectionType = 0x0B
	SectionTypeInitArray    SectionType = 0x0E
	SectionTypeFiniArray    SectionType = 0x0F
	SectionTypePreInitArray SectionType = 0x10
	SectionTypeGroup        SectionType = 0x11
	SectionTypeSymTabShNdx  SectionType = 0x12
)

func (t SectionType) String() string {
	switch t {
	case SectionTypeNull:
		return "NULL"
	case SectionTypeProgBits:
		return "PROGBITS"
	case SectionTypeSymTab:
		return "SYMTAB"
	case SectionTypeStrTab:
		return "STRTAB"
	case SectionTypeRela:
		return "RELA"
	case SectionTypeHash:
		return "HASH"
	case SectionTypeDynamic:
		return "DYNAMIC"
	case SectionTypeNote:
		return "NOTE"
	case SectionTypeNoBits:
		return "NOBITS"
	case SectionTypeRel:
		return "REL"
	case SectionTypeShlib:
		return "SHLIB"
	case SectionTypeDynSym:
		return "DYNSYM"
	case SectionTypeInitArray:
		return "INIT_ARRAY"
	case SectionTypeFiniArray:
		return "FINI_ARRAY"
	case SectionTypePreInitArray:
		return "PREINIT_ARRAY"
	case SectionTypeGroup:
		return "GROUP"
	case SectionTypeSymTabShNdx:
		return "SYMTAB_SHNDX"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(t))
	}
}

// SectionFlags is the section attribute bitmask (sh_flags).
type SectionFlags uint64

const (
	SectionFlagWrite           SectionFlags = 0x0001
	SectionFlagAlloc           SectionFlags = 0x0002
	SectionFlagExecInstr       SectionFlags = 0x0004
	SectionFlagMerge           SectionFlags = 0x0010
	SectionFlagStrings         SectionFlags = 0x0020
	SectionFlagInfoLink        SectionFlags = 0x0040
	SectionFlagLinkOrder       SectionFlags = 0x0080
	SectionFlagOSNonConforming SectionFlags = 0x0100
	SectionFlagGroup           SectionFlags = 0x0200
	SectionFlagTLS             SectionFlags = 0x0400
)

// Has reports whether every bit in mask is set.
func (f SectionFlags) Has(mask SectionFlags) bool {
	return f&mask == mask
}

// SectionHeader is a decoded ELF64 section header.
type SectionHeader struct {
	Name      uint32
	Type      SectionType
	Flags     SectionFlags
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// Symbol is a decoded ELF64 symbol-table entry.
type Symbol struct {
	Name  uint32
	Info  uint8
	Other uint8
	ShNdx uint16
	Value uint64
	Size  uint64
}

// Bind returns the symbol binding, the high nibble of Info.
func (s Symbol) Bind() uint8 {
	return s.Info >> 4
}

// SymType returns the symbol type, the low nibble of Info.
func (s Symbol) SymType() uint8 {
	return s.Info & 0x0F
}
