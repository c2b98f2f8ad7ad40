// Package mem declares the firmware memory-map contract consumed by the
// kernel's memory-management initialization.
//
// The bootloader hands the kernel a sequence of MapEntry values describing
// physical address space. The physical frame allocator relies on the
// following guarantees for usable entries and does not re-validate them:
//
//   - usable entries do not overlap
//   - usable entries are sorted by base address, lowest to highest
//   - usable entries are 4KiB aligned in both base and length
package mem

// EntryType classifies a firmware memory-map entry.
type EntryType uint32

const (
	// EntryUsable marks RAM that the kernel may allocate from.
	EntryUsable EntryType = iota
	// EntryReserved marks memory the firmware claims for itself.
	EntryReserved
	// EntryACPIReclaimable marks ACPI tables that may be reclaimed after parsing.
	EntryACPIReclaimable
	// EntryACPINVS marks ACPI non-volatile storage.
	EntryACPINVS
	// EntryBadMemory marks memory reported as faulty.
	EntryBadMemory
	// EntryBootloaderReclaimable marks bootloader structures that may be
	// reclaimed once the handoff data has been consumed.
	EntryBootloaderReclaimable
	// EntryKernelAndModules marks the loaded kernel image and boot modules.
	EntryKernelAndModules
	// EntryFramebuffer marks the linear framebuffer.
	EntryFramebuffer
)

// MapEntry is one firmware memory-map record.
type MapEntry struct {
	Base   uint64
	Length uint64
	Type   EntryType
}

// Usable reports whether the entry describes allocatable RAM.
func (e MapEntry) Usable() bool {
	return e.Type == EntryUsable
}
