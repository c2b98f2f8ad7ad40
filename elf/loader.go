package elf

import (
	"fmt"
	"log/slog"

	"github.com/crumpet-os/crumpet/memapi"
)

// Loader materializes a parsed File into live memory allocations through a
// memapi.Memory capability. A Loader is a one-shot factory; the resulting
// Image owns the allocations.
type Loader struct {
	mem memapi.Memory
}

// NewLoader returns a loader backed by the given memory capability.
func NewLoader(mem memapi.Memory) *Loader {
	return &Loader{mem: mem}
}

// Load places every LOAD segment of a static executable at its declared
// virtual address and the TLS template, if any, anywhere. Returns
// ErrUnsupportedFileType for anything that is not ET_EXEC.
//
// Load panics when a segment is flagged both writable and executable.
// W+X memory is never mapped under any policy, so such a binary indicates
// corruption or hostility and must not reach execution.
func (l *Loader) Load(f *File) (*Image, error) {
	if f.Type() != TypeExec {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, f.Type())
	}

	img := &Image{entry: f.Entry()}

	if err := l.loadSegments(f, img); err != nil {
		return nil, err
	}
	if err := l.loadTLS(f, img); err != nil {
		return nil, err
	}
	return img, nil
}

func (l *Loader) loadSegments(f *File, img *Image) error {
	for it := f.ProgramHeadersByType(ProgTypeLoad); ; {
		hdr, ok := it.Next()
		if !ok {
			break
		}
		slog.Debug("load segment",
			"vaddr", fmt.Sprintf("%#x", hdr.VAddr),
			"filesz", hdr.FileSize,
			"memsz", hdr.MemSize,
			"flags", hdr.Flags)

		if hdr.Flags.Has(ProgFlagExec) && hdr.Flags.Has(ProgFlagWrite) {
			panic("elf: segments that are executable and writable are not supported")
		}

		alloc, err := l.populate(f, hdr, memapi.Fixed(hdr.VAddr))
		if err != nil {
			return err
		}

		switch {
		case hdr.Flags.Has(ProgFlagExec):
			exec, err := l.mem.MakeExecutable(alloc)
			if err != nil {
				return ErrAllocationFailed
			}
			img.executable = append(img.executable, exec)
		case hdr.Flags.Has(ProgFlagWrite):
			img.writable = append(img.writable, alloc)
		default:
			ro, err := l.mem.MakeReadonly(alloc)
			if err != nil {
				return ErrAllocationFailed
			}
			img.readonly = append(img.readonly, ro)
		}
	}
	return nil
}

func (l *Loader) loadTLS(f *File, img *Image) error {
	it := f.ProgramHeadersByType(ProgTypeTLS)
	tls, ok := it.Next()
	if !ok {
		return nil
	}
	if _, more := it.Next(); more {
		return ErrTooManyTLSHeaders
	}
	slog.Debug("load tls template", "filesz", tls.FileSize, "memsz", tls.MemSize)

	// The TLS template is relocated per task at a higher layer, so its
	// declared address is ignored.
	alloc, err := l.populate(f, tls, memapi.Anywhere())
	if err != nil {
		return err
	}
	ro, err := l.mem.MakeReadonly(alloc)
	if err != nil {
		return ErrAllocationFailed
	}
	img.tls = ro
	return nil
}

// populate allocates memory for a segment, copies its file contents, and
// zero-fills the remainder up to MemSize.
func (l *Loader) populate(f *File, hdr ProgHeader, loc memapi.Location) (memapi.Writable, error) {
	data, ok := f.ProgramData(hdr)
	if !ok {
		return nil, ErrSegmentOutOfBounds
	}
	if hdr.FileSize > hdr.MemSize {
		return nil, ErrInvalidSizeOrAlign
	}

	layout, err := memapi.NewLayout(hdr.MemSize, hdr.Align)
	if err != nil {
		return nil, ErrInvalidSizeOrAlign
	}

	// TODO: make user accessibility configurable
	alloc, ok := l.mem.Allocate(loc, layout, memapi.UserAccessible, memapi.Unguarded)
	if !ok {
		return nil, ErrAllocationFailed
	}

	b := alloc.Bytes()
	copy(b, data)
	clear(b[len(data):])
	return alloc, nil
}
