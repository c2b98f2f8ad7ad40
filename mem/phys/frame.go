package phys

import "fmt"

// PageSize is the size of a physical frame in bytes.
type PageSize uint64

const (
	// Size4KiB is the standard small page size.
	Size4KiB PageSize = 4 * 1024
	// Size2MiB is the huge page size.
	Size2MiB PageSize = 2 * 1024 * 1024
	// Size1GiB is the giant page size.
	Size1GiB PageSize = 1024 * 1024 * 1024
)

// Bytes returns the page size in bytes.
func (s PageSize) Bytes() uint64 {
	return uint64(s)
}

func (s PageSize) String() string {
	switch s {
	case Size4KiB:
		return "4KiB"
	case Size2MiB:
		return "2MiB"
	case Size1GiB:
		return "1GiB"
	default:
		return fmt.Sprintf("PageSize(%d)", uint64(s))
	}
}

// smallFramesPer returns how many 4KiB units one frame of this size covers.
func (s PageSize) smallFramesPer() int {
	return int(uint64(s) / uint64(Size4KiB))
}

// Frame is the starting physical address of a page-aligned frame. The page
// size is carried by the operation that produced the frame, not the value.
type Frame uint64

// Address returns the frame's starting physical address.
func (f Frame) Address() uint64 {
	return uint64(f)
}

// FrameRange is an inclusive range of contiguous frames of a single page
// size. Start and End are the starting addresses of the first and last
// frame in the range.
type FrameRange struct {
	Start Frame
	End   Frame
	Size  PageSize
}

// NumFrames returns the number of frames in the range.
func (r FrameRange) NumFrames() int {
	return int((uint64(r.End)-uint64(r.Start))/r.Size.Bytes()) + 1
}
