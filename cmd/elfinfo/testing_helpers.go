package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/crumpet-os/crumpet/internal/buf"
)

// writeTestELF writes a minimal static executable with one R+X LOAD segment
// and returns its path.
func writeTestELF(t *testing.T) string {
	t.Helper()

	b := make([]byte, 64+56)
	copy(b, []byte{0x7F, 'E', 'L', 'F'})
	b[4] = 2 // ELFCLASS64
	if buf.HostLittleEndian() {
		b[5] = 1
	} else {
		b[5] = 2
	}
	b[6] = 1

	ne := binary.NativeEndian
	ne.PutUint16(b[16:], 2) // ET_EXEC
	ne.PutUint32(b[20:], 1)
	ne.PutUint64(b[24:], 0x40_1000) // entry
	ne.PutUint64(b[32:], 64)        // phoff
	ne.PutUint16(b[52:], 64)
	ne.PutUint16(b[54:], 56)
	ne.PutUint16(b[56:], 1) // phnum
	ne.PutUint16(b[58:], 64)

	// PT_LOAD, R+X, vaddr 0x40_0000
	ne.PutUint32(b[64:], 1)
	ne.PutUint32(b[68:], 5)
	ne.PutUint64(b[80:], 0x40_0000)
	ne.PutUint64(b[104:], 0x100)  // memsz
	ne.PutUint64(b[112:], 0x1000) // align

	path := filepath.Join(t.TempDir(), "test.elf")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// captureOutput captures stdout while running a function.
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()

	_ = w.Close()
	os.Stdout = origStdout

	out := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, readErr := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if readErr != nil {
			break
		}
	}
	return string(out), runErr
}
