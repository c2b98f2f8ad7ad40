package main

import (
	"fmt"

	"github.com/crumpet-os/crumpet/elf"
	"github.com/crumpet-os/crumpet/internal/mmfile"
)

// openELF maps the file at path and parses it. The returned cleanup must be
// called once the File is no longer used; the File's views point into the
// mapping.
func openELF(path string) (*elf.File, func() error, error) {
	printVerbose("Mapping binary: %s\n", path)

	data, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to map %s: %w", path, err)
	}

	f, err := elf.Parse(data)
	if err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, cleanup, nil
}
