package main

import (
	"os"

	"github.com/crumpet-os/crumpet/elf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <binary>",
		Short: "Validate an ELF header and report basic metadata",
		Long: `The info command validates an ELF64 executable and displays basic
metadata including the file type, target machine, entry point, and the
number of program and section headers.

Example:
  elfinfo info ./a.out
  elfinfo info ./a.out --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

type infoOutput struct {
	File     string `json:"file"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
	Machine  string `json:"machine"`
	Entry    uint64 `json:"entry"`
	Segments int    `json:"segments"`
	Sections int    `json:"sections"`
}

func runInfo(args []string) error {
	path := args[0]

	f, cleanup, err := openELF(path)
	if err != nil {
		return err
	}
	defer cleanup()

	hdr := f.Header()
	out := infoOutput{
		File:     path,
		Type:     hdr.Type.String(),
		Machine:  hdr.Machine.String(),
		Entry:    f.Entry(),
		Segments: int(hdr.PhNum),
		Sections: int(hdr.ShNum),
	}
	if stat, err := os.Stat(path); err == nil {
		out.Size = stat.Size()
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("\nELF Information:\n")
	printInfo("  File: %s\n", out.File)
	printInfo("  Size: %d bytes\n", out.Size)
	printInfo("  Type: %s\n", out.Type)
	printInfo("  Machine: %s\n", out.Machine)
	printInfo("  Entry: %#x\n", out.Entry)
	printInfo("  Program headers: %d\n", out.Segments)
	printInfo("  Section headers: %d\n", out.Sections)

	var tlsCount int
	for it := f.ProgramHeadersByType(elf.ProgTypeTLS); ; {
		if _, ok := it.Next(); !ok {
			break
		}
		tlsCount++
	}
	if tlsCount > 0 {
		printInfo("  TLS segments: %d\n", tlsCount)
	}

	return nil
}
