package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSegmentsCmd())
}

func newSegmentsCmd() *cobra.Command {
	var typeFilter string

	cmd := &cobra.Command{
		Use:   "segments <binary>",
		Short: "List the program headers of a binary",
		Long: `The segments command lists every program header of an ELF64
executable with its type, permission flags, addresses, and sizes.

Example:
  elfinfo segments ./a.out
  elfinfo segments ./a.out --type LOAD`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegments(args, typeFilter)
		},
	}
	cmd.Flags().StringVar(&typeFilter, "type", "", "Only show segments of this type (e.g. LOAD, TLS)")
	return cmd
}

type segmentOutput struct {
	Index    int    `json:"index"`
	Type     string `json:"type"`
	Flags    string `json:"flags"`
	Offset   uint64 `json:"offset"`
	VAddr    uint64 `json:"vaddr"`
	FileSize uint64 `json:"filesz"`
	MemSize  uint64 `json:"memsz"`
	Align    uint64 `json:"align"`
}

func runSegments(args []string, typeFilter string) error {
	f, cleanup, err := openELF(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	var out []segmentOutput
	idx := 0
	for it := f.ProgramHeaders(); ; idx++ {
		ph, ok := it.Next()
		if !ok {
			break
		}
		if typeFilter != "" && ph.Type.String() != typeFilter {
			continue
		}
		out = append(out, segmentOutput{
			Index:    idx,
			Type:     ph.Type.String(),
			Flags:    ph.Flags.String(),
			Offset:   ph.Offset,
			VAddr:    ph.VAddr,
			FileSize: ph.FileSize,
			MemSize:  ph.MemSize,
			Align:    ph.Align,
		})
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("%-4s %-10s %-6s %-18s %-10s %-10s %s\n",
		"IDX", "TYPE", "FLAGS", "VADDR", "FILESZ", "MEMSZ", "ALIGN")
	for _, s := range out {
		printInfo("%-4d %-10s %-6s %-18s %-10d %-10d %d\n",
			s.Index, s.Type, s.Flags, fmt.Sprintf("%#x", s.VAddr), s.FileSize, s.MemSize, s.Align)
	}
	return nil
}
