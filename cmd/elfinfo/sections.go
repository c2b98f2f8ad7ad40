package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSectionsCmd())
}

func newSectionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sections <binary>",
		Short: "List the section headers of a binary",
		Long: `The sections command lists every section header of an ELF64
executable with its resolved name, type, address, and size.

Example:
  elfinfo sections ./a.out
  elfinfo sections ./a.out --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(args)
		},
	}
	return cmd
}

type sectionOutput struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Addr  uint64 `json:"addr"`
	Size  uint64 `json:"size"`
}

func runSections(args []string) error {
	f, cleanup, err := openELF(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	var out []sectionOutput
	idx := 0
	for it := f.SectionHeaders(); ; idx++ {
		sh, ok := it.Next()
		if !ok {
			break
		}
		name, ok := f.SectionName(sh)
		if !ok {
			name = "<unresolved>"
		}
		out = append(out, sectionOutput{
			Index: idx,
			Name:  name,
			Type:  sh.Type.String(),
			Addr:  sh.Addr,
			Size:  sh.Size,
		})
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("%-4s %-24s %-14s %-18s %s\n", "IDX", "NAME", "TYPE", "ADDR", "SIZE")
	for _, s := range out {
		printInfo("%-4d %-24s %-14s %-18s %d\n",
			s.Index, s.Name, s.Type, fmt.Sprintf("%#x", s.Addr), s.Size)
	}
	return nil
}
