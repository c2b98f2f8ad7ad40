package main

import (
	"fmt"

	"github.com/crumpet-os/crumpet/elf"
	"github.com/crumpet-os/crumpet/memapi"
	"github.com/crumpet-os/crumpet/memapi/memsim"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLoadCmd())
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <binary>",
		Short: "Dry-run load a binary and show the resulting memory image",
		Long: `The load command runs the ELF loader against an in-memory allocator
and reports the allocations a process would receive: one per LOAD segment,
grouped by page permission, plus the TLS template if the binary has one.

No memory is actually mapped; this is a simulation for inspecting how a
binary would be placed.

Example:
  elfinfo load ./a.out
  elfinfo load ./a.out --debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(args)
		},
	}
	return cmd
}

type allocOutput struct {
	Class string `json:"class"`
	Addr  uint64 `json:"addr"`
	Size  uint64 `json:"size"`
	Align uint64 `json:"align"`
}

func runLoad(args []string) error {
	f, cleanup, err := openELF(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	var mem memsim.Allocator
	img, err := elf.NewLoader(&mem).Load(f)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}

	var out []allocOutput
	add := func(class string, a memapi.Allocation) {
		out = append(out, allocOutput{
			Class: class,
			Addr:  a.Addr(),
			Size:  a.Layout().Size,
			Align: a.Layout().Align,
		})
	}
	for _, a := range img.ExecutableAllocations() {
		add("executable", a)
	}
	for _, a := range img.ReadonlyAllocations() {
		add("readonly", a)
	}
	for _, a := range img.WritableAllocations() {
		add("writable", a)
	}
	if tls, ok := img.TLSAllocation(); ok {
		add("tls", tls)
	}

	if jsonOut {
		return printJSON(struct {
			Entry       uint64        `json:"entry"`
			Allocations []allocOutput `json:"allocations"`
		}{img.Entry(), out})
	}

	printInfo("Entry: %#x\n\n", img.Entry())
	printInfo("%-12s %-18s %-10s %s\n", "CLASS", "ADDR", "SIZE", "ALIGN")
	for _, a := range out {
		printInfo("%-12s %-18s %-10d %d\n",
			a.Class, fmt.Sprintf("%#x", a.Addr), a.Size, a.Align)
	}
	return nil
}
