package main

import (
	"fmt"

	"github.com/crumpet-os/crumpet/elf"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSymbolsCmd())
}

func newSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "symbols <binary>",
		Short: "List the symbol tables of a binary",
		Long: `The symbols command walks every SYMTAB and DYNSYM section of an
ELF64 executable and lists each symbol with its resolved name, value,
and size.

Example:
  elfinfo symbols ./a.out`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(args)
		},
	}
	return cmd
}

type symbolOutput struct {
	Table string `json:"table"`
	Name  string `json:"name"`
	Value uint64 `json:"value"`
	Size  uint64 `json:"size"`
}

func runSymbols(args []string) error {
	f, cleanup, err := openELF(args[0])
	if err != nil {
		return err
	}
	defer cleanup()

	var out []symbolOutput
	for _, typ := range []elf.SectionType{elf.SectionTypeSymTab, elf.SectionTypeDynSym} {
		for it := f.SectionHeadersByType(typ); ; {
			symtab, ok := it.Next()
			if !ok {
				break
			}
			table, ok := f.SectionName(symtab)
			if !ok {
				table = typ.String()
			}
			for syms := f.Symbols(symtab); ; {
				sym, ok := syms.Next()
				if !ok {
					break
				}
				name, ok := f.SymbolName(symtab, sym)
				if !ok {
					name = "<unresolved>"
				}
				out = append(out, symbolOutput{
					Table: table,
					Name:  name,
					Value: sym.Value,
					Size:  sym.Size,
				})
			}
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	printInfo("%-12s %-32s %-18s %s\n", "TABLE", "NAME", "VALUE", "SIZE")
	for _, s := range out {
		printInfo("%-12s %-32s %-18s %d\n",
			s.Table, s.Name, fmt.Sprintf("%#x", s.Value), s.Size)
	}
	return nil
}
