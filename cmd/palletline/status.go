// Status command: the active-count board.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show active drum counts per material",
	RunE: func(cmd *cobra.Command, args []string) error {
		materials, err := repo.Materials()
		if err != nil {
			return err
		}
		counts, err := repo.ActiveCounts()
		if err != nil {
			return err
		}

		sort.Slice(materials, func(i, j int) bool { return materials[i].Code < materials[j].Code })
		for _, m := range materials {
			if !m.Active {
				continue
			}
			count := counts[m.Code]
			if m.MaxQty > 0 {
				marker := ""
				if count >= m.MaxQty {
					marker = "  FULL"
				}
				fmt.Printf("%-12s %3d / %3d%s\n", m.Code, count, m.MaxQty, marker)
			} else {
				fmt.Printf("%-12s %3d\n", m.Code, count)
			}
		}
		return nil
	},
}
