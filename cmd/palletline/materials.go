// Materials commands: list and upsert the material catalog.
package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/pkg/types"
)

var (
	flagMatCode        string
	flagMatDescription string
	flagMatMax         int
	flagMatPrefix      string
	flagMatIncomplete  bool
	flagMatInactive    bool
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Manage the material catalog",
}

var materialsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all materials",
	RunE: func(cmd *cobra.Command, args []string) error {
		materials, err := repo.Materials()
		if err != nil {
			return err
		}
		sort.Slice(materials, func(i, j int) bool { return materials[i].Code < materials[j].Code })
		for _, m := range materials {
			state := "active"
			if !m.Active {
				state = "inactive"
			}
			incomplete := ""
			if m.AllowIncomplete {
				incomplete = " allow-incomplete"
			}
			fmt.Printf("%-12s max=%d prefix=%s %s%s  %s\n",
				m.Code, m.MaxQty, m.Prefix, state, incomplete, m.Description)
		}
		return nil
	},
}

var materialsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create or update a material",
	RunE: func(cmd *cobra.Command, args []string) error {
		m := types.Material{
			Code:            flagMatCode,
			Description:     flagMatDescription,
			MaxQty:          flagMatMax,
			Prefix:          flagMatPrefix,
			AllowIncomplete: flagMatIncomplete,
			Active:          !flagMatInactive,
		}
		if err := repo.SaveMaterial(m); err != nil {
			return err
		}
		fmt.Printf("saved material %s\n", m.Code)
		return nil
	},
}

func init() {
	materialsAddCmd.Flags().StringVar(&flagMatCode, "code", "", "material code")
	materialsAddCmd.Flags().StringVar(&flagMatDescription, "description", "", "display description")
	materialsAddCmd.Flags().IntVar(&flagMatMax, "max", 0, "pallet capacity in drums (0 = uncapped)")
	materialsAddCmd.Flags().StringVar(&flagMatPrefix, "prefix", "", "pallet id prefix")
	materialsAddCmd.Flags().BoolVar(&flagMatIncomplete, "allow-incomplete", false, "allow closing partial pallets")
	materialsAddCmd.Flags().BoolVar(&flagMatInactive, "inactive", false, "hide from the station board")

	materialsCmd.AddCommand(materialsListCmd)
	materialsCmd.AddCommand(materialsAddCmd)
}
