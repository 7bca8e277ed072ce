// History command: search the drum and pallet records.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagHistDrum     string
	flagHistMaterial string
	flagHistPallets  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Search recorded drums and pallets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagHistDrum != "" {
			drum, err := repo.FindDrum(flagHistDrum)
			if err != nil {
				return err
			}
			pallet := drum.PalletID
			if pallet == "" {
				pallet = "-"
			}
			fmt.Printf("%s  %s  %s  pallet=%s  %s  %s\n",
				drum.Timestamp, drum.MaterialCode, drum.DrumNumber, pallet, drum.Status, drum.Operator)
			return nil
		}

		if flagHistPallets {
			pallets, err := repo.Pallets()
			if err != nil {
				return err
			}
			for _, p := range pallets {
				if flagHistMaterial != "" && p.MaterialCode != flagHistMaterial {
					continue
				}
				fmt.Printf("%s  %s  %s  %d drums  %s\n",
					p.CreatedAt, p.PalletID, p.MaterialCode, p.Count, p.CompleteType)
			}
			return nil
		}

		drums, err := repo.Drums()
		if err != nil {
			return err
		}
		for _, d := range drums {
			if flagHistMaterial != "" && d.MaterialCode != flagHistMaterial {
				continue
			}
			pallet := d.PalletID
			if pallet == "" {
				pallet = "-"
			}
			fmt.Printf("%s  %s  %s  pallet=%s  %s\n",
				d.Timestamp, d.MaterialCode, d.DrumNumber, pallet, d.Status)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&flagHistDrum, "drum", "", "look up one drum number")
	historyCmd.Flags().StringVar(&flagHistMaterial, "material", "", "filter by material code")
	historyCmd.Flags().BoolVar(&flagHistPallets, "pallets", false, "list pallets instead of drums")
}
