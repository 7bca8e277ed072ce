// Scan and undo commands.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/internal/workflow"
	"github.com/pryzera/palletline/pkg/types"
)

var (
	flagScanMaterial string
	flagScanQty      string
	flagScanOperator string
	flagScanDevice   string

	flagUndoMaterial string
	flagUndoOperator string
)

var scanCmd = &cobra.Command{
	Use:   "scan <raw-input>",
	Short: "Record a drum scan on the material's open pallet",
	Long: `Parse one scanner or keyboard input, validate it against the open
pallet, and record the drum as active. The drum number is the first run
of five or more digits in the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		material, err := lookupMaterial(flagScanMaterial)
		if err != nil {
			return err
		}

		sess := newSession(material, flagScanOperator, flagScanDevice)
		parsed := sess.Begin(args[0])

		wf := workflow.New(repo)
		drum, err := wf.Commit(sess, workflow.CommitInput{
			MaterialCode: material.Code,
			StandardQty:  flagScanQty,
		})
		if err != nil {
			return describeRejection(err, parsed)
		}

		counts, countErr := repo.ActiveCounts()
		fmt.Printf("recorded drum %s on %s\n", drum.DrumNumber, drum.MaterialCode)
		if countErr == nil {
			printProgress(material, counts[material.Code])
		}
		return nil
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the most recent scan from the open pallet",
	RunE: func(cmd *cobra.Command, args []string) error {
		material, err := lookupMaterial(flagUndoMaterial)
		if err != nil {
			return err
		}

		sess := newSession(material, flagUndoOperator, "")
		wf := workflow.New(repo)
		drum, err := wf.Undo(sess)
		if err != nil {
			return err
		}
		fmt.Printf("removed drum %s (scanned %s)\n", drum.DrumNumber, drum.Timestamp)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&flagScanMaterial, "material", "", "material code of the open pallet")
	scanCmd.Flags().StringVar(&flagScanQty, "qty", "", "standard quantity from the label")
	scanCmd.Flags().StringVar(&flagScanOperator, "operator", "", "operator name (default: config)")
	scanCmd.Flags().StringVar(&flagScanDevice, "device", "", "device id (default: config)")

	undoCmd.Flags().StringVar(&flagUndoMaterial, "material", "", "material code of the open pallet")
	undoCmd.Flags().StringVar(&flagUndoOperator, "operator", "", "operator name (default: config)")
}

// describeRejection turns a workflow rejection into an operator-facing
// message. The error chain is preserved for exit status handling.
func describeRejection(err error, parsed workflow.ParsedScan) error {
	var mismatch *types.MaterialMismatchError
	var dup *types.DuplicateHistoricalError
	switch {
	case errors.Is(err, types.ErrParse):
		return fmt.Errorf("no drum number found in %q: %w", parsed.Raw, err)
	case errors.As(err, &mismatch):
		return fmt.Errorf("close the open %s pallet before scanning %s drums: %w",
			mismatch.Open, mismatch.Submitted, err)
	case errors.Is(err, types.ErrDuplicateInSession):
		return fmt.Errorf("already on the open pallet: %w", err)
	case errors.As(err, &dup):
		return fmt.Errorf("drum %s was palletized on %s (pallet %s): %w",
			dup.DrumNumber, dup.Date, dup.PalletID, err)
	}
	return err
}

func printProgress(m types.Material, count int) {
	if m.MaxQty > 0 {
		fmt.Printf("%s: %d of %d drums\n", m.Code, count, m.MaxQty)
		if count >= m.MaxQty {
			fmt.Println("pallet is full; run: palletline finalize --material " + m.Code)
		}
		return
	}
	fmt.Printf("%s: %d drums\n", m.Code, count)
}
