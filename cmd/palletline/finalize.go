// Finalize command: close the open pallet for a material.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/internal/ledger"
	"github.com/pryzera/palletline/internal/mail"
	"github.com/pryzera/palletline/internal/workflow"
)

var (
	flagFinMaterial   string
	flagFinIncomplete bool
	flagFinYes        bool
	flagFinNoMail     bool
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize",
	Short: "Close the open pallet and assign it a pallet id",
	Long: `Close the material's open pallet: assign the next pallet id, stamp
every active drum as completed, and record the pallet. A full close
requires the pallet to be at capacity; --incomplete closes a partial
pallet for materials that allow it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		material, err := lookupMaterial(flagFinMaterial)
		if err != nil {
			return err
		}

		fin := workflow.NewFinalizer(repo)
		var confirmation *workflow.Confirmation
		if flagFinIncomplete {
			confirmation, err = fin.RequestIncomplete(material)
		} else {
			confirmation, err = fin.Request(material)
		}
		if err != nil {
			return err
		}

		if !flagFinYes {
			question := fmt.Sprintf("close %s pallet with %d drums (%s)",
				material.Code, confirmation.Count, confirmation.CompleteType)
			if !confirmPrompt(question) {
				fmt.Println("aborted")
				return nil
			}
		}

		pallet, err := fin.Confirm(confirmation)
		if err != nil {
			return err
		}
		fmt.Printf("closed pallet %s: %d drums (%s)\n", pallet.PalletID, pallet.Count, pallet.CompleteType)

		if !flagFinNoMail {
			notifyPallet(pallet.EmailSubject, pallet.EmailBody)
		}
		return nil
	},
}

func init() {
	finalizeCmd.Flags().StringVar(&flagFinMaterial, "material", "", "material code of the pallet to close")
	finalizeCmd.Flags().BoolVar(&flagFinIncomplete, "incomplete", false, "close a partial pallet")
	finalizeCmd.Flags().BoolVar(&flagFinYes, "yes", false, "skip the confirmation prompt")
	finalizeCmd.Flags().BoolVar(&flagFinNoMail, "no-mail", false, "skip the notification mail")
}

// notifyPallet mails the pallet summary to the configured report
// address. The pallet is already closed, so mail problems are reported
// but never fail the command.
func notifyPallet(subject, body string) {
	settings, err := repo.Settings()
	if err != nil {
		fmt.Printf("notification skipped: %v\n", err)
		return
	}
	to := settings[ledger.ReportEmailSetting]
	if to == "" || cfg.Mail.Host == "" {
		return
	}
	if err := mail.Send(cfg.Mail, to, subject, body); err != nil {
		fmt.Printf("notification failed: %v\n", err)
		return
	}
	fmt.Printf("notification sent to %s\n", to)
}
