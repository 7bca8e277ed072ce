// Report command: export and optionally mail the recorded history.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pryzera/palletline/internal/ledger"
	"github.com/pryzera/palletline/internal/mail"
	"github.com/pryzera/palletline/internal/report"
	"github.com/pryzera/palletline/pkg/types"
)

var (
	flagRepRange    string
	flagRepFrom     string
	flagRepTo       string
	flagRepMaterial string
	flagRepFormat   string
	flagRepOut      string
	flagRepEmail    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export pallet and drum history",
	Long: `Export the recorded history for a period as a zip of CSV files or an
xlsx workbook. With --email the export goes to the configured report
address instead of a local file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := report.Filter{
			Range:        report.Range(flagRepRange),
			From:         flagRepFrom,
			To:           flagRepTo,
			MaterialCode: flagRepMaterial,
		}

		allPallets, err := repo.Pallets()
		if err != nil {
			return err
		}
		allDrums, err := repo.Drums()
		if err != nil {
			return err
		}

		now := time.Now()
		pallets, err := filter.Pallets(allPallets, now)
		if err != nil {
			return err
		}
		drums, err := filter.Drums(allDrums, now)
		if err != nil {
			return err
		}

		var content []byte
		var filename, mime string
		switch flagRepFormat {
		case "zip":
			if content, err = report.BuildZip(pallets, drums); err != nil {
				return err
			}
			filename, mime = "palletline-report.zip", "application/zip"
		case "xlsx":
			if content, err = report.BuildWorkbook(pallets, drums); err != nil {
				return err
			}
			filename = "palletline-report.xlsx"
			mime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		default:
			return fmt.Errorf("%w: unknown format %q (zip or xlsx)", types.ErrValidation, flagRepFormat)
		}

		if flagRepEmail {
			return mailReport(filename, mime, content, len(pallets), len(drums))
		}

		out := flagRepOut
		if out == "" {
			out = filename
		}
		if err := os.WriteFile(out, content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("wrote %s (%d pallets, %d drums)\n", out, len(pallets), len(drums))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&flagRepRange, "range", "all", "period: all, today, month, year, interval")
	reportCmd.Flags().StringVar(&flagRepFrom, "from", "", "interval start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&flagRepTo, "to", "", "interval end date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&flagRepMaterial, "material", "", "filter by material code")
	reportCmd.Flags().StringVar(&flagRepFormat, "format", "zip", "output format: zip or xlsx")
	reportCmd.Flags().StringVar(&flagRepOut, "out", "", "output path (default: report filename)")
	reportCmd.Flags().BoolVar(&flagRepEmail, "email", false, "mail the export to the report address")
}

func mailReport(filename, mime string, content []byte, pallets, drums int) error {
	settings, err := repo.Settings()
	if err != nil {
		return err
	}
	to := settings[ledger.ReportEmailSetting]
	if to == "" {
		return fmt.Errorf("%w: %s setting not set", types.ErrConfiguration, ledger.ReportEmailSetting)
	}

	date := time.Now().UTC().Format(types.DateLayout)
	subject := fmt.Sprintf("%s - Palletline report", date)
	body := fmt.Sprintf("Report generated %s: %d pallets, %d drums.\n", date, pallets, drums)
	attachment := mail.Attachment{Filename: filename, MIME: mime, Content: content}
	if err := mail.Send(cfg.Mail, to, subject, body, attachment); err != nil {
		return err
	}
	fmt.Printf("report sent to %s\n", to)
	return nil
}
