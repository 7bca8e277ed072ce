package report

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/pryzera/palletline/pkg/types"
)

func palletRow(p types.Pallet) []string {
	return []string{p.PalletID, p.MaterialCode, p.Description, p.CreatedAt,
		strconv.Itoa(p.Count), p.CompleteType, p.EmailSubject, p.EmailBody}
}

func drumRow(d types.Drum) []string {
	return []string{d.Timestamp, d.MaterialCode, d.DrumNumber, d.DrumType,
		d.StandardQty, d.PalletID, d.Status, d.DeviceID, d.Operator}
}

// BuildZip bundles the filtered history as pallets.csv and drums.csv in
// a zip archive, small enough to mail as an attachment.
func BuildZip(pallets []types.Pallet, drums []types.Drum) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeCSV(zw, "pallets.csv", types.PalletsSchema.Headers, palletRows(pallets)); err != nil {
		return nil, err
	}
	if err := writeCSV(zw, "drums.csv", types.DrumsSchema.Headers, drumRows(drums)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

func palletRows(pallets []types.Pallet) [][]string {
	rows := make([][]string, 0, len(pallets))
	for _, p := range pallets {
		rows = append(rows, palletRow(p))
	}
	return rows
}

func drumRows(drums []types.Drum) [][]string {
	rows := make([][]string, 0, len(drums))
	for _, d := range drums {
		rows = append(rows, drumRow(d))
	}
	return rows
}

func writeCSV(zw *zip.Writer, name string, headers []string, rows [][]string) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// BuildWorkbook renders the filtered history as an xlsx workbook with a
// Pallets and a Drums sheet.
func BuildWorkbook(pallets []types.Pallet, drums []types.Drum) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, "Pallets", types.PalletsSchema.Headers, palletRows(pallets)); err != nil {
		return nil, err
	}
	if err := writeSheet(f, "Drums", types.DrumsSchema.Headers, drumRows(drums)); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
