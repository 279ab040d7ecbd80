package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/harborview-realty/neighborhood-cli/internal/model"
)

var moneyPrinter = message.NewPrinter(language.English)

func formatMoney(amount int64) string {
	return moneyPrinter.Sprintf("%d", amount)
}

func outputScoredAreas(results []model.ScoredArea, format, outputPath string) error {
	if format == "xlsx" {
		return writeScoreXLSX(outputPath, results)
	}

	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "quiz: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writeScoreCSV(w, results)
	case "table":
		return writeScoreTable(w, results)
	default:
		return eris.Errorf("quiz: unsupported format %q", format)
	}
}

func writeScoreCSV(w *os.File, results []model.ScoredArea) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"rank", "area_id", "name", "county", "score", "raw_score", "median_sale_price"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "quiz: write CSV header")
	}

	for i, r := range results {
		row := []string{
			fmt.Sprintf("%d", i+1),
			r.ID,
			r.DisplayName,
			r.County,
			fmt.Sprintf("%d", r.NormalizedScore),
			fmt.Sprintf("%.2f", r.RawScore),
			fmt.Sprintf("%.0f", r.MedianSalePrice),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "quiz: write CSV row")
		}
	}
	return nil
}

func writeScoreTable(w *os.File, results []model.ScoredArea) error {
	header := fmt.Sprintf("%-4s %-24s %-12s %6s %10s %15s\n",
		"Rank", "Area", "County", "Score", "Raw", "Median Price")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "quiz: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 76)); err != nil {
		return eris.Wrap(err, "quiz: write table separator")
	}

	for i, r := range results {
		name := r.DisplayName
		if len(name) > 24 {
			name = name[:21] + "..."
		}
		line := fmt.Sprintf("%-4d %-24s %-12s %6d %10.2f %15s\n",
			i+1, name, r.County, r.NormalizedScore, r.RawScore, "$"+formatMoney(int64(r.MedianSalePrice)))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "quiz: write table row")
		}
	}
	return nil
}

func writeScoreXLSX(path string, results []model.ScoredArea) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Rankings")
	if err != nil {
		return eris.Wrap(err, "quiz: add xlsx sheet")
	}

	hdr := sheet.AddRow()
	for _, h := range []string{"Rank", "Area ID", "Name", "County", "Score", "Raw Score", "Median Sale Price"} {
		hdr.AddCell().SetString(h)
	}

	for i, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetInt(i + 1)
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.DisplayName)
		row.AddCell().SetString(r.County)
		row.AddCell().SetInt(r.NormalizedScore)
		row.AddCell().SetFloat(r.RawScore)
		row.AddCell().SetInt64(int64(r.MedianSalePrice))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "quiz: save xlsx %s", path)
	}
	return nil
}
