package table

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/gridscout/internal/model"
)

// Export filenames offered to the browser.
const (
	ExportFilenameCSV  = "gridscout_filtered.csv"
	ExportFilenameXLSX = "gridscout_filtered.xlsx"
)

// exportColumns defines the ordered export header.
var exportColumns = []string{"PAMS_PIN", "Score", "Land Use", "Buildable"}

// WriteCSV writes display rows as CSV with the export header.
func WriteCSV(w io.Writer, rows []model.DisplayRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportColumns); err != nil {
		return eris.Wrap(err, "table: write CSV header")
	}
	for _, r := range rows {
		record := []string{r.PAMSPin, strconv.Itoa(r.Score), r.LandUse, yesNo(r.Buildable)}
		if err := cw.Write(record); err != nil {
			return eris.Wrap(err, "table: write CSV row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "table: flush CSV")
}

// WriteXLSX writes display rows as a single-sheet workbook with the same
// columns as the CSV export.
func WriteXLSX(w io.Writer, rows []model.DisplayRow) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Parcels")
	if err != nil {
		return eris.Wrap(err, "table: add XLSX sheet")
	}

	header := sheet.AddRow()
	for _, col := range exportColumns {
		header.AddCell().SetString(col)
	}
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.PAMSPin)
		row.AddCell().SetInt(r.Score)
		row.AddCell().SetString(r.LandUse)
		row.AddCell().SetString(yesNo(r.Buildable))
	}

	return eris.Wrap(file.Write(w), "table: write XLSX")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
