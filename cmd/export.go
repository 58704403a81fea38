package main

import (
	"io"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/gridscout/internal/filter"
	"github.com/sells-group/gridscout/internal/model"
	"github.com/sells-group/gridscout/internal/table"
)

var (
	exportDataset   string
	exportMin       float64
	exportMax       float64
	exportBuildable bool
	exportOutput    string
	exportFormat    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered parcel table as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveDataset(cfg, exportDataset)
		if err != nil {
			return err
		}

		ds, err := newCache(cfg).Get(entry.Path)
		if err != nil {
			return err
		}

		criteria := model.FilterCriteria{
			ScoreRange:    model.ScoreRange{Min: exportMin, Max: exportMax},
			BuildableOnly: exportBuildable,
		}
		criteria = filter.Normalize(criteria, ds.Parcels)
		rows := table.Format(filter.Apply(ds.Parcels, criteria))

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", exportOutput)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		switch exportFormat {
		case "csv":
			err = table.WriteCSV(w, rows)
		case "xlsx":
			err = table.WriteXLSX(w, rows)
		default:
			return eris.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		zap.L().Info("export complete",
			zap.String("dataset", entry.Name),
			zap.Int("rows", len(rows)),
			zap.String("format", exportFormat),
		)
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportDataset, "dataset", "", "dataset display name (default: the only one)")
	f.Float64Var(&exportMin, "min", math.Inf(-1), "minimum score (default: dataset minimum)")
	f.Float64Var(&exportMax, "max", math.Inf(1), "maximum score (default: dataset maximum)")
	f.BoolVar(&exportBuildable, "buildable", false, "keep only buildable parcels")
	f.StringVar(&exportOutput, "output", "", "output file path (default: stdout)")
	f.StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")

	rootCmd.AddCommand(exportCmd)
}
