package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/gridscout/internal/filter"
	"github.com/sells-group/gridscout/internal/model"
)

var statsDataset string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print headline stats for a scored dataset",
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := resolveDataset(cfg, statsDataset)
		if err != nil {
			return err
		}

		ds, err := newCache(cfg).Get(entry.Path)
		if err != nil {
			return err
		}

		s := filter.Summarize(ds.Parcels, ds.Parcels, cfg.Table.HighScoreThreshold)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s County Parcels\n", entry.Name)
		fmt.Fprintf(out, "Total parcels:        %d\n", s.Total)
		fmt.Fprintf(out, "High scoring (>=%g):  %d\n", cfg.Table.HighScoreThreshold, s.HighScoring)
		fmt.Fprintf(out, "Score range:          [%.2f, %.2f]\n", s.Bounds.Min, s.Bounds.Max)
		fmt.Fprintf(out, "Buildable:            %d\n", countBuildable(ds.Parcels))
		return nil
	},
}

func countBuildable(parcels []model.Parcel) int {
	n := 0
	for _, p := range parcels {
		if p.IsValid {
			n++
		}
	}
	return n
}

func init() {
	statsCmd.Flags().StringVar(&statsDataset, "dataset", "", "dataset display name (default: the only one)")
	rootCmd.AddCommand(statsCmd)
}
