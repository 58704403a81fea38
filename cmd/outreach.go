package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/gridscout/internal/model"
)

var (
	outreachContacted bool
	outreachText      string
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Record and inspect per-parcel outreach notes",
}

var outreachAddCmd = &cobra.Command{
	Use:   "add <pams-pin>",
	Short: "Append an outreach note for a parcel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newOutreachStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		note, err := store.Append(cmd.Context(), model.OutreachNote{
			PAMSPin:   args[0],
			Contacted: outreachContacted,
			Notes:     outreachText,
		})
		if err != nil {
			return eris.Wrap(err, "append note")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "recorded note for %s at %s\n",
			note.PAMSPin, note.Timestamp.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var outreachListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the outreach log in append order",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newOutreachStore(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		notes, err := store.ReadAll(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "read log")
		}

		out := cmd.OutOrStdout()
		if len(notes) == 0 {
			fmt.Fprintln(out, "no outreach notes recorded")
			return nil
		}
		for _, n := range notes {
			contacted := "No"
			if n.Contacted {
				contacted = "Yes"
			}
			fmt.Fprintf(out, "%s  %s  contacted=%s  %s\n",
				n.Timestamp.Format("2006-01-02 15:04:05"), n.PAMSPin, contacted, n.Notes)
		}
		return nil
	},
}

func init() {
	outreachAddCmd.Flags().BoolVar(&outreachContacted, "contacted", false, "mark the parcel as contacted")
	outreachAddCmd.Flags().StringVar(&outreachText, "notes", "", "free-text note")

	outreachCmd.AddCommand(outreachAddCmd)
	outreachCmd.AddCommand(outreachListCmd)
	rootCmd.AddCommand(outreachCmd)
}
