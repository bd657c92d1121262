package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/congress-tracker/internal/archive"
	"github.com/baxromumarov/congress-tracker/internal/bills"
	"github.com/baxromumarov/congress-tracker/internal/congress"
)

var tallyJSON bool

func init() {
	tallyCmd.Flags().BoolVar(&tallyJSON, "json", false, "Print the counts as JSON")
	rootCmd.AddCommand(tallyCmd)
}

var tallyCmd = &cobra.Command{
	Use:   "tally",
	Short: "Counts archived bills by status.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := archive.OpenReadOnly(cfg.BillsDir())
		if err != nil {
			return err
		}
		collections, err := bills.LoadAll(a, congress.BillTypes(), cfg.Year)
		if err != nil {
			return err
		}
		counts := bills.Tally(collections)

		out := cmd.OutOrStdout()
		if tallyJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(counts)
		}
		printCounts(out, counts)
		return nil
	},
}

func printCounts(w io.Writer, c bills.Counts) {
	for _, bt := range congress.BillTypes() {
		if n, ok := c.PerType[bt.Key]; ok {
			fmt.Fprintf(w, "%d  %s\n", n, bt.Title)
		}
	}
	fmt.Fprintf(w, "\nTotal = %d\n\n", c.Total)
	fmt.Fprintf(w, "%d became law\n", c.BecameLaw)
	fmt.Fprintf(w, "%d confirmed (total)\n", c.Confirmed)
	fmt.Fprintf(w, "    %d judges confirmed\n", c.Judges)
	fmt.Fprintf(w, "    %d Army confirmations\n", c.Army)
	fmt.Fprintf(w, "    %d Navy confirmations\n", c.Navy)
	fmt.Fprintf(w, "    %d Marine Corps confirmations\n", c.MarineCorps)
	fmt.Fprintf(w, "    %d Air Force confirmations\n", c.AirForce)
	fmt.Fprintf(w, "%d passed chamber\n", c.Passed)
	fmt.Fprintf(w, "%d referred to committee\n", c.Referred)
	fmt.Fprintf(w, "%d on calendar\n", c.Calendar)
	fmt.Fprintf(w, "%d introduced\n", c.Introduced)

	fmt.Fprintf(w, "\nBecame Law (%d)\n-------------------\n", c.BecameLaw)
	for _, title := range c.Laws {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintf(w, "\nConfirmed (%d)\n-------------------\n", c.Confirmed)
	for _, title := range c.Confirmations {
		fmt.Fprintln(w, title)
	}
}
