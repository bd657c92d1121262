package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/baxromumarov/congress-tracker/internal/votes"
)

var (
	votesChamber string
	votesMax     int

	billTypes      []string
	billLimit      int
	billCollectAll bool
)

func init() {
	votesCmd.Flags().StringVar(&votesChamber, "chamber", "", "Collect only house or senate votes")
	votesCmd.Flags().IntVar(&votesMax, "max", 0, "Highest roll call number to probe (default: MAX_ROLL_CALLS)")

	billsCmd.Flags().StringSliceVarP(&billTypes, "types", "t", nil, "Bill types to collect, e.g. house_bills,nominations (default: all)")
	billsCmd.Flags().IntVar(&billLimit, "limit", 0, "Stop before this item number (default: BILL_LIMIT)")
	billsCmd.Flags().BoolVar(&billCollectAll, "all", false, "Collect from number 1 instead of resuming after the last archived item")

	rootCmd.AddCommand(votesCmd, billsCmd, recordsCmd, reportCmd, runCmd)
}

var votesCmd = &cobra.Command{
	Use:   "votes [--chamber house|senate]",
	Short: "Collects House and Senate roll-call votes into the archive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if votesMax > 0 {
			cfg.MaxRollCalls = votesMax
		}
		p, closeDB, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeDB()

		chambers := []votes.Chamber{votes.House, votes.Senate}
		if votesChamber != "" {
			ch, err := votes.ParseChamber(votesChamber)
			if err != nil {
				return err
			}
			chambers = []votes.Chamber{ch}
		}

		var errs []error
		for _, ch := range chambers {
			res, err := p.CollectChamber(cmd.Context(), ch)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ch, err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.String())
		}
		return errors.Join(errs...)
	},
}

var billsCmd = &cobra.Command{
	Use:   "bills [--types house_bills,...]",
	Short: "Collects bills, resolutions and nominations from congress.gov.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(billTypes) > 0 {
			cfg.BillTypes = billTypes
		}
		if billLimit > 0 {
			cfg.BillLimit = billLimit
		}
		if billCollectAll {
			cfg.UpdatesOnly = false
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		p, closeDB, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeDB()

		slog.Info("collecting bills", "year", cfg.Year, "types", strings.Join(billTypeKeys(), ","))
		return p.CollectBills(cmd.Context())
	},
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Lists the Congressional Record issues published this year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeDB, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeDB()
		return p.CollectRecords(cmd.Context())
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Renders the HTML report pages from the archive.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeDB, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeDB()
		return p.Render()
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collects votes, bills and records, then renders the reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeDB, err := newPipeline()
		if err != nil {
			return err
		}
		defer closeDB()
		p.RunOnce(cmd.Context())
		return cmd.Context().Err()
	},
}

func billTypeKeys() []string {
	types := cfg.SelectedBillTypes()
	keys := make([]string, 0, len(types))
	for _, bt := range types {
		keys = append(keys, bt.Key)
	}
	return keys
}
