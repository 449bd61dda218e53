package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driveshift/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previously emitted transfer scripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No transfers recorded")
				return nil
			}

			headers := []string{"ID", "Created", "Source", "Destination", "Parts", "Script"}
			aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					fmt.Sprintf("%d", rec.ID),
					rec.CreatedAt.Local().Format("2006-01-02 15:04"),
					rec.SourceDisk,
					rec.DestDisk,
					fmt.Sprintf("%d", rec.Partitions),
					rec.ScriptPath,
				})
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	return cmd
}
