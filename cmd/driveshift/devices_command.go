package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driveshift/internal/blockdev"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List attached disks and their partitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			logger := ctx.loggerValue()
			out := cmd.OutOrStdout()

			enum := blockdev.NewEnumerator(logger)
			devices, err := enum.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderDeviceTable(devices))

			if !watch {
				return nil
			}

			events, err := blockdev.NewWatcher(logger).Watch(cmd.Context())
			if err != nil {
				return fmt.Errorf("watch block devices: %w", err)
			}
			fmt.Fprintln(out, "watching for device changes (ctrl-c to stop)")
			for event := range events {
				fmt.Fprintf(out, "%-7s %s\n", event.Action, event.DevName)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep running and report device add/remove events")
	return cmd
}

func renderDeviceTable(devices []blockdev.BlockDevice) string {
	headers := []string{"Device", "Size", "Filesystem", "UUID", "Label"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(devices))
	for _, dev := range devices {
		rows = append(rows, []string{dev.Describe(), dev.HumanSize(), "", "", ""})
		for _, part := range dev.Partitions {
			rows = append(rows, []string{
				"  " + part.Path,
				part.HumanSize(),
				string(part.Filesystem),
				part.UUID,
				part.Label,
			})
		}
	}
	return renderTable(headers, rows, aligns)
}
