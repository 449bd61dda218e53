package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driveshift/internal/deps"
	"driveshift/internal/mount"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and privileges needed for a transfer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			missing := 0
			for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
				label := "OK"
				detail := status.Command
				switch {
				case status.Available:
				case status.Optional:
					label = "WARN"
					detail = status.Detail
				default:
					label = "ERROR"
					detail = status.Detail
					missing++
				}
				fmt.Fprintln(out, renderStatusLine(label, status.Name, detail+" ("+status.Description+")", colorize))
			}

			if mount.IsPrivileged() {
				fmt.Fprintln(out, renderStatusLine("OK", "privileges", "running as root; probe mounts available", colorize))
			} else {
				fmt.Fprintln(out, renderStatusLine("WARN", "privileges", "not running as root; root partition detection disabled", colorize))
			}

			if missing > 0 {
				return fmt.Errorf("%d required tool(s) missing", missing)
			}
			return nil
		},
	}
}
