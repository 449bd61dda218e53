package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"driveshift/internal/config"
	"driveshift/internal/emit"
	"driveshift/internal/history"
)

func newEmitCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "emit <plan.toml>",
		Short: "Regenerate a transfer script from a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			p, err := loadPlanArg(args[0])
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = fmt.Sprintf("transfer-%s.sh", p.DestDisk.Name)
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}

			emitter, err := emit.New(cfg.Transfer.RsyncBinary, ctx.loggerValue())
			if err != nil {
				return err
			}
			if err := emitter.Emit(p, target); err != nil {
				return err
			}

			if !noHistory {
				store, err := history.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				if _, err := store.Append(cmd.Context(), p, target); err != nil {
					return fmt.Errorf("record transfer: %w", err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (run it with --dry-run first)\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination for the transfer script")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the emitted script in the history journal")
	return cmd
}
