package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"driveshift/internal/blockdev"
	"driveshift/internal/emit"
	"driveshift/internal/history"
	"driveshift/internal/mapper"
	"driveshift/internal/mount"
	"driveshift/internal/wizard"
)

func newWizardCommand(ctx *commandContext) *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Interactively plan a disk-to-disk transfer and emit the script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.loggerValue()

			emitter, err := emit.New(cfg.Transfer.RsyncBinary, logger)
			if err != nil {
				return err
			}

			opts := wizard.Options{
				Config:  cfg,
				Logger:  logger,
				Devices: blockdev.NewEnumerator(logger),
				Emitter: emitter,
				Input:   cmd.InOrStdin(),
				Output:  cmd.OutOrStdout(),
			}

			// Root detection needs mount privileges; without them the
			// wizard falls back to manual selection.
			if mount.IsPrivileged() {
				opts.Detector = mapper.NewDetector(mount.New(), cfg.Paths.ScratchDir, logger)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "not running as root: root partition must be chosen manually")
			}

			if !noHistory {
				store, err := history.Open(cfg)
				if err != nil {
					return err
				}
				defer store.Close()
				opts.Journal = store
			}

			w, err := wizard.New(opts)
			if err != nil {
				return err
			}

			if _, err := w.Run(cmd.Context()); err != nil {
				if errors.Is(err, wizard.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted; nothing was written")
					return nil
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Skip recording the emitted script in the history journal")
	return cmd
}
