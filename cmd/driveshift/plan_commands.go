package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driveshift/internal/config"
	"driveshift/internal/plan"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Inspect saved transfer plans",
	}

	planCmd.AddCommand(newPlanShowCommand())
	planCmd.AddCommand(newPlanValidateCommand())

	return planCmd
}

func newPlanShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <plan.toml>",
		Short: "Display a saved plan's partition mapping and excludes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlanArg(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Plan %s (created %s)\n", p.ID, p.CreatedAt.Format("2006-01-02 15:04"))
			fmt.Fprintf(out, "Transfer: %s\n\n", p.Summary())
			fmt.Fprintln(out, renderPlanTable(p))

			if len(p.Excludes) > 0 {
				fmt.Fprintln(out, "\nExcludes:")
				for _, rule := range p.Excludes {
					fmt.Fprintf(out, "  %-10s %s\n", rule.Origin, rule.Pattern)
				}
			}
			return nil
		},
	}
}

func newPlanValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <plan.toml>",
		Short: "Run validation against a saved plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlanArg(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			findings := p.Validate()
			if len(findings) == 0 {
				fmt.Fprintln(out, "Plan valid")
				return nil
			}
			printFindings(out, findings)
			if plan.HasErrors(findings) {
				return fmt.Errorf("%w (%d findings)", plan.ErrPlanInvalid, len(findings))
			}
			fmt.Fprintln(out, "Plan valid (with warnings)")
			return nil
		},
	}
}

func loadPlanArg(arg string) (*plan.Plan, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, fmt.Errorf("resolve plan path: %w", err)
	}
	return plan.LoadFile(path)
}

func renderPlanTable(p *plan.Plan) string {
	headers := []string{"#", "Source", "Filesystem", "Size", "Destination", "Role"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(p.Entries))
	for i, entry := range p.Entries {
		dest := "(skip)"
		if !entry.Skipped() {
			dest = entry.Dest.Path
		}
		role := ""
		if i == p.RootIndex {
			role = "root"
		}
		if i == p.EFIIndex {
			if role != "" {
				role += ",efi"
			} else {
				role = "efi"
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i),
			entry.Source.Path,
			string(entry.Source.Filesystem),
			entry.Source.HumanSize(),
			dest,
			role,
		})
	}
	return renderTable(headers, rows, aligns)
}
