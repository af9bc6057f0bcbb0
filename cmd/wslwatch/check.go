package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/hamed0406/wslwatch/internal/probe"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single status check and print the result",
	Long: `Runs one service-status check and prints it as a table.
Exit code is 0 when the service is active, 1 when it is not, 2 when the
check itself failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		checker := probe.NewServiceChecker(cfg.Shell, cfg.Command, cfg.CheckTimeout)
		return runCheck(cmd.Context(), cmd.OutOrStdout(), checker, cfg.Service)
	},
}

// runCheck runs one check and maps its outcome to the command's exit code.
func runCheck(ctx context.Context, w io.Writer, checker *probe.ServiceChecker, service string) error {
	argv, err := checker.Argv(service)
	if err != nil {
		return &exitError{code: 2, err: err}
	}

	res := checker.Check(ctx, service)
	if err := renderCheck(w, strings.Join(argv, " "), res); err != nil {
		return err
	}

	switch res.Outcome {
	case probe.OutcomeActive:
		return nil
	case probe.OutcomeInactive:
		return &exitError{code: 1, silent: true}
	default:
		return &exitError{code: 2, err: res.Err, silent: true}
	}
}

func renderCheck(w io.Writer, command string, res probe.CheckResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")

	table.Append([]string{"Service", res.Service})
	table.Append([]string{"Command", command})
	table.Append([]string{"Outcome", string(res.Outcome)})
	if res.State != "" {
		table.Append([]string{"State", res.State})
	}
	if res.Outcome == probe.OutcomeError {
		table.Append([]string{"Error", res.Message})
	}
	table.Append([]string{"Duration", fmt.Sprintf("%d ms", res.Duration.Milliseconds())})
	return table.Render()
}
