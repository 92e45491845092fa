package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/s1sdk/health"
)

var errUnhealthy = errors.New("one or more checks are unhealthy")

func newHealthCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API, caches and profile storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()

			agg := health.NewAggregator()
			for _, c := range a.platform.HealthCheckers() {
				agg.Register(c)
			}
			agg.Register(health.NewDirChecker("profile_dir", a.profileDir))

			results := agg.CheckAll(cmd.Context())
			table := pterm.TableData{{"CHECK", "STATUS", "MESSAGE"}}
			for _, name := range agg.CheckerNames() {
				r := results[name]
				msg := r.Message
				if r.Error != nil {
					msg = fmt.Sprintf("%s: %v", msg, r.Error)
				}
				table = append(table, []string{name, r.Status.String(), msg})
			}
			if err := pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(table).Render(); err != nil {
				return err
			}

			if health.OverallStatus(results) == health.StatusUnhealthy {
				return errUnhealthy
			}
			return nil
		},
	}
}
