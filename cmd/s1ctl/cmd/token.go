package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/s1sdk/actor"
)

func newHasTokenCmd(current func() *app) *cobra.Command {
	var (
		scope     scopeFlags
		noSession bool
	)

	cmd := &cobra.Command{
		Use:   "has-token <token>",
		Short: "Check whether the actor holds a token",
		Long: `Prints "granted" or "denied". A denied token exits with status 1.

With --account every listed account must be covered.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current().newActor(!noSession)
			if err != nil {
				return err
			}
			scope.applyActor(a)

			err = a.Authorize(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			switch {
			case err == nil:
				fmt.Fprintln(out, "granted")
				return nil
			case errors.Is(err, actor.ErrDenied):
				fmt.Fprintln(out, "denied")
				return err
			default:
				return err
			}
		},
	}

	scope.register(cmd)
	cmd.Flags().BoolVar(&noSession, "no-session", false, "Check the configured credentials even when logged in")
	return cmd
}

func newRolesCmd(current func() *app) *cobra.Command {
	var noSession bool

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the role assignments of the actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := current().newActor(!noSession)
			if err != nil {
				return err
			}
			roles, err := a.Roles(cmd.Context())
			if err != nil {
				return err
			}
			if len(roles) == 0 {
				pterm.Info.Println("No roles assigned")
				return nil
			}

			table := pterm.TableData{{"ROLE", "SCOPE", "TOKENS"}}
			for _, r := range roles {
				name := r.Role.Name
				if name == "" {
					name = r.Role.ID.String()
				}
				table = append(table, []string{name, roleScope(r), strings.Join(r.Role.Tokens, ", ")})
			}
			return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(table).Render()
		},
	}

	cmd.Flags().BoolVar(&noSession, "no-session", false, "List roles of the configured credentials even when logged in")
	return cmd
}

func roleScope(r actor.Role) string {
	switch {
	case r.Global():
		return "global"
	case r.Account != nil:
		return "account " + r.Account.ID.String()
	default:
		return "customer " + r.Customer.ID.String()
	}
}
