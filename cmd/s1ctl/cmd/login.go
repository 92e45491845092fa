package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLoginCmd(current func() *app) *cobra.Command {
	var (
		ip            string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Start a user session",
		Long: `Starts a user session and stores it in the selected profile.

The password is prompted for without echo, or read from stdin with
--password-stdin. Sessions require application credentials.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()

			username := ""
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				u, err := pterm.DefaultInteractiveTextInput.Show("Username")
				if err != nil {
					return fmt.Errorf("failed to read username: %w", err)
				}
				username = strings.TrimSpace(u)
			}
			if username == "" {
				return errors.New("username is required")
			}

			var pass string
			if passwordStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				pass = strings.TrimRight(line, "\r\n")
			} else {
				p, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return fmt.Errorf("failed to read password: %w", err)
				}
				pass = p
			}

			ok, err := a.session.Start(cmd.Context(), username, pass, ip)
			if err != nil {
				return err
			}
			if !ok {
				msg, valid, _ := a.session.StartStatusMessage()
				if !valid {
					msg = "no valid response from server"
				}
				return fmt.Errorf("login failed: %s", msg)
			}

			userID, _ := a.session.UserID()
			pterm.Success.Printfln("Logged in as %s (user %s, profile %s)", username, userID, a.profile)
			return nil
		},
	}

	cmd.Flags().StringVar(&ip, "ip", "", "Client IP reported to the server")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	return cmd
}

func newLogoutCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session of the selected profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			if !a.session.IsActive() {
				pterm.Info.Printfln("Profile %s has no active session", a.profile)
				return nil
			}
			accepted, err := a.session.End(cmd.Context())
			if err != nil {
				return err
			}
			if !accepted {
				pterm.Warning.Println("Server did not confirm the logout; local session removed")
				return nil
			}
			pterm.Success.Printfln("Logged out of profile %s", a.profile)
			return nil
		},
	}
}

func newStatusCmd(current func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			cfg := a.platform.Config()
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "profile:     %s\n", a.profile)
			fmt.Fprintf(out, "api:         %s\n", cfg.APIURL)
			fmt.Fprintf(out, "credentials: %s\n", cfg.Credentials)
			if cfg.DefaultAccount != "" {
				fmt.Fprintf(out, "account:     %s\n", cfg.DefaultAccount)
			}
			if !a.session.IsActive() {
				fmt.Fprintln(out, "session:     none")
				return nil
			}
			userID, _ := a.session.UserID()
			fmt.Fprintln(out, "session:     active")
			fmt.Fprintf(out, "user:        %s\n", userID)
			fmt.Fprintf(out, "expires in:  %s\n", a.store.Timeout().Round(time.Second))
			return nil
		},
	}
}
