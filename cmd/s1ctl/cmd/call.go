package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/s1sdk/request"
)

func newCallCmd(current func() *app) *cobra.Command {
	var (
		arguments []string
		scope     scopeFlags
		timezone  string
		protocol  string
		noSession bool
		raw       bool
	)

	cmd := &cobra.Command{
		Use:   "call <command> <action>",
		Short: "Call an API action and print the reply body",
		Long: `Signs and sends /api/<command>/<action>.

The call is signed with the profile session when one is active, otherwise
with the configured credentials.`,
		Example: `  s1ctl call item view --arg id=abc --account acc1
  s1ctl call account list --no-session`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			req, err := a.newRequest(args[0], args[1], !noSession, false)
			if err != nil {
				return err
			}

			parsed, err := parseArguments(arguments)
			if err != nil {
				return err
			}
			for _, kv := range parsed {
				req.SetArgument(kv[0], kv[1])
			}
			scope.apply(req)
			if timezone != "" {
				loc, err := time.LoadLocation(timezone)
				if err != nil {
					return fmt.Errorf("invalid timezone: %w", err)
				}
				req.SetTimeZone(loc)
			}
			if protocol != "" {
				req.SetProtocol(protocol)
			}

			resp := req.Execute(cmd.Context())
			if fromCache, age := request.CacheStatus(req); fromCache {
				pterm.Info.Printfln("Served from cache (age %s)", age.Round(time.Second))
			}
			if err := request.ErrorFromResponse(resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, string(resp.PlainResponse()))
				return nil
			}
			return writeJSON(out, resp.Body())
		},
	}

	cmd.Flags().StringArrayVar(&arguments, "arg", nil, "Argument as name=value (repeatable)")
	scope.register(cmd)
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA time zone sent with the call")
	cmd.Flags().StringVar(&protocol, "protocol", "", "Override the protocol of the API URL")
	cmd.Flags().BoolVar(&noSession, "no-session", false, "Sign with the configured credentials even when logged in")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the full reply unmodified")
	return cmd
}

// parseArguments splits name=value pairs. Values may contain '='.
func parseArguments(in []string) ([][2]string, error) {
	out := make([][2]string, 0, len(in))
	for _, kv := range in {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q: expected name=value", kv)
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}

func writeJSON(w io.Writer, body []byte) error {
	if len(body) == 0 {
		_, err := fmt.Fprintln(w, "null")
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err := fmt.Fprintln(w, string(body))
		return err
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}
