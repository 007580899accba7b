package main

import (
	"fmt"
	"net/url"

	"icons-api/core/icons"

	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <url>",
		Short: "Check a URL against the request guard",
		Long: `Check applies the same rules the server applies before every outbound
request: http or https only, default ports only, a dotted non-IP host, and
DNS answers that are all public addresses.

Exits non-zero when the URL would be blocked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parse url: %w", err)
			}

			if err := icons.NewGuard(a.resolver).Check(cmd.Context(), u); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "allowed %s\n", u)
			return nil
		},
	}
}
