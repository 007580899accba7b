package main

import (
	"fmt"
	"os"
	"time"

	"icons-api/core/errors"
	"icons-api/core/icons"
	"icons-api/core/interfaces"

	"github.com/spf13/cobra"
)

func newFetchCmd(a *app) *cobra.Command {
	var (
		out     string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch <domain>",
		Short: "Discover the icon of a website",
		Long: `Fetch runs icon discovery for a bare domain, exactly as the server
would without its cache, and reports where the icon came from.

With --out the icon bytes are written to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}

			opts := icons.Options{
				Timeout:         cfg.Icons.Timeout,
				MaxRedirects:    icons.RedirectLimit(cfg.Icons.MaxRedirects),
				MaxCandidates:   cfg.Icons.MaxCandidates,
				MaxLinks:        cfg.Icons.MaxLinks,
				MaxResponseSize: cfg.Icons.MaxResponseBytes,
			}
			if timeout > 0 {
				opts.Timeout = timeout
			}

			finder := a.newFinder(opts, interfaces.Dependencies{
				Resolver: a.resolver,
				Logger:   logger,
			})

			domain := args[0]
			icon, err := finder.GetIcon(cmd.Context(), domain)
			if errors.IsNotFound(err) {
				return fmt.Errorf("no icon found for %s", domain)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out == "" {
				fmt.Fprintf(w, "source:     %s\n", icon.SourceURI)
				fmt.Fprintf(w, "media type: %s\n", icon.MediaType)
				fmt.Fprintf(w, "size:       %d bytes\n", len(icon.Bytes))
				return nil
			}

			if err := os.WriteFile(out, icon.Bytes, 0o644); err != nil {
				return fmt.Errorf("write icon: %w", err)
			}
			fmt.Fprintf(w, "wrote %d bytes (%s) from %s to %s\n", len(icon.Bytes), icon.MediaType, icon.SourceURI, out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the icon bytes to this file")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-fetch timeout (default from configuration)")

	return cmd
}
