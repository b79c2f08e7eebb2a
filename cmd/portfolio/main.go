package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/portfolio/internal/app"
	"github.com/portfolio/internal/config"
	"github.com/portfolio/internal/content"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("portfolio failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		port string
		env  string
	)

	options := func(cmd *cobra.Command) []config.Option {
		var opts []config.Option
		if cmd.Flags().Changed("port") {
			opts = append(opts, func(c *config.Config) { c.Port = port })
		}
		if cmd.Flags().Changed("env") {
			opts = append(opts, func(c *config.Config) { c.Env = env })
		}
		return opts
	}

	serve := func(cmd *cobra.Command, _ []string) error {
		a, err := app.New(options(cmd)...)
		if err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
		defer a.Close()

		return a.Start(cmd.Context())
	}

	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio site with a contact form",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve,
	}
	root.PersistentFlags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	root.PersistentFlags().StringVar(&env, "env", "", "development or production (overrides ENV)")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE:  serve,
	})

	var replyTo string
	sendTest := &cobra.Command{
		Use:   "send-test",
		Short: "Send one test contact message through the configured mail transport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(options(cmd)...)
			if err != nil {
				return fmt.Errorf("initialize application: %w", err)
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			if err := a.SendTest(ctx, replyTo); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "test message sent")
			return nil
		},
	}
	sendTest.Flags().StringVar(&replyTo, "reply-to", "noreply@example.com", "Reply-To address of the test message")
	root.AddCommand(sendTest)

	root.AddCommand(&cobra.Command{
		Use:       "content [section]",
		Short:     "Print the embedded portfolio content as JSON",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: content.Sections,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := content.Load()
			if err != nil {
				return err
			}

			var v any = p
			if len(args) == 1 {
				s, ok := p.Section(args[0])
				if !ok {
					return fmt.Errorf("unknown section %q (want one of %v)", args[0], content.Sections)
				}
				v = s
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		},
	})

	return root
}
