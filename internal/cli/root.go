// Package cli implements brewctl, the terminal client for a brewlog server.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kiranshivaraju/brewlog/internal/client"
)

const (
	defaultServer  = "http://localhost:8080"
	defaultTimeout = 30 * time.Second
)

type options struct {
	server  string
	timeout time.Duration
}

func (o *options) client() *client.HTTPClient {
	return client.New(o.server, o.timeout)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, o.timeout)
}

// NewRootCommand creates the brewctl root command with every subcommand attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "brewctl",
		Short: "Espresso brew log client",
		Long: `brewctl records espresso shots on a brewlog server and shows the
AI analysis of the whole log: significant factors, the next shot to
pull and the full shot/filter/coffee suggestion matrix.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("BREWLOG_SERVER")
	if server == "" {
		server = defaultServer
	}
	rootCmd.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "brewlog server URL (env BREWLOG_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", defaultTimeout, "request timeout")

	rootCmd.AddCommand(newRangesCommand(opts))
	rootCmd.AddCommand(newLogCommand(opts))
	rootCmd.AddCommand(newRecordCommand(opts))
	rootCmd.AddCommand(newAnalyzeCommand(opts))
	rootCmd.AddCommand(newSuggestCommand(opts))
	rootCmd.AddCommand(newFormCommand(opts))
	rootCmd.AddCommand(newGearCommand(opts))
	rootCmd.AddCommand(newConvertCommand())
	rootCmd.AddCommand(newResetCommand(opts))

	return rootCmd
}
