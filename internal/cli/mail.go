package cli

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/queue"
)

// ConsumeMailOptions holds flags for the consume-mail command.
type ConsumeMailOptions struct {
	*RootOptions
	Output string
}

// NewConsumeMailCommand creates the consume-mail command.
func NewConsumeMailCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConsumeMailOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "consume-mail",
		Short: "Drain the confirmation and reminder queues",
		Long: `Consume reservation events from the broker and write the rendered mails.

Use this when the server runs with MAIL_CONSUMER=false. The command runs
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cfg.AMQPURL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			path := opts.Output
			if path == "" {
				path = cfg.MailLogPath
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "consuming %s and %s into %s\n", queue.ConfirmedQueue, queue.ReminderQueue, path)
			c := &queue.Consumer{URL: cfg.AMQPURL, Sink: queue.FileSink{Path: path}}
			return c.Run(ctx)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "mail log file (default MAIL_LOG_PATH)")
	return cmd
}
