package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// SendRemindersOptions holds flags for the send-reminders command.
type SendRemindersOptions struct {
	*RootOptions
	Within     time.Duration
	Restaurant string
	DryRun     bool
}

// NewSendRemindersCommand creates the send-reminders command.
func NewSendRemindersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendRemindersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send-reminders",
		Short: "Queue reminder mails for reservations starting soon",
		Long: `Queue a reminder for every reservation that starts within --within from now.

Reminders go to the broker in RABBITMQ_URL when set and to the log
otherwise. Run it from cron at the same interval as --within to remind
each guest once.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Within <= 0 {
				return fmt.Errorf("--within must be positive")
			}
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()
			policy, err := config.LoadPolicy()
			if err != nil {
				return fmt.Errorf("config: opening hours: %w", err)
			}

			reservations := repository.NewReservationRepo(db)
			restaurants := repository.NewRestaurantRepo(db)
			svc := service.NewReservationService(reservations, restaurants, policy, nil, nil, nil, cfg.DefaultRestaurantSlug)
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()

			if opts.DryRun {
				due, err := svc.DueReminders(ctx, opts.Restaurant, opts.Within)
				if err != nil {
					return err
				}
				for _, r := range due {
					fmt.Fprintf(out, "%s %s %s %s <%s>\n", r.Code, r.RestaurantSlug, r.Date, r.Time, r.Email)
				}
				fmt.Fprintf(out, "%d reminder(s) due\n", len(due))
				return nil
			}

			var sender service.ReminderSender
			if cfg.AMQPURL != "" {
				sender = queue.NewPublisher(cfg.AMQPURL)
			} else {
				sender = queue.NewLogMailer(nil)
			}
			n, err := svc.SendReminders(ctx, opts.Restaurant, opts.Within, sender)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "sent %d reminder(s)\n", n)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().DurationVar(&opts.Within, "within", 2*time.Hour, "remind reservations starting within this window")
	cmd.Flags().StringVarP(&opts.Restaurant, "restaurant", "r", "", "limit to one restaurant slug")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "list due reservations without sending")
	return cmd
}
