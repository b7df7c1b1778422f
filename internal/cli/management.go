package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// CreateRestaurantOptions holds flags for the create-restaurant command.
type CreateRestaurantOptions struct {
	*RootOptions
	Slug    string
	Name    string
	Address string
	Phone   string
}

// NewCreateRestaurantCommand creates the create-restaurant command.
func NewCreateRestaurantCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateRestaurantOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-restaurant",
		Short: "Register a restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			mgmt := service.NewManagementService(repository.NewRestaurantRepo(db), repository.NewAdminUserRepo(db), cfg.BcryptCost)
			rest, err := mgmt.CreateRestaurant(commandContext(cmd), service.RestaurantInput{
				Slug:    opts.Slug,
				Name:    opts.Name,
				Address: optional(opts.Address),
				Phone:   optional(opts.Phone),
			})
			if err != nil {
				return fmt.Errorf("create restaurant: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created restaurant %s (%s)\n", rest.Slug, rest.Name)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVar(&opts.Slug, "slug", "", "restaurant slug (lowercase, dashes)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Address, "address", "", "street address shown in e-mails")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "contact phone shown in e-mails")
	_ = cmd.MarkFlagRequired("slug")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// CreateAdminOptions holds flags for the create-admin command.
type CreateAdminOptions struct {
	*RootOptions
	Username   string
	Restaurant string
}

// NewCreateAdminCommand creates the create-admin command.
func NewCreateAdminCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateAdminOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account bound to a restaurant",
		Long: `Create an admin account bound to an existing restaurant.

The password is read the same way as hash-password: prompted without
echo on a terminal, otherwise the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			mgmt := service.NewManagementService(repository.NewRestaurantRepo(db), repository.NewAdminUserRepo(db), cfg.BcryptCost)
			u, err := mgmt.CreateAdminUser(commandContext(cmd), service.AdminUserInput{
				Username:       opts.Username,
				Password:       plain,
				RestaurantSlug: opts.Restaurant,
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s for %s\n", u.Username, u.RestaurantSlug)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "login name")
	cmd.Flags().StringVarP(&opts.Restaurant, "restaurant", "r", "", "restaurant slug the admin manages")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("restaurant")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
