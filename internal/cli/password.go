package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/iliyamo/table-reservation/internal/utils"
)

// HashPasswordOptions holds flags for the hash-password command.
type HashPasswordOptions struct {
	*RootOptions
	Cost int
}

// NewHashPasswordCommand creates the hash-password command.
func NewHashPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HashPasswordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Long: `Read a password and print its bcrypt hash.

On a terminal the password is prompted for without echo. Otherwise the
first line of standard input is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plain, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			hash, err := utils.HashPassword(plain, opts.Cost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntVar(&opts.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

// readPassword prompts without echo when in is a terminal and reads a single
// line otherwise.  An empty password is an error.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return nonEmpty(string(b))
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return nonEmpty(strings.TrimRight(line, "\r\n"))
}

func nonEmpty(s string) (string, error) {
	if s == "" {
		return "", errors.New("password must not be empty")
	}
	return s, nil
}
