package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"issues-import/internal/config"
)

func newCredentialsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Manage tokens stored in the OS keychain",
		Long: fmt.Sprintf(`Tokens stored here are used when neither the token flag nor its environment
variable is set. Names: %s.`, strings.Join(config.CredentialNames, ", ")),
	}

	var token string
	set := &cobra.Command{
		Use:   "set <name>",
		Short: "Store a token, read from --token or the first line of stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			name := argv[0]
			if err := config.ValidateCredentialName(name); err != nil {
				return err
			}
			if token == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read token from stdin: %w", err)
				}
				token = strings.TrimSpace(line)
			}
			if token == "" {
				return &config.UsageError{Msg: "token must not be empty"}
			}
			if err := credentials.Set(name, token); err != nil {
				return fmt.Errorf("failed to store %s token: %w", name, err)
			}
			log.Info().Str("credential", name).Msg("Token stored")
			return nil
		},
	}
	set.Flags().StringVar(&token, "token", "", "The token value")

	del := &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			name := argv[0]
			if err := config.ValidateCredentialName(name); err != nil {
				return err
			}
			if err := credentials.Delete(name); err != nil {
				return fmt.Errorf("failed to delete %s token: %w", name, err)
			}
			log.Info().Str("credential", name).Msg("Token deleted")
			return nil
		},
	}

	cmd.AddCommand(set, del)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "issues-import %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		},
	}
}
