package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	tokensCmd.AddCommand(listTokensCmd)
	tokensCmd.AddCommand(createTokenCmd)
}

// GetTokensCmd returns the job-tokens command group. The token
// endpoints require an admin user ID.
func GetTokensCmd() *cobra.Command {
	return tokensCmd
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage run tokens (admin only)",
}

var listTokensCmd = &cobra.Command{
	Use:   "list",
	Short: "List run tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tokens, err := apiClient.ListTokens(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching tokens: %w", err)
		}
		return printJSON(cmd, tokens)
	},
}

var createTokenCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new run token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		token, err := apiClient.CreateToken(context.Background())
		if err != nil {
			return fmt.Errorf("error creating token: %w", err)
		}
		return printJSON(cmd, token)
	},
}
