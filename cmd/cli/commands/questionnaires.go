package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	questionnairesCmd.AddCommand(listQuestionnairesCmd)
}

// GetQuestionnairesCmd returns the questionnaires command group
func GetQuestionnairesCmd() *cobra.Command {
	return questionnairesCmd
}

var questionnairesCmd = &cobra.Command{
	Use:   "questionnaires",
	Short: "Browse job questionnaires",
}

var listQuestionnairesCmd = &cobra.Command{
	Use:   "list",
	Short: "List available questionnaires",
	RunE: func(cmd *cobra.Command, _ []string) error {
		questionnaires, err := apiClient.ListQuestionnaires(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching questionnaires: %w", err)
		}
		return printJSON(cmd, questionnaires)
	},
}
