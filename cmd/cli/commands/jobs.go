package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(startJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)
	jobsCmd.AddCommand(restartJobCmd)
	jobsCmd.AddCommand(authorizeJobCmd)

	// Add flags
	listJobsCmd.Flags().StringP("state", "t", "", "Filter jobs by state")

	getJobCmd.Flags().UintP("id", "i", 0, "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	startJobCmd.Flags().UintP("id", "i", 0, "Job ID to start")
	_ = startJobCmd.MarkFlagRequired("id")

	cancelJobCmd.Flags().UintP("id", "i", 0, "Job ID to cancel")
	_ = cancelJobCmd.MarkFlagRequired("id")

	restartJobCmd.Flags().UintP("id", "i", 0, "Job ID to restart")
	_ = restartJobCmd.MarkFlagRequired("id")

	authorizeJobCmd.Flags().UintP("id", "i", 0, "Job ID to authorize")
	authorizeJobCmd.Flags().StringP("token", "k", "", "Run token")
	_ = authorizeJobCmd.MarkFlagRequired("id")
	_ = authorizeJobCmd.MarkFlagRequired("token")
}

// GetJobsCmd returns the jobs command group
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage jobs",
}

// printJSON pretty prints any API response on the command's output
func printJSON(cmd *cobra.Command, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	cmd.Println(string(prettyJSON))
	return nil
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, _ := cmd.Flags().GetString("state")

		jobs, err := apiClient.ListJobs(context.Background(), state)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}
		return printJSON(cmd, jobs)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a job by ID",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.GetJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(cmd, job)
	},
}

var startJobCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.StartJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error starting job: %w", err)
		}
		return printJSON(cmd, job)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.CancelJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error canceling job: %w", err)
		}
		return printJSON(cmd, job)
	},
}

var restartJobCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart a failed or canceled job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")

		job, err := apiClient.RestartJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error restarting job: %w", err)
		}
		return printJSON(cmd, job)
	},
}

var authorizeJobCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Authorize a job with a run token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetUint("id")
		token, _ := cmd.Flags().GetString("token")

		job, err := apiClient.AuthorizeJob(context.Background(), id, token)
		if err != nil {
			return fmt.Errorf("error authorizing job: %w", err)
		}
		return printJSON(cmd, job)
	},
}
