// Package commands implements the CLI subcommands
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/strataworks/cumulus/pkg/api/v1/client"
)

// flag names
const (
	flagUserID        = "user-id"
	flagServerAddress = "server-address"
)

// environment variable names
const (
	envServerAddress = "CUMULUS_SERVER_ADDRESS"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// userID is the identity asserted on every request
	userID uint
)

// initClient initializes the API client
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.UserID = userID

	var err error
	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the Cumulus API server (env: CUMULUS_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().UintVarP(&userID, flagUserID, "u", 0, "User ID asserted on requests")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetTokensCmd())
	RootCmd.AddCommand(GetQuestionnairesCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cumulus",
	Short: "Cumulus CLI - A command line interface for the Cumulus API",
	Long:  `Cumulus CLI is a command line tool for submitting and tracking bioinformatics workflow jobs through the Cumulus API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Env var overrides the default, explicit flag overrides everything
		if !cmd.Flags().Changed(flagServerAddress) {
			if addr := os.Getenv(envServerAddress); addr != "" {
				serverAddress = addr
			}
		}
		return initClient()
	},
}
