package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacksmith/hris/internal/api"
	"github.com/jacksmith/hris/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new hris workspace",
	Long: `Create a .hris/ directory holding the branch selection state.

With --api-url, also writes .hrisconfig.yaml pointing at that API. Other
settings (token, tenant, role) can be added to that file or supplied as
HRIS_* environment variables.

Fails if .hris/ already exists in the directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initAPIURL string

func init() {
	initCmd.Flags().StringVar(&initAPIURL, "api-url", "", "base URL of the HRIS API")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if initAPIURL != "" {
		if _, err := api.New(initAPIURL); err != nil {
			return err
		}
	}

	s, err := storage.Init(workDir)
	if err != nil {
		return err
	}
	fmt.Printf("Initialized hris in %s\n", s.HrisPath())

	if initAPIURL != "" {
		cfg := storage.DefaultConfig()
		cfg.APIURL = initAPIURL
		if err := s.WriteConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (api_url: %s)\n", s.ConfigPath(), initAPIURL)
	}

	fmt.Println("Run 'hris branch status' to connect.")
	return nil
}
