package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacksmith/hris/internal/storage"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging defaults, .hrisconfig.yaml, .env
and HRIS_* environment variables. The token is masked.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	s, err := storage.Open(workDir)
	if err != nil {
		return err
	}
	cfg, err := s.LoadConfig()
	if err != nil {
		return err
	}

	shown := *cfg
	shown.Token = maskToken(cfg.Token)

	data, err := yaml.Marshal(&shown)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Printf("# %s\n", s.ConfigPath())
	os.Stdout.Write(data)
	return nil
}

// maskToken keeps the last four characters of long tokens.
func maskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return strings.Repeat("*", len(token))
	default:
		return strings.Repeat("*", 8) + token[len(token)-4:]
	}
}
