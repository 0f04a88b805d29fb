package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "topic-agent",
	Short: "Evidence-gathering agent for page questions and summaries",
	Long:  "Answers questions and summarizes web pages by extracting page text, searching the web when no sources are supplied, and assembling token-budgeted prompts for a configurable LLM provider.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
