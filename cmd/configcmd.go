package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		show := *cfg
		show.Providers.Anthropic.Key = redactKey(show.Providers.Anthropic.Key)
		show.Providers.OpenAI.Key = redactKey(show.Providers.OpenAI.Key)
		show.Providers.Perplexity.Key = redactKey(show.Providers.Perplexity.Key)
		show.Providers.Chutes.Key = redactKey(show.Providers.Chutes.Key)
		show.Server.AuthToken = redactKey(show.Server.AuthToken)

		out, err := yaml.Marshal(show)
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func redactKey(s string) string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

func init() {
	rootCmd.AddCommand(configCmd)
}
