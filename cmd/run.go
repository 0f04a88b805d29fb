package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/browzerlabs/topic-agent/internal/model"
)

var runInput string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a single request envelope from a file or stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("run"); err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if runInput != "" && runInput != "-" {
			f, err := os.Open(runInput)
			if err != nil {
				return eris.Wrap(err, "open input")
			}
			defer f.Close()
			in = f
		}

		var req model.Request
		if err := json.NewDecoder(in).Decode(&req); err != nil {
			return eris.Wrap(err, "decode request")
		}
		fillCredentials(cfg, &req)

		h := newAgentHandler(cfg)
		resp := h.Handle(ctx, req)

		zap.L().Info("request processed",
			zap.String("action", string(req.Action)),
			zap.Bool("success", resp.Success),
		)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}

func init() {
	runCmd.Flags().StringVar(&runInput, "input", "-", "request envelope JSON file, - for stdin")
	rootCmd.AddCommand(runCmd)
}
