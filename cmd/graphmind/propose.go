package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

var proposeCmd = &cobra.Command{
	Use:   "propose [text...]",
	Short: "Synthesize an incident proposal for the given text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		resp, err := a.proposer.ProposeIncident(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	},
}
