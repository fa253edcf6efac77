/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"unidraw/internal/bootstrap"
	"unidraw/internal/bootstrap/logging"
	"unidraw/internal/errs"
	"unidraw/internal/usecase/lottery"
)

var resetCmd = &cobra.Command{
	Use:   "reset <event-id>",
	Short: "Delete an event's winners and revert it to pending",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *lottery.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		eventID := cmd.Flags().Args()[0]

		result, err := svc.ResetDraw(ctx, eventID)
		if err != nil {
			return errs.Wrap(err, "reset draw")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "event %s reset: %d winners deleted, status %s\n",
			result.EventID, result.DeletedWinners, result.Status); err != nil {
			return errs.Wrap(err, "write reset summary")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
