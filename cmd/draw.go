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

var drawCmd = &cobra.Command{
	Use:   "draw <event-id>",
	Short: "Run the prize drawing for an event",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *lottery.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))
		eventID := cmd.Flags().Args()[0]

		result, err := svc.Draw(ctx, eventID)
		if err != nil {
			return errs.Wrap(err, "run draw")
		}

		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintf(out, "event %s drawn: %d winners (seed %d)\n",
			result.EventID, result.TotalWinners, result.Seed); err != nil {
			return errs.Wrap(err, "write draw summary")
		}
		for _, prize := range result.Prizes {
			if _, err := fmt.Fprintf(out, "%s (x%d):\n", prize.PrizeName, prize.Quantity); err != nil {
				return errs.Wrap(err, "write prize header")
			}
			for _, winner := range prize.Winners {
				if _, err := fmt.Fprintf(out, "  %s\t%s\n", winner.StudentID, winner.Name); err != nil {
					return errs.Wrap(err, "write winner row")
				}
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(drawCmd)
}
