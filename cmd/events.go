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

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List lottery events",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *lottery.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		category, _ := cmd.Flags().GetString("category")
		includeDeleted, _ := cmd.Flags().GetBool("include-deleted")

		events, err := svc.ListEvents(ctx, lottery.ListEventsInput{
			Category:       category,
			IncludeDeleted: includeDeleted,
		})
		if err != nil {
			return errs.Wrap(err, "list events")
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			_, err := fmt.Fprintln(out, "no events")
			return err
		}
		for _, event := range events {
			marker := ""
			if event.IsDeleted {
				marker = " (deleted)"
			}
			if _, err := fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s%s\n",
				event.EventID, event.Term, event.Category, event.Status, event.Name, marker); err != nil {
				return errs.Wrap(err, "write event row")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(eventsCmd)

	eventsCmd.Flags().String("category", "", "Filter by event category")
	eventsCmd.Flags().Bool("include-deleted", false, "Include soft-deleted events")
}
