package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"waymark/internal/locations"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the location queue",
	}

	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueResetCommand(ctx))

	return queueCmd
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show queue status summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}
			health, err := store.Health(cmd.Context())
			if err != nil {
				return err
			}
			if health.Total == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}
			rows := [][]string{
				{"pending", strconv.Itoa(health.Pending)},
				{"syncing", strconv.Itoa(health.Syncing)},
				{"synced", strconv.Itoa(health.Synced)},
				{"rejected", strconv.Itoa(health.Rejected)},
				{"total", strconv.Itoa(health.Total)},
			}
			columns := []tableColumn{{name: "Status"}, {name: "Count", numeric: true}}
			fmt.Fprintln(cmd.OutOrStdout(), renderColumns(columns, rows))
			return nil
		},
	}
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queued locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			var statuses []locations.Status
			for _, raw := range listStatuses {
				status, ok := locations.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}

			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}
			items, err := store.List(cmd.Context(), statuses...)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, loc := range items {
				rows = append(rows, []string{
					strconv.FormatInt(loc.ID, 10),
					fmt.Sprintf("%.5f", loc.Latitude),
					fmt.Sprintf("%.5f", loc.Longitude),
					loc.RecordedAt.Local().Format(time.RFC3339),
					string(loc.Status),
					yesNo(loc.Rejected),
					loc.Provider,
				})
			}
			columns := []tableColumn{
				{name: "ID", numeric: true},
				{name: "Lat", numeric: true},
				{name: "Lon", numeric: true},
				{name: "Recorded"},
				{name: "Status"},
				{name: "Rejected"},
				{name: "Provider"},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderColumns(columns, rows))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by sync status (repeatable)")
	return cmd
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearSynced bool
	var clearRejected bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queued locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearSynced && clearRejected {
				return errors.New("specify only one of --synced or --rejected")
			}
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case clearSynced:
				removed, err := store.ClearSynced(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d synced locations\n", removed)
			case clearRejected:
				removed, err := store.ClearRejected(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d rejected locations\n", removed)
			default:
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Cleared %d locations\n", removed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearSynced, "synced", false, "Remove only delivered locations")
	cmd.Flags().BoolVar(&clearRejected, "rejected", false, "Remove only rejected locations")
	return cmd
}

func newQueueResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-stuck",
		Short: "Recover locations stranded in syncing",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}
			finalized, requeued, err := store.ResetStuckSyncing(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Finalized %d confirmed, requeued %d unconfirmed\n", finalized, requeued)
			return nil
		},
	}
}
