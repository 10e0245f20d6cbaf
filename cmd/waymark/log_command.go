package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"waymark/internal/locations"
)

// newLogCommand records a manual check-in at the given coordinates.
func newLogCommand(ctx *commandContext) *cobra.Command {
	var (
		altitude   float64
		accuracy   float64
		speed      float64
		bearing    float64
		activity   int64
		notes      string
		provider   string
		recordedAt string
	)

	cmd := &cobra.Command{
		Use:   "log <latitude> <longitude>",
		Short: "Record a manual check-in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid latitude %q", args[0])
			}
			lon, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid longitude %q", args[1])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}

			fix := locations.Fix{
				Latitude:    lat,
				Longitude:   lon,
				Provider:    provider,
				UserInvoked: true,
				Notes:       notes,
			}
			if strings.TrimSpace(recordedAt) != "" {
				ts, err := time.Parse(time.RFC3339, recordedAt)
				if err != nil {
					return fmt.Errorf("invalid --recorded-at %q: expected RFC 3339", recordedAt)
				}
				fix.RecordedAt = ts
			}
			flags := cmd.Flags()
			if flags.Changed("altitude") {
				fix.Altitude = &altitude
			}
			if flags.Changed("accuracy") {
				fix.Accuracy = &accuracy
			}
			if flags.Changed("speed") {
				fix.Speed = &speed
			}
			if flags.Changed("bearing") {
				fix.Bearing = &bearing
			}
			if flags.Changed("activity") {
				fix.ActivityTypeID = &activity
			}

			loc, err := store.Enqueue(cmd.Context(), fix, cfg.Queue.Ceiling)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Check-in %d queued (%s)\n", loc.ID, loc.IdempotencyKey)
			return nil
		},
	}

	cmd.Flags().Float64Var(&altitude, "altitude", 0, "Altitude in meters")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "Horizontal accuracy in meters")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Speed in meters per second")
	cmd.Flags().Float64Var(&bearing, "bearing", 0, "Bearing in degrees")
	cmd.Flags().Int64Var(&activity, "activity", 0, "Activity type identifier")
	cmd.Flags().StringVar(&notes, "note", "", "Free-form note attached to the check-in")
	cmd.Flags().StringVar(&provider, "provider", "manual", "Location provider name")
	cmd.Flags().StringVar(&recordedAt, "recorded-at", "", "Capture time (RFC 3339, default now)")
	return cmd
}
