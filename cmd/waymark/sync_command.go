package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"waymark/internal/logging"
	"waymark/internal/uploader"
)

// newSyncCommand runs one upload pass and reports the outcome.
func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Upload pending locations once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Uploader.Enabled {
				return errors.New("uploader is disabled; set uploader.enabled and an endpoint in the config")
			}
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			up, err := uploader.New(cfg, store, logger)
			if err != nil {
				return err
			}
			result, err := up.UploadOnce(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Claimed %d, synced %d, rejected %d, requeued %d\n",
				result.Claimed, result.Synced, result.Rejected, result.Requeued)
			return err
		},
	}
}
