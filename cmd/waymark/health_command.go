package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// newHealthCommand reports database diagnostics.
func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check queue database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.locationStore(cmd.Context())
			if err != nil {
				return err
			}
			health, err := store.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}

			missing := append([]string(nil), health.MissingColumns...)
			sort.Strings(missing)

			pairs := [][2]string{
				{"Database", health.DBPath},
				{"Exists", yesNo(health.DatabaseExists)},
				{"Readable", yesNo(health.DatabaseReadable)},
				{"Table present", yesNo(health.TableExists)},
				{"Missing columns", strings.Join(missing, ", ")},
				{"Integrity", yesNo(health.IntegrityCheck)},
				{"Rows", strconv.Itoa(health.TotalRows)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPairs("Check", "Result", pairs))

			if health.Error != "" {
				return fmt.Errorf("health check reported: %s", health.Error)
			}
			return nil
		},
	}
}
