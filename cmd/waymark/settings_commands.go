package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"waymark/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and modify persisted settings",
	}

	settingsCmd.AddCommand(newSettingsListCommand(ctx))
	settingsCmd.AddCommand(newSettingsGetCommand(ctx))
	settingsCmd.AddCommand(newSettingsSetCommand(ctx))

	return settingsCmd
}

func newSettingsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settingsStore(cmd.Context())
			if err != nil {
				return err
			}
			items, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No settings stored")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, setting := range items {
				modified := ""
				if !setting.LastModified.IsZero() {
					modified = setting.LastModified.Local().Format(time.RFC3339)
				}
				rows = append(rows, []string{setting.Key, setting.Value, modified})
			}
			columns := []tableColumn{{name: "Key"}, {name: "Value"}, {name: "Modified"}}
			fmt.Fprintln(cmd.OutOrStdout(), renderColumns(columns, rows))
			return nil
		},
	}
}

func newSettingsGetCommand(ctx *commandContext) *cobra.Command {
	var valueType string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Read one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settingsStore(cmd.Context())
			if err != nil {
				return err
			}

			key := args[0]
			out := cmd.OutOrStdout()
			switch valueType {
			case "string":
				value, err := store.GetString(cmd.Context(), key, "")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, value)
			case "bool":
				value, err := store.GetBool(cmd.Context(), key, false)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strconv.FormatBool(value))
			case "int":
				value, err := store.GetInt64(cmd.Context(), key, 0)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strconv.FormatInt(value, 10))
			case "float":
				value, err := store.GetFloat64(cmd.Context(), key, 0)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, strconv.FormatFloat(value, 'g', -1, 64))
			default:
				return fmt.Errorf("unsupported type %q: expected string, bool, int, or float", valueType)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&valueType, "type", "t", "string", "Value type (string, bool, int, float)")
	return cmd
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var valueType string

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.settingsStore(cmd.Context())
			if err != nil {
				return err
			}

			key, raw := args[0], args[1]
			if err := writeSetting(cmd, store, key, raw, valueType); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&valueType, "type", "t", "string", "Value type (string, bool, int, float)")
	return cmd
}

func writeSetting(cmd *cobra.Command, store *settings.Store, key, raw, valueType string) error {
	switch valueType {
	case "string":
		return store.SetString(cmd.Context(), key, raw)
	case "bool":
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool %q", raw)
		}
		return store.SetBool(cmd.Context(), key, value)
	case "int":
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int %q", raw)
		}
		return store.SetInt64(cmd.Context(), key, value)
	case "float":
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q", raw)
		}
		return store.SetFloat64(cmd.Context(), key, value)
	default:
		return fmt.Errorf("unsupported type %q: expected string, bool, int, or float", valueType)
	}
}
