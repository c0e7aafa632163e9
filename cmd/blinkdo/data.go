package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/stats"
	"github.com/sandeepkv93/blinkdo/internal/views"
)

func addDataCommands(topLevel *cobra.Command, opts *rootOptions) {
	var days int
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show created and completed counts per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStats(stats.Compute(snap.Todos, time.Now(), days)))
				return nil
			})
		},
	}
	statsCmd.Flags().IntVar(&days, "days", stats.DefaultDays, "number of days to chart")
	topLevel.AddCommand(statsCmd)

	var format string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole snapshot as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				return writeExport(cmd.OutOrStdout(), snap, format)
			})
		},
	}
	exportCmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	topLevel.AddCommand(exportCmd)

	var yes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every task, list and label and restore default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes everything; pass --yes to confirm")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if _, err := a.engine.ResetAllData(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("all data reset", nil))
				return nil
			})
		},
	}
	resetCmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	topLevel.AddCommand(resetCmd)

	topLevel.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the location of the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				fmt.Fprintln(cmd.OutOrStdout(), a.engine.DataFilePath())
				return nil
			})
		},
	})
}

// writeExport keeps the JSON field names in YAML output by going through a generic
// document.
func writeExport(w io.Writer, data model.AppData, format string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	switch strings.ToLower(format) {
	case "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml", "yml":
		var doc any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return fmt.Errorf("decode snapshot: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}
