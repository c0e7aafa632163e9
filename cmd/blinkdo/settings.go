package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/views"
)

func addSettingsCommands(topLevel *cobra.Command, opts *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "shortcut <accelerator>",
		Short: "Change the global shortcut that toggles the window",
		Example: `
blinkdo shortcut Ctrl+Alt+T
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.SetGlobalShortcut(ctx, args[0])
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("shortcut is "+snap.Settings.GlobalShortcut, err))
				return err
			})
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:       "autostart <on|off>",
		Short:     "Start the reminder host at login",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var enabled bool
			switch strings.ToLower(args[0]) {
			case "on":
				enabled = true
			case "off":
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				if _, err := a.engine.SetAutostartEnabled(ctx, enabled); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("autostart "+strings.ToLower(args[0]), nil))
				return nil
			})
		},
	})

	topLevel.AddCommand(&cobra.Command{
		Use:   "sort <recent|oldest|title|dueDate|manual> [asc|desc]",
		Short: "Change how tasks are ordered",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := model.SortMode(args[0])
			if !mode.IsValid() {
				return fmt.Errorf("unknown sort mode %q", args[0])
			}
			return updateSettings(cmd, opts, func(s *model.Settings) error {
				s.SortMode = mode
				if len(args) == 2 {
					order := model.SortOrder(strings.ToLower(args[1]))
					if !order.IsValid() {
						return fmt.Errorf("unknown sort order %q", args[1])
					}
					s.SortOrder = order
				}
				return nil
			}, "sorting by "+string(mode))
		},
	})

	labels := &cobra.Command{
		Use:   "labels",
		Short: "Show and manage labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				for _, l := range snap.Settings.Labels {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", l.ID, l.Name, l.Color)
				}
				return nil
			})
		},
	}
	labels.AddCommand(&cobra.Command{
		Use:   "add <name> [color]",
		Short: "Create a label; colors: slate, blue, green, amber, rose, violet",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label := model.Label{ID: uuid.NewString(), Name: args[0], Color: model.DefaultLabelColor}
			if len(args) == 2 {
				label.Color = model.LabelColor(strings.ToLower(args[1]))
			}
			if err := label.Validate(); err != nil {
				return err
			}
			return updateSettings(cmd, opts, func(s *model.Settings) error {
				s.Labels = append(s.Labels, label)
				return nil
			}, "label "+args[0]+" created")
		},
	})
	labels.AddCommand(&cobra.Command{
		Use:   "rm <label>",
		Short: "Delete a label and clear it from tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateSettings(cmd, opts, func(s *model.Settings) error {
				id, ok := findLabel(*s, args[0])
				if !ok {
					return fmt.Errorf("unknown label %q", args[0])
				}
				kept := s.Labels[:0]
				for _, l := range s.Labels {
					if l.ID != id {
						kept = append(kept, l)
					}
				}
				s.Labels = kept
				return nil
			}, "label "+args[0]+" removed")
		},
	})
	topLevel.AddCommand(labels)
}

// updateSettings edits a copy of the stored settings and submits it whole.
func updateSettings(cmd *cobra.Command, opts *rootOptions, edit func(*model.Settings) error, msg string) error {
	return withApp(cmd, opts, func(ctx context.Context, a *app) error {
		snap, err := a.engine.Snapshot()
		if err != nil {
			return err
		}
		next := snap.Settings.Clone()
		if err := edit(&next); err != nil {
			return err
		}
		if _, err := a.engine.UpdateSettings(ctx, next); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus(msg, nil))
		return nil
	})
}
