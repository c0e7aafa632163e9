package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/blinkdo/internal/views"
)

func addListCommands(topLevel *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Show and manage lists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderLists(snap))
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name]",
		Short: "Create a list and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.CreateList(ctx, name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("created list "+snap.Settings.ActiveListID, nil))
				return nil
			})
		},
	})
	cmd.AddCommand(listCommand(opts, "rename <list> <name>", "Rename a list", cobra.ExactArgs(2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			_, err := a.engine.RenameList(ctx, id, rest[0])
			return "renamed " + id, err
		}))
	cmd.AddCommand(listCommand(opts, "icon <list> [icon]", "Set the icon of a list, or clear it when omitted", cobra.RangeArgs(1, 2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			var icon *string
			if len(rest) == 1 {
				icon = &rest[0]
			}
			_, err := a.engine.SetListIcon(ctx, id, icon)
			return "icon updated", err
		}))
	cmd.AddCommand(listCommand(opts, "use <list>", "Make a list the active one", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, id string, _ []string) (string, error) {
			_, err := a.engine.SetActiveList(ctx, id)
			return "active list is now " + id, err
		}))

	topLevel.AddCommand(cmd)
}

func listCommand(opts *rootOptions, use, short string, args cobra.PositionalArgs, run func(ctx context.Context, a *app, id string, rest []string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				id, err := resolveList(snap, args[0])
				if err != nil {
					return err
				}
				msg, err := run(ctx, a, id, args[1:])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus(msg, nil))
				return nil
			})
		},
	}
}
