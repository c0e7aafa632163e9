package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/blinkdo/internal/engine"
	"github.com/sandeepkv93/blinkdo/internal/model"
	"github.com/sandeepkv93/blinkdo/internal/views"
)

func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(cmd.Context(), a)
}

// taskCommand builds a command taking a task reference as its first argument.
func taskCommand(opts *rootOptions, use, short string, args cobra.PositionalArgs, run func(ctx context.Context, a *app, id string, rest []string) (string, error)) *cobra.Command {
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
				id, err := resolveTask(snap, args[0])
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

func addTaskCommands(topLevel *cobra.Command, opts *rootOptions) {
	addAdd(topLevel, opts)
	addList(topLevel, opts)
	addShow(topLevel, opts)
	addEdit(topLevel, opts)

	topLevel.AddCommand(taskCommand(opts, "done <id>", "Complete a task and its subtasks", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, id string, _ []string) (string, error) {
			_, err := a.engine.SetCompleted(ctx, id, true)
			return "completed " + id, err
		}))
	topLevel.AddCommand(taskCommand(opts, "undo <id>", "Reopen a task and its subtasks", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, id string, _ []string) (string, error) {
			_, err := a.engine.SetCompleted(ctx, id, false)
			return "reopened " + id, err
		}))
	topLevel.AddCommand(taskCommand(opts, "rm <id>", "Delete a task and its subtasks", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, id string, _ []string) (string, error) {
			_, err := a.engine.DeleteTask(ctx, id)
			return "deleted " + id, err
		}))
	topLevel.AddCommand(taskCommand(opts, "priority <id> <none|low|medium|high|urgent>", "Set the priority of a task", cobra.ExactArgs(2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			p, err := model.ParsePriority(rest[0])
			if err != nil {
				return "", err
			}
			_, err = a.engine.SetPriority(ctx, id, p)
			return fmt.Sprintf("priority of %s set to %s", id, p), err
		}))
	topLevel.AddCommand(taskCommand(opts, "label <id> [label]", "Assign a label, or clear it when omitted", cobra.RangeArgs(1, 2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			if len(rest) == 0 {
				_, err := a.engine.SetLabel(ctx, id, nil)
				return "label cleared", err
			}
			snap, err := a.engine.Snapshot()
			if err != nil {
				return "", err
			}
			labelID, ok := findLabel(snap.Settings, rest[0])
			if !ok {
				return "", fmt.Errorf("unknown label %q", rest[0])
			}
			_, err = a.engine.SetLabel(ctx, id, &labelID)
			return "label set to " + rest[0], err
		}))
	topLevel.AddCommand(taskCommand(opts, "remind <id> <when|off>", "Set or clear the reminder of a task", cobra.ExactArgs(2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			if rest[0] == "off" {
				_, err := a.engine.SetReminder(ctx, id, nil)
				return "reminder cleared", err
			}
			at, err := parseWhen(time.Now(), rest[0])
			if err != nil {
				return "", err
			}
			_, err = a.engine.SetReminder(ctx, id, &at)
			return "reminder set for " + time.UnixMilli(at).Format("2006-01-02 15:04"), err
		}))
	topLevel.AddCommand(taskCommand(opts, "move <id> <list>", "Move a task and its subtasks to another list", cobra.ExactArgs(2),
		func(ctx context.Context, a *app, id string, rest []string) (string, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return "", err
			}
			listID, err := resolveList(snap, rest[0])
			if err != nil {
				return "", err
			}
			_, err = a.engine.MoveToList(ctx, id, listID)
			return "moved to " + listID, err
		}))

	addStar(topLevel, opts)
	addReorder(topLevel, opts)
	addClear(topLevel, opts)
}

func addAdd(topLevel *cobra.Command, opts *rootOptions) {
	var details, remind, parent, list string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `
blinkdo add pay rent --remind +2h
blinkdo add call landlord --parent 3f2a
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				in := engine.NewTask{Title: strings.Join(args, " ")}
				if details != "" {
					in.Details = &details
				}
				if remind != "" {
					at, err := parseWhen(time.Now(), remind)
					if err != nil {
						return err
					}
					in.ReminderAt = &at
				}
				if list != "" {
					listID, err := resolveList(snap, list)
					if err != nil {
						return err
					}
					in.ListID = &listID
				}
				if parent != "" {
					parentID, err := resolveTask(snap, parent)
					if err != nil {
						return err
					}
					in.ParentID = &parentID
				}

				before := len(snap.Todos)
				snap, err = a.engine.CreateTask(ctx, in)
				if err != nil {
					return err
				}
				if len(snap.Todos) == before {
					return fmt.Errorf("title must not be blank")
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("added "+snap.Todos[len(snap.Todos)-1].ID, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&details, "details", "", "markdown details")
	cmd.Flags().StringVar(&remind, "remind", "", "reminder time: +30m, 15:04, \"2006-01-02 15:04\" or RFC 3339")
	cmd.Flags().StringVar(&parent, "parent", "", "parent task id")
	cmd.Flags().StringVar(&list, "list", "", "target list (default: the active list)")
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command, opts *rootOptions) {
	var all bool
	var list string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the tasks of a list as a tree",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				listID := snap.Settings.ActiveListID
				if list != "" {
					if listID, err = resolveList(snap, list); err != nil {
						return err
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderTree(snap, listID, views.TreeOptions{ShowCompleted: all, ShowIDs: true}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	cmd.Flags().StringVar(&list, "list", "", "list to show (default: the active list)")
	topLevel.AddCommand(cmd)
}

func addShow(topLevel *cobra.Command, opts *rootOptions) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one task with its details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				id, err := resolveTask(snap, args[0])
				if err != nil {
					return err
				}
				out, _ := views.RenderDetails(snap, id)
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	})
}

func addEdit(topLevel *cobra.Command, opts *rootOptions) {
	var title, details string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or details of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				id, err := resolveTask(snap, args[0])
				if err != nil {
					return err
				}
				t, _ := snap.Task(id)
				in := engine.TaskEdit{Title: t.Title, Details: t.Details, ReminderAt: t.ReminderAt}
				if cmd.Flags().Changed("title") {
					in.Title = title
				}
				if cmd.Flags().Changed("details") {
					in.Details = &details
				}
				if _, err := a.engine.UpdateTask(ctx, id, in); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus("updated "+id, nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&details, "details", "", "new markdown details; empty clears them")
	topLevel.AddCommand(cmd)
}

func addStar(topLevel *cobra.Command, opts *rootOptions) {
	var off bool
	cmd := taskCommand(opts, "star <id>", "Star a task", cobra.ExactArgs(1),
		func(ctx context.Context, a *app, id string, _ []string) (string, error) {
			_, err := a.engine.SetStarred(ctx, id, !off)
			if off {
				return "unstarred " + id, err
			}
			return "starred " + id, err
		})
	cmd.Flags().BoolVar(&off, "off", false, "remove the star instead")
	topLevel.AddCommand(cmd)
}

func addReorder(topLevel *cobra.Command, opts *rootOptions) {
	var parent string
	var completed bool
	cmd := &cobra.Command{
		Use:   "reorder <list> <id>...",
		Short: "Put siblings in the given order",
		Long:  "Ranks the given siblings first to last. Siblings not named keep their position.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				listID, err := resolveList(snap, args[0])
				if err != nil {
					return err
				}
				var parentID *string
				if parent != "" {
					id, err := resolveTask(snap, parent)
					if err != nil {
						return err
					}
					parentID = &id
				}
				ordered := make([]string, 0, len(args)-1)
				for _, ref := range args[1:] {
					id, err := resolveTask(snap, ref)
					if err != nil {
						return err
					}
					ordered = append(ordered, id)
				}
				if _, err := a.engine.Reorder(ctx, listID, parentID, completed, ordered); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus(fmt.Sprintf("reordered %d tasks", len(ordered)), nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent of the siblings (default: top level)")
	cmd.Flags().BoolVar(&completed, "completed", false, "reorder completed siblings")
	topLevel.AddCommand(cmd)
}

func addClear(topLevel *cobra.Command, opts *rootOptions) {
	var list string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete completed tasks, in one list or everywhere",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				before, err := a.engine.Snapshot()
				if err != nil {
					return err
				}
				var after model.AppData
				if list != "" {
					listID, err := resolveList(before, list)
					if err != nil {
						return err
					}
					after, err = a.engine.ClearCompletedInList(ctx, listID)
					if err != nil {
						return err
					}
				} else if after, err = a.engine.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderStatus(fmt.Sprintf("removed %d tasks", len(before.Todos)-len(after.Todos)), nil))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&list, "list", "", "only clear this list")
	topLevel.AddCommand(cmd)
}

func findLabel(s model.Settings, ref string) (string, bool) {
	for _, l := range s.Labels {
		if l.ID == ref || l.Name == ref {
			return l.ID, true
		}
	}
	return "", false
}
