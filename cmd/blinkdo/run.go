package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/blinkdo/internal/commands"
	"github.com/sandeepkv93/blinkdo/internal/engine"
	"github.com/sandeepkv93/blinkdo/internal/notify"
	"github.com/sandeepkv93/blinkdo/internal/reminder"
	"github.com/sandeepkv93/blinkdo/internal/views"
)

func addRun(topLevel *cobra.Command, opts *rootOptions) {
	var atLogin bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Stay running: deliver reminders and accept commands on stdin",
		Long: `Binds the global shortcut, delivers due reminders and reads one command per
line from stdin until interrupted. Type "help" for the command list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(cmd, opts, func(_ context.Context, a *app) error {
				return runHost(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout(), !atLogin)
			})
		},
	}
	cmd.Flags().BoolVar(&atLogin, "autostart", false, "launched at login; start with the window hidden")
	topLevel.AddCommand(cmd)
}

func runHost(ctx context.Context, a *app, in io.Reader, out io.Writer, show bool) error {
	a.window.OnChange = func(visible bool) {
		if !visible {
			fmt.Fprintln(out, views.RenderStatus("window hidden", nil))
			return
		}
		snap, err := a.engine.Snapshot()
		if err != nil {
			fmt.Fprintln(out, views.RenderStatus("", err))
			return
		}
		fmt.Fprintln(out, views.RenderTree(snap, snap.Settings.ActiveListID, views.TreeOptions{ShowIDs: true}))
	}

	if _, err := a.engine.BindSavedShortcut(ctx); err != nil {
		a.logger.Warn("global shortcut not bound as saved", "err", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{Logger: a.logger}
	if a.cfg.DesktopNotifications {
		notifier = notify.ExecNotifier{}
	}
	sched := reminder.New(a.store, notifier, reminder.Options{
		Interval: a.cfg.ReminderInterval,
		Title:    a.cfg.NotificationTitle,
		Logger:   a.logger,
	})
	sched.Start()
	defer func() {
		sched.Stop()
		a.logger.Debug("reminder scheduler stopped", "delivered", sched.Delivered(), "failed", sched.Failed())
	}()

	if show {
		_ = a.window.Show()
	}
	a.logger.Info("running", "data", a.engine.DataFilePath(), "shortcut", a.hotkeys.Bound())

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	handlers := lineHandlers(ctx, a)
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed; keep delivering reminders until signalled.
				lines = nil
				continue
			}
			if line == "help" || line == "?" {
				fmt.Fprintln(out, lineHelp)
				continue
			}
			cmd, err := commands.Parse(line)
			if err != nil {
				fmt.Fprintln(out, views.RenderStatus("", err))
				continue
			}
			res, err := commands.Execute(cmd, handlers)
			fmt.Fprintln(out, views.RenderStatus(res.Message, err))
			if res.Quit {
				return nil
			}
		}
	}
}

const lineHelp = `add <title>            add a task to the active list
sub <parent> <title>   add a subtask
done|undo <id>         complete or reopen a task
star <id>              toggle the star
rm <id>                delete a task
remind <id> <dur|off>  remind after a duration, or clear
show [list] [all]      print a list
use <list>             switch the active list
toggle                 show or hide the window
press <shortcut>       simulate a global shortcut
quit`

func lineHandlers(ctx context.Context, a *app) commands.Handlers {
	target := func(run func(id string) (string, error)) func(commands.TargetArgs) (commands.Result, error) {
		return func(args commands.TargetArgs) (commands.Result, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return commands.Result{}, err
			}
			id, err := resolveTask(snap, args.ID)
			if err != nil {
				return commands.Result{}, err
			}
			msg, err := run(id)
			return commands.Result{Message: msg}, err
		}
	}

	return commands.Handlers{
		Add: func(args commands.AddArgs) (commands.Result, error) {
			in := engine.NewTask{Title: args.Title}
			if args.ParentID != "" {
				snap, err := a.engine.Snapshot()
				if err != nil {
					return commands.Result{}, err
				}
				parentID, err := resolveTask(snap, args.ParentID)
				if err != nil {
					return commands.Result{}, err
				}
				parent, _ := snap.Task(parentID)
				in.ParentID = &parentID
				in.ListID = parent.ListID
			}
			snap, err := a.engine.CreateTask(ctx, in)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "added " + snap.Todos[len(snap.Todos)-1].ID}, nil
		},
		Done: target(func(id string) (string, error) {
			_, err := a.engine.SetCompleted(ctx, id, true)
			return "completed " + id, err
		}),
		Undo: target(func(id string) (string, error) {
			_, err := a.engine.SetCompleted(ctx, id, false)
			return "reopened " + id, err
		}),
		Star: target(func(id string) (string, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return "", err
			}
			t, _ := snap.Task(id)
			_, err = a.engine.SetStarred(ctx, id, !t.Starred)
			if t.Starred {
				return "unstarred " + id, err
			}
			return "starred " + id, err
		}),
		Remove: target(func(id string) (string, error) {
			_, err := a.engine.DeleteTask(ctx, id)
			return "deleted " + id, err
		}),
		Remind: func(args commands.RemindArgs) (commands.Result, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return commands.Result{}, err
			}
			id, err := resolveTask(snap, args.ID)
			if err != nil {
				return commands.Result{}, err
			}
			if args.Clear {
				_, err = a.engine.SetReminder(ctx, id, nil)
				return commands.Result{Message: "reminder cleared"}, err
			}
			at := time.Now().Add(args.In).UnixMilli()
			_, err = a.engine.SetReminder(ctx, id, &at)
			return commands.Result{Message: "reminder in " + args.In.String()}, err
		},
		Show: func(args commands.ShowArgs) (commands.Result, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return commands.Result{}, err
			}
			listID := snap.Settings.ActiveListID
			if args.ListID != "" {
				if listID, err = resolveList(snap, args.ListID); err != nil {
					return commands.Result{}, err
				}
			}
			return commands.Result{Message: views.RenderTree(snap, listID, views.TreeOptions{ShowCompleted: args.All, ShowIDs: true})}, nil
		},
		Use: func(args commands.UseArgs) (commands.Result, error) {
			snap, err := a.engine.Snapshot()
			if err != nil {
				return commands.Result{}, err
			}
			listID, err := resolveList(snap, args.ListID)
			if err != nil {
				return commands.Result{}, err
			}
			_, err = a.engine.SetActiveList(ctx, listID)
			return commands.Result{Message: "active list is now " + listID}, err
		},
		Toggle: func() (commands.Result, error) {
			return commands.Result{}, a.window.Toggle()
		},
		Press: func(args commands.PressArgs) (commands.Result, error) {
			if !a.hotkeys.Press(args.Shortcut) {
				return commands.Result{}, fmt.Errorf("nothing bound to %s", args.Shortcut)
			}
			return commands.Result{}, nil
		},
	}
}
