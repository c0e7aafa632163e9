// Package commands parses the line commands accepted by the interactive host.
package commands

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeSub    Type = "sub"
	TypeDone   Type = "done"
	TypeUndo   Type = "undo"
	TypeStar   Type = "star"
	TypeRemove Type = "rm"
	TypeRemind Type = "remind"
	TypeShow   Type = "show"
	TypeUse    Type = "use"
	TypeToggle Type = "toggle"
	TypePress  Type = "press"
	TypeQuit   Type = "quit"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title    string
	ParentID string
}

type TargetArgs struct {
	ID string
}

// RemindArgs sets a reminder In from now, or clears it when Clear is set.
type RemindArgs struct {
	ID    string
	In    time.Duration
	Clear bool
}

type ShowArgs struct {
	ListID string
	All    bool
}

type UseArgs struct {
	ListID string
}

type PressArgs struct {
	Shortcut string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Remind *RemindArgs
	Show   *ShowArgs
	Use    *UseArgs
	Press  *PressArgs
}

var aliases = map[string]Type{
	"new":    TypeAdd,
	"check":  TypeDone,
	"reopen": TypeUndo,
	"delete": TypeRemove,
	"ls":     TypeShow,
	"list":   TypeShow,
	"exit":   TypeQuit,
	"q":      TypeQuit,
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := Type(strings.ToLower(parts[0]))
	if alias, ok := aliases[string(head)]; ok {
		head = alias
	}
	args := parts[1:]

	switch head {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeSub:
		return parseSub(input, args)
	case TypeDone, TypeUndo, TypeStar, TypeRemove:
		return parseTarget(input, head, args)
	case TypeRemind:
		return parseRemind(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeUse:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "use requires a list id"}
		}
		return Command{Type: TypeUse, Raw: input, Use: &UseArgs{ListID: args[0]}}, nil
	case TypePress:
		if len(args) != 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "press requires a shortcut"}
		}
		return Command{Type: TypePress, Raw: input, Press: &PressArgs{Shortcut: args[0]}}, nil
	case TypeToggle, TypeQuit:
		return Command{Type: head, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseSub(raw string, args []string) (Command, error) {
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "sub requires a parent id and a title"}
	}
	return Command{Type: TypeSub, Raw: raw, Add: &AddArgs{ParentID: args[0], Title: strings.Join(args[1:], " ")}}, nil
}

func parseTarget(raw string, kind Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task id", kind)}
	}
	return Command{Type: kind, Raw: raw, Target: &TargetArgs{ID: args[0]}}, nil
}

func parseRemind(raw string, args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "remind requires a task id and a duration or off"}
	}
	if strings.EqualFold(args[1], "off") {
		return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{ID: args[0], Clear: true}}, nil
	}
	in, err := time.ParseDuration(args[1])
	if err != nil || in < 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", args[1])}
	}
	return Command{Type: TypeRemind, Raw: raw, Remind: &RemindArgs{ID: args[0], In: in}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	show := &ShowArgs{}
	for _, arg := range args {
		if strings.EqualFold(arg, "all") || arg == "-a" {
			show.All = true
			continue
		}
		if show.ListID != "" {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show takes at most one list id"}
		}
		show.ListID = arg
	}
	return Command{Type: TypeShow, Raw: raw, Show: show}, nil
}
