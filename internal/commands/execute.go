package commands

import "fmt"

type Result struct {
	Message string
	Quit    bool
}

type Handlers struct {
	Add    func(AddArgs) (Result, error)
	Done   func(TargetArgs) (Result, error)
	Undo   func(TargetArgs) (Result, error)
	Star   func(TargetArgs) (Result, error)
	Remove func(TargetArgs) (Result, error)
	Remind func(RemindArgs) (Result, error)
	Show   func(ShowArgs) (Result, error)
	Use    func(UseArgs) (Result, error)
	Toggle func() (Result, error)
	Press  func(PressArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd, TypeSub:
		if handlers.Add == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		return target(handlers.Done, cmd)
	case TypeUndo:
		return target(handlers.Undo, cmd)
	case TypeStar:
		return target(handlers.Star, cmd)
	case TypeRemove:
		return target(handlers.Remove, cmd)
	case TypeRemind:
		if handlers.Remind == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Remind(*cmd.Remind)
	case TypeShow:
		if handlers.Show == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Show(*cmd.Show)
	case TypeUse:
		if handlers.Use == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Use(*cmd.Use)
	case TypeToggle:
		if handlers.Toggle == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Toggle()
	case TypePress:
		if handlers.Press == nil {
			return Result{}, missing(cmd.Type)
		}
		return handlers.Press(*cmd.Press)
	case TypeQuit:
		return Result{Message: "bye", Quit: true}, nil
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func target(h func(TargetArgs) (Result, error), cmd Command) (Result, error) {
	if h == nil {
		return Result{}, missing(cmd.Type)
	}
	return h(*cmd.Target)
}

func missing(kind Type) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: fmt.Sprintf("%s handler not configured", kind)}
}
