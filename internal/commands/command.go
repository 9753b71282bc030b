package commands

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeEdit   Type = "edit"
	TypeDelete Type = "delete"
)

// Target is the level of the list a command acts on.
type Target string

const (
	TargetCategory Target = "category"
	TargetTask     Target = "task"
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
	Target Target
	Value  string
}

type EditArgs struct {
	Target Target
	Value  string
}

type DeleteArgs struct {
	Target Target
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Delete *DeleteArgs
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
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeEdit:
		return parseEdit(input, args)
	case TypeDelete, "rm":
		return parseDelete(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	target, value, err := targetAndValue("add", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Target: target, Value: value}}, nil
}

func parseEdit(raw string, args []string) (Command, error) {
	target, value, err := targetAndValue("edit", args)
	if err != nil {
		return Command{}, err
	}
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Target: target, Value: value}}, nil
}

func parseDelete(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "delete requires exactly one target: category or task"}
	}
	target, ok := parseTarget(args[0])
	if !ok {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown target: %s", args[0])}
	}
	return Command{Type: TypeDelete, Raw: raw, Delete: &DeleteArgs{Target: target}}, nil
}

func targetAndValue(verb string, args []string) (Target, string, error) {
	if len(args) == 0 {
		return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a target: category or task", verb)}
	}
	target, ok := parseTarget(args[0])
	if !ok {
		return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown target: %s", args[0])}
	}
	value := strings.TrimSpace(strings.Join(args[1:], " "))
	if value == "" {
		return "", "", &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s %s requires text", verb, target)}
	}
	return target, value, nil
}

func parseTarget(s string) (Target, bool) {
	switch strings.ToLower(s) {
	case "category", "cat", "c":
		return TargetCategory, true
	case "task", "t":
		return TargetTask, true
	default:
		return "", false
	}
}
