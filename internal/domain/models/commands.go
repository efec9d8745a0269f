package models

import "strings"

// CommandType enumerates the questions a farmer may text to the service.
type CommandType string

const (
	CommandAlerts  CommandType = "alerts"
	CommandMilk    CommandType = "milk"
	CommandBalance CommandType = "balance"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command is a parsed inbound text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command from a free-form message. A leading slash is
// optional.
func ParseCommand(message string) Command {
	cmd := Command{Type: CommandUnknown, Raw: message}

	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(message)))
	if len(tokens) == 0 {
		return cmd
	}

	switch head := CommandType(strings.TrimPrefix(tokens[0], "/")); head {
	case CommandAlerts, CommandMilk, CommandBalance, CommandHelp:
		cmd.Type = head
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}
	return cmd
}
