package bot

import (
	"strconv"
	"strings"
)

// CommandKind identifies a bot command.
type CommandKind int

// Recognized commands
const (
	CommandUnknown CommandKind = iota
	CommandStart
	CommandLogin
	CommandTasks
	CommandComplete
	// CommandCompleteInvalid is /complete_ with a missing or non-numeric ID.
	CommandCompleteInvalid
)

const completePrefix = "/complete_"

// Command is a parsed chat command.
type Command struct {
	Kind   CommandKind
	TaskID int64
}

// ParseCommand parses the first word of text. A "@botname" suffix on the
// command is ignored.
func ParseCommand(text string) Command {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return Command{Kind: CommandUnknown}
	}
	word, _, _ := strings.Cut(fields[0], "@")

	switch {
	case word == "/start":
		return Command{Kind: CommandStart}
	case word == "/login":
		return Command{Kind: CommandLogin}
	case word == "/tasks":
		return Command{Kind: CommandTasks}
	case strings.HasPrefix(word, completePrefix):
		id, err := strconv.ParseInt(strings.TrimPrefix(word, completePrefix), 10, 64)
		if err != nil || id <= 0 {
			return Command{Kind: CommandCompleteInvalid}
		}
		return Command{Kind: CommandComplete, TaskID: id}
	default:
		return Command{Kind: CommandUnknown}
	}
}
