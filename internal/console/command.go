package console

import "strings"

// CommandType identifies a console command. CommandNone is any word that is
// not a command.
type CommandType int

const (
	CommandNone CommandType = iota
	CommandHelp
	CommandClear
	CommandSend
	CommandReceive
	CommandFlush
	CommandSetMode
	CommandSetPort
	CommandSetBaud
	CommandSetDataBits
	CommandSetParity
	CommandSetStopBits
	CommandSetTimeout
	CommandSetRTS
	CommandSetDTR
	CommandSetEnding
	CommandGetCTS
	CommandGetDSR
	CommandGetRI
	CommandGetCD
)

// commandWords is in completion order.
var commandWords = []struct {
	word string
	typ  CommandType
}{
	{"help", CommandHelp},
	{"clear", CommandClear},
	{"send", CommandSend},
	{"recv", CommandReceive},
	{"flush", CommandFlush},
	{"set-mode", CommandSetMode},
	{"set-port", CommandSetPort},
	{"set-baud", CommandSetBaud},
	{"set-par", CommandSetParity},
	{"set-data", CommandSetDataBits},
	{"set-stop", CommandSetStopBits},
	{"set-time", CommandSetTimeout},
	{"set-rts", CommandSetRTS},
	{"set-dtr", CommandSetDTR},
	{"set-end", CommandSetEnding},
	{"get-cts", CommandGetCTS},
	{"get-dsr", CommandGetDSR},
	{"get-ri", CommandGetRI},
	{"get-cd", CommandGetCD},
}

// CommandNames returns the command words in completion order.
func CommandNames() []string {
	out := make([]string, len(commandWords))
	for i, c := range commandWords {
		out[i] = c.word
	}
	return out
}

// ParseCommand maps a command word to its type. "receive" is accepted as a
// long form of "recv".
func ParseCommand(word string) CommandType {
	if word == "receive" {
		return CommandReceive
	}
	for _, c := range commandWords {
		if c.word == word {
			return c.typ
		}
	}
	return CommandNone
}

func (c CommandType) String() string {
	for _, w := range commandWords {
		if w.typ == c {
			return w.word
		}
	}
	return "none"
}

// Command is one accepted console line.
type Command struct {
	Type CommandType
	Arg  string
}

// ParseLine splits line at its first space into a command and its argument.
func ParseLine(line string) Command {
	word, arg, _ := strings.Cut(line, " ")
	return Command{Type: ParseCommand(word), Arg: arg}
}
