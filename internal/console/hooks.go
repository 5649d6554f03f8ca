package console

import (
	"strings"

	"github.com/flowave-io/serialflow/internal/lineedit"
	"github.com/flowave-io/serialflow/internal/serial"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiBlue  = "\x1b[34m"
	ansiWhite = "\x1b[37m"
	ansiReset = "\x1b[0m"
)

var (
	modeNames   = []string{"ascii", "hex"}
	switchNames = []string{"on", "off"}
)

// commandLine holds what the command prompt hooks share. The preprocessor
// records the candidate state; the renderer, called right after it for the
// same buffer, reads it back.
type commandLine struct {
	mode  *Mode
	ports *PortCache
	state lineedit.CandidateState
}

// split cuts tokens at the first space token.
func split(buf lineedit.Buffer) (cmd, arg lineedit.Buffer, hasSpace bool) {
	for i, tok := range buf {
		if tok == " " {
			return buf[:i], buf[i+1:], true
		}
	}
	return buf, nil, false
}

// argumentOptions lists the completions offered after a command word.
func (l *commandLine) argumentOptions(c CommandType) []string {
	switch c {
	case CommandSetMode:
		return modeNames
	case CommandSetPort:
		return l.ports.List()
	case CommandSetBaud:
		return serial.BaudRates
	case CommandSetParity:
		return serial.ParityNames
	case CommandSetDataBits:
		return []string{"5", "6", "7", "8"}
	case CommandSetStopBits:
		return serial.StopBitsNames
	case CommandSetRTS, CommandSetDTR:
		return switchNames
	case CommandSetEnding:
		return endingNames
	}
	return nil
}

// preprocess re-tokenizes ASCII send arguments so escapes move as one unit
// and offers completions for the word under edit.
func (l *commandLine) preprocess(buf lineedit.Buffer, _ int) lineedit.Processed {
	cmd, arg, hasSpace := split(buf)
	word := cmd.Concat()
	typ := ParseCommand(word)

	var out lineedit.Buffer
	if typ == CommandSend && *l.mode == ModeASCII && hasSpace {
		out = append(cmd.Clone(), " ")
		out = append(out, TokenizeASCII(arg.Concat())...)
	} else {
		// undo escapes merged while the line still read as an ASCII send
		out = lineedit.NewBuffer(buf.Concat())
	}

	l.state = lineedit.CandidateNone
	if len(buf) == 0 {
		return lineedit.Processed{Buffer: out}
	}
	var c lineedit.Completion
	if hasSpace {
		c = lineedit.Complete(l.argumentOptions(typ), arg.Concat())
	} else {
		c = lineedit.Complete(CommandNames(), word)
	}
	l.state = c.State
	return lineedit.Processed{Buffer: out, Candidates: c.Suffixes}
}

// render colours the command word and its argument and keeps the cursor on
// the right column when escapes are shown by name.
func (l *commandLine) render(buf lineedit.Buffer, cursor int) (string, int) {
	cmd, arg, hasSpace := split(buf)
	word := cmd.Concat()
	typ := ParseCommand(word)
	budget := lineedit.NewColumnBudget(cursor)

	var sb strings.Builder
	switch {
	case typ != CommandNone:
		sb.WriteString(ansiBlue)
	case hasSpace:
		sb.WriteString(ansiRed)
	}
	for _, tok := range cmd {
		sb.WriteString(tok)
		budget.Token(tok)
	}
	sb.WriteString(ansiReset)
	if !hasSpace {
		return sb.String(), budget.Column()
	}
	sb.WriteString(" ")
	budget.Token(" ")

	argStr := arg.Concat()
	display := func(tok string) string { return tok }
	switch typ {
	case CommandSetMode, CommandSetPort, CommandSetParity, CommandSetDataBits,
		CommandSetStopBits, CommandSetRTS, CommandSetDTR, CommandSetEnding:
		switch l.state {
		case lineedit.CandidateMatch:
			sb.WriteString(ansiGreen)
		case lineedit.CandidateHas:
			sb.WriteString(ansiWhite)
		default:
			sb.WriteString(ansiRed)
		}
	case CommandSetBaud, CommandSetTimeout:
		sb.WriteString(validity(positiveInt.MatchString(argStr)))
	case CommandSend:
		if *l.mode == ModeHex {
			sb.WriteString(validity(validHex.MatchString(argStr)))
			break
		}
		sb.WriteString(validity(validASCII.MatchString(argStr)))
		display = DisplayName
	default:
		sb.WriteString(ansiRed)
	}
	for _, tok := range arg {
		d := display(tok)
		sb.WriteString(d)
		budget.Token(d)
	}
	sb.WriteString(ansiReset)
	return sb.String(), budget.Column()
}

func validity(ok bool) string {
	if ok {
		return ansiWhite
	}
	return ansiRed
}

func finalizeCommand(line string) Command { return ParseLine(line) }
